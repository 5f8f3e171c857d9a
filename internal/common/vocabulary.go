package common

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/resume-parser/internal/resume"
)

// vocabularyFile is the on-disk shape of a keyword override file:
//
//	skills:
//	  vocabulary: [go, rust]
//	education:
//	  vocabulary: [bachelor, diploma]
//	experience:
//	  vocabulary: [experience, career]
//	  window: 5
type vocabularyFile struct {
	Skills struct {
		Vocabulary []string `yaml:"vocabulary"`
	} `yaml:"skills"`
	Education struct {
		Vocabulary []string `yaml:"vocabulary"`
	} `yaml:"education"`
	Experience struct {
		Vocabulary []string `yaml:"vocabulary"`
		Window     int      `yaml:"window"`
	} `yaml:"experience"`
}

// LoadVocabulary reads extractor keyword lists from a YAML file. Sections left out keep
// the built-in defaults. An empty path returns resume.DefaultConfig().
func LoadVocabulary(path string) (resume.Config, error) {
	cfg := resume.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read vocabulary file: %w", err)
	}
	var f vocabularyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return cfg, NewAppError("CONFIG_ERROR", "parse vocabulary file "+path, err)
	}
	if len(f.Skills.Vocabulary) > 0 {
		cfg.Skills = f.Skills.Vocabulary
	}
	if len(f.Education.Vocabulary) > 0 {
		cfg.Education = f.Education.Vocabulary
	}
	if len(f.Experience.Vocabulary) > 0 {
		cfg.Experience = f.Experience.Vocabulary
	}
	if f.Experience.Window > 0 {
		cfg.ExperienceWindow = f.Experience.Window
	}
	return cfg, nil
}
