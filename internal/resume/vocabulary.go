package resume

import "strings"

// Vocabulary is an ordered keyword list. Order matters: it is the output order for skills.
type Vocabulary []string

// DefaultExperienceWindow is the number of lines returned for the work experience snippet.
const DefaultExperienceWindow = 5

var (
	DefaultSkills = Vocabulary{
		"python", "java", "sql", "excel", "project management",
		"machine learning", "data analysis", "communication",
		"leadership", "javascript", "c++", "aws", "docker",
	}
	DefaultEducation = Vocabulary{
		"bachelor", "master", "phd", "university", "college", "degree", "mba",
	}
	DefaultExperience = Vocabulary{
		"experience", "worked", "employment", "responsibilities", "projects",
	}
)

// Config holds the keyword lists each extractor matches against.
type Config struct {
	Skills           Vocabulary
	Education        Vocabulary
	Experience       Vocabulary
	ExperienceWindow int
}

// DefaultConfig returns the built-in vocabularies.
func DefaultConfig() Config {
	return Config{
		Skills:           clone(DefaultSkills),
		Education:        clone(DefaultEducation),
		Experience:       clone(DefaultExperience),
		ExperienceWindow: DefaultExperienceWindow,
	}
}

// withDefaults fills empty lists and a non-positive window from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if len(c.Skills) == 0 {
		c.Skills = def.Skills
	}
	if len(c.Education) == 0 {
		c.Education = def.Education
	}
	if len(c.Experience) == 0 {
		c.Experience = def.Experience
	}
	if c.ExperienceWindow <= 0 {
		c.ExperienceWindow = def.ExperienceWindow
	}
	return c
}

// lowered returns the terms lower-cased, keeping order. Blank terms are dropped
// since an empty needle would match every text.
func (v Vocabulary) lowered() Vocabulary {
	out := make(Vocabulary, 0, len(v))
	for _, term := range v {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			out = append(out, term)
		}
	}
	return out
}

// containsAny reports whether s (already lower-cased) contains one of the terms.
func (v Vocabulary) containsAny(s string) bool {
	for _, term := range v {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

func clone(v Vocabulary) Vocabulary {
	return append(Vocabulary(nil), v...)
}
