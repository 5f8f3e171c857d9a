package resume

import (
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// The leading word boundary is checked by Email against Unicode word runes.
var reEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// Extractor runs the rule-based field extractors with a fixed set of vocabularies.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	skills     Vocabulary
	education  Vocabulary
	experience Vocabulary
	window     int
	logger     *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	return &Extractor{
		skills:     cfg.Skills.lowered(),
		education:  cfg.Education.lowered(),
		experience: cfg.Experience.lowered(),
		window:     cfg.ExperienceWindow,
		logger:     logger,
	}
}

// Email returns the first address in document order.
// Word boundaries count non-ASCII letters and digits as word runes, so
// "éjane@x.com" has no address while "é jane@x.com" does. A candidate that
// fails either boundary is dropped and the search resumes one rune later.
func (e *Extractor) Email(text Text) Field[string] {
	s := string(text)
	for pos := 0; pos < len(s); {
		loc := reEmail.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		first, size := utf8.DecodeRuneInString(s[start:])
		if wordBefore(s, start) != isWordRune(first) && !wordAt(s, end) {
			return Found(s[start:end])
		}
		pos = start + size
	}
	return NotFound[string]()
}

func wordBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return isWordRune(r)
}

func wordAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Skills returns every vocabulary term that occurs anywhere in the text, in vocabulary order.
// Matching is plain substring containment, so "javascript" also yields "java".
func (e *Extractor) Skills(text Text) Field[[]string] {
	lower := strings.ToLower(string(text))
	var found []string
	for _, skill := range e.skills {
		if strings.Contains(lower, skill) {
			found = append(found, skill)
		}
	}
	if len(found) == 0 {
		return NotFound[[]string]()
	}
	return Found(found)
}

// Education splits the lower-cased text on '.' and '\n' and keeps the trimmed segments
// that mention an education term, in document order.
func (e *Extractor) Education(text Text) Field[[]string] {
	segments := strings.FieldsFunc(strings.ToLower(string(text)), func(r rune) bool {
		return r == '.' || r == '\n'
	})
	var found []string
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if e.education.containsAny(seg) {
			found = append(found, seg)
		}
	}
	if len(found) == 0 {
		return NotFound[[]string]()
	}
	return Found(found)
}

// Experience finds the first line mentioning an experience term and returns it together
// with the following lines (window lines in total) flattened into one string.
// The first match wins even if a later line would make a better snippet.
func (e *Extractor) Experience(text Text) Field[string] {
	lines := strings.Split(string(text), "\n")
	for i, line := range lines {
		if !e.experience.containsAny(strings.ToLower(line)) {
			continue
		}
		end := min(i+e.window, len(lines))
		snippet := strings.Join(strings.Fields(strings.Join(lines[i:end], " ")), " ")
		return Found(snippet)
	}
	return NotFound[string]()
}

// Assemble runs the four extractors over the same text and composes the record.
// The extractors are independent, so they run concurrently.
func (e *Extractor) Assemble(text Text) Record {
	var (
		rec Record
		wg  sync.WaitGroup
	)
	wg.Add(4)
	go func() { defer wg.Done(); rec.Email = e.Email(text) }()
	go func() { defer wg.Done(); rec.Skills = e.Skills(text) }()
	go func() { defer wg.Done(); rec.Education = e.Education(text) }()
	go func() { defer wg.Done(); rec.Experience = e.Experience(text) }()
	wg.Wait()

	e.logger.Debug("record assembled",
		"text_bytes", len(text),
		"email_found", rec.Email.IsFound(),
		"skills", len(rec.Skills.Or(nil)),
		"education", len(rec.Education.Or(nil)),
		"experience_found", rec.Experience.IsFound(),
	)
	return rec
}

var defaultExtractor = NewExtractor(DefaultConfig(), nil)

// ExtractEmail runs the email extractor with the default configuration.
func ExtractEmail(text Text) Field[string] { return defaultExtractor.Email(text) }

// ExtractSkills runs the skill extractor with the default vocabulary.
func ExtractSkills(text Text) Field[[]string] { return defaultExtractor.Skills(text) }

// ExtractEducation runs the education extractor with the default vocabulary.
func ExtractEducation(text Text) Field[[]string] { return defaultExtractor.Education(text) }

// ExtractExperience runs the experience extractor with the default vocabulary and window.
func ExtractExperience(text Text) Field[string] { return defaultExtractor.Experience(text) }

// Assemble builds a record with the default configuration.
func Assemble(text Text) Record { return defaultExtractor.Assemble(text) }
