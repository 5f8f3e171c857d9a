package resume

import "encoding/json"

// Field names used in rendered output.
const (
	KeyEmail          = "Email"
	KeySkills         = "Skills"
	KeyEducation      = "Education"
	KeyWorkExperience = "Work Experience"
)

// Strings rendered in place of a field that was not found.
const (
	NoEmailFound          = "No Email Found"
	NoSkillsFound         = "No Skills Found"
	NoEducationFound      = "No Education Details Found"
	NoWorkExperienceFound = "No Work Experience Found"
)

// Record is the structured result for one resume.
type Record struct {
	Email      Field[string]
	Skills     Field[[]string]
	Education  Field[[]string]
	Experience Field[string]
}

// Rendered is the external form of a Record: every field present, sentinels for absences.
type Rendered struct {
	Email          string   `json:"Email"`
	Skills         []string `json:"Skills"`
	Education      []string `json:"Education"`
	WorkExperience string   `json:"Work Experience"`
}

// Render applies the sentinel strings to absent fields.
func (r Record) Render() Rendered {
	return Rendered{
		Email:          r.Email.Or(NoEmailFound),
		Skills:         r.Skills.Or([]string{NoSkillsFound}),
		Education:      r.Education.Or([]string{NoEducationFound}),
		WorkExperience: r.Experience.Or(NoWorkExperienceFound),
	}
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Render())
}
