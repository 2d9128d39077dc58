// Package candidate defines the structured candidate record produced by the
// upstream extractor and consumed read-only by the scoring engine.
package candidate

import "strconv"

// Record is an extracted candidate profile. The fixed fields cover what the
// extractor reliably produces; Extra carries any additional typed fields a
// rule may reference by name. Absent fields mean "no evidence", never an error.
type Record struct {
	Name           string         `json:"name"`
	Email          string         `json:"email,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	Education      string         `json:"education,omitempty"`
	School         string         `json:"school,omitempty"`
	Major          string         `json:"major,omitempty"`
	GraduationDate string         `json:"graduation_date,omitempty"`
	WorkYears      *float64       `json:"work_years,omitempty"`
	Skills         []string       `json:"skills,omitempty"`
	Projects       []string       `json:"projects,omitempty"`
	RawText        string         `json:"raw_text"`
	Extra          map[string]any `json:"extra,omitempty"`
}

// NumericField resolves a rule field name to a number. Fixed fields take
// precedence over Extra. The second return is false when the field is absent
// or not coercible to a number.
func (r *Record) NumericField(name string) (float64, bool) {
	if name == "work_years" {
		if r.WorkYears == nil {
			return 0, false
		}
		return *r.WorkYears, true
	}
	return toFloat(r.Extra[name])
}

// StringField resolves a rule field name to a string, fixed fields first.
// The second return is false when the field is absent or empty.
func (r *Record) StringField(name string) (string, bool) {
	var v string
	switch name {
	case "education":
		v = r.Education
	case "school":
		v = r.School
	case "major":
		v = r.Major
	case "graduation_date":
		v = r.GraduationDate
	case "name":
		v = r.Name
	case "email":
		v = r.Email
	case "phone":
		v = r.Phone
	default:
		v = toString(r.Extra[name])
	}
	return v, v != ""
}

// Validate reports which required fields are missing. An incomplete record
// still scores; the caller decides whether to act on the report.
func (r *Record) Validate() []string {
	var missing []string
	if r.Name == "" {
		missing = append(missing, "name")
	}
	if len(r.Skills) == 0 {
		missing = append(missing, "skills")
	}
	if r.WorkYears == nil {
		missing = append(missing, "work_years")
	}
	if r.RawText == "" {
		missing = append(missing, "raw_text")
	}
	return missing
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}
