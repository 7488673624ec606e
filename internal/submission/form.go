package submission

import (
	"fmt"
	"strconv"
	"strings"
)

// Field identifies a form input. Values match the payload JSON keys.
type Field string

const (
	FieldFullName        Field = "full_name"
	FieldEmail           Field = "email"
	FieldQuery           Field = "query"
	FieldJobTitle        Field = "job_title"
	FieldDiscipline      Field = "discipline"
	FieldTimeline        Field = "timeline"
	FieldSite            Field = "site"
	FieldSearchType      Field = "search_type"
	FieldFunnel1         Field = "funnel_1"
	FieldFunnel2         Field = "funnel_2"
	FieldFunnel3         Field = "funnel_3"
	FieldJobCode         Field = "job_code"
	FieldSourceContext   Field = "source_context"
	FieldSupervisorName  Field = "supervisor_name"
	FieldSupervisorEmail Field = "supervisor_email"
	FieldHREmail         Field = "hr_email"
)

// Form is the current state of the query form. An empty string means the
// input is unset or the dropdown has no selection.
type Form struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Query           string `json:"query"`
	JobTitle        string `json:"job_title"`
	Discipline      string `json:"discipline"`
	Timeline        string `json:"timeline"`
	Site            string `json:"site"`
	SearchType      string `json:"search_type"`
	Funnel1         string `json:"funnel_1"`
	Funnel2         string `json:"funnel_2"`
	Funnel3         string `json:"funnel_3"`
	JobCode         string `json:"job_code"` // numeric string, as typed
	SourceContext   string `json:"source_context"`
	SupervisorName  string `json:"supervisor_name"`
	SupervisorEmail string `json:"supervisor_email"`
	HREmail         string `json:"hr_email"`
}

// Value returns the raw value of f, or "" for an unknown field.
func (f Form) Value(field Field) string {
	switch field {
	case FieldFullName:
		return f.FullName
	case FieldEmail:
		return f.Email
	case FieldQuery:
		return f.Query
	case FieldJobTitle:
		return f.JobTitle
	case FieldDiscipline:
		return f.Discipline
	case FieldTimeline:
		return f.Timeline
	case FieldSite:
		return f.Site
	case FieldSearchType:
		return f.SearchType
	case FieldFunnel1:
		return f.Funnel1
	case FieldFunnel2:
		return f.Funnel2
	case FieldFunnel3:
		return f.Funnel3
	case FieldJobCode:
		return f.JobCode
	case FieldSourceContext:
		return f.SourceContext
	case FieldSupervisorName:
		return f.SupervisorName
	case FieldSupervisorEmail:
		return f.SupervisorEmail
	case FieldHREmail:
		return f.HREmail
	}
	return ""
}

// Set assigns v to field. It reports false for an unknown field.
func (f *Form) Set(field Field, v string) bool {
	switch field {
	case FieldFullName:
		f.FullName = v
	case FieldEmail:
		f.Email = v
	case FieldQuery:
		f.Query = v
	case FieldJobTitle:
		f.JobTitle = v
	case FieldDiscipline:
		f.Discipline = v
	case FieldTimeline:
		f.Timeline = v
	case FieldSite:
		f.Site = v
	case FieldSearchType:
		f.SearchType = v
	case FieldFunnel1:
		f.Funnel1 = v
	case FieldFunnel2:
		f.Funnel2 = v
	case FieldFunnel3:
		f.Funnel3 = v
	case FieldJobCode:
		f.JobCode = v
	case FieldSourceContext:
		f.SourceContext = v
	case FieldSupervisorName:
		f.SupervisorName = v
	case FieldSupervisorEmail:
		f.SupervisorEmail = v
	case FieldHREmail:
		f.HREmail = v
	default:
		return false
	}
	return true
}

// ApplyValues copies decoded JSON values onto f. Strings and numbers are
// accepted, null leaves the field untouched, and unknown keys and page
// constants are ignored.
func (f *Form) ApplyValues(values map[string]any) error {
	for k, raw := range values {
		if pageConstants[Field(k)] {
			continue
		}
		var v string
		switch x := raw.(type) {
		case nil:
			continue
		case string:
			v = x
		case float64:
			v = strconv.FormatFloat(x, 'f', -1, 64)
		case int:
			v = strconv.Itoa(x)
		case int64:
			v = strconv.FormatInt(x, 10)
		default:
			if (&Form{}).Set(Field(k), "") {
				return fmt.Errorf("field %q: unsupported value type %T", k, raw)
			}
			continue
		}
		f.Set(Field(k), v)
	}
	return nil
}

// pageConstants are set by NewForm and never taken from request values.
var pageConstants = map[Field]bool{
	FieldDiscipline:    true,
	FieldSourceContext: true,
}

// present reports whether field holds a non-blank value.
func (f Form) present(field Field) bool {
	return strings.TrimSpace(f.Value(field)) != ""
}
