package submission

import (
	"math"
	"strconv"
	"strings"
)

// Payload is the JSON body posted to the query endpoint.
type Payload struct {
	FullName            string `json:"full_name"`
	Email               string `json:"email"`
	Query               string `json:"query"`
	JobTitle            string `json:"job_title"`
	Discipline          string `json:"discipline"`
	Timeline            string `json:"timeline"`
	Site                string `json:"site"`
	SearchType          string `json:"search_type"`
	Funnel1             string `json:"funnel_1"`
	Funnel2             string `json:"funnel_2"`
	Funnel3             string `json:"funnel_3"`
	JobCode             int    `json:"job_code"`
	RequiresActionSheet bool   `json:"requires_action_sheet"`
	SourceContext       string `json:"source_context"`
	SupervisorName      string `json:"supervisor_name"`
	SupervisorEmail     string `json:"supervisor_email"`
	HREmail             string `json:"hr_email"`
}

// BuildPayload maps the form onto the outbound record. It does not validate;
// empty fields take the policy default.
func (p ValidationPolicy) BuildPayload(f Form) Payload {
	return Payload{
		FullName:            p.value(f, FieldFullName),
		Email:               p.value(f, FieldEmail),
		Query:               p.value(f, FieldQuery),
		JobTitle:            p.value(f, FieldJobTitle),
		Discipline:          p.value(f, FieldDiscipline),
		Timeline:            p.value(f, FieldTimeline),
		Site:                p.value(f, FieldSite),
		SearchType:          p.value(f, FieldSearchType),
		Funnel1:             p.value(f, FieldFunnel1),
		Funnel2:             p.value(f, FieldFunnel2),
		Funnel3:             p.value(f, FieldFunnel3),
		JobCode:             ParseJobCode(f.JobCode),
		RequiresActionSheet: true,
		SourceContext:       p.value(f, FieldSourceContext),
		SupervisorName:      p.value(f, FieldSupervisorName),
		SupervisorEmail:     p.value(f, FieldSupervisorEmail),
		HREmail:             p.value(f, FieldHREmail),
	}
}

// ParseJobCode returns the number in s truncated to an integer, so "1011.0"
// and "1e3" are accepted. Empty, non-numeric, non-finite, negative and
// out-of-range values become 0.
func ParseJobCode(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}
