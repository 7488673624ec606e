package submission

import (
	"fmt"
	"strconv"
)

// Page constants written into the form when it loads.
const (
	DefaultDiscipline    = "Police Procedures"
	DefaultSourceContext = "This response is based on UK police internal procedures, compliance policies, and welfare guidance."
	DefaultJobCode       = 1011
)

// Placeholder strings for optional fields left empty.
const (
	NotProvided  = "Not provided"
	NotSpecified = "Not specified"
	NotAnswered  = "Not answered"
)

// ValidationPolicy decides which fields are mandatory and what an empty
// optional field becomes in the payload. The two deployed forms disagree on
// both, so each is kept as its own named policy.
type ValidationPolicy struct {
	Name           string
	Required       []Field
	Defaults       map[Field]string
	MissingMessage string
}

// PolicyContact requires the requester's name, email and query text.
var PolicyContact = ValidationPolicy{
	Name:     "contact",
	Required: []Field{FieldFullName, FieldEmail, FieldQuery},
	Defaults: map[Field]string{
		FieldDiscipline:      DefaultDiscipline,
		FieldSourceContext:   DefaultSourceContext,
		FieldJobTitle:        NotProvided,
		FieldTimeline:        NotSpecified,
		FieldSite:            NotProvided,
		FieldSearchType:      NotProvided,
		FieldFunnel1:         NotAnswered,
		FieldFunnel2:         NotAnswered,
		FieldFunnel3:         NotAnswered,
		FieldSupervisorName:  NotProvided,
		FieldSupervisorEmail: NotProvided,
		FieldHREmail:         NotProvided,
	},
	MissingMessage: "❌ Please enter your name, email, and a query before submitting.",
}

// PolicyTriage requires a job title and a timeline; everything else is optional.
var PolicyTriage = ValidationPolicy{
	Name:     "triage",
	Required: []Field{FieldJobTitle, FieldTimeline},
	Defaults: map[Field]string{
		FieldDiscipline:      DefaultDiscipline,
		FieldSourceContext:   DefaultSourceContext,
		FieldFullName:        NotSpecified,
		FieldEmail:           NotSpecified,
		FieldSite:            NotSpecified,
		FieldSearchType:      NotSpecified,
		FieldSupervisorName:  NotSpecified,
		FieldSupervisorEmail: NotSpecified,
		FieldHREmail:         NotSpecified,
	},
	MissingMessage: "❌ Please select your job title and a timeline before submitting.",
}

// ParsePolicy returns the named policy.
func ParsePolicy(name string) (ValidationPolicy, error) {
	switch name {
	case PolicyContact.Name:
		return PolicyContact, nil
	case PolicyTriage.Name:
		return PolicyTriage, nil
	}
	return ValidationPolicy{}, fmt.Errorf("unknown validation policy %q", name)
}

// NewForm returns a form holding the page-load constants.
func (p ValidationPolicy) NewForm() Form {
	return Form{
		Discipline:    DefaultDiscipline,
		SourceContext: DefaultSourceContext,
		JobCode:       strconv.Itoa(DefaultJobCode),
	}
}

// Validate returns a *ValidationError naming every required field that is
// empty, in policy order, or nil.
func (p ValidationPolicy) Validate(f Form) error {
	var missing []Field
	for _, field := range p.Required {
		if !f.present(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing, Msg: p.MissingMessage}
	}
	return nil
}

func (p ValidationPolicy) value(f Form, field Field) string {
	if f.present(field) {
		return f.Value(field)
	}
	return p.Defaults[field]
}
