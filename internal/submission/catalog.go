package submission

// DropdownOption is one dropdown entry.
type DropdownOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Catalog holds the dropdown lists offered by the query form, keyed by the
// field they populate.
var Catalog = map[Field][]DropdownOption{
	FieldJobTitle: {
		{"— Please select your job title —", ""},
		{"Control Room Operator", "Control Room Operator"},
		{"Scenes of Crime Officer", "Scenes of Crime Officer"},
		{"Forensic", "Forensic"},
		{"Digital Evidence Officer", "Digital Evidence Officer"},
		{"Body Worn Camera Admin", "Body Worn Camera Admin"},
		{"Evidence Handler", "Evidence Handler"},
		{"Internal Auditor", "Internal Auditor"},
		{"HR", "HR"},
		{"Welfare", "Welfare"},
		{"IT & Systems Support", "IT & Systems Support"},
		{"Other", "Other"},
	},
	FieldTimeline: {
		{"— Please select a timeline —", ""},
		{"Shift Today", "Shift Today"},
		{"Next 48 Hours", "Next 48 Hours"},
		{"Next Rota Cycle", "Next Rota Cycle"},
		{"Following Review", "Following Review"},
		{"Pending Inspection", "Pending Inspection"},
		{"Historical Review", "Historical Review"},
		{"Other", "Other"},
	},
	FieldSite: {
		{"HQ Records", "HQ Records"},
		{"IT Department", "IT Department"},
		{"Custody Centre", "Custody Centre"},
		{"Admin Block", "Admin Block"},
		{"Internal Audit", "Internal Audit"},
		{"Training Wing", "Training Wing"},
		{"Other", "Other"},
	},
	FieldSearchType: {
		{"HR Complaint", "HR Complaint"},
		{"Data Breach", "Data Breach"},
		{"Staff Misconduct", "Staff Misconduct"},
		{"PPE Audit", "PPE Audit"},
		{"IT Security", "IT Security"},
		{"Policy Breach", "Policy Breach"},
		{"Other", "Other"},
	},
	FieldFunnel1: {
		{"Was the issue reported on time?", "Issue Reported On Time"},
		{"Were internal policies followed?", "Internal Policies Followed"},
		{"Was CCTV reviewed?", "CCTV Reviewed"},
		{"Was HR consulted?", "HR Consulted"},
		{"Was staff suspended?", "Staff Suspended"},
		{"Is welfare referral needed?", "Welfare Referral Needed"},
		{"Other", "Other"},
	},
	FieldFunnel2: {
		{"Were emails collected?", "Emails Collected"},
		{"Was senior staff involved?", "Senior Staff Involved"},
		{"Are notes on file?", "Notes on File"},
		{"Were backups reviewed?", "Backups Reviewed"},
		{"Has DPO been notified?", "DPO Notified"},
		{"Is staff still active?", "Staff Still Active"},
		{"Other", "Other"},
	},
	FieldFunnel3: {
		{"Internal audit triggered?", "Internal Audit Triggered"},
		{"IT logs preserved?", "IT Logs Preserved"},
		{"HR file updated?", "HR File Updated"},
		{"Disciplinary started?", "Disciplinary Started"},
		{"Line manager notified?", "Line Manager Notified"},
		{"Policy training required?", "Policy Training Required"},
		{"Other", "Other"},
	},
}

// OptionsFor returns a copy of the dropdown list for field, or nil.
func OptionsFor(field Field) []DropdownOption {
	opts, ok := Catalog[field]
	if !ok {
		return nil
	}
	return append([]DropdownOption{}, opts...)
}
