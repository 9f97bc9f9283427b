package reconcile

// Severity classifies a finding.
type Severity string

const (
	// SeverityRecord marks rows or lines a gatherer could not use.
	SeverityRecord Severity = "record"
	// SeverityAnomaly marks identity ambiguity: dangling or shared emails.
	SeverityAnomaly Severity = "anomaly"
	// SeverityStructural marks a key present in one source and absent in another.
	SeverityStructural Severity = "structural"
	// SeveritySoft marks value-only drift that is expected, e.g. partial payment.
	SeveritySoft Severity = "soft"
	// SeverityNotice marks something worth reading that is not necessarily wrong.
	SeverityNotice Severity = "notice"
)

// Section places a finding in the report. Sections render in declaration order.
type Section int

const (
	SectionMalformed Section = iota
	SectionIdentity
	SectionEmail
	SectionGroups
	SectionStatus
	SectionFees
	SectionDrift
)

// Sections returns every section in render order.
func Sections() []Section {
	return []Section{SectionMalformed, SectionIdentity, SectionEmail, SectionGroups, SectionStatus, SectionFees, SectionDrift}
}

// String returns the section name.
func (s Section) String() string {
	switch s {
	case SectionMalformed:
		return "malformed"
	case SectionIdentity:
		return "identity"
	case SectionEmail:
		return "email"
	case SectionGroups:
		return "groups"
	case SectionStatus:
		return "status"
	case SectionFees:
		return "fees"
	case SectionDrift:
		return "drift"
	}
	return "unknown"
}

// MarshalText renders the section by name in JSON and YAML output.
func (s Section) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Check names a comparison.
type Check string

// Checks run by the comparator.
const (
	CheckMalformed      Check = "malformed"
	CheckIdentity       Check = "identity"
	CheckEmailCoverage  Check = "email-coverage"
	CheckNonMembers     Check = "non-members"
	CheckEmailNames     Check = "email-names"
	CheckWithoutEmail   Check = "without-email"
	CheckApplicantGroup Check = "applicant-group"
	CheckApplicantMap   Check = "applicant-status"
	CheckGraduates      Check = "graduates"
	CheckFeeCategory    Check = "fees-by-category"
	CheckFeeName        Check = "fees-by-name"
	CheckFeeDrift       Check = "fee-drift"
	CheckFeeGroups      Check = "fee-groups"
)

// Block is a titled list of lines.
type Block struct {
	Title string   `json:"title" yaml:"title"`
	Lines []string `json:"lines,omitempty" yaml:"lines,omitempty"`
}

// Finding is one problem block of the report.
type Finding struct {
	Check    Check    `json:"check" yaml:"check"`
	Section  Section  `json:"section" yaml:"section"`
	Severity Severity `json:"severity" yaml:"severity"`
	Title    string   `json:"title" yaml:"title"`
	Lines    []string `json:"lines,omitempty" yaml:"lines,omitempty"`
	Parts    []Block  `json:"parts,omitempty" yaml:"parts,omitempty"`
}

// IsProblem reports whether the finding calls for a correction.
func (f Finding) IsProblem() bool {
	switch f.Severity {
	case SeverityRecord, SeverityAnomaly, SeverityStructural:
		return true
	}
	return false
}
