// Package constants provides shared constants used throughout spotcheck.
// This includes default source locations, separators used by the club's
// hand-maintained files, file permissions and the standard fee schedule.
package constants

// Default SPoT locations, relative to the working directory unless noted.
const (
	// DefaultLedgerPath is the primary member ledger
	DefaultLedgerPath = "Data/memlist.csv"

	// DefaultApplicantsPath is the applicant tracking file
	DefaultApplicantsPath = "Data/applicants.txt"

	// DefaultFeesPath is the extra fees ledger
	DefaultFeesPath = "Data/extra_fees.txt"

	// DefaultFeesJSONPath is where the fee mapping is written when requested
	DefaultFeesJSONPath = "Data/extra_fees.json"

	// DefaultContactsPath is the Google contacts export
	DefaultContactsPath = "~/Downloads/contacts.csv"
)

// Separators and markers used by the source files.
const (
	// FieldSeparator splits applicant lines and multi-valued ledger status fields
	FieldSeparator = "|"

	// GroupSeparator joins group memberships in the contacts export
	GroupSeparator = " ::: "

	// DefaultContactsGroup is the trailing group every contact carries
	DefaultContactsGroup = "* myContacts"

	// ExpiredMarker prefixes the last field of an expired application
	ExpiredMarker = "Application"

	// GraduatedMarker is the last field of an inducted applicant awaiting payment
	GraduatedMarker = "aw"

	// NameKeySeparator joins last and first names in a name key
	NameKeySeparator = ", "

	// SharedNamesSeparator joins the names that share an email
	SharedNamesSeparator = "; "
)

// Contact groups as they are named in the club's contacts.
const (
	// ApplicantGroup tags everyone currently applying
	ApplicantGroup = "applicant"

	// DockGroup, KayakGroup and MooringGroup tag fee payers
	DockGroup    = "DockUsers"
	KayakGroup   = "Kayak"
	MooringGroup = "Moorings"
)

// Standard yearly fee schedule in whole dollars.
const (
	YearlyDues = 100
	DockFee    = 75
	KayakFee   = 70
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Application metadata
const (
	// AppName is the name of the application
	AppName = "spotcheck"

	// EnvPrefix prefixes every environment variable the CLI reads
	EnvPrefix = "SPOTCHECK"

	// ConfigFileName is the config file name without extension
	ConfigFileName = ".spotcheck"
)
