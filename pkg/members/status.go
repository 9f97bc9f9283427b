package members

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bolinasrbc/spotcheck/pkg/constants"
)

// Status is a short membership status code such as "a2" or "m".
type Status string

// Known status codes.
const (
	StatusNoFee         Status = "a-"
	StatusApplied       Status = "a"
	StatusNoMeetings    Status = "a0"
	StatusOneMeeting    Status = "a1"
	StatusTwoMeetings   Status = "a2"
	StatusThreeMeetings Status = "a3"
	StatusInducted      Status = "ai"
	StatusVacancy       Status = "av"
	StatusAwaitingDues  Status = "aw"
	StatusBadEmail      Status = "be"
	StatusHonorary      Status = "h"
	StatusNewMember     Status = "m"
	StatusRetiring      Status = "r"
	StatusSecretary     Status = "s"
	StatusTerminated    Status = "t"
	StatusFeesWaived    Status = "w"
)

var statusDescriptions = map[Status]string{
	StatusNoFee:         "Application received without fee",
	StatusApplied:       "Application complete but not yet acknowledged",
	StatusNoMeetings:    "No meetings yet attended",
	StatusOneMeeting:    "Attended one meeting",
	StatusTwoMeetings:   "Attended two meetings",
	StatusThreeMeetings: "Attended three meetings",
	StatusInducted:      "Inducted, needs to be notified",
	StatusVacancy:       "Vacancy ready to be filled",
	StatusAwaitingDues:  "Inducted & notified, membership pending payment",
	StatusBadEmail:      "Email on record being rejected",
	StatusHonorary:      "Honorary member",
	StatusNewMember:     "New member",
	StatusRetiring:      "Retiring",
	StatusSecretary:     "Secretary",
	StatusTerminated:    "Terminated",
	StatusFeesWaived:    "Fees being waived",
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// Known reports whether s is a registered code.
func (s Status) Known() bool {
	_, ok := statusDescriptions[s]
	return ok
}

// Description returns the human meaning of s, or "" when unknown.
func (s Status) Description() string {
	return statusDescriptions[s]
}

// IsApplicant reports whether s denotes some stage of the application process.
func (s Status) IsApplicant() bool {
	return strings.HasPrefix(string(s), "a")
}

// Label renders "a2: Attended two meetings" for listings.
func (s Status) Label() string {
	if d := s.Description(); d != "" {
		return fmt.Sprintf("%s: %s", s, d)
	}
	return string(s)
}

// Statuses returns every registered code in ascending order.
func Statuses() []Status {
	out := make([]Status, 0, len(statusDescriptions))
	for s := range statusDescriptions {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// ParseStatuses splits a ledger status field on the field separator.
// Empty parts and repeats are ignored. Unregistered codes are returned
// separately so the caller can note them and keep the rest.
func ParseStatuses(field string) (known []Status, unknown []string) {
	for _, part := range strings.Split(field, constants.FieldSeparator) {
		code := Status(strings.TrimSpace(part))
		switch {
		case code == "":
		case !code.Known():
			if !slices.Contains(unknown, string(code)) {
				unknown = append(unknown, string(code))
			}
		case !slices.Contains(known, code):
			known = append(known, code)
		}
	}
	return known, unknown
}
