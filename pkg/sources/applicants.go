package sources

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bolinasrbc/spotcheck/pkg/constants"
	"github.com/bolinasrbc/spotcheck/pkg/errors"
	"github.com/bolinasrbc/spotcheck/pkg/logging"
	"github.com/bolinasrbc/spotcheck/pkg/members"
)

// applicantStatuses maps the number of fields after the name (application
// date, fee date, then one date per meeting attended) to a status.
var applicantStatuses = map[int]members.Status{
	1: members.StatusNoFee,
	2: members.StatusNoMeetings,
	3: members.StatusOneMeeting,
	4: members.StatusTwoMeetings,
	5: members.StatusThreeMeetings,
	6: members.StatusInducted,
}

// graduatedFields is the field count of an applicant whose process is
// complete; the last field is then either the aw marker or a date.
const graduatedFields = 7

// ApplicantOutcome classifies an applicant line.
type ApplicantOutcome int

const (
	// OutcomeBad means the field count is outside the table.
	OutcomeBad ApplicantOutcome = iota
	// OutcomeStatus means the line maps to an applicant status.
	OutcomeStatus
	// OutcomeGraduated means the applicant has become a member.
	OutcomeGraduated
)

// ApplicantStatusFor derives a status from the non-empty fields that
// follow the name. It depends only on the field count, except that a
// completed process ending in the aw marker is reported as aw.
func ApplicantStatusFor(fields []string) (members.Status, ApplicantOutcome) {
	n := len(fields)
	if n == graduatedFields {
		if fields[n-1] == constants.GraduatedMarker {
			return members.StatusAwaitingDues, OutcomeStatus
		}
		return "", OutcomeGraduated
	}
	if s, ok := applicantStatuses[n]; ok {
		return s, OutcomeStatus
	}
	return "", OutcomeBad
}

// ApplicantsDataset is the applicant ledger keyed by derived status.
type ApplicantsDataset struct {
	File       string
	Applicants []members.Applicant

	ByStatus members.Index

	// Expired lists applicants whose application lapsed.
	Expired []string

	// Graduated lists applicants who completed the process and are members.
	Graduated []string

	BadLines []members.Malformed
}

// Err reports unparseable lines as a non-fatal *errors.MalformedError.
func (d *ApplicantsDataset) Err() error {
	return malformedErr(ApplicantsID, d.BadLines)
}

// GatherApplicants reads the applicant ledger at path.
func GatherApplicants(ctx context.Context, path string) (*ApplicantsDataset, error) {
	var ds *ApplicantsDataset
	err := readSource(ctx, ApplicantsID, path, func(r io.Reader, name string) error {
		var err error
		ds, err = ReadApplicants(ctx, r, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// ReadApplicants parses pipe-delimited applicant lines from r.
func ReadApplicants(ctx context.Context, r io.Reader, name string) (*ApplicantsDataset, error) {
	ds := &ApplicantsDataset{
		File:     name,
		ByStatus: members.Index{},
	}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		ds.parseLine(text, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapIO("read", name, err)
	}

	logging.FromContext(ctx).Debug().
		Str("source", ApplicantsID.String()).
		Int("applicants", len(ds.Applicants)).
		Int("expired", len(ds.Expired)).
		Int("bad_lines", len(ds.BadLines)).
		Msg("Gathered applicants")

	return ds, nil
}

func (d *ApplicantsDataset) parseLine(text string, line int) {
	parts := strings.Split(text, constants.FieldSeparator)

	name, err := members.ParseName(parts[0])
	if err != nil {
		d.bad(line, "", fmt.Sprintf("expected \"First Last\" before the first %q: %q", constants.FieldSeparator, text))
		return
	}
	key := name.Key()

	fields := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		if p = strings.TrimSpace(p); p != "" {
			fields = append(fields, p)
		}
	}

	if n := len(fields); n > 0 && strings.HasPrefix(fields[n-1], constants.ExpiredMarker) {
		d.Applicants = append(d.Applicants, members.Applicant{Name: name, Fields: fields, Expired: true, Line: line})
		d.Expired = append(d.Expired, key)
		return
	}

	status, outcome := ApplicantStatusFor(fields)
	switch outcome {
	case OutcomeStatus:
		d.Applicants = append(d.Applicants, members.Applicant{Name: name, Status: status, Fields: fields, Line: line})
		d.ByStatus.Add(status.String(), key)
	case OutcomeGraduated:
		d.Graduated = append(d.Graduated, key)
	default:
		d.bad(line, key, fmt.Sprintf("unsupported field count %d: %q", len(fields), text))
	}
}

func (d *ApplicantsDataset) bad(line int, name, reason string) {
	d.BadLines = append(d.BadLines, members.Malformed{Line: line, Name: name, Reason: reason})
}

// ByStatusListing groups current applicants, with their dates, by status.
func (d *ApplicantsDataset) ByStatusListing() map[members.Status][]members.Applicant {
	out := make(map[members.Status][]members.Applicant)
	for _, a := range d.Applicants {
		if a.Expired {
			continue
		}
		out[a.Status] = append(out[a.Status], a)
	}
	return out
}
