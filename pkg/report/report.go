// Package report renders a reconcile.Result as the plain text report the
// membership chair reads, or as markdown.
package report

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/bolinasrbc/spotcheck/pkg/errors"
	"github.com/bolinasrbc/spotcheck/pkg/reconcile"
)

// Report headings that do not come from a finding.
const (
	StatusListingTitle = "Members /w 'status' Content"
	OKTitle            = "No Problems With The Following"
)

// Options controls what the report includes.
type Options struct {
	// Title is printed first, underlined, when not empty.
	Title string
}

// builder accumulates report lines with the spacing rules of the text report.
type builder struct {
	lines []string
}

func (b *builder) header(text string, underline rune) {
	if len(b.lines) > 0 {
		b.lines = append(b.lines, "")
	}
	b.lines = append(b.lines, text, strings.Repeat(string(underline), utf8.RuneCountInString(text)))
}

func (b *builder) add(lines ...string) {
	b.lines = append(b.lines, lines...)
}

func (b *builder) block(block reconcile.Block) {
	if len(block.Lines) == 0 {
		return
	}
	b.header(block.Title, '-')
	b.add(block.Lines...)
}

func (b *builder) finding(f reconcile.Finding) {
	b.header(f.Title, '=')
	b.add(f.Lines...)
	for _, part := range f.Parts {
		b.block(part)
	}
}

// Lines renders result in fixed section order: title, malformed records,
// identity anomalies, the status listing, email coverage, groups, the
// applicant status map, fee structure, fee drift and finally the checks
// that passed.
func Lines(result *reconcile.Result, opts Options) []string {
	b := &builder{}
	if opts.Title != "" {
		b.header(opts.Title, '=')
	}

	for _, section := range reconcile.Sections() {
		if section == reconcile.SectionEmail && len(result.StatusListing) > 0 {
			b.header(StatusListingTitle, '=')
			for _, block := range result.StatusListing {
				b.block(block)
			}
		}
		for _, f := range result.Section(section) {
			b.finding(f)
		}
	}

	if len(result.OK) > 0 {
		b.header(OKTitle, '=')
		b.add(result.OK...)
	}
	return b.lines
}

// Write writes the text report to w, one line per report line.
func Write(w io.Writer, result *reconcile.Result, opts Options) error {
	bw := bufio.NewWriter(w)
	for _, line := range Lines(result, opts) {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return errors.WrapIO("write", "report", err)
		}
	}
	return errors.WrapIO("write", "report", bw.Flush())
}
