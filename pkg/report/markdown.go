package report

import (
	"io"

	md "github.com/nao1215/markdown"

	"github.com/bolinasrbc/spotcheck/pkg/errors"
	"github.com/bolinasrbc/spotcheck/pkg/reconcile"
)

// WriteMarkdown renders the same sections as Lines as a markdown document.
// Findings become second level headings and their blocks third level ones.
func WriteMarkdown(w io.Writer, result *reconcile.Result, opts Options) error {
	doc := md.NewMarkdown(w)
	if opts.Title != "" {
		doc.H1(opts.Title).LF()
	}

	for _, section := range reconcile.Sections() {
		if section == reconcile.SectionEmail && len(result.StatusListing) > 0 {
			doc.H2(StatusListingTitle).LF()
			for _, block := range result.StatusListing {
				markdownBlock(doc, block)
			}
		}
		for _, f := range result.Section(section) {
			doc.H2(f.Title).LF()
			doc.PlainText(md.Italic(string(f.Severity))).LF()
			if len(f.Lines) > 0 {
				doc.BulletList(f.Lines...).LF()
			}
			for _, part := range f.Parts {
				markdownBlock(doc, part)
			}
		}
	}

	if len(result.OK) > 0 {
		doc.H2(OKTitle).LF()
		doc.BulletList(result.OK...)
	}
	return errors.WrapIO("write", "markdown report", doc.Build())
}

func markdownBlock(doc *md.Markdown, block reconcile.Block) {
	if len(block.Lines) == 0 {
		return
	}
	doc.H3(block.Title).LF()
	doc.BulletList(block.Lines...).LF()
}
