package services

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/google/uuid"
	"github.com/mandolyte/mdtopdf"

	types "github.com/yungbote/studynotes-backend/internal/domain"
	"github.com/yungbote/studynotes-backend/internal/domain/study"
)

const (
	ExportFormatMarkdown = "markdown"
	ExportFormatHTML     = "html"
	ExportFormatPDF      = "pdf"
)

// NoteExport is a rendered note ready to be served as a download.
type NoteExport struct {
	Filename    string
	ContentType string
	Body        []byte
}

var (
	filenameUnsafe = regexp.MustCompile(`[^a-z0-9]+`)
	markdownImage  = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
)

// Export renders an owned note. Exporting does not count as a view.
func (s *noteService) Export(ctx context.Context, id uuid.UUID, format string) (*NoteExport, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" || format == "md" {
		format = ExportFormatMarkdown
	}
	if format != ExportFormatMarkdown && format != ExportFormatHTML && format != ExportFormatPDF {
		return nil, study.Invalid("unsupported export format %q", format)
	}
	note, err := s.loadOwned(ctx, id)
	if err != nil {
		return nil, err
	}

	title := noteTitle(note)
	md := RenderNoteMarkdown(note)
	base := exportBasename(title, note.ID)
	switch format {
	case ExportFormatPDF:
		body, err := RenderNotePDF(md)
		if err != nil {
			return nil, fmt.Errorf("render pdf: %w", err)
		}
		return &NoteExport{
			Filename:    base + ".pdf",
			ContentType: "application/pdf",
			Body:        body,
		}, nil
	case ExportFormatHTML:
		return &NoteExport{
			Filename:    base + ".html",
			ContentType: "text/html; charset=utf-8",
			Body:        RenderNoteHTML(title, md),
		}, nil
	default:
		return &NoteExport{
			Filename:    base + ".md",
			ContentType: "text/markdown; charset=utf-8",
			Body:        md,
		}, nil
	}
}

// RenderNoteMarkdown lays the note out as a standalone Markdown document.
func RenderNoteMarkdown(note *types.StudyNote) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", noteTitle(note))
	if s := strings.TrimSpace(note.Summary); s != "" {
		fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(s, "\n", "\n> "))
	}
	b.WriteString(strings.TrimSpace(note.Content))
	b.WriteString("\n")
	if len(note.KeyPoints) > 0 {
		b.WriteString("\n## Key Points\n\n")
		for _, kp := range note.KeyPoints {
			fmt.Fprintf(&b, "- %s\n", kp)
		}
	}
	if len(note.References) > 0 {
		b.WriteString("\n## References\n\n")
		for i, ref := range note.References {
			fmt.Fprintf(&b, "%d. %s\n", i+1, ref)
		}
	}
	return []byte(b.String())
}

// RenderNoteHTML converts note Markdown to a complete HTML page. Raw HTML in the source is dropped.
func RenderNoteHTML(title string, md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank | html.CompletePage | html.SkipHTML,
		Title: title,
	})
	return markdown.ToHTML(md, p, r)
}

// RenderNotePDF typesets note Markdown as an A4 PDF. Images are reduced to
// their alt text so rendering never reads local files or fetches URLs.
func RenderNotePDF(md []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf renderer panic: %v", r)
		}
	}()
	md = markdownImage.ReplaceAll(md, []byte("$1"))

	r := mdtopdf.NewPdfRenderer("P", "A4", "", "", nil, mdtopdf.LIGHT)
	if err := r.Run(md); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.Pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func noteTitle(note *types.StudyNote) string {
	if note.Topic != nil && strings.TrimSpace(note.Topic.Title) != "" {
		return strings.TrimSpace(note.Topic.Title)
	}
	return "Study Notes"
}

func exportBasename(title string, id uuid.UUID) string {
	slug := strings.Trim(filenameUnsafe.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		return "note-" + id.String()[:8]
	}
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "-")
	}
	return slug
}
