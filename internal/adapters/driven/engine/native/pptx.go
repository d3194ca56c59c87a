package native

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

var slidePart = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// extractPptx reads one Slide per ppt/slides/slideN.xml part, in N order.
// Slide text holds one line per text shape; table rows follow, tab
// separated.
func extractPptx(path string) (*domain.RawExtraction, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a PPTX archive: %w", domain.ErrInvalidInput, filepath.Base(path), err)
	}
	defer zr.Close()

	parts := slideParts(&zr.Reader)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: %s has no slides", domain.ErrInvalidInput, filepath.Base(path))
	}

	slides := make([]domain.Slide, 0, len(parts))
	texts := make([]string, 0, len(parts))
	for i, f := range parts {
		content, err := readSlide(f)
		if err != nil {
			return nil, err
		}
		text := strings.Join(content.lines, "\n")
		slides = append(slides, domain.Slide{
			Number: i + 1,
			Text:   text,
			Tables: content.tables,
		})
		texts = append(texts, text)
	}

	metadata := map[string]any{
		"format": "pptx",
		"slides": len(slides),
	}
	if title := coreTitle(&zr.Reader); title != "" {
		metadata["title"] = title
	}

	return &domain.RawExtraction{
		Text:     strings.Join(texts, "\n\n"),
		Slides:   slides,
		Metadata: metadata,
	}, nil
}

// slideParts returns the slide parts sorted by slide number.
func slideParts(r *zip.Reader) []*zip.File {
	type numbered struct {
		n int
		f *zip.File
	}
	var found []numbered
	for _, f := range r.File {
		m := slidePart.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		found = append(found, numbered{n: n, f: f})
	}
	slices.SortFunc(found, func(a, b numbered) int { return a.n - b.n })

	parts := make([]*zip.File, len(found))
	for i, p := range found {
		parts[i] = p.f
	}
	return parts
}

func readSlide(f *zip.File) (*slideContent, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrInvalidInput, f.Name, err)
	}
	defer rc.Close()

	content, err := parseSlide(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrInvalidInput, f.Name, err)
	}
	return content, nil
}

type slideContent struct {
	lines  []string
	tables []domain.Table
}

// parseSlide streams PresentationML. Elements are matched by local name:
// sp shape, p paragraph, t text, br line break, tbl/tr/tc table structure.
// Empty paragraphs and shapes are dropped.
func parseSlide(r io.Reader) (*slideContent, error) {
	var (
		out        slideContent
		shape      []string
		para       strings.Builder
		cell       strings.Builder
		row        []string
		table      domain.Table
		shapeDepth int
		tableDepth int
		inText     bool
	)

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp":
				shapeDepth++
				if shapeDepth == 1 {
					shape = nil
				}
			case "tbl":
				tableDepth++
				if tableDepth == 1 {
					table = domain.Table{Rows: [][]string{}}
				}
			case "tr":
				if tableDepth == 1 {
					row = nil
				}
			case "tc":
				if tableDepth == 1 {
					cell.Reset()
				}
			case "p":
				para.Reset()
			case "t":
				inText = true
			case "br":
				para.WriteByte('\n')
			}

		case xml.CharData:
			if inText {
				para.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				line := strings.TrimSpace(para.String())
				if line == "" {
					continue
				}
				switch {
				case tableDepth > 0:
					if cell.Len() > 0 {
						cell.WriteByte(' ')
					}
					cell.WriteString(line)
				case shapeDepth > 0:
					shape = append(shape, line)
				}
			case "sp":
				shapeDepth--
				if shapeDepth == 0 && len(shape) > 0 {
					out.lines = append(out.lines, strings.Join(shape, "\n"))
				}
			case "tc":
				if tableDepth == 1 {
					row = append(row, cell.String())
				}
			case "tr":
				if tableDepth == 1 {
					table.Rows = append(table.Rows, row)
					out.lines = append(out.lines, strings.Join(row, "\t"))
				}
			case "tbl":
				tableDepth--
				if tableDepth == 0 {
					out.tables = append(out.tables, table)
				}
			}
		}
	}
	return &out, nil
}
