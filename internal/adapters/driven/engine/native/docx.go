package native

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

const (
	docxBody  = "word/document.xml"
	coreProps = "docProps/core.xml"
)

// extractDocx reads paragraphs and tables from the main document part.
// Table rows are also appended to the text, tab separated.
func extractDocx(path string) (*domain.RawExtraction, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a DOCX archive: %w", domain.ErrInvalidInput, filepath.Base(path), err)
	}
	defer zr.Close()

	body, err := openPart(&zr.Reader, docxBody)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	content, err := parseDocument(body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrInvalidInput, docxBody, err)
	}

	metadata := map[string]any{
		"format":     "docx",
		"paragraphs": content.paragraphs,
	}
	if title := coreTitle(&zr.Reader); title != "" {
		metadata["title"] = title
	}

	return &domain.RawExtraction{
		Text:     strings.Join(content.lines, "\n"),
		Tables:   content.tables,
		Metadata: metadata,
	}, nil
}

var errMissingPart = errors.New("missing part")

func openPart(r *zip.Reader, name string) (io.ReadCloser, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("%w: open %s: %w", domain.ErrInvalidInput, name, err)
			}
			return rc, nil
		}
	}
	return nil, fmt.Errorf("%w: %w %s", domain.ErrInvalidInput, errMissingPart, name)
}

type docxContent struct {
	lines      []string
	tables     []domain.Table
	paragraphs int
}

// parseDocument streams WordprocessingML. Elements are matched by local
// name: p paragraph, r run, t text, tbl/tr/tc table structure. Nested tables
// flatten into the enclosing cell.
func parseDocument(r io.Reader) (*docxContent, error) {
	var (
		out        docxContent
		para       strings.Builder
		cell       strings.Builder
		row        []string
		table      domain.Table
		tableDepth int
		inRun      bool
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
			case "r":
				inRun = true
			case "t":
				inText = true
			case "tab":
				if inRun {
					para.WriteByte('\t')
				}
			case "br", "cr":
				if inRun {
					para.WriteByte('\n')
				}
			}

		case xml.CharData:
			if inText {
				para.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				inRun = false
			case "t":
				inText = false
			case "p":
				line := strings.TrimSpace(para.String())
				if tableDepth > 0 {
					if line != "" {
						if cell.Len() > 0 {
							cell.WriteByte(' ')
						}
						cell.WriteString(line)
					}
					continue
				}
				if line != "" {
					out.lines = append(out.lines, line)
					out.paragraphs++
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

// coreTitle returns the dc:title core property of an OOXML package, or ""
// when absent.
func coreTitle(r *zip.Reader) string {
	rc, err := openPart(r, coreProps)
	if err != nil {
		return ""
	}
	defer rc.Close()

	var core struct {
		Title string `xml:"title"`
	}
	if err := xml.NewDecoder(rc).Decode(&core); err != nil {
		return ""
	}
	return strings.TrimSpace(core.Title)
}
