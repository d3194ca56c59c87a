package native

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

// extractMarkdown returns the prose of a Markdown file as plain text and
// its GFM tables as tables. Code blocks, images and raw HTML are dropped.
func (e *Engine) extractMarkdown(path string) (*domain.RawExtraction, error) {
	src, err := readUTF8(path)
	if err != nil {
		return nil, err
	}

	doc := e.markdown.Parser().Parse(text.NewReader(src))

	var (
		blocks []string
		tables []domain.Table
		title  string
	)
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			line := inlineText(n, src)
			if title == "" && n.Level == 1 {
				title = line
			}
			blocks = appendBlock(blocks, line)
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock:
			blocks = appendBlock(blocks, inlineText(n, src))
			return ast.WalkSkipChildren, nil
		case *extast.Table:
			t := markdownTable(n, src)
			tables = append(tables, t)
			for _, row := range t.Rows {
				blocks = appendBlock(blocks, strings.Join(row, "\t"))
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	metadata := map[string]any{"format": "markdown"}
	if title != "" {
		metadata["title"] = title
	}
	return &domain.RawExtraction{
		Text:     strings.Join(blocks, "\n"),
		Tables:   tables,
		Metadata: metadata,
	}, nil
}

func appendBlock(blocks []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return blocks
	}
	return append(blocks, s)
}

func markdownTable(n *extast.Table, src []byte) domain.Table {
	var t domain.Table
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		cells := make([]string, 0, row.ChildCount())
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(inlineText(cell, src)))
		}
		if _, ok := row.(*extast.TableHeader); ok {
			t.Header = cells
			continue
		}
		t.Rows = append(t.Rows, cells)
	}
	if t.Rows == nil {
		t.Rows = [][]string{}
	}
	return t
}

// inlineText concatenates the text under n. Soft line breaks become spaces.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch c := c.(type) {
			case *ast.Text:
				b.Write(c.Segment.Value(src))
				if c.SoftLineBreak() || c.HardLineBreak() {
					b.WriteByte(' ')
				}
			case *ast.String:
				b.Write(c.Value)
			case *ast.AutoLink:
				b.Write(c.Label(src))
			case *ast.Image, *ast.RawHTML:
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}
