package native

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfuse/internal/core/domain"
)

const testDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>Quarterly report</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">Revenue </w:t></w:r><w:r><w:t>grew.</w:t><w:tab/><w:t>Costs fell.</w:t></w:r></w:p>
    <w:p></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Region</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Total</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>North</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>42</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
    <w:p><w:r><w:t>Closing line</w:t></w:r></w:p>
  </w:body>
</w:document>`

const testCore = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:title>Q3 Results</dc:title>
</cp:coreProperties>`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeDocx(t *testing.T, parts map[string]string) string {
	t.Helper()
	return writeArchive(t, "test.docx", parts)
}

func writeArchive(t *testing.T, name string, parts map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestEngine_Name(t *testing.T) {
	assert.Equal(t, "native", New().Name())
}

func TestExtract_PlainText(t *testing.T) {
	path := writeFile(t, "notes.txt", "\n  Line one.\nLine two.  \n\n")

	got, err := New().Extract(context.Background(), path, domain.DocumentTypeText)
	require.NoError(t, err)

	assert.Equal(t, "native", got.EngineID)
	assert.Equal(t, "Line one.\nLine two.", got.Text)
	assert.Equal(t, "text", got.Metadata["format"])
	assert.NotNil(t, got.ProcessingTime)
}

func TestExtract_Markdown(t *testing.T) {
	src := "# Release *notes*\n\n" +
		"Intro paragraph\nwrapped across lines with a [link](https://example.com).\n\n" +
		"```go\nfmt.Println(\"skip me\")\n```\n\n" +
		"- first item\n- second item\n\n" +
		"| Name | Qty |\n|------|-----|\n| Bolt | 10 |\n| Nut | 20 |\n\n" +
		"<div>raw html</div>\n\n" +
		"## Details\n\nSee `code` and ![logo](logo.png) here.\n"
	path := writeFile(t, "README.md", src)

	got, err := New().Extract(context.Background(), path, domain.DocumentTypeText)
	require.NoError(t, err)

	assert.Equal(t, "markdown", got.Metadata["format"])
	assert.Equal(t, "Release notes", got.Metadata["title"])

	assert.Contains(t, got.Text, "Release notes")
	assert.Contains(t, got.Text, "Intro paragraph wrapped across lines with a link.")
	assert.Contains(t, got.Text, "first item\nsecond item")
	assert.Contains(t, got.Text, "Bolt\t10")
	assert.Contains(t, got.Text, "See code and  here.")
	assert.NotContains(t, got.Text, "skip me")
	assert.NotContains(t, got.Text, "raw html")

	require.Len(t, got.Tables, 1)
	assert.Equal(t, []string{"Name", "Qty"}, got.Tables[0].Header)
	assert.Equal(t, [][]string{{"Bolt", "10"}, {"Nut", "20"}}, got.Tables[0].Rows)
}

func TestExtract_MarkdownWithoutTitle(t *testing.T) {
	path := writeFile(t, "plain.md", "## Second level only\n\nBody.\n")

	got, err := New().Extract(context.Background(), path, domain.DocumentTypeText)
	require.NoError(t, err)

	_, ok := got.Metadata["title"]
	assert.False(t, ok)
	assert.Equal(t, "Second level only\nBody.", got.Text)
	assert.Empty(t, got.Tables)
}

func TestExtract_Docx(t *testing.T) {
	path := writeDocx(t, map[string]string{
		"word/document.xml": testDocument,
		"docProps/core.xml": testCore,
	})

	got, err := New().Extract(context.Background(), path, domain.DocumentTypeWord)
	require.NoError(t, err)

	assert.Equal(t, "native", got.EngineID)
	assert.Equal(t, "Quarterly report\nRevenue grew.\tCosts fell.\nRegion\tTotal\nNorth\t42\nClosing line", got.Text)
	assert.Equal(t, "docx", got.Metadata["format"])
	assert.Equal(t, 3, got.Metadata["paragraphs"])
	assert.Equal(t, "Q3 Results", got.Metadata["title"])

	require.Len(t, got.Tables, 1)
	assert.Equal(t, [][]string{{"Region", "Total"}, {"North", "42"}}, got.Tables[0].Rows)
}

func TestExtract_DocxWithoutCoreProperties(t *testing.T) {
	path := writeDocx(t, map[string]string{"word/document.xml": testDocument})

	got, err := New().Extract(context.Background(), path, domain.DocumentTypeWord)
	require.NoError(t, err)

	_, ok := got.Metadata["title"]
	assert.False(t, ok)
}

func TestExtract_DocxMissingBody(t *testing.T) {
	path := writeDocx(t, map[string]string{"docProps/core.xml": testCore})

	_, err := New().Extract(context.Background(), path, domain.DocumentTypeWord)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, errMissingPart)
}

func TestExtract_DocxNotArchive(t *testing.T) {
	path := writeFile(t, "fake.docx", "plain text pretending to be docx")

	_, err := New().Extract(context.Background(), path, domain.DocumentTypeWord)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_DocxMalformedXML(t *testing.T) {
	path := writeDocx(t, map[string]string{"word/document.xml": "<w:document><w:body><w:p>"})

	_, err := New().Extract(context.Background(), path, domain.DocumentTypeWord)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_UnsupportedType(t *testing.T) {
	engine := New()
	tests := []struct {
		name    string
		file    string
		docType domain.DocumentType
	}{
		{"legacy excel", "book.xls", domain.DocumentTypeExcel},
		{"legacy presentation", "deck.ppt", domain.DocumentTypePowerPoint},
		{"legacy word", "report.doc", domain.DocumentTypeWord},
		{"image", "scan.png", domain.DocumentTypeImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, "data")
			_, err := engine.Extract(context.Background(), path, tt.docType)
			assert.ErrorIs(t, err, domain.ErrUnsupportedType)
		})
	}
}

func TestExtract_InvalidUTF8(t *testing.T) {
	path := writeFile(t, "bad.txt", "caf\xe9")

	_, err := New().Extract(context.Background(), path, domain.DocumentTypeText)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := New().Extract(context.Background(), filepath.Join(t.TempDir(), "none.txt"), domain.DocumentTypeText)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtract_CancelledContext(t *testing.T) {
	path := writeFile(t, "notes.txt", "text")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Extract(ctx, path, domain.DocumentTypeText)
	assert.ErrorIs(t, err, context.Canceled)
}
