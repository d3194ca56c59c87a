package domain

import (
	"path/filepath"
	"strings"
)

// RawExtraction is one engine's output for one document.
// It is the engine's output before any scoring, merging or curation.
type RawExtraction struct {
	// EngineID identifies the producing engine. Unique per run only.
	EngineID string `json:"engine_id"`

	// Text is the full extracted plain text, possibly empty.
	Text string `json:"text,omitempty"`

	// Pages holds per-page sub-records for paginated documents.
	Pages []Page `json:"pages,omitempty"`

	// Sheets holds per-sheet sub-records for spreadsheets.
	Sheets []Sheet `json:"sheets,omitempty"`

	// Slides holds per-slide sub-records for presentations.
	Slides []Slide `json:"slides,omitempty"`

	// Tables holds tabular extracts independent of page grouping.
	Tables []Table `json:"tables,omitempty"`

	// Metadata contains engine-specific key-value pairs.
	Metadata map[string]any `json:"metadata,omitempty"`

	// Error describes an engine failure. A non-empty Error makes the
	// extraction invalid: it never contributes text, tables or metadata.
	Error string `json:"error,omitempty"`

	// ProcessingTime is a timestamp or duration reported by the engine.
	// Advisory only.
	ProcessingTime any `json:"processing_time,omitempty"`
}

// IsValid reports whether the extraction carries no engine error.
func (r *RawExtraction) IsValid() bool {
	return r.Error == ""
}

// HasTables reports whether the extraction produced tables or sheets.
func (r *RawExtraction) HasTables() bool {
	return len(r.Tables) > 0 || len(r.Sheets) > 0
}

// HasMetadata reports whether the extraction produced any metadata.
func (r *RawExtraction) HasMetadata() bool {
	return len(r.Metadata) > 0
}

// Page is a single page of a paginated document.
type Page struct {
	Number int     `json:"page_number,omitempty"`
	Text   string  `json:"text"`
	Tables []Table `json:"tables,omitempty"`
}

// Slide is a single slide of a presentation.
type Slide struct {
	Number int     `json:"slide_number,omitempty"`
	Text   string  `json:"text"`
	Tables []Table `json:"tables,omitempty"`
}

// Sheet is a single worksheet of a spreadsheet.
type Sheet struct {
	Name string  `json:"sheet_name,omitempty"`
	Text string  `json:"text,omitempty"`
	Data [][]any `json:"data,omitempty"`
}

// Table is a tabular extract: rows of cells.
type Table struct {
	Page   int        `json:"page,omitempty"`
	Header []string   `json:"header,omitempty"`
	Rows   [][]string `json:"rows"`
}

// DocumentType is the declared kind of an input document.
type DocumentType string

// Supported document types.
const (
	DocumentTypePDF        DocumentType = "pdf"
	DocumentTypeWord       DocumentType = "word"
	DocumentTypeExcel      DocumentType = "excel"
	DocumentTypePowerPoint DocumentType = "powerpoint"
	DocumentTypeText       DocumentType = "text"
	DocumentTypeImage      DocumentType = "image"
)

// MaxDocumentSize is the largest document accepted for processing (100 MB).
const MaxDocumentSize int64 = 100 * 1024 * 1024

// documentExtensions maps document types to their file extensions.
var documentExtensions = map[DocumentType][]string{
	DocumentTypePDF:        {".pdf"},
	DocumentTypeWord:       {".doc", ".docx"},
	DocumentTypeExcel:      {".xls", ".xlsx", ".xlsm"},
	DocumentTypePowerPoint: {".ppt", ".pptx"},
	DocumentTypeText:       {".txt", ".md"},
	DocumentTypeImage:      {".png", ".jpg", ".jpeg", ".gif", ".bmp"},
}

// DetectDocumentType returns the document type for a file path based on its extension.
func DetectDocumentType(path string) (DocumentType, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for docType, exts := range documentExtensions {
		for _, e := range exts {
			if e == ext {
				return docType, nil
			}
		}
	}
	return "", ErrUnsupportedType
}

// IsValid returns true if the document type is recognised.
func (t DocumentType) IsValid() bool {
	_, ok := documentExtensions[t]
	return ok
}

// String returns the string representation.
func (t DocumentType) String() string {
	return string(t)
}

// Extensions returns the file extensions accepted for this document type.
func (t DocumentType) Extensions() []string {
	return documentExtensions[t]
}
