// Package file provides a directory-backed implementation of driven.ReportStore.
//
// Each report is written as <id>.json inside the reports directory. With
// WithMarkdown the store also writes a human-readable <id>.md next to it.
//
// By default, reports are stored in ~/.docfuse/reports.
package file
