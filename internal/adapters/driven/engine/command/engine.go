// Package command provides an extraction engine adapter that runs an
// external process per document.
//
// The process is invoked as
//
//	<command> <args...> <path> <document-type>
//
// and must write exactly one JSON RawExtraction to stdout. A non-zero exit,
// a timeout or output that does not decode is reported as an engine failure.
package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.Engine = (*Engine)(nil)

const (
	// DefaultTimeout bounds one extraction when the settings give none.
	DefaultTimeout = 2 * time.Minute

	// maxStderr is how much stderr is kept for error messages.
	maxStderr = 2048
)

// Engine runs an external extractor process.
type Engine struct {
	name    string
	command string
	args    []string
	timeout time.Duration
}

// New creates an engine from its settings.
func New(cfg domain.EngineSettings) (*Engine, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("%w: engine name is required", domain.ErrInvalidInput)
	}
	if cfg.Command == "" {
		return nil, fmt.Errorf("%w: engine %q has no command", domain.ErrInvalidInput, cfg.Name)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Engine{
		name:    cfg.Name,
		command: cfg.Command,
		args:    append([]string(nil), cfg.Args...),
		timeout: timeout,
	}, nil
}

// Name returns the engine identifier.
func (e *Engine) Name() string {
	return e.name
}

// Extract runs the process for one document and decodes its output.
func (e *Engine) Extract(ctx context.Context, path string, docType domain.DocumentType) (*domain.RawExtraction, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := append(append([]string(nil), e.args...), path, string(docType))
	cmd := exec.CommandContext(ctx, e.command, args...)
	cmd.WaitDelay = time.Second

	var stdout bytes.Buffer
	stderr := &tailBuffer{limit: maxStderr}
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("engine %s timed out after %s", e.name, e.timeout)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("engine %s: %w: %s", e.name, err, msg)
		}
		return nil, fmt.Errorf("engine %s: %w", e.name, err)
	}

	var result domain.RawExtraction
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &result); err != nil {
		return nil, fmt.Errorf("engine %s: decode output: %w", e.name, err)
	}
	if result.EngineID == "" {
		result.EngineID = e.name
	}
	return &result, nil
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	limit int
	buf   []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = b.buf[over:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	return string(b.buf)
}
