// Package engine builds the configured extraction engines.
package engine

import (
	"github.com/custodia-labs/docfuse/internal/adapters/driven/engine/command"
	"github.com/custodia-labs/docfuse/internal/adapters/driven/engine/native"
	"github.com/custodia-labs/docfuse/internal/adapters/driven/engine/vision"
	"github.com/custodia-labs/docfuse/internal/core/domain"
	"github.com/custodia-labs/docfuse/internal/core/ports/driven"
)

// FromSettings creates one engine per configured entry, in order.
// Entries named domain.NativeEngine or domain.VisionEngine without a command
// select the built-in engines. Every other entry runs an external command.
func FromSettings(settings []domain.EngineSettings) ([]driven.Engine, error) {
	engines := make([]driven.Engine, 0, len(settings))
	for _, cfg := range settings {
		if cfg.IsNative() {
			engines = append(engines, native.New())
			continue
		}
		if cfg.IsVision() {
			engines = append(engines, vision.New(cfg))
			continue
		}
		e, err := command.New(cfg)
		if err != nil {
			return nil, err
		}
		engines = append(engines, e)
	}
	return engines, nil
}
