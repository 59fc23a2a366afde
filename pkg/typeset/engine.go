// Package typeset provides the delegates that turn math source into markup.
//
// An Engine never fails: malformed math yields best-effort markup so a
// single bad formula cannot abort a whole document.
package typeset

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gomdmath/pkg/config"
)

// ErrUnknownEngine is returned by New for unrecognized engine names.
var ErrUnknownEngine = errors.New("unknown typesetting engine")

// Engine converts math source into markup.
type Engine interface {
	// Render typesets content. displayMode selects display (block) math.
	Render(content string, displayMode bool) string
}

// EngineFunc adapts a plain function to the Engine interface.
type EngineFunc func(content string, displayMode bool) string

// Render calls f.
func (f EngineFunc) Render(content string, displayMode bool) string {
	return f(content, displayMode)
}

// New builds the engine described by cfg. A nil logger uses the
// charmbracelet default logger.
func New(cfg config.EngineConfig, logger *log.Logger) (Engine, error) {
	var engine Engine

	switch cfg.Name {
	case config.EngineKaTeX, "":
		cmd := NewCommand(cfg.Command, cfg.Args...)
		cmd.Timeout = cfg.Timeout
		cmd.Logger = logger
		engine = cmd
	case config.EnginePlain:
		engine = Escaped{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.Name)
	}

	if cfg.CacheEnabled() {
		engine = NewMemo(engine)
	}

	return engine, nil
}
