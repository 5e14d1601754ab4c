// Package loader parses raw document text of a declared extension into the
// internal value.Value tree, dispatching by extension (internal/value),
// grounded on original_source/src/loader.rs's Loader/MultiLoader traits.
package loader

import (
	"errors"

	"github.com/konflab/konf/internal/value"
)

// ErrParseFailed is returned when no registered Loader handles the
// requested extension, or the registered Loader cannot parse the text.
var ErrParseFailed = errors.New("loader: parse failed")

// Loader parses the content of one file extension into a value.Value.
type Loader interface {
	Ext() string
	Load(content string) (value.Value, error)
}

// MultiLoader dispatches to the first registered Loader whose Ext matches.
type MultiLoader struct {
	loaders []Loader
}

// New builds a MultiLoader from the given loaders, in priority order.
func New(loaders ...Loader) *MultiLoader {
	return &MultiLoader{loaders: loaders}
}

// Default returns a MultiLoader carrying the built-in YAML loader, the
// registration the spec calls "the default suite."
func Default() *MultiLoader {
	return New(&YAML{})
}

// Load dispatches by ext. Returns ErrParseFailed if no loader is registered
// for ext, or if the matched loader cannot parse content.
func (m *MultiLoader) Load(ext, content string) (value.Value, error) {
	for _, l := range m.loaders {
		if l.Ext() == ext {
			v, err := l.Load(content)
			if err != nil {
				return value.Value{}, ErrParseFailed
			}
			return v, nil
		}
	}
	return value.Value{}, ErrParseFailed
}
