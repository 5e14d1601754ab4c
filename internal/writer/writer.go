// Package writer serializes a rendered value.Value tree to one of six wire
// formats, grounded on original_source/src/writer/*.rs: one ValueWriter
// per format tag, registered in a MultiWriter the way loader.MultiLoader
// dispatches by extension.
package writer

import (
	"errors"
	"fmt"

	"github.com/konflab/konf/internal/value"
)

// ValueWriter serializes a rendered value to one output format.
type ValueWriter interface {
	Tag() string
	Write(v value.Value) (string, error)
}

// Error is a format-tagged write failure, per spec.md §6's "writer errors
// surface as a format-tagged error."
type Error struct {
	Format  string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("writer %s: %s", e.Format, e.Message)
}

// ErrUnknownFormat is returned when no writer is registered for a tag.
var ErrUnknownFormat = errors.New("writer: unknown format")

// MultiWriter dispatches by format tag to a registered ValueWriter.
type MultiWriter struct {
	writers map[string]ValueWriter
}

// Default returns a MultiWriter carrying all six built-in writers.
func Default() *MultiWriter {
	mw := &MultiWriter{writers: make(map[string]ValueWriter, 6)}
	mw.Register(YAML{})
	mw.Register(JSON{})
	mw.Register(TOML{})
	mw.Register(Env{})
	mw.Register(DockerEnv{})
	mw.Register(Properties{})
	return mw
}

// Register adds or replaces a ValueWriter under its own Tag.
func (mw *MultiWriter) Register(w ValueWriter) {
	mw.writers[w.Tag()] = w
}

// Write dispatches v to the writer registered under tag.
func (mw *MultiWriter) Write(tag string, v value.Value) (string, error) {
	w, ok := mw.writers[tag]
	if !ok {
		return "", ErrUnknownFormat
	}
	return w.Write(v)
}
