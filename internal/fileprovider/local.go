// local.go implements Provider over a local directory tree, grounded on the
// teacher's recursive `tokio::fs` walker shape (original_source/src/fs/local.rs)
// translated to Go's os/filepath walk idiom.
package fileprovider

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Local recursively walks Root, emitting only regular files. A symlink to a
// regular file is followed and listed; a symlink to a directory is not
// descended into. Unreadable files are skipped with a warning, never
// surfaced as a List error — matching spec.md §4.1.
type Local struct {
	Root string
	Log  *zap.Logger
}

// NewLocal returns a Local provider rooted at dir. log may be nil, in which
// case a no-op logger is used.
func NewLocal(dir string, log *zap.Logger) *Local {
	if log == nil {
		log = zap.NewNop()
	}
	return &Local{Root: dir, Log: log}
}

func (l *Local) List(ctx context.Context) ([]DirEntry, error) {
	var entries []DirEntry
	err := filepath.Walk(l.Root, func(path string, info os.FileInfo, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			l.Log.Warn("walk error, skipping", zap.String("path", path), zap.Error(err))
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			// filepath.Walk reports the symlink's own (Lstat) info, so a
			// symlinked file reads as non-regular unless we stat the
			// target ourselves.
			target, err := os.Stat(path)
			if err != nil {
				l.Log.Warn("unresolvable symlink, skipping", zap.String("path", path), zap.Error(err))
				return nil
			}
			info = target
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(l.Root, path)
		if err != nil {
			l.Log.Warn("cannot relativize path, skipping", zap.String("path", path), zap.Error(err))
			return nil
		}

		entry, ok := entryFromRelative(rel, path)
		if !ok {
			return nil
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (l *Local) Load(ctx context.Context, fullPath string) (string, bool, error) {
	if ctx.Err() != nil {
		return "", false, ctx.Err()
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		l.Log.Warn("unreadable file, skipping", zap.String("path", fullPath), zap.Error(err))
		return "", false, nil
	}
	return string(data), true, nil
}

// entryFromRelative builds a DirEntry from a path relative to a provider's
// root, normalizing separators to "/" and stripping the extension to form
// the document key. Empty keys (a bare ".yaml" at the root) are rejected.
func entryFromRelative(rel string, fullPath string) (DirEntry, bool) {
	slashRel := filepath.ToSlash(rel)
	ext := strings.TrimPrefix(filepath.Ext(slashRel), ".")
	key := strings.TrimSuffix(slashRel, filepath.Ext(slashRel))
	if key == "" {
		return DirEntry{}, false
	}
	return DirEntry{Key: key, FullPath: fullPath, Ext: ext}, true
}
