package fileprovider

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLocalListWalksNestedDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app.yaml"), "name: app\n")
	writeFile(t, filepath.Join(root, "services", "api.yaml"), "port: 8080\n")

	l := NewLocal(root, nil)
	entries, err := l.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	sort.Strings(keys)
	want := []string{"app", "services/api"}
	if len(keys) != len(want) || keys[0] != want[0] || keys[1] != want[1] {
		t.Fatalf("got %v, want %v", keys, want)
	}
}

func TestLocalListStripsExtensionAndSetsExt(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app.yaml"), "name: app\n")

	l := NewLocal(root, nil)
	entries, err := l.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Key != "app" || entries[0].Ext != "yaml" {
		t.Fatalf("got %+v, want Key=app Ext=yaml", entries[0])
	}
}

func TestLocalLoadReadsFileContent(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "app.yaml")
	writeFile(t, path, "name: app\n")

	l := NewLocal(root, nil)
	content, ok, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok || content != "name: app\n" {
		t.Fatalf("got content=%q ok=%v", content, ok)
	}
}

func TestLocalListFollowsSymlinkedFile(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "real.yaml")
	writeFile(t, target, "name: linked\n")

	link := filepath.Join(root, "app.yaml")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported in this environment: %v", err)
	}

	l := NewLocal(root, nil)
	entries, err := l.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Key != "app" {
		t.Fatalf("got %+v, want a single entry for the symlinked file", entries)
	}

	content, ok, err := l.Load(context.Background(), entries[0].FullPath)
	if err != nil || !ok {
		t.Fatalf("Load: content=%q ok=%v err=%v", content, ok, err)
	}
	if content != "name: linked\n" {
		t.Fatalf("got %q, want name: linked\\n", content)
	}
}

func TestLocalLoadMissingFileIsNotAnError(t *testing.T) {
	root := t.TempDir()
	l := NewLocal(root, nil)
	_, ok, err := l.Load(context.Background(), filepath.Join(root, "missing.yaml"))
	if err != nil {
		t.Fatalf("Load should not error for a missing file, got %v", err)
	}
	if ok {
		t.Fatalf("Load should report ok=false for a missing file")
	}
}
