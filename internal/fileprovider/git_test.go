package fileprovider

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// newTestRepo creates a local git repository under a temp dir, commits one
// file, and returns the opened repository plus the commit hash.
func newTestRepo(t *testing.T) (*git.Repository, string) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "app.yaml"), []byte("name: app\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := wt.Add("app.yaml"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	sig := &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()}
	hash, err := wt.Commit("initial", &git.CommitOptions{Author: sig})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return repo, hash.String()
}

func TestIsValidCommitHash(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"abc1234", true},
		{"0123456789abcdef0123456789abcdef012345678", false}, // 41 chars, too long
		{"not-hex!", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsValidCommitHash(c.in); got != c.want {
			t.Fatalf("IsValidCommitHash(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIsValidGitURL(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"https://github.com/example/repo.git", true},
		{"git@github.com:example/repo.git", true},
		{"/local/path", false},
		{"not a url", false},
	}
	for _, c := range cases {
		if got := IsValidGitURL(c.in); got != c.want {
			t.Fatalf("IsValidGitURL(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNewGitRejectsUnknownCommit(t *testing.T) {
	repo, _ := newTestRepo(t)
	if _, err := NewGit(repo, "0000000000000000000000000000000000000000"); err == nil {
		t.Fatalf("expected an error resolving a nonexistent commit")
	}
}

func TestGitProviderListAndLoad(t *testing.T) {
	repo, hash := newTestRepo(t)
	g, err := NewGit(repo, hash)
	if err != nil {
		t.Fatalf("NewGit: %v", err)
	}

	entries, err := g.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].FullPath != "app.yaml" {
		t.Fatalf("got entries %+v, want one entry for app.yaml", entries)
	}

	content, ok, err := g.Load(context.Background(), "app.yaml")
	if err != nil || !ok {
		t.Fatalf("Load: content=%q ok=%v err=%v", content, ok, err)
	}
	if content != "name: app\n" {
		t.Fatalf("got %q, want name: app\\n", content)
	}
}

func TestGitProviderLoadMissingFile(t *testing.T) {
	repo, hash := newTestRepo(t)
	g, err := NewGit(repo, hash)
	if err != nil {
		t.Fatalf("NewGit: %v", err)
	}
	_, ok, err := g.Load(context.Background(), "missing.yaml")
	if err != nil {
		t.Fatalf("Load should not error for a missing file, got %v", err)
	}
	if ok {
		t.Fatalf("Load should report ok=false for a missing file")
	}
}

func TestGitProviderLoadRejectsNonUTF8Blob(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	// 0xff 0xfe is not valid UTF-8 in any position.
	if err := os.WriteFile(filepath.Join(dir, "bin.dat"), []byte{0xff, 0xfe, 0x00, 0x01}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := wt.Add("bin.dat"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	sig := &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()}
	hash, err := wt.Commit("binary", &git.CommitOptions{Author: sig})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	g, err := NewGit(repo, hash.String())
	if err != nil {
		t.Fatalf("NewGit: %v", err)
	}
	content, ok, err := g.Load(context.Background(), "bin.dat")
	if err != nil {
		t.Fatalf("Load should not error for a non-UTF-8 blob, got %v", err)
	}
	if ok {
		t.Fatalf("Load should report ok=false for a non-UTF-8 blob, got content=%q", content)
	}
}

func TestListCommitHashesFindsTheCommit(t *testing.T) {
	repo, hash := newTestRepo(t)
	known, err := ListCommitHashes(repo)
	if err != nil {
		t.Fatalf("ListCommitHashes: %v", err)
	}
	if _, ok := known[hash]; !ok {
		t.Fatalf("ListCommitHashes did not include the repository's only commit")
	}
}
