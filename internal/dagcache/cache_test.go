package dagcache

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"go.uber.org/zap"

	"github.com/konflab/konf/internal/loader"
)

// newTestRepo creates a local git repository with one commit and returns
// the opened repository plus the commit hash.
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

func TestGetRejectsMalformedHash(t *testing.T) {
	repo, _ := newTestRepo(t)
	c, err := New(repo, loader.Default(), zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Get(context.Background(), "not-a-hash!"); err != ErrUnknownCommit {
		t.Fatalf("got %v, want ErrUnknownCommit", err)
	}
}

func TestGetRejectsUnknownButWellFormedHash(t *testing.T) {
	repo, _ := newTestRepo(t)
	c, err := New(repo, loader.Default(), zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Get(context.Background(), "0000000000000000000000000000000000000000"); err != ErrUnknownCommit {
		t.Fatalf("got %v, want ErrUnknownCommit", err)
	}
}

func TestGetBuildsEntryForKnownCommit(t *testing.T) {
	repo, hash := newTestRepo(t)
	c, err := New(repo, loader.Default(), zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	entry, err := c.Get(context.Background(), hash)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry == nil || entry.DAG == nil || entry.Authorizer == nil {
		t.Fatalf("got incomplete entry: %+v", entry)
	}

	v, err := entry.DAG.GetRendered(context.Background(), "app")
	if err != nil {
		t.Fatalf("GetRendered: %v", err)
	}
	m, _ := v.AsMapping()
	name, _ := m["name"].AsString()
	if name != "app" {
		t.Fatalf("got %q, want app", name)
	}
}

func TestGetCoalescesConcurrentMisses(t *testing.T) {
	repo, hash := newTestRepo(t)
	c, err := New(repo, loader.Default(), zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	const n = 8
	entries := make([]*DagEntry, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			entries[i], errs[i] = c.Get(context.Background(), hash)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("Get[%d]: %v", i, errs[i])
		}
		if entries[i] != entries[0] {
			t.Fatalf("concurrent Get calls for the same commit should return the same entry pointer")
		}
	}
}

func TestRefreshCommitsPicksUpNewCommit(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("v: 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := wt.Add("a.yaml"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	sig := &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()}
	if _, err := wt.Commit("first", &git.CommitOptions{Author: sig}); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	c, err := New(repo, loader.Default(), zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("v: 2\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := wt.Add("a.yaml"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	second, err := wt.Commit("second", &git.CommitOptions{Author: sig})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if c.IsKnownCommit(second.String()) {
		t.Fatalf("the second commit should not be known before RefreshCommits")
	}
	if err := c.RefreshCommits(); err != nil {
		t.Fatalf("RefreshCommits: %v", err)
	}
	if !c.IsKnownCommit(second.String()) {
		t.Fatalf("the second commit should be known after RefreshCommits")
	}

	if _, err := c.Get(context.Background(), second.String()); err != nil {
		t.Fatalf("Get after refresh: %v", err)
	}
}
