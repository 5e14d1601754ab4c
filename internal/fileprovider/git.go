// git.go implements Provider over a single immutable commit of a cloned git
// repository, the Go-native replacement for the original Rust implementation's
// libgit2 (`git2`) bindings (original_source/src/fs/git.rs). Every immutable
// commit is a distinct, cacheable configuration snapshot — see
// internal/dagcache for the per-commit cache built on top of this.
package fileprovider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"unicode/utf8"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"go.uber.org/zap"
)

var (
	gitURLRe      = regexp.MustCompile(`^(https?://|git://|ssh://|git@[\w.-]+:).+$`)
	commitHashRe  = regexp.MustCompile(`^[0-9a-fA-F]{7,40}$`)
)

// IsValidGitURL reports whether s looks like a clonable git remote.
func IsValidGitURL(s string) bool { return gitURLRe.MatchString(s) }

// IsValidCommitHash reports whether s could plausibly be a git object id —
// 7 to 40 hex characters, the same bound the original source used for
// short-vs-full SHAs.
func IsValidCommitHash(s string) bool { return commitHashRe.MatchString(s) }

// Creds carries basic-auth credentials for cloning/fetching a private
// remote. Populated from Vault-resolved config; see internal/vault.
type Creds struct {
	Username string
	Password string
}

// StorageDir returns the directory konf caches clones under. Overridable via
// KONF_GIT_DIR for tests and alternate deployments.
func StorageDir() string {
	if d := os.Getenv("KONF_GIT_DIR"); d != "" {
		return d
	}
	return "._git_storage"
}

// RepoCacheDir derives a stable, collision-resistant local path for a given
// remote URL so repeated calls reuse the same clone.
func RepoCacheDir(repoURL string) string {
	sum := sha256.Sum256([]byte(repoURL))
	return filepath.Join(StorageDir(), hex.EncodeToString(sum[:]))
}

// CloneOrFetch ensures the remote is cloned locally and up to date, cloning
// on first use and fetching thereafter. It is safe to call repeatedly, but
// nothing here serializes concurrent calls for the same repo;
// cmd/konfd-git calls it once at startup and then only from its single
// refresh goroutine.
func CloneOrFetch(ctx context.Context, repoURL, branch string, creds *Creds, log *zap.Logger) (*git.Repository, error) {
	if log == nil {
		log = zap.NewNop()
	}
	path := RepoCacheDir(repoURL)

	auth := basicAuth(creds)

	if _, err := os.Stat(path); err == nil {
		repo, err := git.PlainOpen(path)
		if err != nil {
			return nil, fmt.Errorf("open cached clone %s: %w", path, err)
		}
		remote, err := repo.Remote("origin")
		if err != nil {
			return nil, fmt.Errorf("origin remote: %w", err)
		}
		log.Debug("fetching updates", zap.String("repo", repoURL))
		err = remote.FetchContext(ctx, &git.FetchOptions{Auth: auth, RemoteName: "origin"})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil, fmt.Errorf("fetch %s: %w", repoURL, err)
		}
		return repo, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", path, err)
	}
	log.Info("cloning repository", zap.String("repo", repoURL))
	opts := &git.CloneOptions{
		URL:        repoURL,
		Auth:       auth,
		NoCheckout: true,
	}
	if branch != "" {
		// Fetch still pulls every ref (ListCommitHashes needs the full
		// set), but this points the clone's HEAD at the configured
		// branch rather than whatever the remote's default happens to be.
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}
	repo, err := git.PlainCloneContext(ctx, path, true, opts)
	if err != nil {
		return nil, fmt.Errorf("clone %s: %w", repoURL, err)
	}
	return repo, nil
}

func basicAuth(creds *Creds) *http.BasicAuth {
	if creds == nil || creds.Username == "" {
		return nil
	}
	return &http.BasicAuth{Username: creds.Username, Password: creds.Password}
}

// ListCommitHashes walks every reachable commit in the repository (all refs),
// the source of the atomically-swapped "known commits" set a DagEntry cache
// checks before doing any per-commit work (spec.md §4.7).
func ListCommitHashes(repo *git.Repository) (map[string]struct{}, error) {
	refs, err := repo.References()
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Hash().IsZero() {
			return nil
		}
		commitIter, err := repo.Log(&git.LogOptions{From: ref.Hash()})
		if err != nil {
			return nil // non-commit ref (e.g. a tag object); skip
		}
		defer commitIter.Close()
		return commitIter.ForEach(func(c *object.Commit) error {
			seen[c.Hash.String()] = struct{}{}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return seen, nil
}

// Git is a Provider pinned to one commit of one locally-cloned repository.
type Git struct {
	repo   *git.Repository
	commit plumbing.Hash
}

// NewGit resolves commitHash against repo and returns a Provider scoped to
// that commit's tree. The commit must already exist locally (callers resolve
// and validate it is known before constructing a Git provider).
func NewGit(repo *git.Repository, commitHash string) (*Git, error) {
	hash := plumbing.NewHash(commitHash)
	if _, err := repo.CommitObject(hash); err != nil {
		return nil, fmt.Errorf("commit %q not found: %w", commitHash, err)
	}
	return &Git{repo: repo, commit: hash}, nil
}

func (g *Git) tree() (*object.Tree, error) {
	commit, err := g.repo.CommitObject(g.commit)
	if err != nil {
		return nil, err
	}
	return commit.Tree()
}

func (g *Git) List(ctx context.Context) ([]DirEntry, error) {
	tree, err := g.tree()
	if err != nil {
		return nil, err
	}
	var entries []DirEntry
	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()
	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		name, te, err := walker.Next()
		if err != nil {
			break
		}
		if te.Mode.IsFile() {
			entry, ok := entryFromRelative(name, name)
			if ok {
				entries = append(entries, entry)
			}
		}
	}
	return entries, nil
}

func (g *Git) Load(ctx context.Context, fullPath string) (string, bool, error) {
	if ctx.Err() != nil {
		return "", false, ctx.Err()
	}
	tree, err := g.tree()
	if err != nil {
		return "", false, err
	}
	file, err := tree.File(fullPath)
	if err != nil {
		return "", false, nil
	}
	contents, err := file.Contents()
	if err != nil {
		return "", false, nil
	}
	if !utf8.ValidString(contents) {
		// binary/non-UTF8 blob: treat as "not present" per spec.md §4.1.
		return "", false, nil
	}
	return contents, true, nil
}
