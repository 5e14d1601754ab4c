// Command konfd-git serves configuration documents out of a git
// repository, the git-backed deployment shape of spec.md §1: every commit
// is an immutable, independently cached configuration snapshot, and every
// read carries an opaque authorization token.
//
// Routes:
//
//	GET /render/{commit}/{format}/{key}?token=...
//
// Full HTTP route dispatch and status-code mapping are out of scope
// (spec.md §1); this wiring is deliberately minimal.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/konflab/konf/internal/config"
	"github.com/konflab/konf/internal/dagcache"
	"github.com/konflab/konf/internal/fileprovider"
	"github.com/konflab/konf/internal/loader"
	"github.com/konflab/konf/internal/logger"
	"github.com/konflab/konf/internal/middleware"
	"github.com/konflab/konf/internal/server"
	"github.com/konflab/konf/internal/writer"
)

func main() {
	fs := flag.NewFlagSet("konfd-git", flag.ExitOnError)
	logDir := fs.String("log-dir", ".", "directory under which ./log is created")
	tee := fs.Bool("tee", true, "also log to stdout")
	_ = fs.Parse(os.Args[1:])

	log, err := logger.New(*logDir, *tee)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}
	if cfg.Storage.Mode != config.StorageGit {
		log.Fatal("konfd-git requires storage.mode=git", zap.String("mode", string(cfg.Storage.Mode)))
	}

	ctx := context.Background()
	var creds *fileprovider.Creds
	if cfg.Storage.Git.AuthToken != "" {
		creds = &fileprovider.Creds{Username: "x-access-token", Password: cfg.Storage.Git.AuthToken}
	}

	repo, err := fileprovider.CloneOrFetch(ctx, cfg.Storage.Git.RepoURL, cfg.Storage.Git.Branch, creds, log)
	if err != nil {
		log.Fatal("clone/fetch failed", zap.Error(err))
	}

	cache, err := dagcache.New(repo, loader.Default(), log)
	if err != nil {
		log.Fatal("dagcache init failed", zap.Error(err))
	}

	mw := writer.Default()

	r := chi.NewRouter()
	r.Use(middleware.Security)
	r.Get("/render/{commit}/{format}/*", func(w http.ResponseWriter, req *http.Request) {
		commit := chi.URLParam(req, "commit")
		format := chi.URLParam(req, "format")
		key := chi.URLParam(req, "*")
		token := req.URL.Query().Get("token")

		entry, err := cache.Get(req.Context(), commit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if !entry.Authorizer.Authorize(key, token) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		rendered, err := entry.DAG.GetRendered(req.Context(), key)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		out, err := mw.Write(format, rendered)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, out)
	})

	srv := server.New(cfg.Server.ListenAddr, r)

	go watchRefresh(ctx, cache, cfg, log)

	log.Info("konfd-git listening", zap.String("addr", cfg.Server.ListenAddr), zap.String("repo", cfg.Storage.Git.RepoURL))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("http server", zap.Error(err))
	}
}

// watchRefresh re-clones/fetches and refreshes the known-commits set on
// SIGHUP, and periodically in the background, so new commits become
// servable without a process restart.
func watchRefresh(ctx context.Context, cache *dagcache.Cache, cfg *config.Config, log *zap.Logger) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP)

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-sig:
			log.Info("reload signal received")
		case <-ticker.C:
		}
		var creds *fileprovider.Creds
		if cfg.Storage.Git.AuthToken != "" {
			creds = &fileprovider.Creds{Username: "x-access-token", Password: cfg.Storage.Git.AuthToken}
		}
		if _, err := fileprovider.CloneOrFetch(ctx, cfg.Storage.Git.RepoURL, cfg.Storage.Git.Branch, creds, log); err != nil {
			log.Error("fetch failed", zap.Error(err))
			continue
		}
		if err := cache.RefreshCommits(); err != nil {
			log.Error("refresh commits failed", zap.Error(err))
			continue
		}
		log.Info("known commits refreshed")
	}
}
