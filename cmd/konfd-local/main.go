// Command konfd-local serves or renders configuration documents from a
// local directory tree, the local-filesystem deployment shape of
// spec.md §1. It has two subcommands:
//
//	konfd-local serve --root <dir> [--listen :8080]
//	konfd-local render --root <dir> --key <doc> --format yaml
//
// "serve" is a thin example host: it owns the DAG, reloads it on SIGHUP,
// and exposes GET /render/{format}/{key} for ad-hoc inspection. Full HTTP
// route dispatch and status-code mapping are out of scope (spec.md §1);
// this is deliberately minimal, not a production API surface.
// "render" is grounded on original_source/src/render_cli.rs's one-shot
// CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/konflab/konf/internal/dag"
	"github.com/konflab/konf/internal/fileprovider"
	"github.com/konflab/konf/internal/loader"
	"github.com/konflab/konf/internal/logger"
	"github.com/konflab/konf/internal/middleware"
	"github.com/konflab/konf/internal/server"
	"github.com/konflab/konf/internal/template"
	"github.com/konflab/konf/internal/writer"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: konfd-local <serve|render> [flags]")
		os.Exit(2)
	}

	switch os.Args[1] {
	case "serve":
		runServe(os.Args[2:])
	case "render":
		runRender(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		os.Exit(2)
	}
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	root := fs.String("root", ".", "local directory containing configuration documents")
	listen := fs.String("listen", ":8080", "listen address")
	tee := fs.Bool("tee", true, "also log to stdout")
	_ = fs.Parse(args)

	log, err := logger.New(*root, *tee)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	provider := fileprovider.NewLocal(*root, log)

	resolver := template.NewResolver(nil, log)
	d, err := dag.New(ctx, provider, loader.Default(), resolver, log)
	if err != nil {
		log.Fatal("dag init failed", zap.Error(err))
	}

	mw := writer.Default()

	r := chi.NewRouter()
	r.Use(middleware.Security)
	r.Get("/render/{format}/*", func(w http.ResponseWriter, req *http.Request) {
		format := chi.URLParam(req, "format")
		key := chi.URLParam(req, "*")

		rendered, err := d.GetRendered(req.Context(), key)
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

	srv := server.New(*listen, r)

	go watchReload(d, log)

	log.Info("konfd-local listening", zap.String("addr", *listen), zap.String("root", *root))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("http server", zap.Error(err))
	}
}

// watchReload reloads the DAG on SIGHUP, the conventional Unix signal for
// "re-read your configuration."
func watchReload(d *dag.DAG, log *zap.Logger) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP)
	for range sig {
		log.Info("reload signal received")
		if err := d.Reload(context.Background()); err != nil {
			log.Error("reload failed", zap.Error(err))
			continue
		}
		log.Info("reload complete")
	}
}

func runRender(args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	root := fs.String("root", ".", "local directory containing configuration documents")
	key := fs.String("key", "", "document key to render (path without extension)")
	format := fs.String("format", "yaml", "output format: yaml|json|toml|env|docker-env|properties")
	_ = fs.Parse(args)

	if *key == "" {
		fmt.Fprintln(os.Stderr, "render: --key is required")
		os.Exit(2)
	}

	log := zap.NewNop()
	ctx := context.Background()

	provider := fileprovider.NewLocal(*root, log)

	resolver := template.NewResolver(nil, log)
	d, err := dag.New(ctx, provider, loader.Default(), resolver, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configs from %s: %v\n", *root, err)
		os.Exit(1)
	}

	rendered, err := d.GetRendered(ctx, *key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to render %q: %v\n", *key, err)
		os.Exit(1)
	}

	out, err := writer.Default().Write(*format, rendered)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to serialize to %s: %v\n", *format, err)
		os.Exit(1)
	}
	fmt.Println(out)
}
