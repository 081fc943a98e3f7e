package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/privcheck/internal/api"
	"github.com/abhisek/privcheck/internal/app"
	"github.com/abhisek/privcheck/internal/coach"
	"github.com/abhisek/privcheck/internal/llm"
	"github.com/abhisek/privcheck/internal/screens/home"
	"github.com/abhisek/privcheck/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger := newLogger(cfg)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	opts := app.Options{Deps: home.Deps{Store: st, Logger: logger}}

	if llmCfg, ok := llm.ResolveConfig(); ok {
		provider, err := llm.NewProvider(ctx, llmCfg, st.EventRepo(), logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Personalized tips will be unavailable.")
		} else {
			opts.Coach = coach.New(provider, coach.DefaultConfig(), logger)
		}
	}

	if cfg.Remote() {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		checkRemote(ctx, client, cfg.API.URL, os.Stderr)
		opts.Remote = client
		opts.Identity = cfg.Identity()
		if u, err := url.Parse(cfg.API.URL); err == nil {
			opts.RemoteLabel = u.Host
		}
	}

	return app.Run(opts)
}

func openStore() (*store.Store, error) {
	dbPath, err := cfg.DBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

func newAPIClient() (*api.Client, error) {
	return api.NewClient(cfg.API.URL,
		api.WithToken(cfg.API.Token),
		api.WithUserID(cfg.API.User),
		api.WithTimeout(cfg.API.Timeout),
	)
}

// healthTimeout bounds the reachability check before the TUI starts.
const healthTimeout = 5 * time.Second

// checkRemote warns when the assessment service does not answer. The TUI
// still starts: every remote step reports its own error and can be retried.
func checkRemote(ctx context.Context, client *api.Client, baseURL string, w io.Writer) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := client.Health(ctx); err != nil {
		fmt.Fprintf(w, "Assessment service at %s is not reachable: %v\n", baseURL, err)
		return false
	}
	return true
}
