package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/secondbrain/brain-server/internal/config"
	"github.com/secondbrain/brain-server/internal/di"
)

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	dataPath    string
	storeDriver string
	envFile     string
	jsonOutput  bool
}

// NewRootCmd creates the root command for brainctl.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "brainctl",
		Short: "Inspect a brain server data directory",
		Long: `brainctl opens the store of a brain server directly to list users,
tags and content, and to check session tokens.

The Badger backend allows a single process at a time, so stop the
server before inspecting a Badger data directory.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.dataPath, "data-path", "", "data directory (default: DATA_PATH or ~/SecondBrain/data)")
	flags.StringVar(&opts.storeDriver, "store-driver", "", "store backend: badger or sqlite (default: STORE_DRIVER or badger)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "path to .env file")
	flags.BoolVar(&opts.jsonOutput, "json", false, "output as JSON")

	cmd.AddCommand(newUsersCmd(opts))
	cmd.AddCommand(newTagsCmd(opts))
	cmd.AddCommand(newContentCmd(opts))
	cmd.AddCommand(newTokenCmd(opts))

	return cmd
}

// loadConfig resolves the server configuration the same way the server
// does, with the CLI flags taking precedence.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	args := []string{"-env-file", o.envFile, "-log-level", "error"}
	if o.dataPath != "" {
		args = append(args, "-data-path", o.dataPath)
	}
	if o.storeDriver != "" {
		args = append(args, "-store-driver", o.storeDriver)
	}
	return config.Load(args)
}

// withContainer runs fn against a bootstrapped container and shuts it
// down afterwards, releasing the store.
func withContainer(opts *globalOptions, fn func(do.Injector) error) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	injector := di.NewContainerWithConfig(cfg)
	defer func() { _ = injector.Shutdown() }()

	if err := di.Bootstrap(injector); err != nil {
		return fmt.Errorf("open data directory %s: %w", cfg.Storage.DataPath, err)
	}

	return fn(injector)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
