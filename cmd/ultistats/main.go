// Command ultistats builds season statistics from game-day CSV exports and
// serves them over HTTP.
//
// Usage:
//
//	ultistats process                          # aggregate the default archive
//	ultistats process --zip games.zip --workbook
//	ultistats process --remote <folder-id> --recursive
//	ultistats serve --addr :8080
//
// Configuration is read from ultistats.yaml (or --config) and ULTISTATS_*
// environment variables. A .env file in the working directory is loaded first.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kevindiazor/ThePUL/internal/config"
)

// rootOptions are the flags shared by every subcommand
type rootOptions struct {
	configFile string
	workDir    string
}

// load reads the configuration and applies the shared overrides
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}
	if o.workDir != "" {
		cfg.WorkDir = o.workDir
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Ultimate frisbee season statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&opts.workDir, "workdir", "", "working directory for data and output files")

	root.AddCommand(processCmd(opts))
	root.AddCommand(serveCmd(opts))
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", config.AppName, config.AppVersion)
		},
	}
}

func main() {
	_ = godotenv.Load(".env")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
