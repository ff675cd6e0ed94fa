package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags "-X github.com/Ramsey-B/fern/internal/cli.Version=..."
var Version = "dev"

func Execute() {
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

type globalFlags struct {
	envFiles   []string
	logLevel   string
	prettyLogs bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "fern",
		Short:         "Clean up CRM account hierarchies by email domain",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringSliceVar(&g.envFiles, "env-file", []string{".env"}, "dotenv files to load before reading the environment")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug|info|warn|error (overrides LOG_LEVEL)")
	cmd.PersistentFlags().BoolVar(&g.prettyLogs, "pretty-logs", false, "human readable logs (overrides PRETTY_LOGS)")

	cmd.AddCommand(resolveCmd(g))
	cmd.AddCommand(versionCmd())
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the fern version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("fern " + Version)
		},
	}
}
