package robotsls

import (
	"context"
	"os"
	"os/signal"

	"github.com/kralicky/robotsls/pkg/robotsls/commands"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
func BuildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "robotsls",
		Short:        "robots.txt Language Server",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(commands.BuildCheckCmd())
	rootCmd.AddCommand(commands.BuildFmtCmd())
	rootCmd.AddCommand(commands.BuildServeCmd())
	//+cobra:subcommands

	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, ca := signal.NotifyContext(context.Background(), os.Interrupt)
	defer ca()
	if err := BuildRootCmd().ExecuteContext(ctx); err != nil {
		ca()
		os.Exit(1)
	}
}
