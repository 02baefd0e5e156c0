package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	clog "github.com/xrsl/careerflow/pkg/log"
	"github.com/xrsl/careerflow/pkg/style"
)

var (
	quiet   bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "careerflow",
	Short: "Guided career workflows with progress, outcomes and recommendations",
	Long: `careerflow walks you through multi-step career workflows: job applications,
interview prep, market research, skill development, personal branding and
document consistency.

It tracks step progress, records the outcome of every completed workflow and
recommends what to do next based on where you are.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		clog.SetVerbose(verbose)
		if quiet {
			clog.SetQuiet(true)
		}
	},
}

func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.C(style.Red, "error:"), err)
		os.Exit(1)
	}
}

func init() {
	// Setup Typer-style help formatting
	style.SetupHelp(rootCmd)

	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
