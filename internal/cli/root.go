package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/blobtags/internal/config"
	"github.com/mvp-joe/blobtags/internal/runner"
)

var (
	cfgFile      string
	verbose      bool
	progressFlag bool
)

// rootCmd extracts symbols when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "blobtags BLOB | OUTDIR BLOB [BLOB ...]",
	Short: "Extract a flat symbol index from index blobs",
	Long: `blobtags reads per-translation-unit index blobs and prints one line per
externally visible declaration:

  basic-name <TAB> detailed-name <TAB> path <TAB> line <TAB> kind

With a single argument the blob's records go to standard output. With two or
more, the first argument is a directory shared by all workers and the records
of every following blob are appended to OUTDIR/output-$PROCESS_ID.

Examples:
  # Print the symbols of one blob
  blobtags cache/home@me@proj/src@main.cc.blob

  # Worker 7 of a distributed run
  PROCESS_ID=7 blobtags /shared/tags cache/proj/*.blob
`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runExtract,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command tree and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, runner.ErrUsage) {
			printUsage(stderr)
		} else {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	name := rootCmd.Name()
	fmt.Fprintln(w, "Expected at least one argument")
	fmt.Fprintf(w, "usage: %s BLOB\n", name)
	fmt.Fprintf(w, "or: %s OUTDIR BLOB [BLOB ...]\n", name)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.blobtags.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVar(&progressFlag, "progress", false, "show a progress bar on stderr in batch mode")
}

// loadConfig resolves configuration once per invocation.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.NewFileLoader(cfgFile).Load()
	}
	return config.LoadConfig()
}

func runExtract(cmd *cobra.Command, args []string) error {
	inv, err := runner.ParseArgs(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cmd.Flags().Changed("progress") {
		cfg.Output.Progress = progressFlag
	}

	logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
	opts := []runner.Option{
		runner.WithStdout(cmd.OutOrStdout()),
		runner.WithLogger(logger),
		runner.WithVerbose(verbose),
	}
	if cfg.Output.Progress {
		opts = append(opts, runner.WithProgress(NewCLIProgressReporter(cmd.ErrOrStderr())))
	}

	r, err := runner.New(cfg, opts...)
	if err != nil {
		return err
	}

	stats, err := r.Run(inv)
	if err != nil {
		return err
	}

	if verbose {
		logger.Printf("Extracted %d records from %d blobs in %.2fs (%s mode)",
			stats.Records, stats.Blobs, stats.ProcessingTime.Seconds(), inv.Mode)
	}
	return nil
}
