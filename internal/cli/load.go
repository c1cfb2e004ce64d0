package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/blobtags/internal/tagdb"
)

var loadPattern string

// loadCmd imports batch output files into a tag database
var loadCmd = &cobra.Command{
	Use:   "load DB OUTDIR",
	Short: "Load worker output files into a SQLite tag database",
	Long: `Load reads every file in OUTDIR whose name matches --pattern (by default
the output-* files written by batch workers) into the symbols table of DB.
Reloading a file replaces the rows previously loaded from it.

Examples:
  blobtags load tags.db /shared/tags
  blobtags load --pattern 'output-host1-*' tags.db /shared/tags
`,
	Args: cobra.ExactArgs(2),
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringVar(&loadPattern, "pattern", tagdb.DefaultPattern, "glob matching output file names")
}

func runLoad(cmd *cobra.Command, args []string) error {
	db, err := tagdb.Open(args[0])
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.LoadDir(args[1], loadPattern)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	if verbose {
		logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
		for _, f := range stats.Files {
			logger.Printf("Loaded %s", f)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s records from %d files\n", formatNumber(stats.Records), len(stats.Files))
	return nil
}
