package cli

import (
	"github.com/spf13/cobra"

	"github.com/mvp-joe/blobtags/internal/sink"
	"github.com/mvp-joe/blobtags/internal/tagdb"
)

var lookupGlob bool

// lookupCmd prints the records for a symbol name
var lookupCmd = &cobra.Command{
	Use:   "lookup DB NAME",
	Short: "Look up symbols by basic name in a tag database",
	Long: `Lookup prints every record whose basic name is NAME, in the same
tab-separated format the extractor writes, ordered by path and line.

Examples:
  blobtags lookup tags.db main
  blobtags lookup --glob tags.db 'parse*'
`,
	Args: cobra.ExactArgs(2),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().BoolVar(&lookupGlob, "glob", false, "treat NAME as a glob pattern")
}

func runLookup(cmd *cobra.Command, args []string) error {
	db, err := tagdb.Open(args[0])
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.Lookup(args[1], lookupGlob)
	if err != nil {
		return err
	}

	out := sink.NewWriterSink(cmd.OutOrStdout())
	for _, r := range records {
		if err := out.Write(r); err != nil {
			return err
		}
	}
	return out.Close()
}
