package main

import (
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ibeckermayer/lunchbot/internal/menu"
)

var (
	dumpPages int
	dumpDir   string
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Archive past posts and write menu posts as corpus files",
	Long: `Walks back through the page's posts, classifies them and archives them
in the store. Menu posts are also written to --dir as YYMMDD-kind.txt, for
use as regression data. Existing files are not overwritten.`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().IntVar(&dumpPages, "pages", 10, "number of pages of posts to fetch")
	dumpCmd.Flags().StringVar(&dumpDir, "dir", "historical", "directory for corpus files, empty to skip them")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx, cmd, needs{fetch: true})
	if err != nil {
		return err
	}
	defer e.close()

	counts, err := e.app.Dump(ctx, dumpPages, dumpDir)
	for _, kind := range slices.Sorted(maps.Keys(counts)) {
		name := string(kind)
		if kind == menu.KindNone {
			name = "other"
		}
		cmd.Printf("%-10s %d\n", name, counts[kind])
	}
	return err
}
