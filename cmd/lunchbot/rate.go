package main

import (
	"github.com/spf13/cobra"
)

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Rate archived menus from 0 to 100",
	Long: `Prompts for a rating of every archived daily menu that has none yet.
End the session with Ctrl-D; answers given so far are kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup(cmd.Context(), cmd, needs{})
		if err != nil {
			return err
		}
		defer e.close()
		return e.app.Rate(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(rateCmd)
}
