package cmd

import (
	"github.com/spf13/cobra"

	"github.com/derickschaefer/storefront/internal/catalog"
	"github.com/derickschaefer/storefront/internal/session"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	Long: `Open an interactive catalog session.

The catalog is fetched once when the session starts; placeholder rows are shown
until it arrives. Typing 'search <text>' only fills the search box. Press Enter
on an empty line to apply it. Type 'help' inside the session for all commands.`,
	Example: `  storefront browse
  storefront browse --color never`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		deps.Logger.Debug("browse session started")

		s := session.New(catalog.New(), deps.NewLoader(), cmd.OutOrStdout(), deps.Logger)
		return s.Run(cmd.Context(), cmd.InOrStdin())
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
