package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/storefront/internal/model"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"category", "cats"},
	Short:   "List the category labels present in the catalog",
	Long: `Print "All" followed by each distinct product category, in the order the
categories first appear in the catalog.`,
	Example: `  storefront categories
  storefront categories --format jsonl`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}

		start := time.Now()
		st, err := loadCatalog(cmd.Context(), deps)
		if err != nil {
			return err
		}
		cats := st.Categories()
		result := newResult(model.KindCategories, "categories", cats, len(cats), start)
		return writeResult(cmd.OutOrStdout(), deps, result)
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
