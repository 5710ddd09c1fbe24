package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/storefront/internal/catalog"
	"github.com/derickschaefer/storefront/internal/model"
	"github.com/derickschaefer/storefront/internal/session"
)

var (
	listSearch   string
	listCategory string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the product grid, optionally searched and filtered",
	Long: `Fetch the catalog and print every product that matches the search text
and the category.

--search is matched case-insensitively against "<title> <category>".
--category must be one of the labels printed by 'storefront categories';
"All" (the default) disables category filtering.`,
	Example: `  storefront list
  storefront list --search shirt
  storefront list --category electronics --format json`,
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

		events := []catalog.Event{
			catalog.SearchChanged{Text: listSearch},
			catalog.SearchCommitted{},
		}
		if listCategory != "" {
			label, err := session.ResolveCategory(st.Categories(), listCategory)
			if err != nil {
				return err
			}
			events = append(events, catalog.CategorySelected{Label: label})
		}
		for _, ev := range events {
			if err := st.Apply(ev); err != nil {
				return err
			}
		}

		visible := st.Visible()
		result := newResult(model.KindProductList, fmt.Sprintf("list --search %q --category %q", st.SearchTerm(), st.CategoryFilter()),
			&model.ProductList{
				SearchTerm: st.SearchTerm(),
				Category:   st.CategoryFilter(),
				Products:   visible,
			}, len(visible), start)
		result.Warnings = listWarnings(st)
		return writeResult(cmd.OutOrStdout(), deps, result)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listSearch, "search", "", "search text matched against title and category")
	listCmd.Flags().StringVar(&listCategory, "category", "", `category label (default "All")`)
}
