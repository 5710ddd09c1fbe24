package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/derickschaefer/storefront/internal/catalog"
	"github.com/derickschaefer/storefront/internal/model"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the details of one product",
	Long: `Fetch the catalog and print the full record of the product with the given id:
title, image, price, category, rating, description and available stock.
Missing fields are shown as N/A.`,
	Example: `  storefront show 1
  storefront show 7 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.Errorf("invalid product id %q: expected an integer", args[0])
		}

		deps, err := buildDeps()
		if err != nil {
			return err
		}

		start := time.Now()
		st, err := loadCatalog(cmd.Context(), deps)
		if err != nil {
			return err
		}
		p, err := st.Lookup(id)
		if err != nil {
			return err
		}
		if err := st.Apply(catalog.ProductSelected{Product: p}); err != nil {
			return err
		}

		open := st.Selection().(catalog.Open)
		result := newResult(model.KindProduct, fmt.Sprintf("show %d", id), open.Product, 1, start)
		result.Warnings = productWarnings(open.Product)
		return writeResult(cmd.OutOrStdout(), deps, result)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
