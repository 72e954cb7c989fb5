package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sweetshop/sweet-shop/internal/client"
)

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sweets, err := a.client.List(cmd.Context())
			if err != nil {
				return err
			}
			return printSweets(a.out, sweets)
		},
	}
	return withAccess(cmd, client.RequiresAuth)
}

func newSearchCmd(a *app) *cobra.Command {
	var f client.Filter
	var minPrice, maxPrice float64
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("min-price") {
				f.MinPrice = &minPrice
			}
			if cmd.Flags().Changed("max-price") {
				f.MaxPrice = &maxPrice
			}
			sweets, err := a.client.Search(cmd.Context(), f)
			if err != nil {
				return err
			}
			return printSweets(a.out, sweets)
		},
	}
	cmd.Flags().StringVar(&f.Name, "name", "", "name contains (any case)")
	cmd.Flags().StringVar(&f.Category, "category", "", "exact category")
	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "minimum price")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "maximum price")
	return withAccess(cmd, client.RequiresAuth)
}

func newPurchaseCmd(a *app) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "purchase ID",
		Short: "Buy one unit of a sweet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := a.client.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			bought, err := a.client.Purchase(cmd.Context(), item, key)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "purchased 1 x %s, %d left\n", bought.Name, bought.Quantity)
			return err
		},
	}
	cmd.Flags().StringVar(&key, "idempotency-key", "", "deduplicates a retried purchase")
	return withAccess(cmd, client.RequiresAuth)
}
