package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sweetshop/sweet-shop/internal/client"
)

func newAddCmd(a *app) *cobra.Command {
	var in client.NewSweet
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a sweet to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.client.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printSweet(a.out, s)
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "sweet name")
	cmd.Flags().StringVar(&in.Category, "category", "", "category")
	cmd.Flags().Float64Var(&in.Price, "price", 0, "unit price")
	cmd.Flags().IntVar(&in.Quantity, "quantity", 0, "initial stock")
	cmd.Flags().StringVar(&in.ImageURL, "image-url", "", "image URL")
	return withAccess(cmd, client.RequiresAdmin)
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		name, category, imageURL string
		price                    float64
		quantity                 int
	)
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a sweet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u client.SweetUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				u.Name = &name
			}
			if flags.Changed("category") {
				u.Category = &category
			}
			if flags.Changed("price") {
				u.Price = &price
			}
			if flags.Changed("quantity") {
				u.Quantity = &quantity
			}
			if flags.Changed("image-url") {
				u.ImageURL = &imageURL
			}

			s, err := a.client.Update(cmd.Context(), args[0], u)
			if err != nil {
				return err
			}
			return printSweet(a.out, s)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().Float64Var(&price, "price", 0, "new price")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "new stock level")
	cmd.Flags().StringVar(&imageURL, "image-url", "", "new image URL")
	return withAccess(cmd, client.RequiresAdmin)
}

func newDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Remove a sweet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(a.out, "deleted %s\n", args[0])
			return err
		},
	}
	return withAccess(cmd, client.RequiresAdmin)
}

func newRestockCmd(a *app) *cobra.Command {
	var quantity int
	cmd := &cobra.Command{
		Use:   "restock ID",
		Short: "Add units to a sweet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.client.Restock(cmd.Context(), args[0], quantity)
			if err != nil {
				return err
			}
			return printSweet(a.out, s)
		},
	}
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 0, "units to add")
	_ = cmd.MarkFlagRequired("quantity")
	return withAccess(cmd, client.RequiresAdmin)
}

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history ID",
		Short: "Show the stock ledger of a sweet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := a.client.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printHistory(a.out, events)
		},
	}
	return withAccess(cmd, client.RequiresAdmin)
}
