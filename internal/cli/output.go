package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/sweetshop/sweet-shop/internal/client"
)

func printSweets(w io.Writer, sweets []client.Sweet) error {
	if len(sweets) == 0 {
		_, err := fmt.Fprintln(w, "no sweets found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tQTY\t")
	for _, s := range sweets {
		stock := strconv.Itoa(s.Quantity)
		if !s.Purchasable() {
			stock = "sold out"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", s.ID, s.Name, s.Category, formatPrice(s.Price), stock)
	}
	return tw.Flush()
}

func printSweet(w io.Writer, s client.Sweet) error {
	return printSweets(w, []client.Sweet{s})
}

func printHistory(w io.Writer, events []client.StockEvent) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, "no stock movements")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AT\tKIND\tDELTA\tQTY\tACTOR\t")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%+d\t%d\t%s\t\n", e.At, e.Kind, e.Delta, e.Quantity, e.Actor)
	}
	return tw.Flush()
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
