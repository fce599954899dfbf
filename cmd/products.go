// =============================================================================
// Sales Analytics - Products Command
// =============================================================================
//
// COMMAND USAGE:
//   salesctl products                 # fetch the catalog and summarize it
//   salesctl products --id 101        # look up one product
//   salesctl products --search phone  # search by keyword
//   salesctl products --save FILE     # also save the fetched products as JSON
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/sales-analytics/internal/productapi"
)

var (
	productsID     int
	productsSearch string
	productsSave   string
	productsTop    int
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Query the product API used for enrichment",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProducts(cmd)
	},
}

func init() {
	rootCmd.AddCommand(productsCmd)

	productsCmd.Flags().IntVar(&productsID, "id", 0, "Fetch a single product by numeric id")
	productsCmd.Flags().StringVar(&productsSearch, "search", "", "Search products by keyword")
	productsCmd.Flags().StringVar(&productsSave, "save", "", "Save the fetched products to this JSON file")
	productsCmd.Flags().IntVar(&productsTop, "top", 5, "Number of categories and brands to list")
}

func runProducts(cmd *cobra.Command) error {
	cfg, log, err := runtimeFrom(cmd)
	if err != nil {
		return err
	}

	client := productapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout,
		productapi.WithLogger(log),
		productapi.WithPageLimit(cfg.API.PageLimit))
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var products []productapi.Product
	switch {
	case cmd.Flags().Changed("id"):
		p, err := client.GetProduct(ctx, productsID)
		if err != nil {
			return err
		}
		products = []productapi.Product{p}
	case productsSearch != "":
		products, err = client.Search(ctx, productsSearch)
		if err != nil {
			return err
		}
	default:
		products, err = client.FetchAll(ctx)
		if err != nil {
			return err
		}
	}

	if len(products) <= 10 {
		printProducts(out, products)
	}

	s := productapi.Summarize(products, productsTop)
	fmt.Fprintln(out, "=== Product Summary ===")
	fmt.Fprintf(out, "Products:        %d\n", s.Total)
	fmt.Fprintf(out, "Average price:   $%.2f\n", s.AvgPrice)
	fmt.Fprintf(out, "Average rating:  %.2f\n", s.AvgRating)
	printCounts(out, "Top categories:", s.TopCategories)
	printCounts(out, "Top brands:", s.TopBrands)

	if productsSave != "" {
		if err := productapi.SaveJSON(productsSave, products); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nSaved %d products to %s\n", len(products), productsSave)
	}
	return nil
}

func printProducts(out io.Writer, products []productapi.Product) {
	for _, p := range products {
		fmt.Fprintf(out, "  #%-5d %-32s %-16s %-14s $%9.2f  %.2f\n",
			p.ID, p.Title, p.Category, p.Brand, p.Price, p.Rating)
	}
	fmt.Fprintln(out)
}

func printCounts(out io.Writer, title string, counts []productapi.LabelCount) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintln(out, title)
	for _, c := range counts {
		fmt.Fprintf(out, "  %-20s %d\n", c.Name, c.Count)
	}
}
