package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/device-compare/internal/api/client"
)

func searchCmd() *cobra.Command {
	var (
		price string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog",
		Long: "Searches product names and optionally filters by a budget ceiling.\n" +
			"Anonymous searches are limited; pass --token to search without a limit.",
		Args: cobra.MaximumNArgs(1),
		Example: `  dcmp search galaxy
  dcmp search nova --price "₹30,000"
  dcmp search --price 25000 --output json`,
		RunE: func(_ *cobra.Command, args []string) error {
			params := &apiclient.SearchParams{Price: price, Limit: limit}
			if len(args) > 0 {
				params.Query = args[0]
			}

			resp, err := newClient().Search(context.Background(), params)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}

			if resp.Total == 0 {
				fmt.Println("No products found.")
			} else if err := printProductsTable(os.Stdout, resp.Matches); err != nil {
				return err
			}
			if len(resp.Competitors) > 0 {
				fmt.Printf("\nCompetitors for %s:\n", resp.Main.Name)
				if err := printProductsTable(os.Stdout, resp.Competitors); err != nil {
					return err
				}
			}
			if resp.Quota != nil {
				fmt.Printf("\n%d of %d anonymous searches left.\n", resp.Quota.Remaining, resp.Quota.Limit)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&price, "price", "", "budget ceiling, e.g. 30000 or ₹30,000")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum matches (0 for all)")
	return cmd
}

func suggestCmd() *cobra.Command {
	var (
		exclude []string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "suggest <query>",
		Short: "Suggest products to add to a comparison",
		Args:  cobra.ExactArgs(1),
		Example: `  dcmp suggest nova --exclude id1,id2`,
		RunE: func(_ *cobra.Command, args []string) error {
			products, err := newClient().Suggest(context.Background(), args[0], exclude, limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(products)
			}
			if len(products) == 0 {
				fmt.Println("No suggestions.")
				return nil
			}
			return printProductsTable(os.Stdout, products)
		},
	}

	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "product IDs to leave out")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum suggestions")
	return cmd
}

func topCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "List the best scored products",
		RunE: func(_ *cobra.Command, _ []string) error {
			products, err := newClient().Top(context.Background(), limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(products)
			}
			return printProductsTable(os.Stdout, products)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of products")
	return cmd
}

func productCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show a product with expert reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p, err := newClient().Product(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(p)
			}
			return printProductDetail(os.Stdout, p)
		},
	}
}
