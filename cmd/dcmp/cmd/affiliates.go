package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func affiliatesCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "affiliates",
		Short: "Manage retailer affiliate links",
	}
	root.AddCommand(affiliatesMissingCmd(), affiliatesSetCmd())
	return root
}

func affiliatesMissingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "missing",
		Short: "List products without a link for every partner",
		RunE: func(_ *cobra.Command, _ []string) error {
			resp, err := newClient().MissingAffiliates(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			if len(resp.Products) == 0 {
				fmt.Println("Every product has affiliate links.")
				return nil
			}
			return printAffiliatesTable(os.Stdout, resp.Products)
		},
	}
}

func affiliatesSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <id> <retailer> <url>",
		Short:   "Set a retailer link (requires --token)",
		Args:    cobra.ExactArgs(3),
		Example: `  dcmp affiliates set id1 amazon https://amzn.to/abc --token $DCMP_TOKEN`,
		RunE: func(_ *cobra.Command, args []string) error {
			if err := newClient().UpdateAffiliate(context.Background(), args[0], args[1], args[2]); err != nil {
				return err
			}
			fmt.Printf("Updated %s link for %s.\n", args[1], args[0])
			return nil
		},
	}
}
