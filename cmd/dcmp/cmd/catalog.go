package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func catalogCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect or refresh the server's catalog snapshot",
	}
	root.AddCommand(catalogInfoCmd(), catalogRefreshCmd())
	return root
}

func catalogInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the snapshot state",
		RunE: func(_ *cobra.Command, _ []string) error {
			info, err := newClient().GetCatalogInfo(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(info)
			}
			if !info.Loaded {
				fmt.Println("Catalog not loaded yet.")
				return nil
			}
			fmt.Printf("%d products loaded at %s", info.Products, info.LoadedAt.Format(timeLayout))
			if info.Stale {
				fmt.Print(" (stale)")
			}
			fmt.Println()
			return nil
		},
	}
}

func catalogRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload the catalog from upstream",
		RunE: func(_ *cobra.Command, _ []string) error {
			res, err := newClient().RefreshCatalog(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			fmt.Printf("Catalog %s: %d products.\n", res.Status, res.Products)
			return nil
		},
	}
}
