package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func quotaCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "quota",
		Short: "Inspect or reset anonymous search quotas",
	}

	root.AddCommand(&cobra.Command{
		Use:   "get <client_id>",
		Short: "Show a client's remaining searches",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			st, err := newClient().GetQuota(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(st)
			}
			fmt.Printf("%s: %d of %d searches used, %d left.\n", st.ClientID, st.Count, st.Limit, st.Remaining)
			return nil
		},
	}, &cobra.Command{
		Use:   "reset <client_id>",
		Short: "Clear a client's search count",
		Long:  "Clear a client's search count. Requires --token from a logged-in account.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := newClient().ResetQuota(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Quota reset for %s.\n", args[0])
			return nil
		},
	})

	return root
}
