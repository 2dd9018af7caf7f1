package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <id> [id...]",
		Short: "Compare up to five products side by side",
		Long:  "Prints the comparison table. Rows marked with * differ between products.",
		Args:  cobra.RangeArgs(1, 5),
		Example: `  dcmp compare id1 id2
  dcmp compare id1 id2 id3 --output json`,
		RunE: func(_ *cobra.Command, args []string) error {
			res, err := newClient().CompareTable(context.Background(), args)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			if res.WinnerModel != "" {
				fmt.Printf("Winner: %s\n\n", res.WinnerModel)
			}
			return printCompareTable(os.Stdout, &res.Table)
		},
	}
}
