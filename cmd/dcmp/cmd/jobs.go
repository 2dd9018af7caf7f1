package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/device-compare/internal/api/client"
)

func jobsCmd() *cobra.Command {
	jobsRoot := &cobra.Command{
		Use:   "jobs",
		Short: "View catalog refresh history",
		Long: "View the execution history of scheduled jobs. Each catalog_refresh run\n" +
			"records status, duration, products loaded and any errors.",
	}

	jobsRoot.AddCommand(
		jobsListCmd(),
		jobsHistoryCmd(),
	)

	return jobsRoot
}

func jobsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List latest run per job",
		Example: `  dcmp jobs list
  dcmp jobs list --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			runs, err := newClient().LatestJobs(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(runs)
			}
			if len(runs) == 0 {
				fmt.Println("No job runs found.")
				return nil
			}
			return printJobRunsTable(os.Stdout, runs)
		},
	}
}

func jobsHistoryCmd() *cobra.Command {
	var (
		status string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history <job_name>",
		Short: "Show run history for a job",
		Args:  cobra.ExactArgs(1),
		Example: `  dcmp jobs history catalog_refresh
  dcmp jobs history catalog_refresh --status failed --output json`,
		RunE: func(_ *cobra.Command, args []string) error {
			resp, err := newClient().ListJobs(context.Background(), &apiclient.ListJobsParams{
				JobName: args[0],
				Status:  status,
				Limit:   limit,
			})
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			if len(resp.Jobs) == 0 {
				fmt.Printf("No runs found for job %q.\n", args[0])
				return nil
			}
			return printJobRunsTable(os.Stdout, resp.Jobs)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "only runs with this status")
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs")
	return cmd
}
