package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and print a bearer token",
		Long: "Exchanges credentials for a bearer token. Export it as DCMP_TOKEN\n" +
			"to search without the anonymous limit and to manage affiliate links.",
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			token, err := newClient().Login(context.Background(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "account password")
	cobra.CheckErr(cmd.MarkFlagRequired("password"))
	return cmd
}
