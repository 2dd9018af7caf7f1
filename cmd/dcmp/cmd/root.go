// Package cmd implements the dcmp CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/device-compare/internal/api/client"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "dcmp",
		Short: "CLI client for Device Compare",
		Long: "dcmp is a command-line client for the device-compare API.\n" +
			"It searches the catalog, compares devices side by side, manages\n" +
			"affiliate links and inspects catalog refresh jobs.",
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.dcmp.yaml)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")
	rootCmd.PersistentFlags().
		String("token", "", "bearer token for authenticated requests")
	rootCmd.PersistentFlags().
		String("client-id", "", "anonymous client identity for search quota")

	for _, name := range []string{"server", "output", "token", "client-id"} {
		cobra.CheckErr(viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)))
	}

	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(suggestCmd())
	rootCmd.AddCommand(topCmd())
	rootCmd.AddCommand(productCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(affiliatesCmd())
	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(quotaCmd())
	rootCmd.AddCommand(jobsCmd())
	rootCmd.AddCommand(loginCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".dcmp")
	}

	viper.SetEnvPrefix("DCMP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *apiclient.Client {
	opts := []apiclient.Option{}
	if token := viper.GetString("token"); token != "" {
		opts = append(opts, apiclient.WithToken(token))
	}
	if id := viper.GetString("client-id"); id != "" {
		opts = append(opts, apiclient.WithClientID(id))
	}
	return apiclient.New(viper.GetString("server"), opts...)
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
