package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:          "registryctl",
	Short:        "Operate a rental registry",
	Long:         `registryctl prepares storage backends, loads demo data and queries a running rental registry server.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("server", "http://localhost:8080", "base URL of the registry API")
	rootCmd.PersistentFlags().String("token", "", "bearer token for write requests")
	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))

	rootCmd.AddCommand(migrateCmd, seedCmd, statsCmd, contractsCmd, tokenCmd)
}

// initConfig lets REGISTRY_SERVER and REGISTRY_TOKEN stand in for the flags.
func initConfig() {
	viper.SetEnvPrefix("registry")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
