// Package cmd implements the a2aeval CLI: evaluate, serve, catalog,
// and config-init subcommands wired atop cobra/viper.
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/redforge/a2aeval/src/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "a2aeval",
	Short: "A2A security evaluation orchestrator",
	Long: `a2aeval profiles a remote A2A agent, selects attack techniques from a
built-in catalog, generates and delivers payloads over the A2A protocol,
and reports both scanner effectiveness and the subject's vulnerability
assessment.`,
}

// Execute runs the root command; called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.a2aeval.yaml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".a2aeval")
	}

	viper.SetEnvPrefix("A2AEVAL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func loadConfigOrDefault() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		color.Yellow("warning: %v; falling back to defaults", err)
		return config.DefaultConfig()
	}
	return cfg
}
