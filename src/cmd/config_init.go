package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/redforge/a2aeval/src/config"
	"github.com/spf13/cobra"
)

var configInitCmd = &cobra.Command{
	Use:   "config-init",
	Short: "Interactively write a .a2aeval.yaml configuration file",
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()

	questions := []*survey.Question{
		{
			Name:     "mode",
			Prompt:   &survey.Select{Message: "Default evaluation mode:", Options: []string{"adaptive", "fixed"}, Default: cfg.Evaluation.Mode},
			Validate: survey.Required,
		},
		{
			Name:   "budget",
			Prompt: &survey.Input{Message: "Default test budget:", Default: fmt.Sprintf("%d", cfg.Evaluation.TestBudget)},
		},
		{
			Name:   "listenAddr",
			Prompt: &survey.Input{Message: "API server listen address:", Default: cfg.Server.ListenAddr},
		},
		{
			Name:   "redisAddr",
			Prompt: &survey.Input{Message: "Redis address for delivery caching (blank to disable):", Default: cfg.Redis.Addr},
		},
	}

	answers := struct {
		Mode       string
		Budget     string
		ListenAddr string
		RedisAddr  string
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return fmt.Errorf("config-init: %w", err)
	}

	cfg.Evaluation.Mode = answers.Mode
	fmt.Sscanf(answers.Budget, "%d", &cfg.Evaluation.TestBudget)
	cfg.Server.ListenAddr = answers.ListenAddr
	cfg.Redis.Addr = answers.RedisAddr

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("config-init: %w", err)
	}
	color.Green("wrote configuration")
	return nil
}
