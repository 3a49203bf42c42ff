package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/redforge/a2aeval/src/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and update the attack technique catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every technique in the built-in catalog",
	RunE:  runCatalogList,
}

var (
	catalogUpdateGitHubRepo string
	catalogUpdateGitLabRepo string
)

var catalogUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Pull the latest technique bundle from GitHub or GitLab",
	RunE:  runCatalogUpdate,
}

func init() {
	catalogUpdateCmd.Flags().StringVar(&catalogUpdateGitHubRepo, "github-repo", "", "owner/name of the release repository")
	catalogUpdateCmd.Flags().StringVar(&catalogUpdateGitLabRepo, "gitlab-project", "", "GitLab project id or path")
	catalogCmd.AddCommand(catalogListCmd, catalogUpdateCmd)
	rootCmd.AddCommand(catalogCmd)
}

var catalogHeaderStyle = lipgloss.NewStyle().Bold(true)

func runCatalogList(cmd *cobra.Command, args []string) error {
	cat := catalog.Builtin()
	fmt.Println(catalogHeaderStyle.Render(fmt.Sprintf("%-40s %-12s %s", "ID", "FAMILY", "PLATFORMS")))
	for _, t := range cat.All() {
		fmt.Printf("%-40s %-12s %v\n", t.ID, t.Hints.Family, t.Platforms)
	}
	return nil
}

func runCatalogUpdate(cmd *cobra.Command, args []string) error {
	cfg := loadConfigOrDefault()
	sources := catalog.UpdateSources{
		GitHubRepo:    cfg.CatalogUpdate.GitHubRepo,
		GitLabProject: cfg.CatalogUpdate.GitLabProject,
		GitLabBaseURL: cfg.CatalogUpdate.GitLabBaseURL,
	}
	if catalogUpdateGitHubRepo != "" {
		sources.GitHubRepo = catalogUpdateGitHubRepo
	}
	if catalogUpdateGitLabRepo != "" {
		sources.GitLabProject = catalogUpdateGitLabRepo
	}
	if v, err := cfg.MinCompatibleVersion(); err == nil {
		sources.MinCompatible = v
	}

	updater := catalog.NewUpdater(sources, nil)
	cat := catalog.Builtin()
	n, err := updater.Update(context.Background(), cat)
	if err != nil {
		return fmt.Errorf("catalog update: %w", err)
	}
	fmt.Printf("updated %d technique(s)\n", n)
	return nil
}
