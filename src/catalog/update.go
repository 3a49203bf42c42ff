package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-github/v45/github"
	"github.com/rs/zerolog/log"
	"github.com/xanzy/go-gitlab"
)

// bundleAssetName is the release asset the updater looks for on both
// GitHub and GitLab.
const bundleAssetName = "techniques.json"

// UpdateSources configures where catalog updates are pulled from: a primary
// GitHub repository plus an optional internal GitLab mirror.
type UpdateSources struct {
	// GitHubRepo is "owner/name" of the release source.
	GitHubRepo string
	// GitLabProject is the numeric or "group/project" id of an optional
	// internal mirror, consulted only if GitHubRepo is empty or fails.
	GitLabProject string
	// GitLabBaseURL overrides the default gitlab.com API base.
	GitLabBaseURL string
	// GitLabToken authenticates private GitLab projects.
	GitLabToken string
	// MinCompatible is the lowest bundle version this build accepts.
	MinCompatible *semver.Version
}

// Updater pulls catalog-bundle updates from the configured sources and
// merges compatible techniques into a live Catalog without a restart.
type Updater struct {
	sources    UpdateSources
	httpClient *http.Client
}

// NewUpdater constructs an Updater. A nil http.Client falls back to one
// with a 30s timeout, consistent with the Delivery Adapter's default.
func NewUpdater(sources UpdateSources, httpClient *http.Client) *Updater {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Updater{sources: sources, httpClient: httpClient}
}

// Update fetches the latest bundle, validates it, checks semver
// compatibility, and merges every technique into cat. It returns the
// number of techniques added or replaced.
func (u *Updater) Update(ctx context.Context, cat *Catalog) (int, error) {
	raw, version, err := u.fetchBundle(ctx)
	if err != nil {
		return 0, err
	}

	if u.sources.MinCompatible != nil {
		v, err := semver.NewVersion(version)
		if err != nil {
			return 0, fmt.Errorf("catalog: bundle version %q is not valid semver: %w", version, err)
		}
		if v.LessThan(u.sources.MinCompatible) {
			return 0, fmt.Errorf("catalog: bundle version %s is older than minimum compatible %s", v, u.sources.MinCompatible)
		}
	}

	bundle, err := ParseBundle(raw)
	if err != nil {
		return 0, err
	}

	for _, t := range bundle.Techniques {
		if err := cat.AddOrReplace(t); err != nil {
			return 0, err
		}
	}

	log.Info().
		Str("bundle_version", bundle.Version).
		Int("technique_count", len(bundle.Techniques)).
		Msg("catalog updated")

	return len(bundle.Techniques), nil
}

// fetchBundle tries GitHub first, then falls back to GitLab.
func (u *Updater) fetchBundle(ctx context.Context) (raw []byte, version string, err error) {
	if u.sources.GitHubRepo != "" {
		raw, version, err = u.fetchFromGitHub(ctx)
		if err == nil {
			return raw, version, nil
		}
		log.Warn().Err(err).Msg("github catalog update source failed, trying gitlab fallback")
	}
	if u.sources.GitLabProject != "" {
		return u.fetchFromGitLab(ctx)
	}
	if err != nil {
		return nil, "", err
	}
	return nil, "", fmt.Errorf("catalog: no update source configured")
}

func (u *Updater) fetchFromGitHub(ctx context.Context) ([]byte, string, error) {
	parts := strings.SplitN(u.sources.GitHubRepo, "/", 2)
	if len(parts) != 2 {
		return nil, "", fmt.Errorf("catalog: github repo must be \"owner/name\", got %q", u.sources.GitHubRepo)
	}
	owner, repo := parts[0], parts[1]

	client := github.NewClient(u.httpClient)
	release, _, err := client.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return nil, "", fmt.Errorf("catalog: fetching latest github release: %w", err)
	}

	for _, asset := range release.Assets {
		if asset.GetName() != bundleAssetName {
			continue
		}
		raw, err := u.download(ctx, asset.GetBrowserDownloadURL())
		if err != nil {
			return nil, "", err
		}
		return raw, release.GetTagName(), nil
	}
	return nil, "", fmt.Errorf("catalog: release %s has no %s asset", release.GetTagName(), bundleAssetName)
}

func (u *Updater) fetchFromGitLab(ctx context.Context) ([]byte, string, error) {
	opts := []gitlab.ClientOptionFunc{}
	if u.sources.GitLabBaseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(u.sources.GitLabBaseURL))
	}
	client, err := gitlab.NewClient(u.sources.GitLabToken, opts...)
	if err != nil {
		return nil, "", fmt.Errorf("catalog: creating gitlab client: %w", err)
	}

	release, _, err := client.Releases.GetLatestRelease(u.sources.GitLabProject)
	if err != nil {
		return nil, "", fmt.Errorf("catalog: fetching latest gitlab release: %w", err)
	}

	for _, link := range release.Assets.Links {
		if link.Name != bundleAssetName {
			continue
		}
		raw, err := u.download(ctx, link.URL)
		if err != nil {
			return nil, "", err
		}
		return raw, release.TagName, nil
	}
	return nil, "", fmt.Errorf("catalog: gitlab release %s has no %s asset link", release.TagName, bundleAssetName)
}

func (u *Updater) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: downloading bundle asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: bundle asset download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
