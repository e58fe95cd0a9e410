package deletion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"juzbuild-api/internal/shared"
)

// deleteGithubRepo removes the source repository backing a site. The token
// shape is validated locally first so a truncated credential produces an
// actionable message instead of an opaque 401 from the API.
func (h *DeletionHandler) deleteGithubRepo(ctx context.Context, owner, repo string) (providerOutcome, error) {
	if h.GithubToken == "" {
		return providerFailed, errors.New("GITHUB_TOKEN is not configured")
	}
	if owner == "" || repo == "" {
		return providerFailed, errors.New("repository owner and name are both required")
	}
	if len(h.GithubToken) < shared.MinGithubTokenLength {
		return providerFailed, fmt.Errorf("github token looks truncated (%d chars); check GITHUB_TOKEN", len(h.GithubToken))
	}

	url := fmt.Sprintf("%s/repos/%s/%s", h.GithubAPIBase, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return providerFailed, fmt.Errorf("failed to create github request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.GithubToken)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	res, err := h.HTTPClient.Do(req)
	if err != nil {
		return providerFailed, fmt.Errorf("github request failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return providerAlreadyGone, nil
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		body, _ := io.ReadAll(res.Body)
		return providerFailed, fmt.Errorf(
			"github rejected the token (%d): the token needs the delete_repo scope (classic) or repository administration permission (fine-grained): %s",
			res.StatusCode, string(body))
	case res.StatusCode >= 200 && res.StatusCode < 300:
		return providerDeleted, nil
	default:
		body, _ := io.ReadAll(res.Body)
		return providerFailed, fmt.Errorf("github returned error: [%d: %s]", res.StatusCode, string(body))
	}
}
