package deletion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// deleteVercelProject removes the hosting project backing a site. A 404 means
// the project is already gone and counts as success.
func (h *DeletionHandler) deleteVercelProject(ctx context.Context, project string) (providerOutcome, error) {
	if h.VercelToken == "" {
		return providerFailed, errors.New("VERCEL_TOKEN is not configured")
	}

	url := fmt.Sprintf("%s/v9/projects/%s", h.VercelAPIBase, project)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return providerFailed, fmt.Errorf("failed to create vercel request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.VercelToken)

	res, err := h.HTTPClient.Do(req)
	if err != nil {
		return providerFailed, fmt.Errorf("vercel request failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return providerAlreadyGone, nil
	case res.StatusCode >= 200 && res.StatusCode < 300:
		return providerDeleted, nil
	default:
		body, _ := io.ReadAll(res.Body)
		return providerFailed, fmt.Errorf("vercel returned error: [%d: %s]", res.StatusCode, string(body))
	}
}
