package deletion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"juzbuild-api/internal/shared"
)

// deleteAnalyticsProperty removes the GA4 property backing a site. Two-phase:
// mint a bearer token from the service account key, then call the admin API.
// A token exchange failure fails the whole step and the delete is never
// attempted.
func (h *DeletionHandler) deleteAnalyticsProperty(ctx context.Context, propertyID string) (providerOutcome, error) {
	if h.AnalyticsServiceKey == "" {
		return providerFailed, errors.New("GA_SERVICE_ACCOUNT_KEY is not configured")
	}

	key, err := decodeServiceAccountKey(h.AnalyticsServiceKey)
	if err != nil {
		return providerFailed, err
	}
	token, err := h.mintAnalyticsToken(ctx, key)
	if err != nil {
		return providerFailed, fmt.Errorf("token exchange failed: %w", err)
	}

	propertyID = strings.TrimPrefix(propertyID, "properties/")
	url := fmt.Sprintf("%s/v1beta/properties/%s", h.AnalyticsAPIBase, propertyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return providerFailed, fmt.Errorf("failed to create analytics request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := h.HTTPClient.Do(req)
	if err != nil {
		return providerFailed, fmt.Errorf("analytics request failed: %w", err)
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
			"analytics admin API rejected the request (%d): the service account needs Editor access to the property and the %s scope: %s",
			res.StatusCode, shared.AnalyticsEditScope, string(body))
	case res.StatusCode >= 200 && res.StatusCode < 300:
		return providerDeleted, nil
	default:
		body, _ := io.ReadAll(res.Body)
		return providerFailed, fmt.Errorf("analytics admin API returned error: [%d: %s]", res.StatusCode, string(body))
	}
}
