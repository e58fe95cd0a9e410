// Package deletion orchestrates the irreversible teardown of one website
// across every external provider it was provisioned on: the Vercel project,
// the GitHub repository, the GA4 analytics property, the Namecheap subdomain
// records, the per-tenant database and finally the control-plane site record.
package deletion

import (
	"context"
	"net"
	"net/http"
	"time"

	"juzbuild-api/internal/shared"

	"go.uber.org/zap"
)

// SiteStore is the control-plane surface the orchestrator needs. The concrete
// implementation lives in internal/database; tests substitute a fake.
type SiteStore interface {
	DeleteSiteRecord(ctx context.Context, siteID, ownerID string) error
	DropTenantDatabase(ctx context.Context, name string) error
}

type DeletionHandler struct {
	Log        *zap.SugaredLogger
	Sites      SiteStore
	HTTPClient *http.Client

	VercelToken   string
	VercelAPIBase string

	GithubToken   string
	GithubAPIBase string

	// Raw or base64-encoded service account key JSON.
	AnalyticsServiceKey string
	AnalyticsAPIBase    string

	NamecheapAPIUser  string
	NamecheapAPIKey   string
	NamecheapUsername string
	NamecheapClientIP string
	NamecheapAPIBase  string
}

// NewDeletionHandler reads provider credentials from the environment. A
// missing credential is not fatal here: it degrades only the matching
// adapter, which reports an actionable failure when it is actually needed.
func NewDeletionHandler(sites SiteStore, log *zap.SugaredLogger) *DeletionHandler {
	tr := &http.Transport{
		Dial: (&net.Dialer{
			Timeout: 2 * time.Second,
		}).Dial,
		TLSHandshakeTimeout: 2 * time.Second,
		DisableKeepAlives:   false,
	}
	httpClient := http.Client{Transport: tr, Timeout: shared.DefaultHTTPTimeout}

	return &DeletionHandler{
		Log:        log,
		Sites:      sites,
		HTTPClient: &httpClient,

		VercelToken:   shared.GetEnv("VERCEL_TOKEN", ""),
		VercelAPIBase: shared.GetEnv("VERCEL_API_BASE", shared.DefaultVercelAPIBase),

		GithubToken:   shared.GetEnv("GITHUB_TOKEN", ""),
		GithubAPIBase: shared.GetEnv("GITHUB_API_BASE", shared.DefaultGithubAPIBase),

		AnalyticsServiceKey: shared.GetEnv("GA_SERVICE_ACCOUNT_KEY", ""),
		AnalyticsAPIBase:    shared.GetEnv("GA_ADMIN_API_BASE", shared.DefaultAnalyticsAPIBase),

		NamecheapAPIUser:  shared.GetEnv("NAMECHEAP_API_USER", ""),
		NamecheapAPIKey:   shared.GetEnv("NAMECHEAP_API_KEY", ""),
		NamecheapUsername: shared.GetEnv("NAMECHEAP_USERNAME", ""),
		NamecheapClientIP: shared.GetEnv("NAMECHEAP_CLIENT_IP", ""),
		NamecheapAPIBase:  shared.GetEnv("NAMECHEAP_API_BASE", shared.DefaultNamecheapAPIBase),
	}
}
