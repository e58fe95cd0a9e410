package shared

import "time"

// HTTP Client Configuration
const (
	DefaultHTTPTimeout     = 2 * time.Minute
	ProviderCallTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Cache Configuration
const (
	OwnerInfoCacheTTL = 1 * time.Minute
)

// API Configuration
const (
	APIKeyLength = 32

	// GitHub fine-grained and classic tokens are both well over this;
	// anything shorter is a truncated or misconfigured credential.
	MinGithubTokenLength = 20
)

// Provider endpoints, overridable per handler for tests
const (
	DefaultVercelAPIBase    = "https://api.vercel.com"
	DefaultGithubAPIBase    = "https://api.github.com"
	DefaultAnalyticsAPIBase = "https://analyticsadmin.googleapis.com"
	DefaultNamecheapAPIBase = "https://api.namecheap.com/xml.response"

	AnalyticsEditScope = "https://www.googleapis.com/auth/analytics.edit"
)
