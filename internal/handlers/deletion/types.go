package deletion

import "context"

// DeleteWebsiteInput carries every resource identifier recorded for one site.
// All provider identifiers are optional; presence of an identifier is the
// sole trigger for attempting that resource's teardown. The input is a pure
// value and is never mutated.
type DeleteWebsiteInput struct {
	Ctx     context.Context
	SiteID  string
	OwnerID string

	VercelProjectName   string
	GithubRepoOwner     string
	GithubRepoName      string
	TenantDBName        string
	AnalyticsPropertyID string
	Subdomain           string
}

// ResourcesDeleted reports, per provider, whether the resource is confirmed
// gone after this call (removed now, or already absent).
type ResourcesDeleted struct {
	Hosting      bool `json:"hosting"`
	SourceRepo   bool `json:"source_repo"`
	TenantDB     bool `json:"tenant_db"`
	Analytics    bool `json:"analytics"`
	SubdomainDNS bool `json:"subdomain_dns"`
	SiteRecord   bool `json:"site_record"`
}

// DeleteWebsiteOutput is the single aggregate result of a teardown.
// OverallSuccess is deliberately weak: true iff at least one resource was
// actually removed by this call. Callers wanting a stricter policy should
// inspect ResourcesDeleted and Errors directly.
type DeleteWebsiteOutput struct {
	SiteID           string           `json:"site_id"`
	OverallSuccess   bool             `json:"overall_success"`
	ResourcesDeleted ResourcesDeleted `json:"resources_deleted"`
	Errors           []string         `json:"errors,omitempty"`
}

// providerOutcome distinguishes a resource removed by this call from one
// that was already absent at the provider. Both are step successes; only
// removals count toward OverallSuccess.
type providerOutcome int

const (
	providerFailed providerOutcome = iota
	providerDeleted
	providerAlreadyGone
)
