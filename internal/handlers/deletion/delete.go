package deletion

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"juzbuild-api/internal/metrics"
	"juzbuild-api/internal/shared"
)

// DeleteWebsiteLogic tears down every external resource present in the input,
// one provider at a time. No provider error ever aborts the run: each step's
// failure is captured, logged and appended to the error list, and the next
// step still executes. The control-plane site record is always deleted last,
// regardless of earlier failures, because it is the authoritative "this site
// no longer exists" signal.
func (h *DeletionHandler) DeleteWebsiteLogic(input DeleteWebsiteInput) (out *DeleteWebsiteOutput) {
	out = &DeleteWebsiteOutput{SiteID: input.SiteID}
	if input.Ctx == nil {
		input.Ctx = context.Background()
	}
	start := time.Now()
	removed := 0

	defer func() {
		if r := recover(); r != nil {
			h.Log.Errorw("teardown panicked", "site_id", input.SiteID, "panic", r)
			out.Errors = append(out.Errors, fmt.Sprintf("internal: %v", r))
			out.OverallSuccess = false
		}
		metrics.TeardownDuration.
			WithLabelValues(strconv.FormatBool(out.OverallSuccess)).
			Observe(time.Since(start).Seconds())
	}()

	step := func(provider string, fn func(context.Context) (providerOutcome, error)) bool {
		stepCtx, cancel := context.WithTimeout(input.Ctx, shared.ProviderCallTimeout)
		defer cancel()

		outcome, err := fn(stepCtx)
		switch {
		case err != nil:
			h.Log.Warnw("teardown step failed, continuing with remaining steps",
				"provider", provider, "site_id", input.SiteID, "error", err)
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", provider, err))
			metrics.TeardownSteps.WithLabelValues(provider, "failed").Inc()
			metrics.TeardownErrors.WithLabelValues(provider).Inc()
			return false
		case outcome == providerDeleted:
			removed++
			h.Log.Infow("teardown step removed resource", "provider", provider, "site_id", input.SiteID)
			metrics.TeardownSteps.WithLabelValues(provider, "deleted").Inc()
			return true
		default:
			h.Log.Infow("teardown step found resource already gone", "provider", provider, "site_id", input.SiteID)
			metrics.TeardownSteps.WithLabelValues(provider, "already_gone").Inc()
			return true
		}
	}

	if input.VercelProjectName != "" {
		out.ResourcesDeleted.Hosting = step("vercel", func(c context.Context) (providerOutcome, error) {
			return h.deleteVercelProject(c, input.VercelProjectName)
		})
	}

	if input.GithubRepoOwner != "" || input.GithubRepoName != "" {
		out.ResourcesDeleted.SourceRepo = step("github", func(c context.Context) (providerOutcome, error) {
			return h.deleteGithubRepo(c, input.GithubRepoOwner, input.GithubRepoName)
		})
	}

	if input.AnalyticsPropertyID != "" {
		out.ResourcesDeleted.Analytics = step("google analytics", func(c context.Context) (providerOutcome, error) {
			return h.deleteAnalyticsProperty(c, input.AnalyticsPropertyID)
		})
	}

	if input.Subdomain != "" {
		out.ResourcesDeleted.SubdomainDNS = step("namecheap dns", func(c context.Context) (providerOutcome, error) {
			return h.deleteSubdomainRecords(c, input.Subdomain)
		})
	}

	if input.TenantDBName != "" {
		out.ResourcesDeleted.TenantDB = step("tenant database", func(c context.Context) (providerOutcome, error) {
			if err := h.Sites.DropTenantDatabase(c, input.TenantDBName); err != nil {
				return providerFailed, err
			}
			return providerDeleted, nil
		})
	}

	// The control record goes last, even when every provider step failed.
	out.ResourcesDeleted.SiteRecord = step("site record", func(c context.Context) (providerOutcome, error) {
		if err := h.Sites.DeleteSiteRecord(c, input.SiteID, input.OwnerID); err != nil {
			return providerFailed, err
		}
		return providerDeleted, nil
	})

	out.OverallSuccess = removed > 0
	return out
}
