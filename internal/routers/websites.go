package routers

import (
	"errors"
	"net/http"

	"juzbuild-api/internal/ctx"
	"juzbuild-api/internal/database"
	"juzbuild-api/internal/handlers/deletion"
	"juzbuild-api/internal/middleware"
	"juzbuild-api/internal/shared"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type WebsiteRouter struct {
	dh    *deletion.DeletionHandler
	sites *database.SiteStore
}

func NewWebsiteRouter(dh *deletion.DeletionHandler, sites *database.SiteStore) *WebsiteRouter {
	return &WebsiteRouter{dh: dh, sites: sites}
}

// DeleteWebsite loads the site's stored resource identifiers and runs the
// full teardown. The response always carries the aggregate result, including
// partial failure; provider errors never surface as HTTP errors.
func (wr *WebsiteRouter) DeleteWebsite(cc echo.Context) error {
	c := cc.(*ctx.Context)
	siteID := c.Param("id")
	if siteID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "site id is required"})
	}
	c.LogValues.SiteID = siteID

	site, err := wr.sites.GetSiteForOwner(c.Request().Context(), siteID, c.Owner.OwnerID)
	if err != nil {
		c.LogValues.AddError(err)
		switch true {
		case errors.Is(err, shared.ErrSiteNotOwned):
			return c.JSON(shared.ErrSiteNotOwned.StatusCode, map[string]string{"error": shared.ErrSiteNotOwned.Err.Error()})
		default:
			return c.JSON(shared.ErrInternalServerError.StatusCode, map[string]string{"error": shared.ErrInternalServerError.Error()})
		}
	}

	output := wr.dh.DeleteWebsiteLogic(deletion.DeleteWebsiteInput{
		Ctx:                 c.Request().Context(),
		SiteID:              site.SiteID,
		OwnerID:             site.OwnerID,
		VercelProjectName:   site.VercelProjectName,
		GithubRepoOwner:     site.GithubRepoOwner,
		GithubRepoName:      site.GithubRepoName,
		TenantDBName:        site.TenantDBName,
		AnalyticsPropertyID: site.AnalyticsPropertyID,
		Subdomain:           site.Subdomain,
	})
	for _, msg := range output.Errors {
		c.LogValues.AddError(errors.New(msg))
	}

	return c.JSON(http.StatusOK, output)
}

// PreviewDeletion reports which external resources a teardown would touch,
// with no side effects.
func (wr *WebsiteRouter) PreviewDeletion(cc echo.Context) error {
	c := cc.(*ctx.Context)
	siteID := c.Param("id")
	if siteID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "site id is required"})
	}
	c.LogValues.SiteID = siteID

	site, err := wr.sites.GetSiteForOwner(c.Request().Context(), siteID, c.Owner.OwnerID)
	if err != nil {
		c.LogValues.AddError(err)
		switch true {
		case errors.Is(err, shared.ErrSiteNotOwned):
			return c.JSON(shared.ErrSiteNotOwned.StatusCode, map[string]string{"error": shared.ErrSiteNotOwned.Err.Error()})
		default:
			return c.JSON(shared.ErrInternalServerError.StatusCode, map[string]string{"error": shared.ErrInternalServerError.Error()})
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"site_id": site.SiteID,
		"resources": map[string]bool{
			"hosting":       site.VercelProjectName != "",
			"source_repo":   site.GithubRepoOwner != "" || site.GithubRepoName != "",
			"analytics":     site.AnalyticsPropertyID != "",
			"subdomain_dns": site.Subdomain != "",
			"tenant_db":     site.TenantDBName != "",
		},
	})
}

// RegisterWebsiteRoutes registers all website teardown routes
func RegisterWebsiteRoutes(e *echo.Group, sites *database.SiteStore, log *zap.SugaredLogger) error {
	dh := deletion.NewDeletionHandler(sites, log)
	wr := NewWebsiteRouter(dh, sites)

	omw, err := middleware.GetOwnerMiddleware()
	if err != nil {
		return err
	}

	requireOwner := e.Group("", omw.ExtractOwner, omw.RequireOwner)
	requireOwner.DELETE("/websites/:id", wr.DeleteWebsite)
	requireOwner.GET("/websites/:id/deletion-preview", wr.PreviewDeletion)
	return nil
}
