// Package middleware defines request tracking, recovery and route based authentication
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"juzbuild-api/internal/ctx"
	"juzbuild-api/internal/database"
	"juzbuild-api/internal/shared"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type OwnerManager struct {
	redis *redis.Client
	sites *database.SiteStore
	log   *zap.SugaredLogger
}

var ownerManager *OwnerManager

func InitOwnerMiddleware(redisClient *redis.Client, sites *database.SiteStore, log *zap.SugaredLogger) {
	ownerManager = &OwnerManager{redis: redisClient, sites: sites, log: log}
}

func GetOwnerMiddleware() (*OwnerManager, error) {
	if ownerManager == nil {
		return nil, errors.New("owner middleware not initialized")
	}
	return ownerManager, nil
}

func (o *OwnerManager) ExtractOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(cc echo.Context) error {
		c := cc.(*ctx.Context)
		c.Owner = nil

		apiKey, err := shared.ExtractAPIKey(c)
		if err != nil {
			return next(c)
		}
		owner, err := o.getOwnerMetadataFromKey(c.Request().Context(), apiKey)
		if err != nil {
			return next(c)
		}
		c.Owner = owner
		c.LogValues.OwnerID = owner.OwnerID
		c.Log = c.Log.With("owner_id", owner.OwnerID)
		return next(c)
	}
}

func (o *OwnerManager) RequireOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(cc echo.Context) error {
		c := cc.(*ctx.Context)
		if c.Owner == nil {
			return c.String(401, "unauthorized")
		}
		return next(c)
	}
}

func (o *OwnerManager) getOwnerMetadataFromKey(reqCtx context.Context, apiKey string) (*shared.OwnerMetadata, error) {
	var owner shared.OwnerMetadata
	owner.APIKey = apiKey

	ownerInfoCacheKey := fmt.Sprintf("juzbuild:v1:owner:apikey:%s", apiKey)
	ownerInfoCache, err := o.redis.Get(reqCtx, ownerInfoCacheKey).Result()
	switch err {
	case nil:
		err = json.Unmarshal([]byte(ownerInfoCache), &owner)
		if err == nil {
			return &owner, nil
		}
		o.log.Errorw("Error unmarshalling owner info cache", "error", err)
		fallthrough
	default:
		o.log.Debugw("Owner cache miss", "key", ownerInfoCacheKey)

		found, err := o.sites.GetOwnerByAPIKey(reqCtx, apiKey)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				o.log.Warnw("Invalid API key", "key", apiKey)
				return nil, shared.ErrUnauthorized
			}
			o.log.Errorw("Database error during API key validation", "error", err)
			return nil, shared.ErrUnauthorized
		}
		found.APIKey = apiKey

		go func() {
			ownerInfo, err := json.Marshal(found)
			if err != nil {
				o.log.Errorw("Error marshalling owner info", "error", err)
				return
			}
			o.redis.Set(context.Background(), ownerInfoCacheKey, ownerInfo, shared.OwnerInfoCacheTTL)
		}()
		return found, nil
	}
}
