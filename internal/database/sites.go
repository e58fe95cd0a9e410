// Package database holds the control-plane site store
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"juzbuild-api/internal/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Site is the authoritative control-plane record for one provisioned website.
// Every provider identifier is optional; absence means the resource was never
// provisioned for this site.
type Site struct {
	SiteID              string    `bson:"siteId" json:"site_id"`
	OwnerID             string    `bson:"ownerId" json:"owner_id"`
	Name                string    `bson:"name" json:"name"`
	VercelProjectName   string    `bson:"vercelProjectName,omitempty" json:"vercel_project_name,omitempty"`
	GithubRepoOwner     string    `bson:"githubRepoOwner,omitempty" json:"github_repo_owner,omitempty"`
	GithubRepoName      string    `bson:"githubRepoName,omitempty" json:"github_repo_name,omitempty"`
	TenantDBName        string    `bson:"tenantDbName,omitempty" json:"tenant_db_name,omitempty"`
	AnalyticsPropertyID string    `bson:"analyticsPropertyId,omitempty" json:"analytics_property_id,omitempty"`
	Subdomain           string    `bson:"subdomain,omitempty" json:"subdomain,omitempty"`
	CreatedAt           time.Time `bson:"createdAt" json:"created_at"`
}

type ownerDoc struct {
	OwnerID string `bson:"ownerId"`
	Email   string `bson:"email"`
	Plan    string `bson:"plan"`
}

type SiteStore struct {
	client *mongo.Client
	dbName string
	log    *zap.SugaredLogger
}

func NewSiteStore(ctx context.Context, uri, dbName string, log *zap.SugaredLogger) (*SiteStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed initializing mongo client: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed ping to mongo: %w", err)
	}
	return &SiteStore{client: client, dbName: dbName, log: log}, nil
}

func (s *SiteStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *SiteStore) sites() *mongo.Collection {
	return s.client.Database(s.dbName).Collection("sites")
}

// GetSiteForOwner loads one site scoped by both site id and owner id so a
// caller can never read another owner's site even with a valid id.
func (s *SiteStore) GetSiteForOwner(ctx context.Context, siteID, ownerID string) (*Site, error) {
	var site Site
	err := s.sites().FindOne(ctx, bson.M{"siteId": siteID, "ownerId": ownerID}).Decode(&site)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.Join(fmt.Errorf("site %s", siteID), shared.ErrSiteNotOwned)
		}
		return nil, errors.Join(fmt.Errorf("failed to load site %s", siteID), err, shared.ErrInternalServerError)
	}
	return &site, nil
}

func (s *SiteStore) GetOwnerByAPIKey(ctx context.Context, apiKey string) (*shared.OwnerMetadata, error) {
	var doc ownerDoc
	err := s.client.Database(s.dbName).Collection("owners").
		FindOne(ctx, bson.M{"apiKey": apiKey}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed owner lookup: %w", err)
	}
	return &shared.OwnerMetadata{OwnerID: doc.OwnerID, Email: doc.Email, Plan: doc.Plan}, nil
}

// DeleteSiteRecord removes the control-plane record, filtered by both site id
// and owner id together. Matching zero documents is NOT treated as an
// idempotent no-op: it is ambiguous between "already deleted" and "wrong
// owner", and the caller must be told.
func (s *SiteStore) DeleteSiteRecord(ctx context.Context, siteID, ownerID string) error {
	res, err := s.sites().DeleteOne(ctx, bson.M{"siteId": siteID, "ownerId": ownerID})
	if err != nil {
		return errors.Join(fmt.Errorf("failed to delete site record %s", siteID), err, shared.ErrInternalServerError)
	}
	if res.DeletedCount == 0 {
		return errors.Join(fmt.Errorf("site record %s", siteID), shared.ErrSiteNotOwned)
	}
	return nil
}

// DropTenantDatabase drops an entire per-tenant database by name. Dropping a
// database that does not exist is a no-op in mongo, which keeps this call
// naturally idempotent.
func (s *SiteStore) DropTenantDatabase(ctx context.Context, name string) error {
	if err := validateTenantDBName(name, s.dbName); err != nil {
		return err
	}
	err := s.client.Database(name).Drop(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "ns not found") {
			return nil
		}
		return fmt.Errorf("failed to drop tenant database %s: %w", name, err)
	}
	return nil
}

// validateTenantDBName guards the drop primitive: tenant names must never
// resolve to the control-plane database or a mongo system database.
func validateTenantDBName(name, controlDB string) error {
	if name == "" {
		return errors.New("tenant database name is empty")
	}
	switch name {
	case controlDB, "admin", "local", "config":
		return fmt.Errorf("refusing to drop protected database %s", name)
	}
	return nil
}
