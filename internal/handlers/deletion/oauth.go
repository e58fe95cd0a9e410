package deletion

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"juzbuild-api/internal/shared"

	"github.com/golang-jwt/jwt/v5"
)

const jwtBearerGrant = "urn:ietf:params:oauth:grant-type:jwt-bearer"

type serviceAccountKey struct {
	ClientEmail  string `json:"client_email"`
	PrivateKey   string `json:"private_key"`
	PrivateKeyID string `json:"private_key_id"`
	TokenURI     string `json:"token_uri"`
}

// decodeServiceAccountKey accepts the key either as raw JSON or base64-encoded
// JSON (how it is usually stored in env vars), trying base64 first and falling
// back to the raw form.
func decodeServiceAccountKey(raw string) (*serviceAccountKey, error) {
	data := []byte(raw)
	if decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(raw)); err == nil && json.Valid(decoded) {
		data = decoded
	}

	var key serviceAccountKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("service account key is neither raw nor base64 JSON: %w", err)
	}
	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, errors.New("service account key is missing client_email or private_key")
	}
	if key.TokenURI == "" {
		key.TokenURI = "https://oauth2.googleapis.com/token"
	}
	return &key, nil
}

// mintAnalyticsToken converts a service account key into a short-lived bearer
// token: it signs a one-hour RS256 assertion and exchanges it at the key's
// token endpoint with the jwt-bearer grant.
func (h *DeletionHandler) mintAnalyticsToken(ctx context.Context, key *serviceAccountKey) (string, error) {
	rsaKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(key.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("failed to parse service account private key: %w", err)
	}

	now := time.Now()
	assertion := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":   key.ClientEmail,
		"scope": shared.AnalyticsEditScope,
		"aud":   key.TokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	})
	if key.PrivateKeyID != "" {
		assertion.Header["kid"] = key.PrivateKeyID
	}
	signed, err := assertion.SignedString(rsaKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token assertion: %w", err)
	}

	form := url.Values{}
	form.Set("grant_type", jwtBearerGrant)
	form.Set("assertion", signed)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, key.TokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := h.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange request failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("token endpoint returned error: [%d: %s]", res.StatusCode, string(body))
	}

	var tokenRes struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenRes); err != nil {
		return "", fmt.Errorf("malformed token endpoint response: %w", err)
	}
	if tokenRes.AccessToken == "" {
		return "", fmt.Errorf("token exchange returned no access_token: %s", string(body))
	}
	return tokenRes.AccessToken, nil
}
