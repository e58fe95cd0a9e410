package deletion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeleteGithubRepoShortTokenRejectedLocally(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	h := &DeletionHandler{
		Log:           testLogger(),
		HTTPClient:    http.DefaultClient,
		GithubToken:   "ghp_short",
		GithubAPIBase: srv.URL,
	}

	outcome, err := h.deleteGithubRepo(context.Background(), "juzbuild-sites", "site-s1")
	assert.Equal(t, providerFailed, outcome)
	assert.ErrorContains(t, err, "truncated")
	assert.Zero(t, calls, "a conspicuously short token must fail before any network call")
}

func TestDeleteGithubRepoUnauthorizedDiagnostic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	h := &DeletionHandler{
		Log:           testLogger(),
		HTTPClient:    http.DefaultClient,
		GithubToken:   strings.Repeat("g", 40),
		GithubAPIBase: srv.URL,
	}

	outcome, err := h.deleteGithubRepo(context.Background(), "juzbuild-sites", "site-s1")
	assert.Equal(t, providerFailed, outcome)
	assert.ErrorContains(t, err, "delete_repo")
	assert.ErrorContains(t, err, "Bad credentials")
}

func TestDeleteGithubRepoAlreadyGone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/juzbuild-sites/site-s1", r.URL.Path)
		assert.Equal(t, "2022-11-28", r.Header.Get("X-GitHub-Api-Version"))
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	h := &DeletionHandler{
		Log:           testLogger(),
		HTTPClient:    http.DefaultClient,
		GithubToken:   strings.Repeat("g", 40),
		GithubAPIBase: srv.URL,
	}

	outcome, err := h.deleteGithubRepo(context.Background(), "juzbuild-sites", "site-s1")
	assert.NoError(t, err)
	assert.Equal(t, providerAlreadyGone, outcome)
}

func TestDeleteGithubRepoDeleted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	h := &DeletionHandler{
		Log:           testLogger(),
		HTTPClient:    http.DefaultClient,
		GithubToken:   strings.Repeat("g", 40),
		GithubAPIBase: srv.URL,
	}

	outcome, err := h.deleteGithubRepo(context.Background(), "juzbuild-sites", "site-s1")
	assert.NoError(t, err)
	assert.Equal(t, providerDeleted, outcome)
}

func TestDeleteGithubRepoMissingIdentifier(t *testing.T) {
	h := &DeletionHandler{
		Log:         testLogger(),
		HTTPClient:  http.DefaultClient,
		GithubToken: strings.Repeat("g", 40),
	}

	outcome, err := h.deleteGithubRepo(context.Background(), "juzbuild-sites", "")
	assert.Equal(t, providerFailed, outcome)
	assert.ErrorContains(t, err, "both required")
}
