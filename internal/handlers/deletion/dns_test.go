package deletion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSubdomain(t *testing.T) {
	sub, err := splitSubdomain("s1.onjuzbuild.com")
	require.NoError(t, err)
	assert.Equal(t, "s1", sub.Label)
	assert.Equal(t, "onjuzbuild", sub.SLD)
	assert.Equal(t, "com", sub.TLD)

	// Deeper subdomains keep everything before the registrable domain as
	// the label.
	sub, err = splitSubdomain("app.eu.onjuzbuild.com")
	require.NoError(t, err)
	assert.Equal(t, "app.eu", sub.Label)
	assert.Equal(t, "onjuzbuild", sub.SLD)

	_, err = splitSubdomain("onjuzbuild.com")
	assert.ErrorContains(t, err, "at least three labels")

	_, err = splitSubdomain("")
	assert.Error(t, err)
}

func TestParseHostRecordsAttributeOrder(t *testing.T) {
	// Same record shape, attributes shuffled per tag; order must not matter.
	body := `<?xml version="1.0" encoding="utf-8"?>
<ApiResponse xmlns="http://api.namecheap.com/xml.response" Status="OK">
 <CommandResponse>
  <DomainDNSGetHostsResult>
   <host HostId="1" Name="app" Type="CNAME" Address="cname.vercel-dns.com." TTL="1800" />
   <host Address="10.0.0.9" TTL="300" HostId="2" Type="A" Name="mail" MXPref="10" />
  </DomainDNSGetHostsResult>
 </CommandResponse>
</ApiResponse>`

	status, records, err := parseHostRecords([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "OK", status)
	require.Len(t, records, 2)

	assert.Equal(t, hostRecord{HostID: "1", Name: "app", Type: "CNAME", Address: "cname.vercel-dns.com.", TTL: "1800"}, records[0])
	assert.Equal(t, hostRecord{HostID: "2", Name: "mail", Type: "A", Address: "10.0.0.9", TTL: "300", MXPref: "10"}, records[1])
}

func TestParseHostRecordsMalformed(t *testing.T) {
	_, _, err := parseHostRecords([]byte(`<ApiResponse Status="OK"><host`))
	assert.ErrorContains(t, err, "malformed registrar response")
}

func TestComplementRecords(t *testing.T) {
	records := []hostRecord{
		{Name: "app"},
		{Name: "app.www"},
		{Name: "blog"},
		{Name: "@"},
	}

	keep, matched := complementRecords(records, "app")
	assert.Equal(t, 2, matched)
	require.Len(t, keep, 2)
	assert.Equal(t, "blog", keep[0].Name)
	assert.Equal(t, "@", keep[1].Name)

	// "application" shares a prefix but not a label boundary.
	keep, matched = complementRecords([]hostRecord{{Name: "application"}}, "app")
	assert.Zero(t, matched)
	assert.Len(t, keep, 1)
}

func TestDeleteSubdomainRecordsNoOp(t *testing.T) {
	var setHostsForms []url.Values
	srv := namecheapServer(t, getHostsOKNoMatch, &setHostsForms)
	defer srv.Close()

	h := &DeletionHandler{
		Log:               testLogger(),
		HTTPClient:        http.DefaultClient,
		NamecheapAPIUser:  "juzbuild",
		NamecheapAPIKey:   "nc-key",
		NamecheapUsername: "juzbuild",
		NamecheapClientIP: "203.0.113.7",
		NamecheapAPIBase:  srv.URL,
	}

	outcome, err := h.deleteSubdomainRecords(context.Background(), "gone.onjuzbuild.com")
	require.NoError(t, err)
	assert.Equal(t, providerAlreadyGone, outcome)
	assert.Empty(t, setHostsForms)
}

func TestDeleteSubdomainRecordsRegistrarError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<ApiResponse Status="ERROR"><Errors><Error Number="1011102">API Key is invalid</Error></Errors></ApiResponse>`))
	}))
	defer srv.Close()

	h := &DeletionHandler{
		Log:               testLogger(),
		HTTPClient:        http.DefaultClient,
		NamecheapAPIUser:  "juzbuild",
		NamecheapAPIKey:   "bad-key",
		NamecheapUsername: "juzbuild",
		NamecheapClientIP: "203.0.113.7",
		NamecheapAPIBase:  srv.URL,
	}

	outcome, err := h.deleteSubdomainRecords(context.Background(), "s1.onjuzbuild.com")
	assert.Equal(t, providerFailed, outcome)
	assert.ErrorContains(t, err, `status "ERROR"`)
}

func TestDeleteSubdomainRecordsBadFormat(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	h := &DeletionHandler{
		Log:               testLogger(),
		HTTPClient:        http.DefaultClient,
		NamecheapAPIUser:  "juzbuild",
		NamecheapAPIKey:   "nc-key",
		NamecheapUsername: "juzbuild",
		NamecheapClientIP: "203.0.113.7",
		NamecheapAPIBase:  srv.URL,
	}

	outcome, err := h.deleteSubdomainRecords(context.Background(), "onjuzbuild.com")
	assert.Equal(t, providerFailed, outcome)
	assert.ErrorContains(t, err, "at least three labels")
	assert.Zero(t, calls, "a malformed subdomain must not reach the registrar")
}

func TestDeleteSubdomainRecordsMissingCredentials(t *testing.T) {
	h := &DeletionHandler{Log: testLogger(), HTTPClient: http.DefaultClient}

	outcome, err := h.deleteSubdomainRecords(context.Background(), "s1.onjuzbuild.com")
	assert.Equal(t, providerFailed, outcome)
	assert.ErrorContains(t, err, "credentials")
}
