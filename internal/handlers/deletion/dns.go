package deletion

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// The registrar API has no "delete one record" primitive, only "replace the
// entire host-record set". Removing a subdomain therefore means: fetch every
// record for the parent domain, drop the ones belonging to the subdomain, and
// resubmit the complement as the new complete set.

type hostRecord struct {
	HostID  string
	Name    string
	Type    string
	Address string
	MXPref  string
	TTL     string
}

type parsedSubdomain struct {
	Label string
	SLD   string
	TLD   string
}

// splitSubdomain splits "s1.onjuzbuild.com" into label "s1", SLD "onjuzbuild"
// and TLD "com". The parent domain owns the last two segments, so anything
// with fewer than three is not a deletable subdomain.
func splitSubdomain(fqdn string) (*parsedSubdomain, error) {
	parts := strings.Split(strings.Trim(fqdn, "."), ".")
	if len(parts) < 3 {
		return nil, fmt.Errorf("subdomain %q must have at least three labels (sub.domain.tld)", fqdn)
	}
	return &parsedSubdomain{
		Label: strings.Join(parts[:len(parts)-2], "."),
		SLD:   parts[len(parts)-2],
		TLD:   parts[len(parts)-1],
	}, nil
}

// recordBelongsTo matches the subdomain's own records and its child records
// such as "label.www".
func recordBelongsTo(name, label string) bool {
	return name == label || strings.HasPrefix(name, label+".")
}

// complementRecords partitions the full record set, returning the records to
// keep and how many matched the subdomain.
func complementRecords(records []hostRecord, label string) ([]hostRecord, int) {
	keep := make([]hostRecord, 0, len(records))
	matched := 0
	for _, rec := range records {
		if recordBelongsTo(rec.Name, label) {
			matched++
			continue
		}
		keep = append(keep, rec)
	}
	return keep, matched
}

// parseHostRecords walks the registrar's XML for self-closing host tags,
// reading attributes by name so their order never matters. The ApiResponse
// Status attribute is returned alongside.
func parseHostRecords(body []byte) (string, []hostRecord, error) {
	var status string
	var records []hostRecord

	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("malformed registrar response: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch {
		case strings.EqualFold(se.Name.Local, "ApiResponse"):
			for _, attr := range se.Attr {
				if strings.EqualFold(attr.Name.Local, "Status") {
					status = attr.Value
				}
			}
		case strings.EqualFold(se.Name.Local, "host"):
			var rec hostRecord
			for _, attr := range se.Attr {
				switch strings.ToLower(attr.Name.Local) {
				case "hostid":
					rec.HostID = attr.Value
				case "name":
					rec.Name = attr.Value
				case "type":
					rec.Type = attr.Value
				case "address":
					rec.Address = attr.Value
				case "mxpref":
					rec.MXPref = attr.Value
				case "ttl":
					rec.TTL = attr.Value
				}
			}
			records = append(records, rec)
			if err := dec.Skip(); err != nil {
				return "", nil, fmt.Errorf("malformed registrar response: %w", err)
			}
		}
	}
	return status, records, nil
}

// deleteSubdomainRecords removes every host record belonging to the
// subdomain. Zero matching records means the subdomain is already gone, and
// no resubmission call is made.
func (h *DeletionHandler) deleteSubdomainRecords(ctx context.Context, fqdn string) (providerOutcome, error) {
	if h.NamecheapAPIUser == "" || h.NamecheapAPIKey == "" || h.NamecheapUsername == "" || h.NamecheapClientIP == "" {
		return providerFailed, errors.New("namecheap credentials are not fully configured")
	}

	sub, err := splitSubdomain(fqdn)
	if err != nil {
		return providerFailed, err
	}

	records, err := h.getHostRecords(ctx, sub)
	if err != nil {
		return providerFailed, err
	}

	keep, matched := complementRecords(records, sub.Label)
	if matched == 0 {
		return providerAlreadyGone, nil
	}

	if err := h.setHostRecords(ctx, sub, keep); err != nil {
		return providerFailed, err
	}
	return providerDeleted, nil
}

func (h *DeletionHandler) namecheapQuery(command string, sub *parsedSubdomain) url.Values {
	q := url.Values{}
	q.Set("ApiUser", h.NamecheapAPIUser)
	q.Set("ApiKey", h.NamecheapAPIKey)
	q.Set("UserName", h.NamecheapUsername)
	q.Set("ClientIp", h.NamecheapClientIP)
	q.Set("Command", command)
	q.Set("SLD", sub.SLD)
	q.Set("TLD", sub.TLD)
	return q
}

func (h *DeletionHandler) getHostRecords(ctx context.Context, sub *parsedSubdomain) ([]hostRecord, error) {
	q := h.namecheapQuery("namecheap.domains.dns.getHosts", sub)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.NamecheapAPIBase+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create getHosts request: %w", err)
	}

	res, err := h.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("getHosts request failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read getHosts response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registrar getHosts returned error: [%d: %s]", res.StatusCode, string(body))
	}

	status, records, err := parseHostRecords(body)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(status, "OK") {
		return nil, fmt.Errorf("registrar getHosts returned status %q: %s", status, string(body))
	}
	return records, nil
}

// setHostRecords resubmits the surviving records as the new complete set,
// renumbering every record's fields sequentially from 1.
func (h *DeletionHandler) setHostRecords(ctx context.Context, sub *parsedSubdomain, records []hostRecord) error {
	form := h.namecheapQuery("namecheap.domains.dns.setHosts", sub)
	for i, rec := range records {
		n := strconv.Itoa(i + 1)
		form.Set("HostName"+n, rec.Name)
		form.Set("RecordType"+n, rec.Type)
		form.Set("Address"+n, rec.Address)
		if rec.MXPref != "" {
			form.Set("MXPref"+n, rec.MXPref)
		}
		if rec.TTL != "" {
			form.Set("TTL"+n, rec.TTL)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.NamecheapAPIBase, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create setHosts request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := h.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("setHosts request failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read setHosts response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("registrar setHosts returned error: [%d: %s]", res.StatusCode, string(body))
	}

	status, _, err := parseHostRecords(body)
	if err != nil {
		return err
	}
	if !strings.EqualFold(status, "OK") {
		return fmt.Errorf("registrar setHosts returned status %q: %s", status, string(body))
	}
	return nil
}
