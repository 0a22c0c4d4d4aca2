package telco

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/RobinHaber/Roamly/internal/pkg/env"
)

const defaultAPIBaseURL = "https://portal.telco-provisioning.net/api/v2"

// Client talks to the Telco provisioning API, the source of truth for
// real-world package templates.
type Client struct {
	BaseURL   string
	APIToken  string
	PartnerID string

	HTTPClient *http.Client
}

// Template is the provider's raw representation of a package offering.
// It is never persisted verbatim; the importer projects it into a
// CatalogEntry.
type Template struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	ByteCount  int64           `json:"byteCount"`
	PeriodDays int             `json:"periodDays"`
	Cost       decimal.Decimal `json:"cost"`
	Zone       string          `json:"zone"`
	Sponsor    string          `json:"sponsor"`
	Countries  []string        `json:"countries"`
	Deleted    bool            `json:"deleted"`
	UIVisible  *bool           `json:"uiVisible"`
}

// VisibleInUI reports whether the provider wants this template offered
// at all. An absent uiVisible flag counts as visible.
func (t Template) VisibleInUI() bool {
	return !t.Deleted && (t.UIVisible == nil || *t.UIVisible)
}

// listTemplatesResponse is the provider's response envelope; status is
// the provider's own result code, zero on success.
type listTemplatesResponse struct {
	Status    int        `json:"status"`
	Message   string     `json:"message"`
	Templates []Template `json:"templates"`
}

func NewClientFromEnv() *Client {
	return &Client{
		BaseURL:   strings.TrimRight(env.GetEnv("TELCO_API_BASE_URL", defaultAPIBaseURL), "/"),
		APIToken:  strings.TrimSpace(env.GetEnv("TELCO_API_TOKEN", "")),
		PartnerID: strings.TrimSpace(env.GetEnv("TELCO_PARTNER_ID", "")),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ListTemplates fetches the authoritative package-template list for
// the configured partner.
func (c *Client) ListTemplates(ctx context.Context) ([]Template, error) {
	if c.APIToken == "" {
		return nil, errors.New("TELCO_API_TOKEN is not configured")
	}
	if c.PartnerID == "" {
		return nil, errors.New("TELCO_PARTNER_ID is not configured")
	}

	url := fmt.Sprintf("%s/partners/%s/package-templates", c.BaseURL, c.PartnerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build telco request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telco API unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read telco response: %w", err)
	}

	if resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("telco API returned 403 Forbidden: the API token may be expired, "+
			"the server IP may not be on the provider's allow-list, or the hosting provider is being "+
			"blocked upstream; verify the token and the allow-listed IPs in the partner portal (body: %s)",
			truncateBody(body))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("telco API returned HTTP %d: %s", resp.StatusCode, truncateBody(body))
	}

	var envelope listTemplatesResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("unparsable telco response: %v (body: %s)", err, truncateBody(body))
	}
	if envelope.Status != 0 {
		return nil, fmt.Errorf("telco API reported status %d: %s", envelope.Status, envelope.Message)
	}

	return envelope.Templates, nil
}

func truncateBody(body []byte) string {
	const max = 512
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
