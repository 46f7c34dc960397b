package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"

	"github.com/octobees/prospector/internal/entity"
)

// ErrNoWebhook is returned by NewSheetClient when the webhook URL is empty.
var ErrNoWebhook = errors.New("export: webhook url is required")

// HTTPClient captures the subset of http.Client used by the exporter.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Exporter writes confirmed companies to a spreadsheet and reports which
// domains were already exported.
type Exporter interface {
	SaveResults(ctx context.Context, keyword string, records []entity.VerificationRecord) (string, error)
	ExistingDomains(ctx context.Context) ([]string, error)
}

// SheetClient talks to a spreadsheet webhook that dispatches on an "action" field.
type SheetClient struct {
	client     HTTPClient
	webhookURL string
}

// NewSheetClient builds a webhook client. When client is nil an ID token
// client is tried first so that IAM-protected endpoints work without extra
// configuration; a plain client with a long timeout is the fallback.
func NewSheetClient(client HTTPClient, webhookURL string) (*SheetClient, error) {
	webhookURL = strings.TrimSpace(webhookURL)
	if webhookURL == "" {
		return nil, ErrNoWebhook
	}
	if client == nil {
		idc, err := idtoken.NewClient(context.Background(), webhookURL)
		if err != nil {
			client = &http.Client{Timeout: 5 * time.Minute}
		} else {
			client = idc
		}
	}
	return &SheetClient{client: client, webhookURL: webhookURL}, nil
}

// Row is one exported company.
type Row struct {
	CompanyName string `json:"company_name"`
	BaseURL     string `json:"base_url"`
	ContactURL  string `json:"contact_url"`
	Phone       string `json:"phone"`
	Domain      string `json:"domain"`
}

// Rows flattens verification records into export rows.
func Rows(records []entity.VerificationRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Row{
			CompanyName: rec.CompanyName,
			BaseURL:     rec.RootURL,
			ContactURL:  rec.ContactURL,
			Phone:       rec.Phone,
			Domain:      rec.Domain,
		})
	}
	return rows
}

// SaveResults creates a spreadsheet named after keyword and returns its URL.
func (c *SheetClient) SaveResults(ctx context.Context, keyword string, records []entity.VerificationRecord) (string, error) {
	var resp struct {
		SpreadsheetURL string `json:"spreadsheet_url"`
	}
	err := c.post(ctx, map[string]any{
		"action":         "save_results",
		"search_keyword": keyword,
		"companies":      Rows(records),
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.SpreadsheetURL, nil
}

// Append adds rows to an existing spreadsheet.
func (c *SheetClient) Append(ctx context.Context, spreadsheetID string, records []entity.VerificationRecord) error {
	return c.post(ctx, map[string]any{
		"action":         "append",
		"spreadsheet_id": spreadsheetID,
		"companies":      Rows(records),
	}, nil)
}

// ExistingDomains lists every domain the spreadsheet side already holds.
func (c *SheetClient) ExistingDomains(ctx context.Context) ([]string, error) {
	var resp struct {
		Domains []string `json:"domains"`
	}
	if err := c.post(ctx, map[string]any{"action": "get_domains"}, &resp); err != nil {
		return nil, err
	}
	return resp.Domains, nil
}

func (c *SheetClient) post(ctx context.Context, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook error: %s", extractError(resp.Body))
	}

	var envelope struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read webhook response: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("could not decode webhook response: %w", err)
	}
	if envelope.Error != "" {
		return fmt.Errorf("webhook error: %s", envelope.Error)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("could not decode webhook response: %w", err)
		}
	}
	return nil
}

func extractError(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return "webhook returned an error"
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return string(data)
}

var _ Exporter = (*SheetClient)(nil)
