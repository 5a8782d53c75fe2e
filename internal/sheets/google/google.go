package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	goauth "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"ledger/internal/config"
	"ledger/internal/core"
	"ledger/internal/log"
	ports "ledger/internal/sheets"
)

// Client appends expense rows to one sheet of a spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.ExpenseWriter = (*Client)(nil)

// Credentials holds the raw JSON documents used to authenticate. A service
// account takes precedence over an OAuth client + token pair.
type Credentials struct {
	ServiceAccountJSON []byte
	OAuthClientJSON    []byte
	OAuthTokenJSON     []byte
}

// CredentialsFromConfig resolves inline JSON or file paths from cfg.
func CredentialsFromConfig(cfg *config.Config) (Credentials, error) {
	var creds Credentials
	var err error

	if creds.ServiceAccountJSON, err = inlineOrFile(cfg.GoogleServiceAccountJSON, cfg.GoogleServiceAccountFile); err != nil {
		return Credentials{}, fmt.Errorf("read service account: %w", err)
	}
	if len(creds.ServiceAccountJSON) > 0 {
		return creds, nil
	}

	if creds.OAuthClientJSON, err = inlineOrFile(cfg.GoogleOAuthClientJSON, cfg.GoogleOAuthClientFile); err != nil {
		return Credentials{}, fmt.Errorf("read oauth client: %w", err)
	}
	if creds.OAuthTokenJSON, err = inlineOrFile(cfg.GoogleOAuthTokenJSON, cfg.GoogleOAuthTokenFile); err != nil {
		return Credentials{}, fmt.Errorf("read oauth token: %w", err)
	}
	return creds, nil
}

func inlineOrFile(inline, path string) ([]byte, error) {
	if s := strings.TrimSpace(inline); s != "" {
		return []byte(s), nil
	}
	if p := strings.TrimSpace(path); p != "" {
		return os.ReadFile(p)
	}
	return nil, nil
}

// New authenticates and returns a client writing to spreadsheetID!sheetName.
func New(ctx context.Context, spreadsheetID, sheetName string, creds Credentials) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	opts, err := clientOptions(ctx, creds)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	log.Default(log.ComponentSheets).InfoContext(ctx, "Google Sheets service created", "spreadsheet_id", spreadsheetID, "sheet", sheetName)
	return NewWithService(svc, spreadsheetID, sheetName), nil
}

// NewWithService wraps an already configured Sheets service.
func NewWithService(svc *gsheet.Service, spreadsheetID, sheetName string) *Client {
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Expenses"
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}
}

func clientOptions(ctx context.Context, creds Credentials) ([]goption.ClientOption, error) {
	if len(creds.ServiceAccountJSON) > 0 {
		return []goption.ClientOption{
			goption.WithCredentialsJSON(creds.ServiceAccountJSON),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}, nil
	}

	if len(creds.OAuthClientJSON) == 0 {
		return nil, errors.New("missing credentials (set a service account or an OAuth client and token)")
	}
	if len(creds.OAuthTokenJSON) == 0 {
		return nil, errors.New("missing oauth token (run oauth-init)")
	}

	oauthCfg, err := goauth.ConfigFromJSON(creds.OAuthClientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(creds.OAuthTokenJSON, &tok); err != nil {
		return nil, fmt.Errorf("oauth token: %w", err)
	}

	return []goption.ClientOption{
		goption.WithTokenSource(oauthCfg.TokenSource(ctx, &tok)),
	}, nil
}

// Row lays out an expense as sheet cells: id, date, amount, category,
// subcategory, note.
func Row(e core.Expense) []any {
	return []any{e.ID, e.Date, e.Amount, e.Category, e.Subcategory, e.Note}
}

// Append writes e after the last row of the sheet and returns the updated range.
func (c *Client) Append(ctx context.Context, e core.Expense) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if e.ID <= 0 {
		return "", fmt.Errorf("expense id must be positive, got %d", e.ID)
	}

	rng := fmt.Sprintf("%s!A:F", c.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{Row(e)}}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}

	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		return resp.Updates.UpdatedRange, nil
	}
	return rng, nil
}
