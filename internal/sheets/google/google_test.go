package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"ledger/internal/config"
	"ledger/internal/core"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return NewWithService(svc, "sheet-123", "Expenses")
}

func TestClient_Append(t *testing.T) {
	var gotPath, gotInput string
	var gotBody struct {
		Values [][]any `json:"values"`
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInput = r.URL.Query().Get("valueInputOption")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"updates":{"updatedRange":"Expenses!A7:F7"}}`))
	})

	ref, err := c.Append(context.Background(), core.Expense{
		ID: 7, Date: "2024-01-05", Amount: 12.5, Category: "Food & Dining", Subcategory: "Lunch", Note: "team",
	})
	require.NoError(t, err)

	assert.Equal(t, "Expenses!A7:F7", ref)
	assert.True(t, strings.HasPrefix(gotPath, "/v4/spreadsheets/sheet-123/values/"), gotPath)
	assert.True(t, strings.HasSuffix(gotPath, ":append"), gotPath)
	assert.Equal(t, "USER_ENTERED", gotInput)
	require.Len(t, gotBody.Values, 1)
	assert.Equal(t, []any{float64(7), "2024-01-05", 12.5, "Food & Dining", "Lunch", "team"}, gotBody.Values[0])
}

func TestClient_AppendErrors(t *testing.T) {
	t.Run("api error is wrapped", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"code":403,"message":"forbidden"}}`, http.StatusForbidden)
		})
		_, err := c.Append(context.Background(), core.Expense{ID: 1, Date: "2024-01-01", Category: "Other"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "append to sheet Expenses")
	})

	t.Run("uninitialized service", func(t *testing.T) {
		c := &Client{spreadsheetID: "x", sheetName: "Expenses"}
		_, err := c.Append(context.Background(), core.Expense{ID: 1})
		assert.EqualError(t, err, "sheets service not initialized")
	})

	t.Run("unpersisted expense", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		_, err := c.Append(context.Background(), core.Expense{Date: "2024-01-01"})
		assert.Error(t, err)
	})
}

func TestRow(t *testing.T) {
	row := Row(core.Expense{ID: 3, Date: "2024-02-01", Amount: -4, Category: "Other"})
	assert.Equal(t, []any{int64(3), "2024-02-01", float64(-4), "Other", "", ""}, row)
}

func TestNew_CredentialErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		creds   Credentials
		wantErr string
	}{
		{"missing spreadsheet id", "", Credentials{ServiceAccountJSON: []byte("{}")}, "missing spreadsheet id"},
		{"no credentials", "id", Credentials{}, "missing credentials"},
		{"client without token", "id", Credentials{OAuthClientJSON: []byte("{}")}, "missing oauth token"},
		{"invalid client json", "id", Credentials{OAuthClientJSON: []byte("invalid-json"), OAuthTokenJSON: []byte(`{"access_token":"t"}`)}, "oauth config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(ctx, tt.id, "Expenses", tt.creds)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNew_OAuth(t *testing.T) {
	client := `{"installed":{"client_id":"cid","client_secret":"secret","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`

	t.Run("valid client and token", func(t *testing.T) {
		c, err := New(context.Background(), "id", "", Credentials{
			OAuthClientJSON: []byte(client),
			OAuthTokenJSON:  []byte(`{"access_token":"test","token_type":"Bearer"}`),
		})
		require.NoError(t, err)
		assert.Equal(t, "Expenses", c.sheetName)
	})

	t.Run("invalid token json", func(t *testing.T) {
		_, err := New(context.Background(), "id", "Expenses", Credentials{
			OAuthClientJSON: []byte(client),
			OAuthTokenJSON:  []byte(`not json`),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "oauth token")
	})
}

func TestCredentialsFromConfig(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
		return p
	}

	t.Run("service account file wins", func(t *testing.T) {
		creds, err := CredentialsFromConfig(&config.Config{
			GoogleServiceAccountFile: write("sa.json", `{"type":"service_account"}`),
			GoogleOAuthClientJSON:    `{"installed":{}}`,
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"service_account"}`, string(creds.ServiceAccountJSON))
		assert.Empty(t, creds.OAuthClientJSON)
	})

	t.Run("inline json preferred over file", func(t *testing.T) {
		creds, err := CredentialsFromConfig(&config.Config{
			GoogleOAuthClientJSON: `{"inline":true}`,
			GoogleOAuthClientFile: write("client.json", `{"inline":false}`),
			GoogleOAuthTokenFile:  write("token.json", `{"access_token":"a"}`),
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"inline":true}`, string(creds.OAuthClientJSON))
		assert.JSONEq(t, `{"access_token":"a"}`, string(creds.OAuthTokenJSON))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := CredentialsFromConfig(&config.Config{GoogleOAuthTokenFile: filepath.Join(dir, "nope.json")})
		assert.Error(t, err)
	})
}
