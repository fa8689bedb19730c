package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakeibo-dev/kakeibo/internal/clock"
	"github.com/kakeibo-dev/kakeibo/internal/config"
	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/logging"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/service"
	"github.com/kakeibo-dev/kakeibo/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	repo, err := store.Open(config.StorageConfig{
		Backend: config.BackendFile,
		Path:    filepath.Join(t.TempDir(), "book.json"),
		Backups: 3,
	}, logging.NewSilent())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	svc := service.New(repo, clock.At(day.MustParse("2024-05-20")), logging.NewSilent())
	srv := httptest.NewServer(NewServer(svc, logging.NewSilent()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestTransactionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodPost, "/api/transactions",
		`{"kind":"expense","date":"2024-05-18","amount":1200,"accountId":1,"category":"食費","tags":["外食"]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created model.Transaction
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, 1, created.ID)

	resp, body = do(t, srv, http.MethodGet, "/api/transactions?month=2024-05", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var txs []model.Transaction
	require.NoError(t, json.Unmarshal(body, &txs))
	assert.Len(t, txs, 1)

	resp, body = do(t, srv, http.MethodPut, "/api/transactions/1", `{"amount":1500}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = do(t, srv, http.MethodGet, "/api/accounts", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var accts []model.Account
	require.NoError(t, json.Unmarshal(body, &accts))
	assert.Equal(t, int64(-1500), accts[0].Balance)

	resp, _ = do(t, srv, http.MethodDelete, "/api/transactions/1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, srv, http.MethodGet, "/api/check", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true,"mismatches":[]}`, string(body))
}

func TestErrorStatuses(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/transactions", `{"kind":"expense","date":"2024-05-18","amount":10,"accountId":2}`)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"validation", http.MethodPost, "/api/transactions", `{"kind":"expense","date":"2024-05-18","amount":0,"accountId":1}`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/transactions", `{"kind":"expense","price":3}`, http.StatusBadRequest},
		{"bad id", http.MethodDelete, "/api/transactions/abc", "", http.StatusBadRequest},
		{"missing transaction", http.MethodPut, "/api/transactions/99", `{"amount":5}`, http.StatusNotFound},
		{"missing account", http.MethodPost, "/api/transactions", `{"kind":"expense","date":"2024-05-18","amount":5,"accountId":99}`, http.StatusNotFound},
		{"referenced account", http.MethodDelete, "/api/accounts/2", "", http.StatusConflict},
		{"missing template", http.MethodDelete, "/api/fixed-costs/4", "", http.StatusNotFound},
		{"bad month", http.MethodGet, "/api/pl?month=2024-13", "", http.StatusBadRequest},
		{"bad horizon", http.MethodGet, "/api/cashflow?months=0", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))
			var e errorResponse
			require.NoError(t, json.Unmarshal(body, &e))
			assert.NotEmpty(t, e.Error)
		})
	}
}

func TestValidationErrorNamesField(t *testing.T) {
	srv := newTestServer(t)
	_, body := do(t, srv, http.MethodPost, "/api/transactions", `{"kind":"expense","date":"2024-05-18","amount":0,"accountId":1}`)
	var e errorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "amount", e.Field)
}

func TestTemplatesAndAccounts(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodPost, "/api/accounts", `{"name":"Wallet","type":"asset","balance":3000}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var res accountResult
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, int64(3000), res.Account.Balance)
	require.NotNil(t, res.Adjustment)

	resp, body = do(t, srv, http.MethodPost, "/api/fixed-costs", `{"name":"Phone","amount":3000,"day":10,"accountId":5}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	resp, body = do(t, srv, http.MethodPut, "/api/fixed-costs/1", `{"amount":3300}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = do(t, srv, http.MethodPost, "/api/income-schedule", `{"name":"Salary","amount":250000,"day":25,"accountId":2}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	resp, _ = do(t, srv, http.MethodDelete, "/api/income-schedule/1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, srv, http.MethodGet, "/api/fixed-costs", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fcs []model.FixedCost
	require.NoError(t, json.Unmarshal(body, &fcs))
	require.Len(t, fcs, 1)
	assert.Equal(t, int64(3300), fcs[0].Amount)
}

func TestViews(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPut, "/api/accounts/2", `{"balance":100000}`)

	for _, path := range []string{"/api/summary", "/api/bs", "/api/categories", "/api/pl", "/api/pl?month=2024-04"} {
		resp, body := do(t, srv, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, path+": "+string(body))
	}

	_, body := do(t, srv, http.MethodGet, "/api/cashflow", "")
	var p struct {
		Hand   int64             `json:"hand"`
		Months []json.RawMessage `json:"months"`
	}
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, int64(100000), p.Hand)
	assert.Len(t, p.Months, 3)

	_, body = do(t, srv, http.MethodGet, "/api/calendar?month=2024-05", "")
	var cal struct {
		NumDays  int               `json:"numDays"`
		FirstDow int               `json:"firstDow"`
		Days     []json.RawMessage `json:"days"`
	}
	require.NoError(t, json.Unmarshal(body, &cal))
	assert.Equal(t, 31, cal.NumDays)
	assert.Equal(t, 3, cal.FirstDow)
	assert.Len(t, cal.Days, 31)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/transactions", `{"kind":"income","date":"2024-05-18","amount":10,"accountId":1}`)

	resp, body := do(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "kakeibo_ledger_postings_total")
}
