package reconcile

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentfolio/rentfolio/internal/integrations"
	"github.com/rentfolio/rentfolio/internal/ledger"
	"github.com/rentfolio/rentfolio/internal/shared"
)

func newReconcileRouter(r *Reconciler) http.Handler {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), r)
	router := chi.NewRouter()
	h.Mount(router)
	return router
}

func postCheck(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/reconciliation/check", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCheckEndpoint(t *testing.T) {
	source := &mockTransactionSource{
		txs: directTransactions(),
		accounts: []ledger.Account{
			{AccountNumber: "1234", TaxCode: "3"},
			{AccountNumber: "5678", TaxCode: "3"},
		},
	}
	store := &mockIntegrationStore{integration: integrations.Integration{ID: "INT1"}}
	factory := &mockGatewayFactory{gateway: &mockGateway{
		accounts: []ExternalAccount{{Code: "1234", VATCode: "3"}},
	}}
	router := newReconcileRouter(newTestReconciler(source, store, factory, &mockLocker{}))

	rec := postCheck(t, router, `{"partnerId":"P1","accountId":"A1","type":"power_office_go","partnerKind":"direct"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "5678", report.MissingAccountCode)
	assert.True(t, report.HasError)
	assert.Equal(t, integrations.StatusPending, report.Status)
}

func TestCheckEndpointValidation(t *testing.T) {
	router := newReconcileRouter(newTestReconciler(&mockTransactionSource{}, &mockIntegrationStore{}, &mockGatewayFactory{}, &mockLocker{}))

	cases := []struct {
		name string
		body string
	}{
		{"missing partner", `{"type":"xledger"}`},
		{"unknown system", `{"partnerId":"P1","type":"sage"}`},
		{"bad json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postCheck(t, router, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCheckEndpointNotFound(t *testing.T) {
	store := &mockIntegrationStore{resolveErr: integrations.ErrNotFound}
	router := newReconcileRouter(newTestReconciler(&mockTransactionSource{}, store, &mockGatewayFactory{}, &mockLocker{}))

	rec := postCheck(t, router, `{"partnerId":"P1","type":"xledger"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckEndpointConflict(t *testing.T) {
	store := &mockIntegrationStore{integration: integrations.Integration{ID: "INT1"}}
	locker := &mockLocker{err: shared.ErrLockHeld}
	router := newReconcileRouter(newTestReconciler(&mockTransactionSource{}, store, &mockGatewayFactory{}, locker))

	rec := postCheck(t, router, `{"partnerId":"P1","type":"power_office_go"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
