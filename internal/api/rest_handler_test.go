package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ledger/internal/domain"
	"ledger/internal/processor"
	"ledger/internal/repository/memory"
	"ledger/internal/service"
	"ledger/pkg/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	accounts := memory.NewAccountRepository()
	proc := processor.NewTransactionProcessor(accounts, memory.NewTransactionRepository(),
		processor.NewRuleEngine(domain.DefaultLimits()), nil, logger)
	registry := service.NewRegistry(memory.NewUserRepository(), accounts, "0001", logger)
	return NewAPIHandler(proc, registry, crypto.NewSigner("k", logger), logger).Routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func withAccount(t *testing.T) http.Handler {
	t.Helper()
	h := newRouter(t)
	rec := do(t, h, "POST", "/api/v1/users", `{"ssn":"1","name":"Ada","birth_date":"12-10-1815","address":"London"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, h, "POST", "/api/v1/accounts", `{"ssn":"1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	return h
}

func TestHealthCheck(t *testing.T) {
	rec := do(t, newRouter(t), "GET", "/api/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "500.00", body["withdrawal_limit"])
}

func TestCreateUser(t *testing.T) {
	h := newRouter(t)

	rec := do(t, h, "POST", "/api/v1/users", `{"ssn":"1","name":"Ada","birth_date":"x","address":"y"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, "POST", "/api/v1/users", `{"ssn":"1","name":"Bob","birth_date":"x","address":"y"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, "POST", "/api/v1/users", `{"ssn":"2","name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "birth_date")

	rec = do(t, h, "POST", "/api/v1/users", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOpenAccount(t *testing.T) {
	h := withAccount(t)

	rec := do(t, h, "POST", "/api/v1/accounts", `{"ssn":"missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, "GET", "/api/v1/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.AccountSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, domain.AccountSummary{Agency: "0001", Number: 1, Holder: "Ada", HolderSSN: "1", Balance: "0.00"}, list[0])
}

func TestOperations(t *testing.T) {
	h := withAccount(t)

	rec := do(t, h, "POST", "/api/v1/accounts/1/deposits", `{"amount":"100"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var v VerdictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, VerdictResponse{Accepted: true, Balance: "100.00"}, v)

	rec = do(t, h, "POST", "/api/v1/accounts/1/withdrawals", `{"amount":"501"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	v = VerdictResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.False(t, v.Accepted)
	assert.Equal(t, "insufficient_funds", v.Reason)

	rec = do(t, h, "POST", "/api/v1/accounts/1/withdrawals", `{"amount":"40"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	v = VerdictResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, VerdictResponse{Accepted: true, Balance: "60.00", WithdrawalCount: 1}, v)
}

func TestOperations_BadInput(t *testing.T) {
	h := withAccount(t)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"non-numeric amount", "/api/v1/accounts/1/deposits", `{"amount":"ten"}`, http.StatusBadRequest},
		{"missing amount", "/api/v1/accounts/1/deposits", `{}`, http.StatusBadRequest},
		{"zero amount", "/api/v1/accounts/1/deposits", `{"amount":"0"}`, http.StatusUnprocessableEntity},
		{"bad account number", "/api/v1/accounts/abc/deposits", `{"amount":"1"}`, http.StatusBadRequest},
		{"unknown account", "/api/v1/accounts/9/withdrawals", `{"amount":"1"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, "POST", tt.path, tt.body)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestStatement(t *testing.T) {
	h := withAccount(t)

	rec := do(t, h, "GET", "/api/v1/accounts/1/statement", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var st StatementResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.True(t, st.Empty)
	assert.Equal(t, domain.NoTransactions, st.Text)
	assert.Equal(t, "0.00", st.Balance)
	emptySig := rec.Header().Get(SignatureHeader)
	assert.Len(t, emptySig, 64)

	do(t, h, "POST", "/api/v1/accounts/1/deposits", `{"amount":"12.345"}`)

	rec = do(t, h, "GET", "/api/v1/accounts/1/statement", "")
	st = StatementResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, []string{"Deposit: $ 12.35"}, st.Lines)
	assert.NotEqual(t, emptySig, rec.Header().Get(SignatureHeader))

	rec = do(t, h, "GET", "/api/v1/accounts/2/statement", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransactions(t *testing.T) {
	h := withAccount(t)
	do(t, h, "POST", "/api/v1/accounts/1/deposits", `{"amount":"100"}`)
	do(t, h, "POST", "/api/v1/accounts/1/withdrawals", `{"amount":"0"}`)

	rec := do(t, h, "GET", "/api/v1/accounts/1/transactions", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var txs []domain.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txs))
	require.Len(t, txs, 1)
	assert.Equal(t, domain.TypeDeposit, txs[0].Type)
	require.NotEmpty(t, txs[0].ID)

	rec = do(t, h, "GET", "/api/v1/transactions/"+txs[0].ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tx domain.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tx))
	assert.Equal(t, "100.00", domain.FormatMoney(tx.BalanceAfter))

	rec = do(t, h, "GET", "/api/v1/transactions/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsers(t *testing.T) {
	h := withAccount(t)

	rec := do(t, h, "GET", "/api/v1/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var users []domain.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "Ada", users[0].Name)

	rec = do(t, h, "GET", "/api/v1/users/1/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var accounts []domain.AccountSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accounts))
	require.Len(t, accounts, 1)
	assert.Equal(t, 1, accounts[0].Number)

	rec = do(t, h, "GET", "/api/v1/users/9/accounts", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
