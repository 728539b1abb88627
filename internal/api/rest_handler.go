package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"ledger/internal/domain"
	"ledger/internal/processor"
	"ledger/internal/repository"
	"ledger/internal/service"
	"ledger/pkg/crypto"
	"ledger/pkg/validator"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

const SignatureHeader = "X-Statement-Signature"

type APIHandler struct {
	processor      *processor.TransactionProcessor
	registry       *service.Registry
	signer         *crypto.Signer
	validator      *validator.InputValidator
	logger         *slog.Logger
	requestTimeout time.Duration
}

func NewAPIHandler(
	processor *processor.TransactionProcessor,
	registry *service.Registry,
	signer *crypto.Signer,
	logger *slog.Logger,
) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &APIHandler{
		processor:      processor,
		registry:       registry,
		signer:         signer,
		validator:      validator.NewInputValidator(),
		logger:         logger,
		requestTimeout: 30 * time.Second,
	}
}

type CreateUserRequest struct {
	SSN       string `json:"ssn"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	Address   string `json:"address"`
}

type OpenAccountRequest struct {
	SSN string `json:"ssn"`
}

// AmountRequest carries the amount as decimal text, e.g. "100.00".
type AmountRequest struct {
	Amount string `json:"amount"`
}

type VerdictResponse struct {
	Accepted        bool   `json:"accepted"`
	Reason          string `json:"reason,omitempty"`
	Message         string `json:"message,omitempty"`
	Balance         string `json:"balance,omitempty"`
	WithdrawalCount int    `json:"withdrawal_count"`
}

type StatementResponse struct {
	AccountNumber int      `json:"account_number"`
	Lines         []string `json:"lines"`
	Balance       string   `json:"balance"`
	Empty         bool     `json:"empty"`
	Text          string   `json:"text"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Routes builds the router with the middleware stack and every endpoint.
func (h *APIHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	h.RegisterRoutes(r)
	return r
}

func (h *APIHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/health", h.HealthCheckHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", h.CreateUserHandler)
		r.Get("/users", h.ListUsersHandler)
		r.Get("/users/{ssn}/accounts", h.UserAccountsHandler)
		r.Get("/transactions/{id}", h.GetTransactionHandler)
		r.Post("/accounts", h.OpenAccountHandler)
		r.Get("/accounts", h.ListAccountsHandler)

		r.Route("/accounts/{number}", func(r chi.Router) {
			r.Post("/deposits", h.operationHandler(domain.TypeDeposit))
			r.Post("/withdrawals", h.operationHandler(domain.TypeWithdrawal))
			r.Get("/statement", h.StatementHandler)
			r.Get("/transactions", h.TransactionsHandler)
		})
	})
}

func (h *APIHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	limits := h.processor.Limits()
	h.sendJSON(w, r, map[string]interface{}{
		"status":                 "healthy",
		"timestamp":              time.Now().UTC(),
		"agency":                 h.registry.Agency(),
		"withdrawal_limit":       domain.FormatMoney(limits.PerTransaction),
		"withdrawal_count_limit": limits.WithdrawalCount,
	}, http.StatusOK)
}

func (h *APIHandler) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var req CreateUserRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.sendError(w, r, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	user, err := h.validator.NormalizeUser(domain.User{
		SSN:       req.SSN,
		Name:      req.Name,
		BirthDate: req.BirthDate,
		Address:   req.Address,
	})
	if err != nil {
		h.sendError(w, r, err.Error(), http.StatusBadRequest, "VALIDATION_ERROR")
		return
	}

	created, err := h.registry.RegisterUser(ctx, user)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			h.sendError(w, r, err.Error(), http.StatusConflict, "USER_EXISTS")
			return
		}
		h.serverError(w, r, "Failed to register user", err)
		return
	}

	h.sendJSON(w, r, created, http.StatusCreated)
}

func (h *APIHandler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.registry.ListUsers(r.Context())
	if err != nil {
		h.serverError(w, r, "Failed to list users", err)
		return
	}
	h.sendJSON(w, r, users, http.StatusOK)
}

func (h *APIHandler) UserAccountsHandler(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.registry.UserAccounts(r.Context(), chi.URLParam(r, "ssn"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.sendError(w, r, err.Error(), http.StatusNotFound, "USER_NOT_FOUND")
			return
		}
		h.serverError(w, r, "Failed to list accounts", err)
		return
	}
	h.sendJSON(w, r, summaries(accounts), http.StatusOK)
}

func (h *APIHandler) OpenAccountHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var req OpenAccountRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.sendError(w, r, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	ssn, err := h.validator.ValidateSSN(req.SSN)
	if err != nil {
		h.sendError(w, r, err.Error(), http.StatusBadRequest, "VALIDATION_ERROR")
		return
	}

	account, err := h.registry.OpenAccount(ctx, ssn)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.sendError(w, r, err.Error(), http.StatusNotFound, "USER_NOT_FOUND")
			return
		}
		h.serverError(w, r, "Failed to open account", err)
		return
	}

	h.sendJSON(w, r, account.Summary(), http.StatusCreated)
}

func (h *APIHandler) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.registry.ListAccounts(r.Context())
	if err != nil {
		h.serverError(w, r, "Failed to list accounts", err)
		return
	}

	h.sendJSON(w, r, summaries(accounts), http.StatusOK)
}

func (h *APIHandler) operationHandler(t domain.TransactionType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
		defer cancel()

		number, ok := h.accountNumber(w, r)
		if !ok {
			return
		}

		var req AmountRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			h.sendError(w, r, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
			return
		}
		amount, err := h.validator.ParseAmount(req.Amount)
		if err != nil {
			h.sendError(w, r, err.Error(), http.StatusBadRequest, "INVALID_AMOUNT")
			return
		}

		verdict, err := h.processor.Process(ctx, number, domain.Operation{Type: t, Amount: amount})
		if err != nil {
			h.lookupError(w, r, err)
			return
		}

		if !verdict.Accepted {
			h.sendJSON(w, r, VerdictResponse{
				Accepted: false,
				Reason:   verdict.Reason.String(),
				Message:  verdict.Err().Error(),
			}, http.StatusUnprocessableEntity)
			return
		}

		h.sendJSON(w, r, VerdictResponse{
			Accepted:        true,
			Balance:         domain.FormatMoney(verdict.Balance),
			WithdrawalCount: verdict.WithdrawalCount,
		}, http.StatusOK)
	}
}

func (h *APIHandler) StatementHandler(w http.ResponseWriter, r *http.Request) {
	number, ok := h.accountNumber(w, r)
	if !ok {
		return
	}

	st, err := h.processor.Statement(r.Context(), number)
	if err != nil {
		h.lookupError(w, r, err)
		return
	}

	if h.signer != nil {
		w.Header().Set(SignatureHeader, h.signer.SignStatement(number, st))
	}
	h.sendJSON(w, r, StatementResponse{
		AccountNumber: number,
		Lines:         st.Lines(),
		Balance:       st.FormattedBalance(),
		Empty:         st.Empty(),
		Text:          st.Text(),
	}, http.StatusOK)
}

func (h *APIHandler) TransactionsHandler(w http.ResponseWriter, r *http.Request) {
	number, ok := h.accountNumber(w, r)
	if !ok {
		return
	}

	txs, err := h.processor.Transactions(r.Context(), number)
	if err != nil {
		h.lookupError(w, r, err)
		return
	}
	h.sendJSON(w, r, txs, http.StatusOK)
}

func (h *APIHandler) GetTransactionHandler(w http.ResponseWriter, r *http.Request) {
	tx, err := h.processor.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.sendError(w, r, "Transaction not found", http.StatusNotFound, "NOT_FOUND")
			return
		}
		h.serverError(w, r, "Failed to get transaction", err)
		return
	}
	h.sendJSON(w, r, tx, http.StatusOK)
}

func summaries(accounts []*domain.Account) []domain.AccountSummary {
	result := make([]domain.AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, a.Summary())
	}
	return result
}

func (h *APIHandler) accountNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	number, err := h.validator.ParseAccountNumber(chi.URLParam(r, "number"))
	if err != nil {
		h.sendError(w, r, err.Error(), http.StatusBadRequest, "INVALID_ACCOUNT_NUMBER")
		return 0, false
	}
	return number, true
}

func (h *APIHandler) lookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		h.sendError(w, r, "Account not found", http.StatusNotFound, "NOT_FOUND")
		return
	}
	h.serverError(w, r, "Failed to process request", err)
}

func (h *APIHandler) serverError(w http.ResponseWriter, r *http.Request, message string, err error) {
	h.logger.ErrorContext(r.Context(), message,
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())))
	h.sendError(w, r, message, http.StatusInternalServerError, "SERVER_ERROR")
}

func (h *APIHandler) sendJSON(w http.ResponseWriter, r *http.Request, data interface{}, statusCode int) {
	render.Status(r, statusCode)
	render.JSON(w, r, data)
}

func (h *APIHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int, code string) {
	h.sendJSON(w, r, ErrorResponse{Error: message, Code: code}, statusCode)

	h.logger.WarnContext(r.Context(), "API error response",
		slog.String("message", message),
		slog.String("code", code),
		slog.Int("status", statusCode),
		slog.String("request_id", middleware.GetReqID(r.Context())))
}
