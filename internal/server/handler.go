package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/bank-ledger/internal/audit"
	"github.com/sheikh-saqib/bank-ledger/internal/ledger"
	"github.com/sheikh-saqib/bank-ledger/internal/logging"
	"github.com/sheikh-saqib/bank-ledger/internal/models"
)

// CredentialHeader carries the account credential on authenticated routes.
const CredentialHeader = "X-Account-Credential"

// Server exposes a bank and its audit authority over HTTP.
type Server struct {
	bank           *ledger.Bank
	authority      *audit.Authority
	log            *logging.Logger
	requestTimeout time.Duration
	metrics        http.Handler
}

// Config holds the optional parts of a Server.
type Config struct {
	RequestTimeout time.Duration
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
}

func NewServer(b *ledger.Bank, authority *audit.Authority, logger *logging.Logger, config Config) *Server {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 5 * time.Second
	}
	return &Server{
		bank:           b,
		authority:      authority,
		log:            logger.Named("http"),
		requestTimeout: config.RequestTimeout,
		metrics:        config.MetricsHandler,
	}
}

type accountView struct {
	Holder     string          `json:"holder"`
	Identifier string          `json:"identifier"`
	Balance    decimal.Decimal `json:"balance"`
}

func viewOf(a *ledger.Account) accountView {
	return accountView{Holder: a.Holder(), Identifier: a.Identifier(), Balance: a.Balance()}
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadRequest{err}
	}
	return nil
}

type errBadRequest struct{ err error }

func (e errBadRequest) Error() string { return "invalid request body: " + e.err.Error() }
func (e errBadRequest) Unwrap() error { return e.err }

func (s *Server) fail(w http.ResponseWriter, err error) {
	var bad errBadRequest
	if errors.As(err, &bad) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if statusFor(err) == http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	writeErr(w, err)
}

// authenticated resolves the {id} path variable against the credential header.
func (s *Server) authenticated(r *http.Request) (*ledger.Account, error) {
	acc, ok := s.bank.Authenticate(mux.Vars(r)["id"], r.Header.Get(CredentialHeader))
	if !ok {
		return nil, errUnauthorized
	}
	return acc, nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "bank": s.bank.Name()})
}

func (s *Server) openAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Holder         string          `json:"holder"`
		Identifier     string          `json:"identifier"`
		Credential     string          `json:"credential"`
		InitialBalance decimal.Decimal `json:"initial_balance"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}

	acc, err := s.bank.OpenAccount(req.Holder, req.Identifier, req.Credential, req.InitialBalance)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(acc))
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts := s.bank.Accounts()
	out := make([]accountView, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, viewOf(acc))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Credential string `json:"credential"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}

	acc, ok := s.bank.Authenticate(req.Identifier, req.Credential)
	if !ok {
		s.fail(w, errUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(acc))
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	acc, err := s.authenticated(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(acc))
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	acc, err := s.authenticated(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	history := acc.History()
	if newestFirst(r) {
		slices.Reverse(history)
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, (*ledger.Account).Deposit)
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, (*ledger.Account).Withdraw)
}

func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op func(*ledger.Account, decimal.Decimal) error) {
	acc, err := s.authenticated(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	var req amountRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if err := op(acc, req.Amount); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(acc))
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From   string          `json:"from"`
		To     string          `json:"to"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}

	source, ok := s.bank.Authenticate(req.From, r.Header.Get(CredentialHeader))
	if !ok {
		s.fail(w, errUnauthorized)
		return
	}
	destination, _ := s.bank.FindByIdentifier(req.To)

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	record, err := s.bank.Transfer(ctx, source, destination, req.Amount)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) flagged(w http.ResponseWriter, r *http.Request) {
	records, err := s.authority.ListFlagged(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	if records == nil {
		records = []models.TransferRecord{}
	}
	if newestFirst(r) {
		slices.Reverse(records)
	}
	writeJSON(w, http.StatusOK, records)
}

func newestFirst(r *http.Request) bool {
	return r.URL.Query().Get("order") == "desc"
}
