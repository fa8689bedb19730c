package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kakeibo-dev/kakeibo/internal/cashflow"
	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/id"
	"github.com/kakeibo-dev/kakeibo/internal/ledger"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/service"
)

var errBadRequest = errors.New("bad request")

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

func pathID(r *http.Request) (int, error) {
	n, err := id.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return n, nil
}

// monthParam reads ?month=YYYY-MM, defaulting to today's month.
func (s *Server) monthParam(r *http.Request) (day.Month, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return s.svc.Today().MonthOf(), nil
	}
	m, err := day.ParseMonth(raw)
	if err != nil {
		return day.Month{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return m, nil
}

// ─── Accounts ───────────────────────────────────────────────────────────────

// accountResult carries a mutated account and the adjustment it booked.
type accountResult struct {
	Account    model.Account      `json:"account"`
	Adjustment *model.Transaction `json:"adjustment,omitempty"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accts, err := s.svc.Accounts()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accts)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var acct model.Account
	if err := decode(r, &acct); err != nil {
		s.writeError(w, err)
		return
	}
	created, adj, err := s.svc.AddAccount(acct)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, accountResult{Account: created, Adjustment: adj})
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var upd ledger.AccountUpdate
	if err := decode(r, &upd); err != nil {
		s.writeError(w, err)
		return
	}
	updated, adj, err := s.svc.UpdateAccount(accountID, upd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountResult{Account: updated, Adjustment: adj})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.svc.DeleteAccount(accountID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Transactions ───────────────────────────────────────────────────────────

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	var f service.TransactionFilter
	if r.URL.Query().Get("month") != "" {
		m, err := s.monthParam(r)
		if err != nil {
			s.writeError(w, err)
			return
		}
		f.Month = &m
	}
	if raw := r.URL.Query().Get("account"); raw != "" {
		n, err := id.Parse(raw)
		if err != nil {
			s.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		f.AccountID = n
	}
	txs, err := s.svc.Transactions(f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx model.Transaction
	if err := decode(r, &tx); err != nil {
		s.writeError(w, err)
		return
	}
	created, err := s.svc.CreateTransaction(tx)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	txID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var upd ledger.TransactionUpdate
	if err := decode(r, &upd); err != nil {
		s.writeError(w, err)
		return
	}
	updated, err := s.svc.UpdateTransaction(txID, upd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	txID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := s.svc.DeleteTransaction(txID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Templates ──────────────────────────────────────────────────────────────

func (s *Server) handleListFixedCosts(w http.ResponseWriter, r *http.Request) {
	fcs, err := s.svc.FixedCosts()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fcs)
}

func (s *Server) handleCreateFixedCost(w http.ResponseWriter, r *http.Request) {
	var fc model.FixedCost
	if err := decode(r, &fc); err != nil {
		s.writeError(w, err)
		return
	}
	created, err := s.svc.AddFixedCost(fc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateFixedCost(w http.ResponseWriter, r *http.Request) {
	fcID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var upd ledger.FixedCostUpdate
	if err := decode(r, &upd); err != nil {
		s.writeError(w, err)
		return
	}
	updated, err := s.svc.UpdateFixedCost(fcID, upd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteFixedCost(w http.ResponseWriter, r *http.Request) {
	fcID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.svc.DeleteFixedCost(fcID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListIncome(w http.ResponseWriter, r *http.Request) {
	incs, err := s.svc.IncomeSchedule()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, incs)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var inc model.IncomeSchedule
	if err := decode(r, &inc); err != nil {
		s.writeError(w, err)
		return
	}
	created, err := s.svc.AddIncome(inc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	incID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var upd ledger.IncomeUpdate
	if err := decode(r, &upd); err != nil {
		s.writeError(w, err)
		return
	}
	updated, err := s.svc.UpdateIncome(incID, upd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	incID, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.svc.DeleteIncome(incID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Views ──────────────────────────────────────────────────────────────────

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, tags, err := s.svc.Categories()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"expense": cats.Expense,
		"income":  cats.Income,
		"tags":    tags,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Summary()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	bs, err := s.svc.BalanceSheet()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

func (s *Server) handleCashflow(w http.ResponseWriter, r *http.Request) {
	horizon := cashflow.DefaultHorizon
	if raw := r.URL.Query().Get("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 24 {
			s.writeError(w, fmt.Errorf("%w: months must be between 1 and 24", errBadRequest))
			return
		}
		horizon = n
	}
	p, err := s.svc.ProjectCashflow(horizon)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	month, err := s.monthParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	cal, err := s.svc.ReplayCalendar(month)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cal)
}

func (s *Server) handlePL(w http.ResponseWriter, r *http.Request) {
	month, err := s.monthParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	report, err := s.svc.MonthlyPL(month)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	mismatches, err := s.svc.Verify()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if mismatches == nil {
		mismatches = []ledger.Mismatch{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         len(mismatches) == 0,
		"mismatches": mismatches,
	})
}
