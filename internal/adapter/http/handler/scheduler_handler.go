package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/finbucket/fundledger/internal/adapter/http/dto"
	"github.com/finbucket/fundledger/internal/usecase"
)

// SchedulerHandler exposes the recurrence and interest sweeps plus manual
// execution of individual scheduled transactions.
type SchedulerHandler struct {
	schedulerUC *usecase.SchedulerUseCase
}

// NewSchedulerHandler creates a new SchedulerHandler.
func NewSchedulerHandler(schedulerUC *usecase.SchedulerUseCase) *SchedulerHandler {
	return &SchedulerHandler{schedulerUC: schedulerUC}
}

// Sweep executes all recurring occurrences due now.
func (h *SchedulerHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.schedulerUC.RunSweep(r.Context(), time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sweep failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SweepResponse{
		Scanned:  result.Scanned,
		Executed: result.Executed,
		Failed:   result.Failed,
		Skipped:  result.Skipped,
	})
}

// InterestSweep accrues interest on all savings partitions due now.
func (h *SchedulerHandler) InterestSweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.schedulerUC.RunInterestSweep(r.Context(), time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "interest sweep failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SweepResponse{
		Scanned:  result.Scanned,
		Executed: result.Executed,
		Failed:   result.Failed,
		Skipped:  result.Skipped,
	})
}

// Execute applies one scheduled transaction ahead of its sweep.
func (h *SchedulerHandler) Execute(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	txn, err := h.schedulerUC.ExecuteScheduledTransaction(r.Context(), owner, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to execute scheduled transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}
