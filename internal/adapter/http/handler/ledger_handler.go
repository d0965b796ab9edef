package handler

import (
	"net/http"

	"github.com/finbucket/fundledger/internal/usecase"
)

// LedgerHandler exposes ledger-wide checks.
type LedgerHandler struct {
	conservationUC *usecase.ConservationUseCase
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(conservationUC *usecase.ConservationUseCase) *LedgerHandler {
	return &LedgerHandler{conservationUC: conservationUC}
}

// Conservation reports whether every account's balance plus its partition
// balances matches the sum of its recorded flows.
func (h *LedgerHandler) Conservation(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	report, err := h.conservationUC.CheckOwner(r.Context(), owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "conservation check failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}
