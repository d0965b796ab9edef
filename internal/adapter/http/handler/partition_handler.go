package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finbucket/fundledger/internal/adapter/http/dto"
	"github.com/finbucket/fundledger/internal/usecase"
)

// PartitionHandler handles partition-related HTTP requests.
type PartitionHandler struct {
	partitionUC *usecase.PartitionUseCase
}

// NewPartitionHandler creates a new PartitionHandler.
func NewPartitionHandler(partitionUC *usecase.PartitionUseCase) *PartitionHandler {
	return &PartitionHandler{partitionUC: partitionUC}
}

// Create ring-fences funds from an account into a new partition.
func (h *PartitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.CreatePartitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	partition, err := h.partitionUC.CreatePartition(r.Context(), owner, accountID, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create partition", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.PartitionFromDomain(partition))
}

// Get retrieves a partition.
func (h *PartitionHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	accountID := chi.URLParam(r, "id")
	partitionID := chi.URLParam(r, "partitionID")
	if accountID == "" || partitionID == "" {
		writeError(w, http.StatusBadRequest, "missing account or partition ID", "")
		return
	}

	partition, err := h.partitionUC.GetPartition(r.Context(), owner, accountID, partitionID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get partition", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PartitionFromDomain(partition))
}

// List lists the partitions of an account.
func (h *PartitionHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	partitions, err := h.partitionUC.ListPartitions(r.Context(), owner, accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list partitions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PartitionsFromDomain(partitions))
}

// UpdateHoldings replaces the holdings of an investment partition.
func (h *PartitionHandler) UpdateHoldings(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	accountID := chi.URLParam(r, "id")
	partitionID := chi.URLParam(r, "partitionID")
	if accountID == "" || partitionID == "" {
		writeError(w, http.StatusBadRequest, "missing account or partition ID", "")
		return
	}

	var req dto.UpdateHoldingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	partition, err := h.partitionUC.UpdateHoldings(r.Context(), owner, accountID, partitionID, dto.HoldingsToDomain(req.Holdings))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update holdings", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PartitionFromDomain(partition))
}

// Delete dissolves a partition, returning its balance to the account.
func (h *PartitionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	accountID := chi.URLParam(r, "id")
	partitionID := chi.URLParam(r, "partitionID")
	if accountID == "" || partitionID == "" {
		writeError(w, http.StatusBadRequest, "missing account or partition ID", "")
		return
	}

	if err := h.partitionUC.DeletePartition(r.Context(), owner, accountID, partitionID); err != nil {
		writeError(w, mapDomainError(err), "failed to delete partition", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
