package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fisioflow/clinicops/backend/internal/domain/repositories"
)

// PatientSearchHandler handles patient directory search requests
type PatientSearchHandler struct {
	searchRepo repositories.PatientSearchRepository
}

// NewPatientSearchHandler creates a new patient search handler
func NewPatientSearchHandler(searchRepo repositories.PatientSearchRepository) *PatientSearchHandler {
	return &PatientSearchHandler{
		searchRepo: searchRepo,
	}
}

// SearchPatients handles GET /api/patients/search
func (h *PatientSearchHandler) SearchPatients(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 || parsed > 100 {
			respondWithError(w, http.StatusBadRequest, "limit must be a number between 1 and 100")
			return
		}
		limit = parsed
	}

	patients, err := h.searchRepo.Search(r.Context(), query, limit)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "failed to search patients")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"patients": patients,
		"count":    len(patients),
	})
}
