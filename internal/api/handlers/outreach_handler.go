package handlers

import (
	"context"
	"net/http"

	"github.com/fisioflow/clinicops/backend/internal/application/services"
)

// OutreachService defines the interface for outreach operations
type OutreachService interface {
	SendWhatsAppQueue(ctx context.Context) (*services.OutreachReport, error)
}

// OutreachHandler handles outreach requests
type OutreachHandler struct {
	service OutreachService
}

// NewOutreachHandler creates a new outreach handler
func NewOutreachHandler(service OutreachService) *OutreachHandler {
	return &OutreachHandler{
		service: service,
	}
}

// SendWhatsAppQueue handles POST /api/outreach/whatsapp.
// It sends the current WhatsApp contact queue and records a communication
// log per delivered message.
func (h *OutreachHandler) SendWhatsAppQueue(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.SendWhatsAppQueue(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}
