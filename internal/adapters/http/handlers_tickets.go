package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/turnoshq/queue-service/internal/application"
	"github.com/turnoshq/queue-service/internal/contracts"
)

func (h *Handler) submitTicket(w http.ResponseWriter, r *http.Request) {
	var req contracts.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	ticket, err := h.service.SubmitTicket(r.Context(), application.SubmitTicketInput(req))
	if err != nil {
		status, code, message := mapDomainError(err)
		writeError(w, status, code, message)
		return
	}
	writeSuccess(w, http.StatusCreated, ticket)
}

func (h *Handler) getTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := uuid.Parse(r.PathValue("ticket_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid ticket id")
		return
	}
	ticket, err := h.service.GetTicket(r.Context(), ticketID)
	if err != nil {
		status, code, message := mapDomainError(err)
		writeError(w, status, code, message)
		return
	}
	writeSuccess(w, http.StatusOK, ticket)
}

func (h *Handler) queueSummary(w http.ResponseWriter, r *http.Request) {
	board, err := h.service.QueueSummary(r.Context())
	if err != nil {
		status, code, message := mapDomainError(err)
		writeError(w, status, code, message)
		return
	}
	writeSuccess(w, http.StatusOK, board)
}

func (h *Handler) completeTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := uuid.Parse(r.PathValue("ticket_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid ticket id")
		return
	}
	ticket, err := h.service.CompleteTicket(r.Context(), ticketID)
	if err != nil {
		status, code, message := mapDomainError(err)
		writeError(w, status, code, message)
		return
	}
	writeSuccess(w, http.StatusOK, ticket)
}

func (h *Handler) reports(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.service.DoneTickets(r.Context())
	if err != nil {
		status, code, message := mapDomainError(err)
		writeError(w, status, code, message)
		return
	}
	writeSuccess(w, http.StatusOK, tickets)
}
