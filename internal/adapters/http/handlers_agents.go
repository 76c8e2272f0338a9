package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/turnoshq/queue-service/internal/application"
	"github.com/turnoshq/queue-service/internal/contracts"
)

func (h *Handler) myAgentState(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	state, err := h.service.AgentStateFor(r.Context(), claims.UserID)
	if err != nil {
		status, code, message := mapDomainError(err)
		writeError(w, status, code, message)
		return
	}
	writeSuccess(w, http.StatusOK, state)
}

func (h *Handler) setAgentStatus(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid user id")
		return
	}
	var req contracts.SetAgentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	state, err := h.service.SetAgentStatus(r.Context(), actorFromContext(r.Context()), targetID, application.SetAgentStatusInput(req))
	if err != nil {
		status, code, message := mapDomainError(err)
		writeError(w, status, code, message)
		return
	}
	writeSuccess(w, http.StatusOK, state)
}

func (h *Handler) pullNext(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid user id")
		return
	}
	ticket, err := h.service.PullNext(r.Context(), actorFromContext(r.Context()), targetID)
	if err != nil {
		status, code, message := mapDomainError(err)
		writeError(w, status, code, message)
		return
	}
	writeSuccess(w, http.StatusOK, ticket)
}

func (h *Handler) listAgents(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListAgents(r.Context())
	if err != nil {
		status, code, message := mapDomainError(err)
		writeError(w, status, code, message)
		return
	}
	writeSuccess(w, http.StatusOK, summaries)
}
