package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/turnoshq/queue-service/internal/domain"
)

type Config struct {
	TokenTTL      time.Duration
	AssignRetries int
	BoardCacheTTL time.Duration
}

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	UserID uuid.UUID
	Role   domain.Role
}

type SubmitTicketInput struct {
	ClientName       string `json:"client_name"`
	ClientIdentifier string `json:"client_identifier"`
	Motive           string `json:"motive"`
	ClientType       string `json:"client_type"`
	ServiceCategory  string `json:"service_category"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginOutput struct {
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expires_in"`
	User      domain.User `json:"user"`
}

type SetAgentStatusInput struct {
	Status string `json:"status"`
}

// AgentSummary merges directory data with live agent state for the admin
// roster view. Users without a state row yet report FREE, matching the lazy
// state-creation rule.
type AgentSummary struct {
	UserID        uuid.UUID          `json:"user_id"`
	Username      string             `json:"username"`
	DisplayName   string             `json:"display_name"`
	Role          domain.Role        `json:"role"`
	Status        domain.AgentStatus `json:"status"`
	CurrentTicket *uuid.UUID         `json:"current_ticket,omitempty"`
}
