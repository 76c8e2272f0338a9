// Package contracts holds the wire-level request shapes owned by the
// transport layer. Response payloads reuse the domain and application types
// directly.
package contracts

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateTicketRequest struct {
	ClientName       string `json:"client_name"`
	ClientIdentifier string `json:"client_identifier"`
	Motive           string `json:"motive"`
	ClientType       string `json:"client_type"`
	ServiceCategory  string `json:"service_category"`
}

type SetAgentStatusRequest struct {
	Status string `json:"status"`
}
