package contract

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpadapter "github.com/turnoshq/queue-service/internal/adapters/http"
	"github.com/turnoshq/queue-service/internal/adapters/memory"
	"github.com/turnoshq/queue-service/internal/adapters/security"
	"github.com/turnoshq/queue-service/internal/application"
	"github.com/turnoshq/queue-service/internal/domain"
)

type env struct {
	router http.Handler
	svc    *application.Service
	store  *memory.Store
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	signer, err := security.NewEphemeralJWTSigner("contract-key")
	if err != nil {
		t.Fatalf("ephemeral signer: %v", err)
	}
	svc := application.NewService(application.Dependencies{
		Tx:     store,
		Repos:  store.Repositories(),
		Hasher: security.NewBcryptHasher(4),
		Signer: signer,
	})
	router := httpadapter.NewRouter(httpadapter.NewHandler(svc, signer, nil))
	return &env{router: router, svc: svc, store: store}
}

func (e *env) seedUser(t *testing.T, username string, role domain.Role, password string) domain.User {
	t.Helper()
	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user, err := e.store.Repositories().Users.Create(context.Background(), domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		DisplayName:  username,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func (e *env) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v body=%s", err, rr.Body.String())
	}
	if envelope.Status != "success" {
		t.Fatalf("unexpected envelope status %q body=%s", envelope.Status, rr.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			t.Fatalf("decode data: %v body=%s", err, rr.Body.String())
		}
	}
}

func (e *env) login(t *testing.T, username, password string) string {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/v1/auth/login", "", fmt.Sprintf(`{"username":%q,"password":%q}`, username, password))
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s failed: status=%d body=%s", username, rr.Code, rr.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	decodeData(t, rr, &out)
	if out.Token == "" {
		t.Fatalf("expected token for %s", username)
	}
	return out.Token
}

func TestTicketLifecycleOverHTTP(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "admin", domain.RoleAdmin, "Admin1234!")
	clerk := e.seedUser(t, "clerk1", domain.RoleProcedureClerk, "Clerk1234!")

	// Kiosk submission is public and queues while no clerk is on shift.
	submitRR := e.do(t, http.MethodPost, "/api/v1/tickets", "", `{"client_name":"Maria Lopez","client_identifier":"ID-4821","motive":"document renewal","client_type":"ELDERLY","service_category":"PROCEDURE"}`)
	if submitRR.Code != http.StatusCreated {
		t.Fatalf("submit ticket: status=%d body=%s", submitRR.Code, submitRR.Body.String())
	}
	var ticket struct {
		TicketID string `json:"ticket_id"`
		Status   string `json:"status"`
	}
	decodeData(t, submitRR, &ticket)
	if ticket.Status != "PENDING" {
		t.Fatalf("expected PENDING ticket, got %s", ticket.Status)
	}

	boardRR := e.do(t, http.MethodGet, "/api/v1/tickets/queue", "", "")
	if boardRR.Code != http.StatusOK {
		t.Fatalf("queue board: status=%d body=%s", boardRR.Code, boardRR.Body.String())
	}
	var board struct {
		ProcedureQueue []struct {
			TicketID string `json:"ticket_id"`
		} `json:"procedure_queue"`
	}
	decodeData(t, boardRR, &board)
	if len(board.ProcedureQueue) != 1 || board.ProcedureQueue[0].TicketID != ticket.TicketID {
		t.Fatalf("expected submitted ticket on procedure queue, got %+v", board)
	}

	clerkToken := e.login(t, "clerk1", "Clerk1234!")

	pullRR := e.do(t, http.MethodPost, "/api/v1/agents/"+clerk.UserID.String()+"/next", clerkToken, "")
	if pullRR.Code != http.StatusOK {
		t.Fatalf("pull next: status=%d body=%s", pullRR.Code, pullRR.Body.String())
	}
	var pulled struct {
		TicketID string `json:"ticket_id"`
		Status   string `json:"status"`
	}
	decodeData(t, pullRR, &pulled)
	if pulled.TicketID != ticket.TicketID || pulled.Status != "IN_PROGRESS" {
		t.Fatalf("unexpected pull result: %+v", pulled)
	}

	meRR := e.do(t, http.MethodGet, "/api/v1/agents/me", clerkToken, "")
	if meRR.Code != http.StatusOK {
		t.Fatalf("agents/me: status=%d body=%s", meRR.Code, meRR.Body.String())
	}
	var state struct {
		Status        string  `json:"status"`
		CurrentTicket *string `json:"current_ticket"`
	}
	decodeData(t, meRR, &state)
	if state.Status != "BUSY" || state.CurrentTicket == nil || *state.CurrentTicket != ticket.TicketID {
		t.Fatalf("expected BUSY clerk holding ticket, got %+v", state)
	}

	completeRR := e.do(t, http.MethodPost, "/api/v1/tickets/"+ticket.TicketID+"/complete", clerkToken, "")
	if completeRR.Code != http.StatusOK {
		t.Fatalf("complete: status=%d body=%s", completeRR.Code, completeRR.Body.String())
	}

	replayRR := e.do(t, http.MethodPost, "/api/v1/tickets/"+ticket.TicketID+"/complete", clerkToken, "")
	if replayRR.Code != http.StatusConflict {
		t.Fatalf("double complete: status=%d body=%s", replayRR.Code, replayRR.Body.String())
	}
}

func TestAuthAndRoleBoundaries(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "admin", domain.RoleAdmin, "Admin1234!")
	advisor := e.seedUser(t, "advisor1", domain.RoleAdvisor, "Advisor1234!")

	// Agent operations need a bearer token.
	anonRR := e.do(t, http.MethodPost, "/api/v1/agents/"+advisor.UserID.String()+"/next", "", "")
	if anonRR.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous pull: status=%d body=%s", anonRR.Code, anonRR.Body.String())
	}

	badLoginRR := e.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"username":"advisor1","password":"nope"}`)
	if badLoginRR.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: status=%d body=%s", badLoginRR.Code, badLoginRR.Body.String())
	}

	advisorToken := e.login(t, "advisor1", "Advisor1234!")
	adminToken := e.login(t, "admin", "Admin1234!")

	// Admin listing is off-limits to agents.
	forbiddenRR := e.do(t, http.MethodGet, "/api/v1/agents", advisorToken, "")
	if forbiddenRR.Code != http.StatusForbidden {
		t.Fatalf("advisor listing agents: status=%d body=%s", forbiddenRR.Code, forbiddenRR.Body.String())
	}

	agentsRR := e.do(t, http.MethodGet, "/api/v1/agents", adminToken, "")
	if agentsRR.Code != http.StatusOK {
		t.Fatalf("admin listing agents: status=%d body=%s", agentsRR.Code, agentsRR.Body.String())
	}

	reportsRR := e.do(t, http.MethodGet, "/api/v1/reports", adminToken, "")
	if reportsRR.Code != http.StatusOK {
		t.Fatalf("admin reports: status=%d body=%s", reportsRR.Code, reportsRR.Body.String())
	}

	// Advisors cannot pull for someone else, admins can.
	otherAdvisor := e.seedUser(t, "advisor2", domain.RoleAdvisor, "Advisor1234!")
	crossRR := e.do(t, http.MethodPost, "/api/v1/agents/"+otherAdvisor.UserID.String()+"/next", advisorToken, "")
	if crossRR.Code != http.StatusForbidden {
		t.Fatalf("cross-agent pull: status=%d body=%s", crossRR.Code, crossRR.Body.String())
	}

	// Empty advisory queue surfaces as not found even for admins.
	emptyRR := e.do(t, http.MethodPost, "/api/v1/agents/"+advisor.UserID.String()+"/next", adminToken, "")
	if emptyRR.Code != http.StatusNotFound {
		t.Fatalf("empty queue pull: status=%d body=%s", emptyRR.Code, emptyRR.Body.String())
	}

	meRR := e.do(t, http.MethodGet, "/api/v1/auth/me", advisorToken, "")
	if meRR.Code != http.StatusOK {
		t.Fatalf("auth/me: status=%d body=%s", meRR.Code, meRR.Body.String())
	}
	var me struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	decodeData(t, meRR, &me)
	if me.Username != "advisor1" || me.Role != "ADVISOR" {
		t.Fatalf("unexpected auth/me payload: %+v", me)
	}
}
