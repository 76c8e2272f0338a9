package unit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/turnoshq/queue-service/internal/adapters/memory"
	"github.com/turnoshq/queue-service/internal/adapters/security"
	"github.com/turnoshq/queue-service/internal/application"
	"github.com/turnoshq/queue-service/internal/domain"
)

type fixture struct {
	svc   *application.Service
	store *memory.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	signer, err := security.NewEphemeralJWTSigner("test-key")
	if err != nil {
		t.Fatalf("ephemeral signer: %v", err)
	}
	svc := application.NewService(application.Dependencies{
		Tx:     store,
		Repos:  store.Repositories(),
		Hasher: security.NewBcryptHasher(4),
		Signer: signer,
	})
	return &fixture{svc: svc, store: store}
}

func (f *fixture) addUser(t *testing.T, username string, role domain.Role, password string) domain.User {
	t.Helper()
	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := f.store.Repositories().Users.Create(context.Background(), domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		DisplayName:  username,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func (f *fixture) addFreeAgent(t *testing.T, username string, role domain.Role) domain.User {
	t.Helper()
	user := f.addUser(t, username, role, "Secret1234!")
	if _, err := f.svc.AgentStateFor(context.Background(), user.UserID); err != nil {
		t.Fatalf("agent state for %s: %v", username, err)
	}
	return user
}

func submitInput(clientType, category string) application.SubmitTicketInput {
	return application.SubmitTicketInput{
		ClientName:       "Maria Lopez",
		ClientIdentifier: "ID-4821",
		Motive:           "document renewal",
		ClientType:       clientType,
		ServiceCategory:  category,
	}
}

func TestSubmitTicketAutoAssignsFreeAgent(t *testing.T) {
	f := newFixture(t)
	clerk := f.addFreeAgent(t, "clerk1", domain.RoleProcedureClerk)

	ticket, err := f.svc.SubmitTicket(context.Background(), submitInput("GENERAL", "PROCEDURE"))
	if err != nil {
		t.Fatalf("submit ticket: %v", err)
	}
	if ticket.Status != domain.TicketStatusInProgress {
		t.Fatalf("expected IN_PROGRESS after auto-assign, got %s", ticket.Status)
	}
	if ticket.AssignedAgent == nil || *ticket.AssignedAgent != clerk.UserID {
		t.Fatalf("expected assignment to clerk, got %v", ticket.AssignedAgent)
	}

	state, err := f.svc.AgentStateFor(context.Background(), clerk.UserID)
	if err != nil {
		t.Fatalf("agent state: %v", err)
	}
	if state.Status != domain.AgentStatusBusy || state.CurrentTicket == nil || *state.CurrentTicket != ticket.TicketID {
		t.Fatalf("expected clerk BUSY holding %s, got %+v", ticket.TicketID, state)
	}
}

func TestSubmitTicketQueuesWhenNoAgentFree(t *testing.T) {
	f := newFixture(t)

	ticket, err := f.svc.SubmitTicket(context.Background(), submitInput("GENERAL", "ADVISORY"))
	if err != nil {
		t.Fatalf("submit ticket: %v", err)
	}
	if ticket.Status != domain.TicketStatusPending {
		t.Fatalf("expected PENDING with no agents, got %s", ticket.Status)
	}
	if ticket.AssignedAgent != nil {
		t.Fatalf("pending ticket must have no assignee")
	}
}

func TestSubmitTicketRejectsUnknownCategory(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SubmitTicket(context.Background(), submitInput("GENERAL", "BILLING"))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestPullNextServesPriorityFirst(t *testing.T) {
	f := newFixture(t)

	general, err := f.svc.SubmitTicket(context.Background(), submitInput("GENERAL", "PROCEDURE"))
	if err != nil {
		t.Fatalf("submit general: %v", err)
	}
	elderly, err := f.svc.SubmitTicket(context.Background(), submitInput("ELDERLY", "PROCEDURE"))
	if err != nil {
		t.Fatalf("submit elderly: %v", err)
	}

	clerk := f.addFreeAgent(t, "clerk1", domain.RoleProcedureClerk)
	actor := application.Actor{UserID: clerk.UserID, Role: clerk.Role}

	pulled, err := f.svc.PullNext(context.Background(), actor, clerk.UserID)
	if err != nil {
		t.Fatalf("pull next: %v", err)
	}
	if pulled.TicketID != elderly.TicketID {
		t.Fatalf("expected elderly ticket first, got %s (general was %s)", pulled.TicketID, general.TicketID)
	}
	if pulled.Status != domain.TicketStatusInProgress {
		t.Fatalf("expected IN_PROGRESS after pull, got %s", pulled.Status)
	}
}

func TestPullNextEmptyQueue(t *testing.T) {
	f := newFixture(t)
	advisor := f.addFreeAgent(t, "advisor1", domain.RoleAdvisor)

	// A procedure ticket must never reach the advisory queue.
	if _, err := f.svc.SubmitTicket(context.Background(), submitInput("GENERAL", "PROCEDURE")); err != nil {
		t.Fatalf("submit: %v", err)
	}

	actor := application.Actor{UserID: advisor.UserID, Role: advisor.Role}
	_, err := f.svc.PullNext(context.Background(), actor, advisor.UserID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected empty-queue not found, got %v", err)
	}
}

func TestPullNextForbiddenForOtherAgent(t *testing.T) {
	f := newFixture(t)
	clerk := f.addFreeAgent(t, "clerk1", domain.RoleProcedureClerk)
	other := f.addFreeAgent(t, "clerk2", domain.RoleProcedureClerk)

	actor := application.Actor{UserID: other.UserID, Role: other.Role}
	_, err := f.svc.PullNext(context.Background(), actor, clerk.UserID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestPullNextBusyAgent(t *testing.T) {
	f := newFixture(t)
	clerk := f.addFreeAgent(t, "clerk1", domain.RoleProcedureClerk)

	if _, err := f.svc.SubmitTicket(context.Background(), submitInput("GENERAL", "PROCEDURE")); err != nil {
		t.Fatalf("submit first: %v", err)
	}
	if _, err := f.svc.SubmitTicket(context.Background(), submitInput("GENERAL", "PROCEDURE")); err != nil {
		t.Fatalf("submit second: %v", err)
	}

	// The first submission auto-assigned the only clerk; pulling while BUSY
	// must fail the precondition instead of double-booking.
	actor := application.Actor{UserID: clerk.UserID, Role: clerk.Role}
	_, err := f.svc.PullNext(context.Background(), actor, clerk.UserID)
	if !errors.Is(err, domain.ErrPreconditionFailed) {
		t.Fatalf("expected precondition failure for busy agent, got %v", err)
	}
}

func TestCompleteTicketReleasesAgent(t *testing.T) {
	f := newFixture(t)
	clerk := f.addFreeAgent(t, "clerk1", domain.RoleProcedureClerk)

	ticket, err := f.svc.SubmitTicket(context.Background(), submitInput("GENERAL", "PROCEDURE"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	done, err := f.svc.CompleteTicket(context.Background(), ticket.TicketID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != domain.TicketStatusDone {
		t.Fatalf("expected DONE, got %s", done.Status)
	}
	if done.AssignedAgent != nil {
		t.Fatalf("DONE ticket must not carry an assignee")
	}

	state, err := f.svc.AgentStateFor(context.Background(), clerk.UserID)
	if err != nil {
		t.Fatalf("agent state: %v", err)
	}
	if state.Status != domain.AgentStatusFree || state.CurrentTicket != nil {
		t.Fatalf("expected clerk released, got %+v", state)
	}

	_, err = f.svc.CompleteTicket(context.Background(), ticket.TicketID)
	if !errors.Is(err, domain.ErrPreconditionFailed) {
		t.Fatalf("expected precondition failure on double complete, got %v", err)
	}
}

func TestSetAgentStatusRejectsDirectBusy(t *testing.T) {
	f := newFixture(t)
	advisor := f.addFreeAgent(t, "advisor1", domain.RoleAdvisor)

	actor := application.Actor{UserID: advisor.UserID, Role: advisor.Role}
	_, err := f.svc.SetAgentStatus(context.Background(), actor, advisor.UserID, application.SetAgentStatusInput{Status: "BUSY"})
	if !errors.Is(err, domain.ErrPreconditionFailed) {
		t.Fatalf("expected BUSY rejection, got %v", err)
	}

	state, err := f.svc.SetAgentStatus(context.Background(), actor, advisor.UserID, application.SetAgentStatusInput{Status: "free"})
	if err != nil {
		t.Fatalf("set free: %v", err)
	}
	if state.Status != domain.AgentStatusFree {
		t.Fatalf("expected FREE, got %s", state.Status)
	}
}

func TestAgentStateForAdminFails(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "admin", domain.RoleAdmin, "Admin1234!")

	_, err := f.svc.AgentStateFor(context.Background(), admin.UserID)
	if !errors.Is(err, domain.ErrPreconditionFailed) {
		t.Fatalf("expected precondition failure for ADMIN, got %v", err)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "advisor1", domain.RoleAdvisor, "Advisor1234!")

	out, err := f.svc.Login(context.Background(), application.LoginInput{Username: "Advisor1", Password: "Advisor1234!"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if out.Token == "" {
		t.Fatalf("expected a token")
	}
	if out.User.Username != "advisor1" {
		t.Fatalf("unexpected user in login output: %+v", out.User)
	}

	_, err = f.svc.Login(context.Background(), application.LoginInput{Username: "advisor1", Password: "wrong"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestConcurrentPullSingleWinner(t *testing.T) {
	f := newFixture(t)

	// Submit before any agent exists so the ticket stays PENDING for the race.
	ticket, err := f.svc.SubmitTicket(context.Background(), submitInput("GENERAL", "PROCEDURE"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ticket.Status != domain.TicketStatusPending {
		t.Fatalf("expected PENDING setup, got %s", ticket.Status)
	}

	clerkA := f.addFreeAgent(t, "clerk1", domain.RoleProcedureClerk)
	clerkB := f.addFreeAgent(t, "clerk2", domain.RoleProcedureClerk)

	var wg sync.WaitGroup
	results := make([]error, 2)
	winners := make([]uuid.UUID, 2)
	for i, clerk := range []domain.User{clerkA, clerkB} {
		wg.Add(1)
		go func(slot int, agent domain.User) {
			defer wg.Done()
			actor := application.Actor{UserID: agent.UserID, Role: agent.Role}
			pulled, err := f.svc.PullNext(context.Background(), actor, agent.UserID)
			results[slot] = err
			if err == nil {
				winners[slot] = pulled.TicketID
			}
		}(i, clerk)
	}
	wg.Wait()

	wins := 0
	for i, err := range results {
		if err == nil {
			wins++
			if winners[i] != ticket.TicketID {
				t.Fatalf("winner pulled unexpected ticket %s", winners[i])
			}
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("loser got unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
}
