package unit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnoshq/queue-service/internal/domain"
)

func pendingTicket(seq int64, clientType domain.ClientType, category domain.ServiceCategory) domain.Ticket {
	return domain.Ticket{
		TicketID:        uuid.New(),
		ClientName:      "client",
		ClientType:      clientType,
		ServiceCategory: category,
		IsPriority:      clientType.Priority(),
		Status:          domain.TicketStatusPending,
		QueueSeq:        seq,
		CreatedAt:       time.Now().UTC(),
	}
}

func TestPriorityKeyOrdering(t *testing.T) {
	procedureGeneral := domain.PriorityKey(pendingTicket(1, domain.ClientTypeGeneral, domain.ServiceCategoryProcedure))
	procedureElderly := domain.PriorityKey(pendingTicket(2, domain.ClientTypeElderly, domain.ServiceCategoryProcedure))
	advisoryGeneral := domain.PriorityKey(pendingTicket(3, domain.ClientTypeGeneral, domain.ServiceCategoryAdvisory))
	advisoryDisabled := domain.PriorityKey(pendingTicket(4, domain.ClientTypeDisabled, domain.ServiceCategoryAdvisory))

	assert.Less(t, procedureElderly, procedureGeneral)
	assert.Less(t, advisoryDisabled, advisoryGeneral)
	// The priority bonus never lets an advisory ticket outrank a procedure one.
	assert.Less(t, procedureGeneral, advisoryDisabled)
}

func TestOrderPendingPriorityBeforeGeneral(t *testing.T) {
	general := pendingTicket(1, domain.ClientTypeGeneral, domain.ServiceCategoryProcedure)
	elderly := pendingTicket(2, domain.ClientTypeElderly, domain.ServiceCategoryProcedure)

	ordered := domain.OrderPending([]domain.Ticket{general, elderly})
	require.Len(t, ordered, 2)
	assert.Equal(t, elderly.TicketID, ordered[0].TicketID, "later priority arrival must outrank earlier general arrival")
	assert.Equal(t, general.TicketID, ordered[1].TicketID)
}

func TestOrderPendingFIFOWithinClass(t *testing.T) {
	first := pendingTicket(10, domain.ClientTypeElderly, domain.ServiceCategoryAdvisory)
	second := pendingTicket(11, domain.ClientTypeDisabled, domain.ServiceCategoryAdvisory)
	third := pendingTicket(12, domain.ClientTypeGeneral, domain.ServiceCategoryAdvisory)
	fourth := pendingTicket(13, domain.ClientTypeGeneral, domain.ServiceCategoryAdvisory)

	ordered := domain.OrderPending([]domain.Ticket{fourth, second, third, first})
	require.Len(t, ordered, 4)
	assert.Equal(t, first.TicketID, ordered[0].TicketID)
	assert.Equal(t, second.TicketID, ordered[1].TicketID, "elderly and disabled share one priority class, FIFO between them")
	assert.Equal(t, third.TicketID, ordered[2].TicketID)
	assert.Equal(t, fourth.TicketID, ordered[3].TicketID)
}

func TestAssignmentConsistency(t *testing.T) {
	agentID := uuid.New()

	held := pendingTicket(1, domain.ClientTypeGeneral, domain.ServiceCategoryProcedure)
	held.Status = domain.TicketStatusInProgress
	held.AssignedAgent = &agentID
	assert.True(t, held.AssignmentConsistent())

	orphan := pendingTicket(2, domain.ClientTypeGeneral, domain.ServiceCategoryProcedure)
	orphan.AssignedAgent = &agentID
	assert.False(t, orphan.AssignmentConsistent(), "PENDING must not carry an assignee")

	done := pendingTicket(3, domain.ClientTypeGeneral, domain.ServiceCategoryProcedure)
	done.Status = domain.TicketStatusDone
	done.AssignedAgent = &agentID
	assert.False(t, done.AssignmentConsistent(), "DONE must not carry an assignee")
}

func TestRoleCategoryBijection(t *testing.T) {
	category, ok := domain.CategoryForRole(domain.RoleProcedureClerk)
	require.True(t, ok)
	assert.Equal(t, domain.ServiceCategoryProcedure, category)

	role, ok := domain.RoleForCategory(domain.ServiceCategoryAdvisory)
	require.True(t, ok)
	assert.Equal(t, domain.RoleAdvisor, role)

	_, ok = domain.CategoryForRole(domain.RoleAdmin)
	assert.False(t, ok, "ADMIN serves no queue")
}

func TestAgentOccupancyConsistency(t *testing.T) {
	ticketID := uuid.New()

	busy := domain.AgentState{UserID: uuid.New(), Status: domain.AgentStatusBusy, CurrentTicket: &ticketID}
	assert.True(t, busy.OccupancyConsistent())

	idleHolding := domain.AgentState{UserID: uuid.New(), Status: domain.AgentStatusFree, CurrentTicket: &ticketID}
	assert.False(t, idleHolding.OccupancyConsistent())

	busyEmpty := domain.AgentState{UserID: uuid.New(), Status: domain.AgentStatusBusy}
	assert.False(t, busyEmpty.OccupancyConsistent())
}
