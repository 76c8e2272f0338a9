package domain

import "sort"

// Category base offsets for the priority key. Categories are never
// interleaved in one queue, so the offset is a design constant that only
// matters if queues were ever merged; it is not a cross-category ranking
// rule.
const (
	procedureBaseKey = 0
	advisoryBaseKey  = 100
	priorityBonus    = 10
)

// PriorityKey maps a ticket to its ordering key; lower sorts first.
// Priority-class clients subtract a fixed bonus from the category base.
func PriorityKey(t Ticket) int {
	base := procedureBaseKey
	if t.ServiceCategory == ServiceCategoryAdvisory {
		base = advisoryBaseKey
	}
	if t.IsPriority {
		base -= priorityBonus
	}
	return base
}

// OrderPending sorts tickets by (priority key, arrival sequence) in place and
// returns the slice. The arrival sequence is compared explicitly so that
// FIFO among equal-priority tickets never depends on an incidental stable
// sort over an unordered fetch.
func OrderPending(tickets []Ticket) []Ticket {
	sort.Slice(tickets, func(i, j int) bool {
		ki, kj := PriorityKey(tickets[i]), PriorityKey(tickets[j])
		if ki != kj {
			return ki < kj
		}
		return tickets[i].QueueSeq < tickets[j].QueueSeq
	})
	return tickets
}

// QueueBoard is the public waiting-room snapshot: both pending queues in
// serving order plus every tracked agent state.
type QueueBoard struct {
	ProcedureQueue []Ticket     `json:"procedure_queue"`
	AdvisoryQueue  []Ticket     `json:"advisory_queue"`
	Attending      []AgentState `json:"attending"`
}
