package service

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Clock abstracts time for deterministic SLA computation.
type Clock func() time.Time

// SLACalculator maps priority or business impact to a due timestamp.
// Pure: no I/O, deterministic given inputs and the clock.
type SLACalculator struct {
	now Clock
}

// NewSLACalculator builds a calculator; a nil clock falls back to
// time.Now.
func NewSLACalculator(now Clock) *SLACalculator {
	if now == nil {
		now = time.Now
	}
	return &SLACalculator{now: now}
}

// priorityOffsets is the legacy priority-keyed table.
var priorityOffsets = map[domain.TicketPriority]time.Duration{
	domain.TicketPriorityUrgent: 4 * time.Hour,
	domain.TicketPriorityHigh:   24 * time.Hour,
	domain.TicketPriorityMedium: 72 * time.Hour,
	domain.TicketPriorityLow:    168 * time.Hour,
}

// regulatedOffsets applies to KASDA/business tickets. The critical tier
// uses the 4h variant of the unified table.
var regulatedOffsets = map[domain.BusinessImpact]time.Duration{
	domain.BusinessImpactCritical: 4 * time.Hour,
	domain.BusinessImpactHigh:     8 * time.Hour,
	domain.BusinessImpactMedium:   24 * time.Hour,
	domain.BusinessImpactLow:      72 * time.Hour,
}

// technicalOffsets applies to ordinary technical tickets.
var technicalOffsets = map[domain.BusinessImpact]time.Duration{
	domain.BusinessImpactCritical: 2 * time.Hour,
	domain.BusinessImpactHigh:     4 * time.Hour,
	domain.BusinessImpactMedium:   8 * time.Hour,
	domain.BusinessImpactLow:      24 * time.Hour,
}

// DueByPriority computes the due date on the basic priority-keyed path.
// Unknown priorities fall back to the medium rule.
func (c *SLACalculator) DueByPriority(priority domain.TicketPriority) time.Time {
	offset, ok := priorityOffsets[priority]
	if !ok {
		offset = priorityOffsets[domain.TicketPriorityMedium]
	}
	return c.now().Add(offset)
}

// DueByImpact computes the due date on the impact-keyed path,
// distinguishing regulated from ordinary technical tickets. Unknown
// impacts fall back to the medium rule.
func (c *SLACalculator) DueByImpact(impact domain.BusinessImpact, regulated bool) time.Time {
	table := technicalOffsets
	if regulated {
		table = regulatedOffsets
	}
	offset, ok := table[impact]
	if !ok {
		offset = table[domain.BusinessImpactMedium]
	}
	return c.now().Add(offset)
}

// DueFor picks the impact-keyed path for a ticket becoming active.
func (c *SLACalculator) DueFor(ticket *domain.Ticket) time.Time {
	return c.DueByImpact(ticket.Impact, ticket.IsRegulated())
}
