package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

var slaBase = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return slaBase }

func TestDueByPriority(t *testing.T) {
	calc := NewSLACalculator(fixedClock)

	tests := []struct {
		priority domain.TicketPriority
		want     time.Duration
	}{
		{domain.TicketPriorityUrgent, 4 * time.Hour},
		{domain.TicketPriorityHigh, 24 * time.Hour},
		{domain.TicketPriorityMedium, 72 * time.Hour},
		{domain.TicketPriorityLow, 168 * time.Hour},
		{domain.TicketPriority("bogus"), 72 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			assert.Equal(t, slaBase.Add(tt.want), calc.DueByPriority(tt.priority))
		})
	}
}

func TestDueByImpact(t *testing.T) {
	calc := NewSLACalculator(fixedClock)

	tests := []struct {
		name      string
		impact    domain.BusinessImpact
		regulated bool
		want      time.Duration
	}{
		{"regulated critical", domain.BusinessImpactCritical, true, 4 * time.Hour},
		{"regulated high", domain.BusinessImpactHigh, true, 8 * time.Hour},
		{"regulated medium", domain.BusinessImpactMedium, true, 24 * time.Hour},
		{"regulated low", domain.BusinessImpactLow, true, 72 * time.Hour},
		{"technical critical", domain.BusinessImpactCritical, false, 2 * time.Hour},
		{"technical high", domain.BusinessImpactHigh, false, 4 * time.Hour},
		{"technical medium", domain.BusinessImpactMedium, false, 8 * time.Hour},
		{"technical low", domain.BusinessImpactLow, false, 24 * time.Hour},
		{"unknown impact falls back to medium", domain.BusinessImpact("bogus"), true, 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, slaBase.Add(tt.want), calc.DueByImpact(tt.impact, tt.regulated))
		})
	}
}

func TestDueForUsesRegulatedTableForKasdaTickets(t *testing.T) {
	calc := NewSLACalculator(fixedClock)

	kasda := &domain.Ticket{IsKasda: true, Impact: domain.BusinessImpactCritical}
	assert.Equal(t, slaBase.Add(4*time.Hour), calc.DueFor(kasda))

	plain := &domain.Ticket{Impact: domain.BusinessImpactCritical}
	assert.Equal(t, slaBase.Add(2*time.Hour), calc.DueFor(plain))
}

func TestNilClockFallsBackToWallClock(t *testing.T) {
	calc := NewSLACalculator(nil)
	due := calc.DueByPriority(domain.TicketPriorityUrgent)
	assert.WithinDuration(t, time.Now().Add(4*time.Hour), due, time.Minute)
}
