package model

import (
	"github.com/shopspring/decimal"
)

// Participant is a member of an expense group. The ID is an opaque string
// assigned once at creation; identity is always the ID, never the pointer.
type Participant struct {
	ID   string
	Name string

	// balances maps counterparty ID to a signed amount: positive means the
	// counterparty owes this participant, negative means this participant
	// owes the counterparty. A zero entry is removed, so absent and zero
	// are the same thing.
	balances map[string]decimal.Decimal
}

// NewParticipant creates a participant with an empty balance map.
func NewParticipant(id, name string) *Participant {
	return &Participant{
		ID:       id,
		Name:     name,
		balances: make(map[string]decimal.Decimal),
	}
}

// BalanceWith returns the signed balance against one counterparty. Absent
// entries read as zero and lookups never materialize an entry.
func (p *Participant) BalanceWith(counterparty string) decimal.Decimal {
	return p.balances[counterparty]
}

// AdjustBalance adds delta to the balance against counterparty, dropping the
// entry when it reaches zero.
func (p *Participant) AdjustBalance(counterparty string, delta decimal.Decimal) {
	next := p.balances[counterparty].Add(delta)
	if next.IsZero() {
		delete(p.balances, counterparty)
		return
	}
	p.balances[counterparty] = next
}

// NetBalance sums the balance map: positive means the participant is owed
// money overall, negative means they owe.
func (p *Participant) NetBalance() decimal.Decimal {
	total := decimal.Zero
	for _, amt := range p.balances {
		total = total.Add(amt)
	}
	return total
}

// Balances returns a copy of the balance map keyed by counterparty ID.
func (p *Participant) Balances() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(p.balances))
	for counterparty, amt := range p.balances {
		out[counterparty] = amt
	}
	return out
}
