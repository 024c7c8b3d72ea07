package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitbook-dev/splitbook/internal/id"
	"github.com/splitbook-dev/splitbook/internal/model"
	"github.com/splitbook-dev/splitbook/internal/settle"
	"github.com/splitbook-dev/splitbook/internal/split"
)

var (
	// ErrNoParticipants is returned when a group is created with no members.
	ErrNoParticipants = errors.New("group requires at least one participant")
	// ErrDuplicateParticipant is returned when two members share an ID.
	ErrDuplicateParticipant = errors.New("duplicate participant in group")
	// ErrUnknownParticipant is returned when an operation names a non-member.
	ErrUnknownParticipant = errors.New("participant is not a member of this group")
	// ErrNonPositiveAmount is returned when an expense amount is zero or negative.
	ErrNonPositiveAmount = errors.New("expense amount must be positive")
)

// Group owns a fixed participant set, the expense history, and the balance
// sheet of outstanding debt per (debtor, creditor) pair. AddExpense and
// Settle are all-or-nothing: every check and the split computation run
// before the first mutation, and a single lock serializes mutations with
// reads so callers never observe a half-applied operation.
type Group struct {
	id   string
	name string
	algo model.SettlementAlgo

	splits      *split.Registry
	settlements *settle.Registry

	mu           sync.Mutex
	participants []*model.Participant // insertion order, fixed at creation
	byID         map[string]*model.Participant
	expenses     []*model.Expense
	sheet        *model.BalanceSheet
}

// NewParticipant creates a participant with a fresh stable ID, ready to be
// placed in a group.
func NewParticipant(name string) *model.Participant {
	return model.NewParticipant(id.NewParticipantID(), name)
}

// New creates a group with a fixed participant set and settlement policy,
// wired to the built-in policy registries.
func New(name string, participants []*model.Participant, algo model.SettlementAlgo) (*Group, error) {
	return NewWithRegistries(name, participants, algo, split.DefaultRegistry(), settle.DefaultRegistry())
}

// NewWithRegistries creates a group wired to caller-supplied registries.
// This is the extension point for custom split or settlement policies;
// registries must be fully populated before the group is used.
func NewWithRegistries(name string, participants []*model.Participant, algo model.SettlementAlgo, splits *split.Registry, settlements *settle.Registry) (*Group, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	byID := make(map[string]*model.Participant, len(participants))
	for _, p := range participants {
		if _, ok := byID[p.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParticipant, p.ID)
		}
		byID[p.ID] = p
	}
	return &Group{
		id:           id.NewGroupID(),
		name:         name,
		algo:         algo,
		splits:       splits,
		settlements:  settlements,
		participants: append([]*model.Participant(nil), participants...),
		byID:         byID,
		sheet:        model.NewBalanceSheet(),
	}, nil
}

// ID returns the group's stable ID.
func (g *Group) ID() string { return g.id }

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Algo returns the settlement policy fixed at creation.
func (g *Group) Algo() model.SettlementAlgo { return g.algo }

// Participants returns the members in insertion order.
func (g *Group) Participants() []*model.Participant {
	return append([]*model.Participant(nil), g.participants...)
}

// Participant returns a member by ID.
func (g *Group) Participant(participantID string) (*model.Participant, bool) {
	p, ok := g.byID[participantID]
	return p, ok
}

// AddExpenseParams holds parameters for recording an expense.
type AddExpenseParams struct {
	PayerID      string
	Amount       decimal.Decimal
	SplitType    model.SplitType
	CustomShares map[string]decimal.Decimal // required by exact and percentage splits
	Description  string
	Date         time.Time
}

// AddExpense computes the split under the requested policy, posts each
// non-payer share to the participants' balances and the balance sheet, and
// appends the expense to the history. A failed call leaves the group
// untouched.
func (g *Group) AddExpense(params AddExpenseParams) (*model.Expense, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	payer, ok := g.byID[params.PayerID]
	if !ok {
		return nil, fmt.Errorf("%w: payer %q", ErrUnknownParticipant, params.PayerID)
	}
	if !params.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrNonPositiveAmount, params.Amount)
	}

	policy, err := g.splits.Lookup(params.SplitType)
	if err != nil {
		return nil, err
	}

	shares, err := policy.Split(payer.ID, params.Amount, g.participantIDs(), params.CustomShares)
	if err != nil {
		return nil, err
	}

	// Custom shares may name arbitrary IDs; reject strangers before the
	// first mutation.
	for pid := range shares {
		if _, ok := g.byID[pid]; !ok {
			return nil, fmt.Errorf("%w: share for %q", ErrUnknownParticipant, pid)
		}
	}

	exp := &model.Expense{
		ID:          id.NewExpenseID(),
		PayerID:     payer.ID,
		Amount:      params.Amount,
		Splits:      shares,
		Description: params.Description,
		Date:        params.Date,
	}
	g.apply(exp, payer)
	g.expenses = append(g.expenses, exp)
	return exp, nil
}

// apply posts an expense's shares. The payer's own share is part of the
// computed split but is never posted; the payer covered it in cash.
func (g *Group) apply(exp *model.Expense, payer *model.Participant) {
	for pid, share := range exp.Splits {
		if pid == payer.ID {
			continue
		}
		debtor := g.byID[pid]
		debtor.AdjustBalance(payer.ID, share.Neg())
		payer.AdjustBalance(pid, share)
		if share.IsPositive() {
			g.sheet.Add(pid, payer.ID, share)
		}
	}
}

// Settle records a repayment from payer to payee under the group's fixed
// settlement policy, propagating the policy's errors unchanged.
func (g *Group) Settle(payerID, payeeID string, amount decimal.Decimal) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	payer, ok := g.byID[payerID]
	if !ok {
		return fmt.Errorf("%w: payer %q", ErrUnknownParticipant, payerID)
	}
	payee, ok := g.byID[payeeID]
	if !ok {
		return fmt.Errorf("%w: payee %q", ErrUnknownParticipant, payeeID)
	}

	policy, err := g.settlements.Lookup(g.algo)
	if err != nil {
		return err
	}
	return policy.Settle(payer, payee, amount, g.sheet)
}

// Passbook returns a snapshot of the balance sheet keyed
// debtor ID -> creditor ID -> outstanding amount. Mutating the snapshot has
// no effect on the group.
func (g *Group) Passbook() map[string]map[string]decimal.Decimal {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sheet.Snapshot()
}

// Expenses returns the expense history in insertion order.
func (g *Group) Expenses() []*model.Expense {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*model.Expense(nil), g.expenses...)
}

func (g *Group) participantIDs() []string {
	ids := make([]string, len(g.participants))
	for i, p := range g.participants {
		ids[i] = p.ID
	}
	return ids
}
