package model

// SplitType selects the split policy for one expense.
type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitExact      SplitType = "exact"
	SplitPercentage SplitType = "percentage"
)

// SettlementAlgo selects the settlement policy fixed at group creation.
type SettlementAlgo string

const (
	SettleDirect SettlementAlgo = "direct"
	// SettleMinTransfers is reserved for a whole-group transfer-minimizing
	// policy. No algorithm is defined for it yet.
	SettleMinTransfers SettlementAlgo = "min-transfers"
)
