package route

import (
	"errors"
	"fmt"
	"slices"

	"logistics/internal/pkg/errs"
)

// StrategyKey is the provider's numeric route optimisation code.
type StrategyKey int

const (
	Fastest         StrategyKey = 0
	Shortest        StrategyKey = 1
	Cheapest        StrategyKey = 2
	AvoidCongestion StrategyKey = 4
)

// CanonicalKeys lists every supported strategy in presentation order.
func CanonicalKeys() []StrategyKey {
	return []StrategyKey{Fastest, Shortest, Cheapest, AvoidCongestion}
}

// Strategy is one row of the strategy table: the provider code plus the label
// and UI tag shown to operators.
type Strategy struct {
	Key  StrategyKey
	Name string
	Tag  string
}

// StrategyTable is an immutable lookup of the supported strategies, kept in
// canonical order.
type StrategyTable struct {
	strategies []Strategy
}

// NewStrategyTable validates the rows and orders them canonically.
// Every row must use a supported key, and keys must be unique.
func NewStrategyTable(rows []Strategy) (StrategyTable, error) {
	if len(rows) == 0 {
		return StrategyTable{}, errs.NewValueIsRequiredError("strategies")
	}

	seen := make(map[StrategyKey]bool, len(rows))
	var errList []error
	for _, row := range rows {
		if !slices.Contains(CanonicalKeys(), row.Key) {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				"strategy", fmt.Errorf("%d is not a supported strategy", row.Key)))
		}
		if seen[row.Key] {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				"strategy", fmt.Errorf("%d is listed twice", row.Key)))
		}
		seen[row.Key] = true
	}
	if err := errors.Join(errList...); err != nil {
		return StrategyTable{}, err
	}

	ordered := make([]Strategy, 0, len(rows))
	for _, key := range CanonicalKeys() {
		for _, row := range rows {
			if row.Key == key {
				ordered = append(ordered, row)
			}
		}
	}

	return StrategyTable{strategies: ordered}, nil
}

// All returns every configured strategy in canonical order.
func (t StrategyTable) All() []Strategy {
	return slices.Clone(t.strategies)
}

func (t StrategyTable) Lookup(key StrategyKey) (Strategy, bool) {
	for _, s := range t.strategies {
		if s.Key == key {
			return s, true
		}
	}
	return Strategy{}, false
}

// Resolve maps requested keys to strategies in canonical order, ignoring
// duplicates. No keys means all strategies.
func (t StrategyTable) Resolve(keys []int) ([]Strategy, error) {
	if len(keys) == 0 {
		return t.All(), nil
	}

	requested := make(map[StrategyKey]bool, len(keys))
	for _, k := range keys {
		if _, ok := t.Lookup(StrategyKey(k)); !ok {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"strategy", fmt.Errorf("%d is not a supported strategy", k))
		}
		requested[StrategyKey(k)] = true
	}

	out := make([]Strategy, 0, len(requested))
	for _, s := range t.strategies {
		if requested[s.Key] {
			out = append(out, s)
		}
	}
	return out, nil
}
