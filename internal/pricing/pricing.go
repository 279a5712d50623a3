// Package pricing holds the static coin price book consumed by feature
// callers. The ledger core never interprets action names; callers resolve
// a cost here before placing a reservation or direct debit.
package pricing

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
)

// PriceBook maps feature action names to their coin cost.
type PriceBook struct {
	Costs map[string]int64 `toml:"costs"`
}

// Default returns the compiled-in price book.
func Default() *PriceBook {
	return &PriceBook{
		Costs: map[string]int64{
			"reveal_prospect":         10,
			"ai_pitch_deck_basic":     25,
			"ai_pitch_deck_elite":     50,
			"ai_message_sequence":     15,
			"ai_message_regeneration": 5,
		},
	}
}

// Load reads a TOML price book from path and merges it over the defaults.
// Actions present in the file override or extend the default table; a
// missing file is not an error, the defaults apply.
func Load(path string) (*PriceBook, error) {
	book := Default()
	if path == "" {
		return book, nil
	}

	var overlay PriceBook
	if _, err := toml.DecodeFile(path, &overlay); err != nil {
		if os.IsNotExist(err) {
			return book, nil
		}
		return nil, fmt.Errorf("failed to load price book %s: %w", path, err)
	}

	for action, cost := range overlay.Costs {
		if cost <= 0 {
			return nil, fmt.Errorf("price book %s: action %q has non-positive cost %d", path, action, cost)
		}
		book.Costs[action] = cost
	}

	return book, nil
}

// Cost returns the coin cost for an action.
func (b *PriceBook) Cost(action string) (int64, bool) {
	cost, ok := b.Costs[action]
	return cost, ok
}

// Actions returns all known action names, sorted.
func (b *PriceBook) Actions() []string {
	actions := make([]string, 0, len(b.Costs))
	for action := range b.Costs {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	return actions
}
