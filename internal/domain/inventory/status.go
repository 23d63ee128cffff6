package inventory

import (
	"fmt"
	"strings"
	"time"
)

type TransitionKind string

const (
	TransitionConsume TransitionKind = "consume"
	TransitionGive    TransitionKind = "give"
	TransitionSell    TransitionKind = "sell"
)

// Transition describes a requested status change. At defaults to now
// when zero.
type Transition struct {
	Kind      TransitionKind
	GivenTo   string
	SoldTo    *string
	SoldPrice *float64
	At        time.Time
}

// applyTransition is the pure item state machine: the three terminal
// transitions each leave owned exactly once, and nothing leaves a
// terminal state.
func applyTransition(item Item, t Transition) (Item, error) {
	if item.Status != StatusOwned {
		return Item{}, fmt.Errorf("%w: item is %s", ErrInvalidStatus, item.Status)
	}

	at := t.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	switch t.Kind {
	case TransitionConsume:
		item.Status = StatusConsumed
		item.ConsumedAt = &at
	case TransitionGive:
		recipient := strings.TrimSpace(t.GivenTo)
		if recipient == "" {
			return Item{}, fmt.Errorf("given_to is required")
		}
		item.Status = StatusGiven
		item.GivenTo = &recipient
		item.GivenAt = &at
	case TransitionSell:
		item.Status = StatusSold
		item.SoldAt = &at
		if t.SoldTo != nil {
			soldTo := strings.TrimSpace(*t.SoldTo)
			if soldTo != "" {
				item.SoldTo = &soldTo
			}
		}
		item.SoldPrice = t.SoldPrice
	default:
		return Item{}, fmt.Errorf("unknown transition %q", t.Kind)
	}

	return item, nil
}
