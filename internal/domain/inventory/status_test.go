package inventory

import (
	"errors"
	"testing"
	"time"
)

func TestApplyTransitionConsume(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	item := Item{ID: "item-1", Status: StatusOwned}

	result, err := applyTransition(item, Transition{Kind: TransitionConsume, At: at})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != StatusConsumed {
		t.Fatalf("expected consumed, got %q", result.Status)
	}
	if result.ConsumedAt == nil || !result.ConsumedAt.Equal(at) {
		t.Fatalf("expected consumedAt stamped, got %v", result.ConsumedAt)
	}
}

func TestApplyTransitionGive(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	item := Item{ID: "item-1", Status: StatusOwned}

	result, err := applyTransition(item, Transition{Kind: TransitionGive, GivenTo: "  Grandma  ", At: at})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != StatusGiven {
		t.Fatalf("expected given, got %q", result.Status)
	}
	if result.GivenTo == nil || *result.GivenTo != "Grandma" {
		t.Fatalf("expected recipient trimmed, got %v", result.GivenTo)
	}
	if result.GivenAt == nil || !result.GivenAt.Equal(at) {
		t.Fatalf("expected givenAt stamped, got %v", result.GivenAt)
	}
}

func TestApplyTransitionGiveRequiresRecipient(t *testing.T) {
	item := Item{ID: "item-1", Status: StatusOwned}
	if _, err := applyTransition(item, Transition{Kind: TransitionGive, GivenTo: "   "}); err == nil {
		t.Fatalf("expected error for empty recipient")
	}
}

func TestApplyTransitionSell(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	buyer := "Flea Market"
	price := 12.5
	item := Item{ID: "item-1", Status: StatusOwned}

	result, err := applyTransition(item, Transition{Kind: TransitionSell, SoldTo: &buyer, SoldPrice: &price, At: at})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != StatusSold {
		t.Fatalf("expected sold, got %q", result.Status)
	}
	if result.SoldTo == nil || *result.SoldTo != "Flea Market" {
		t.Fatalf("expected buyer kept, got %v", result.SoldTo)
	}
	if result.SoldPrice == nil || *result.SoldPrice != 12.5 {
		t.Fatalf("expected price kept, got %v", result.SoldPrice)
	}
}

func TestApplyTransitionSellOptionalFields(t *testing.T) {
	item := Item{ID: "item-1", Status: StatusOwned}
	result, err := applyTransition(item, Transition{Kind: TransitionSell})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.SoldTo != nil || result.SoldPrice != nil {
		t.Fatalf("expected optional sale fields unset, got %+v", result)
	}
	if result.SoldAt == nil {
		t.Fatalf("expected soldAt defaulted")
	}
}

func TestApplyTransitionTerminalStatesStay(t *testing.T) {
	for _, status := range []string{StatusConsumed, StatusGiven, StatusSold} {
		item := Item{ID: "item-1", Status: status}
		for _, kind := range []TransitionKind{TransitionConsume, TransitionGive, TransitionSell} {
			_, err := applyTransition(item, Transition{Kind: kind, GivenTo: "someone"})
			if !errors.Is(err, ErrInvalidStatus) {
				t.Fatalf("%s -> %s: expected ErrInvalidStatus, got %v", status, kind, err)
			}
		}
	}
}

func TestApplyTransitionUnknownKind(t *testing.T) {
	if _, err := applyTransition(Item{Status: StatusOwned}, Transition{Kind: "teleport"}); err == nil {
		t.Fatalf("expected error for unknown transition")
	}
}
