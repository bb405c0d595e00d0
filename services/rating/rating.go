// Package rating turns a MetricsSnapshot into a heuristic stock rating and
// maps that rating, together with the user's intent, to advice.
//
// Everything here is a pure function of its arguments; evaluations never
// share state and may run concurrently.
package rating

import (
	"errors"
	"fmt"

	"stockrating/types"
	"stockrating/utils/helpers"
)

// ErrInvalidIntent is returned when the intent is neither buy nor sell.
var ErrInvalidIntent = errors.New("invalid intent")

// ParseIntent normalises raw user input into an Intent.
func ParseIntent(raw string) (types.Intent, error) {
	switch intent := types.Intent(helpers.NormalizeString(raw)); intent {
	case types.IntentBuy, types.IntentSell:
		return intent, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidIntent, raw)
}

// Score runs every analysis once against a fresh accumulator and returns the
// total alongside each analysis' share of it.
func Score(snapshot types.MetricsSnapshot) (int, []types.Contribution) {
	rating := 0
	breakdown := make([]types.Contribution, 0, len(battery))
	for _, a := range battery {
		delta := a.score(&snapshot)
		rating += delta
		breakdown = append(breakdown, types.Contribution{Analysis: a.name, Delta: delta})
	}
	return rating, breakdown
}

// Movement describes the direction implied by a rating.
func Movement(rating int) types.Movement {
	if rating > 0 {
		return types.MovementUp
	} else if rating < 0 {
		return types.MovementDown
	}
	return types.MovementUncertain
}

// Advise picks the advice label for a rating given what the user wants to do.
func Advise(rating int, intent types.Intent) (types.Advice, error) {
	switch intent {
	case types.IntentBuy:
		switch {
		case rating >= 25:
			return types.AdviceVeryGoodBuy, nil
		case rating >= 15:
			return types.AdviceGoodBuy, nil
		case rating >= 5:
			return types.AdviceOkayBuy, nil
		case rating >= -5:
			return types.AdviceNeutral, nil
		default:
			return types.AdviceBadBuy, nil
		}
	case types.IntentSell:
		if rating < 0 {
			return types.AdviceSell, nil
		}
		return types.AdviceHold, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidIntent, intent)
}

// Evaluate scores the snapshot and derives advice and movement for intent.
// The intent is matched case-insensitively.
func Evaluate(snapshot types.MetricsSnapshot, intent string) (types.Evaluation, error) {
	parsed, err := ParseIntent(intent)
	if err != nil {
		return types.Evaluation{}, err
	}

	rating, breakdown := Score(snapshot)
	advice, err := Advise(rating, parsed)
	if err != nil {
		return types.Evaluation{}, err
	}

	return types.Evaluation{
		Rating:    rating,
		Intent:    parsed,
		Advice:    advice,
		Movement:  Movement(rating),
		Breakdown: breakdown,
	}, nil
}
