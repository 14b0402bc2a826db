package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		name           string
		action         Action
		from           ItemState
		rotated        int
		to             ItemState
		effect         Effect
		notify         bool
		alreadyPresent bool
		errCode        string
	}{
		{name: "wishlist from none", action: ActionAddToWishlist, from: StateNone, to: StateWishlisted, effect: EffectCreateWishlist, notify: true},
		{name: "wishlist when wishlisted", action: ActionAddToWishlist, from: StateWishlisted, to: StateWishlisted, alreadyPresent: true},
		{name: "wishlist when owned", action: ActionAddToWishlist, from: StateOwned, to: StateOwned, alreadyPresent: true},
		{name: "wishlist when rotated", action: ActionAddToWishlist, from: StateOwnedRotated, to: StateOwnedRotated, alreadyPresent: true},

		{name: "closet from none", action: ActionAddToCloset, from: StateNone, to: StateOwned, effect: EffectMoveToCloset, notify: true},
		{name: "closet from wishlist", action: ActionAddToCloset, from: StateWishlisted, to: StateOwned, effect: EffectMoveToCloset, notify: true},
		{name: "closet when owned", action: ActionAddToCloset, from: StateOwned, to: StateOwned, alreadyPresent: true},
		{name: "closet when rotated", action: ActionAddToCloset, from: StateOwnedRotated, to: StateOwnedRotated, alreadyPresent: true},

		{name: "unwish wishlisted", action: ActionRemoveFromWishlist, from: StateWishlisted, to: StateNone, effect: EffectDeleteWishlist},
		{name: "unwish none", action: ActionRemoveFromWishlist, from: StateNone, to: StateNone},
		{name: "unwish owned", action: ActionRemoveFromWishlist, from: StateOwned, to: StateOwned},

		{name: "remove owned", action: ActionRemoveFromCloset, from: StateOwned, to: StateNone, effect: EffectDeleteCloset},
		{name: "remove rotated", action: ActionRemoveFromCloset, from: StateOwnedRotated, to: StateNone, effect: EffectDeleteCloset},
		{name: "remove none", action: ActionRemoveFromCloset, from: StateNone, to: StateNone},
		{name: "remove wishlisted", action: ActionRemoveFromCloset, from: StateWishlisted, to: StateWishlisted},

		{name: "rotate owned under cap", action: ActionToggleRotation, from: StateOwned, rotated: 4, to: StateOwnedRotated, effect: EffectRotate},
		{name: "rotate owned at cap", action: ActionToggleRotation, from: StateOwned, rotated: 5, to: StateOwned, errCode: CodeCapacityExceeded},
		{name: "rotate owned over cap", action: ActionToggleRotation, from: StateOwned, rotated: 7, to: StateOwned, errCode: CodeCapacityExceeded},
		{name: "unrotate at cap", action: ActionToggleRotation, from: StateOwnedRotated, rotated: 5, to: StateOwned, effect: EffectUnrotate},
		{name: "rotate none", action: ActionToggleRotation, from: StateNone, to: StateNone, errCode: CodeNotInCloset},
		{name: "rotate wishlisted", action: ActionToggleRotation, from: StateWishlisted, to: StateWishlisted, errCode: CodeNotInCloset},

		{name: "drop from rotation", action: ActionRemoveFromRotation, from: StateOwnedRotated, to: StateOwned, effect: EffectUnrotate},
		{name: "drop from rotation when not rotated", action: ActionRemoveFromRotation, from: StateOwned, to: StateOwned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Transition(tt.action, tt.from, tt.rotated)
			if tt.errCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.errCode, ErrorCode(err))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.from, out.From)
			assert.Equal(t, tt.to, out.To)
			assert.Equal(t, tt.effect, out.Effect)
			assert.Equal(t, tt.notify, out.Notify)
			assert.Equal(t, tt.alreadyPresent, out.AlreadyPresent)
		})
	}
}

func TestTransitionUnknownAction(t *testing.T) {
	_, err := Transition(Action("bogus"), StateNone, 0)
	assert.True(t, HasCode(err, CodeValidation))
}

func TestRotationNeverExceedsLimit(t *testing.T) {
	states := make([]ItemState, 8)
	for i := range states {
		states[i] = StateOwned
	}

	rotated := 0
	for round := 0; round < 3; round++ {
		for i := range states {
			out, err := Transition(ActionToggleRotation, states[i], rotated)
			if err != nil {
				assert.Equal(t, CodeCapacityExceeded, ErrorCode(err))
				continue
			}
			switch out.Effect {
			case EffectRotate:
				rotated++
			case EffectUnrotate:
				rotated--
			}
			states[i] = out.To
			assert.LessOrEqual(t, rotated, RotationLimit)
		}
	}
}

func TestDeriveState(t *testing.T) {
	assert.Equal(t, StateNone, DeriveState(nil, false))
	assert.Equal(t, StateWishlisted, DeriveState(nil, true))
	assert.Equal(t, StateOwned, DeriveState(&ClosetEntry{}, false))
	assert.Equal(t, StateOwnedRotated, DeriveState(&ClosetEntry{InRotation: true}, false))
	assert.Equal(t, StateOwned, DeriveState(&ClosetEntry{}, true))
}
