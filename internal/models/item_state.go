package models

// RotationLimit is the maximum number of closet items a user may have in
// rotation at once.
const RotationLimit = 5

// ItemState is the relationship between one user and one sneaker, derived
// from the closet and wishlist ledgers.
type ItemState string

const (
	StateNone         ItemState = "NONE"
	StateWishlisted   ItemState = "WISHLISTED"
	StateOwned        ItemState = "OWNED"
	StateOwnedRotated ItemState = "OWNED_ROTATED"
)

// DeriveState computes the item state from the ledger rows. A closet entry
// wins over a wishlist entry.
func DeriveState(closet *ClosetEntry, wishlisted bool) ItemState {
	switch {
	case closet != nil && closet.InRotation:
		return StateOwnedRotated
	case closet != nil:
		return StateOwned
	case wishlisted:
		return StateWishlisted
	default:
		return StateNone
	}
}

// Owned reports whether the state has a closet entry.
func (s ItemState) Owned() bool {
	return s == StateOwned || s == StateOwnedRotated
}

// Action is a user operation on a sneaker.
type Action string

const (
	ActionAddToWishlist      Action = "add_to_wishlist"
	ActionAddToCloset        Action = "add_to_closet"
	ActionRemoveFromWishlist Action = "remove_from_wishlist"
	ActionRemoveFromCloset   Action = "remove_from_closet"
	ActionToggleRotation     Action = "toggle_rotation"
	ActionRemoveFromRotation Action = "remove_from_rotation"
)

// Effect enumerates the ledger writes a transition needs.
type Effect int

const (
	EffectNone Effect = iota
	EffectCreateWishlist
	EffectDeleteWishlist
	EffectMoveToCloset
	EffectDeleteCloset
	EffectRotate
	EffectUnrotate
)

// Outcome is the result of applying an action to an item state.
type Outcome struct {
	From   ItemState
	To     ItemState
	Effect Effect
	// Notify is set when the action appends a feed notification.
	Notify bool
	// AlreadyPresent marks an add that found the item already in place.
	AlreadyPresent bool
}

// Changed reports whether the transition writes anything.
func (o Outcome) Changed() bool {
	return o.Effect != EffectNone
}

// Transition applies action to the item state. rotated is the number of
// the user's closet items currently in rotation.
func Transition(action Action, from ItemState, rotated int) (Outcome, error) {
	noop := Outcome{From: from, To: from, Effect: EffectNone}

	switch action {
	case ActionAddToWishlist:
		if from != StateNone {
			noop.AlreadyPresent = true
			return noop, nil
		}
		return Outcome{From: from, To: StateWishlisted, Effect: EffectCreateWishlist, Notify: true}, nil

	case ActionAddToCloset:
		if from.Owned() {
			noop.AlreadyPresent = true
			return noop, nil
		}
		return Outcome{From: from, To: StateOwned, Effect: EffectMoveToCloset, Notify: true}, nil

	case ActionRemoveFromWishlist:
		if from != StateWishlisted {
			return noop, nil
		}
		return Outcome{From: from, To: StateNone, Effect: EffectDeleteWishlist}, nil

	case ActionRemoveFromCloset:
		if !from.Owned() {
			return noop, nil
		}
		return Outcome{From: from, To: StateNone, Effect: EffectDeleteCloset}, nil

	case ActionToggleRotation:
		switch from {
		case StateOwnedRotated:
			return Outcome{From: from, To: StateOwned, Effect: EffectUnrotate}, nil
		case StateOwned:
			if rotated >= RotationLimit {
				return noop, NewCapacityExceededError(RotationLimit)
			}
			return Outcome{From: from, To: StateOwnedRotated, Effect: EffectRotate}, nil
		default:
			return noop, NewNotInClosetError()
		}

	case ActionRemoveFromRotation:
		if from != StateOwnedRotated {
			return noop, nil
		}
		return Outcome{From: from, To: StateOwned, Effect: EffectUnrotate}, nil
	}

	return noop, NewValidationError("unknown action " + string(action))
}
