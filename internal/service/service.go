// Package service holds the application use cases. Every method takes the
// acting session.Identity explicitly; anonymous callers are rejected before
// any store access.
package service

import (
	"sneakercloset/internal/models"
	"sneakercloset/internal/session"
)

const (
	// AccessUnauthorizedMessage is shown for anonymous or foreign access.
	AccessUnauthorizedMessage = "Access unauthorized."
	// WrongPasswordMessage rejects a profile edit with a bad current password.
	WrongPasswordMessage = "Wrong password, please try again."
)

func requireUser(actor session.Identity) error {
	if actor.Anonymous() {
		return models.NewUnauthorizedError(AccessUnauthorizedMessage)
	}
	return nil
}

// requireSelf allows only the owner of userID through.
func requireSelf(actor session.Identity, userID uint) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	if !actor.Is(userID) {
		return models.NewForbiddenError(AccessUnauthorizedMessage)
	}
	return nil
}

// staleSession turns a missing actor row into Unauthorized: the token
// outlived its account.
func staleSession(err error) error {
	if models.HasCode(err, models.CodeNotFound) {
		return models.NewUnauthorizedError(AccessUnauthorizedMessage)
	}
	return err
}
