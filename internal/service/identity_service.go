package service

import (
	"context"
	"strings"

	"sneakercloset/internal/cache"
	"sneakercloset/internal/models"
	"sneakercloset/internal/repository"
	"sneakercloset/internal/session"
	"sneakercloset/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the username is unknown so a failed
// login costs the same either way.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("sneakercloset-dummy-password"), bcrypt.DefaultCost)

// RegisterInput is the signup form.
type RegisterInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
	ImageURL  string
}

// UpdateProfileInput is the profile edit form. Password must match the
// current password.
type UpdateProfileInput struct {
	Username       string
	FirstName      string
	LastName       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	SneakerSize    string
	Password       string
}

// ProfileView is a user as seen by another (or the same) user.
type ProfileView struct {
	User           *models.User `json:"user"`
	FollowersCount int64        `json:"followers_count"`
	FollowingCount int64        `json:"following_count"`
	IsFollowing    bool         `json:"is_following"`
	IsFollowedBy   bool         `json:"is_followed_by"`
	IsSelf         bool         `json:"is_self"`
}

// IdentityService registers, authenticates, edits and deletes users.
type IdentityService struct {
	store repository.Store
	cost  int
}

// NewIdentityService returns a new IdentityService.
func NewIdentityService(store repository.Store) *IdentityService {
	return &IdentityService{store: store, cost: bcrypt.DefaultCost}
}

// Register creates a user with a bcrypt-hashed password.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Signup(in.Username, in.FirstName, in.LastName, in.Email, in.Password, in.ImageURL); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hashed),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		ImageURL:  strings.TrimSpace(in.ImageURL),
	}
	if err := s.store.Repos().Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user when the credentials match and nil, nil
// otherwise. It never says which half was wrong.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.Repos().Users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil
	}
	return user, nil
}

// GetUser returns the user or NOT_FOUND.
func (s *IdentityService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.store.Repos().Users.GetByID(ctx, id)
}

// Profile returns user id with follow counts and the caller's relation to it.
func (s *IdentityService) Profile(ctx context.Context, actor session.Identity, id uint) (*ProfileView, error) {
	repos := s.store.Repos()
	user, err := repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	followers, following, err := repos.Follows.Counts(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{
		User:           user,
		FollowersCount: followers,
		FollowingCount: following,
		IsSelf:         actor.Is(id),
	}
	if !actor.Anonymous() && !view.IsSelf {
		if view.IsFollowing, err = repos.Follows.Exists(ctx, actor.UserID, id); err != nil {
			return nil, err
		}
		if view.IsFollowedBy, err = repos.Follows.Exists(ctx, id, actor.UserID); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// UpdateProfile applies in to the actor's account after re-checking the
// password. Blank image fields fall back to the defaults.
func (s *IdentityService) UpdateProfile(ctx context.Context, actor session.Identity, in UpdateProfileInput) (*models.User, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	var updated *models.User
	err := s.store.Atomic(ctx, func(r repository.Repositories) error {
		// Cached rows carry no password hash, so read the live row.
		user, err := r.Users.LockByID(ctx, actor.UserID)
		if err != nil {
			return staleSession(err)
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
			return models.NewUnauthorizedError(WrongPasswordMessage)
		}
		if err := validateProfile(in); err != nil {
			return models.NewValidationError(err.Error())
		}

		user.Username = in.Username
		user.Email = in.Email
		user.FirstName = strings.TrimSpace(in.FirstName)
		user.LastName = strings.TrimSpace(in.LastName)
		user.ImageURL = strings.TrimSpace(in.ImageURL)
		user.HeaderImageURL = strings.TrimSpace(in.HeaderImageURL)
		user.SneakerSize = nil
		if size := strings.TrimSpace(in.SneakerSize); size != "" {
			user.SneakerSize = &size
		}
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, actor.UserID)
	return updated, nil
}

func validateProfile(in UpdateProfileInput) error {
	checks := []func() error{
		func() error { return validation.ValidateUsername(in.Username) },
		func() error { return validation.ValidateEmail(in.Email) },
		func() error { return validation.ValidateName("first name", in.FirstName) },
		func() error { return validation.ValidateName("last name", in.LastName) },
		func() error { return validation.ValidateImageURL(in.ImageURL) },
		func() error { return validation.ValidateImageURL(in.HeaderImageURL) },
		func() error { return validation.ValidateSneakerSize(in.SneakerSize) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the actor and everything that references them.
func (s *IdentityService) Delete(ctx context.Context, actor session.Identity) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	err := s.store.Atomic(ctx, func(r repository.Repositories) error {
		if _, err := r.Users.LockByID(ctx, actor.UserID); err != nil {
			return staleSession(err)
		}
		if err := r.Collection.DeleteAllForUser(ctx, actor.UserID); err != nil {
			return err
		}
		if err := r.Follows.DeleteAllForUser(ctx, actor.UserID); err != nil {
			return err
		}
		if err := r.Notifications.DeleteAllForUser(ctx, actor.UserID); err != nil {
			return err
		}
		return r.Users.Delete(ctx, actor.UserID)
	})
	if err != nil {
		return err
	}
	cache.InvalidateUser(ctx, actor.UserID)
	return nil
}
