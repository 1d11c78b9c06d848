package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/providers"
	"github.com/zatekoja/staybook/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

// Credentials identify a user by mobile number or email plus password
type Credentials struct {
	MobileNumber string
	Email        string
	Password     string
}

// ProfileUpdate carries the editable profile fields. Empty fields are left unchanged.
type ProfileUpdate struct {
	FirstName    string
	LastName     string
	Email        string
	MobileNumber string
	ProfileImage string
}

// Manager owns the current user for the lifetime of the process.
// It is passed explicitly to whatever needs the signed-in user.
type Manager struct {
	store providers.SessionStore
	users providers.UsersAPI

	mu      sync.RWMutex
	current *entities.User
}

// NewManager creates a session manager
func NewManager(store providers.SessionStore, users providers.UsersAPI) *Manager {
	return &Manager{store: store, users: users}
}

// Init loads the persisted user, if any
func (m *Manager) Init(ctx context.Context) error {
	user, err := m.store.GetCurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	m.mu.Lock()
	m.current = user
	m.mu.Unlock()

	if user != nil {
		observability.LoggerFromContext(ctx).Debug().Str("user_id", user.ID).Msg("Session restored")
	}
	return nil
}

// CurrentUser returns a copy of the signed-in user, or nil
func (m *Manager) CurrentUser() *entities.User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil
	}
	user := *m.current
	return &user
}

// CurrentUserID returns the signed-in user's id, or "" when signed out
func (m *Manager) CurrentUserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return ""
	}
	return m.current.ID
}

// Login matches credentials against the users collection and persists the match
func (m *Manager) Login(ctx context.Context, creds Credentials) (*entities.User, error) {
	if creds.Password == "" || (creds.MobileNumber == "" && creds.Email == "") {
		return nil, apperrors.NewInvalidInputError("mobile number or email and password are required")
	}

	users, err := m.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if matches(users[i], creds) {
			if err := m.set(ctx, &users[i]); err != nil {
				return nil, err
			}
			observability.LoggerFromContext(ctx).Info().Str("user_id", users[i].ID).Msg("User signed in")
			return m.CurrentUser(), nil
		}
	}

	return nil, apperrors.NewUnauthenticatedError("invalid credentials")
}

func matches(user entities.User, creds Credentials) bool {
	if user.Password != creds.Password {
		return false
	}
	if creds.MobileNumber != "" && user.MobileNumber == creds.MobileNumber {
		return true
	}
	return creds.Email != "" && strings.EqualFold(user.Email, creds.Email)
}

// Logout clears the persisted session
func (m *Manager) Logout(ctx context.Context) error {
	return m.set(ctx, nil)
}

// UpdateProfile saves the changed fields through the API and persists the result
func (m *Manager) UpdateProfile(ctx context.Context, update ProfileUpdate) (*entities.User, error) {
	user := m.CurrentUser()
	if user == nil {
		return nil, apperrors.NewUnauthenticatedError("sign in to edit your profile")
	}

	apply(&user.FirstName, update.FirstName)
	apply(&user.LastName, update.LastName)
	apply(&user.Email, update.Email)
	apply(&user.MobileNumber, update.MobileNumber)
	apply(&user.ProfileImage, update.ProfileImage)

	if err := user.Validate(); err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}

	updated, err := m.users.UpdateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := m.set(ctx, updated); err != nil {
		return nil, err
	}
	return m.CurrentUser(), nil
}

func apply(field *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*field = value
	}
}

func (m *Manager) set(ctx context.Context, user *entities.User) error {
	if err := m.store.SetCurrentUser(ctx, user); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if user == nil {
		m.current = nil
		return nil
	}
	stored := *user
	m.current = &stored
	return nil
}
