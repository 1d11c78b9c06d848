package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/staybook/internal/application/session"
	"github.com/zatekoja/staybook/internal/domain/entities"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

type memoryStore struct {
	user *entities.User
	err  error
}

func (s *memoryStore) GetCurrentUser(ctx context.Context) (*entities.User, error) {
	return s.user, s.err
}

func (s *memoryStore) SetCurrentUser(ctx context.Context, user *entities.User) error {
	if s.err != nil {
		return s.err
	}
	s.user = user
	return nil
}

type MockUsersAPI struct {
	mock.Mock
}

func (m *MockUsersAPI) ListUsers(ctx context.Context) ([]entities.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]entities.User)
	return users, args.Error(1)
}

func (m *MockUsersAPI) GetUser(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entities.User)
	return user, args.Error(1)
}

func (m *MockUsersAPI) UpdateUser(ctx context.Context, user *entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	updated, _ := args.Get(0).(*entities.User)
	return updated, args.Error(1)
}

var registered = []entities.User{
	{ID: "u1", MobileNumber: "0241111111", Email: "ama@example.com", Password: "secret", FirstName: "Ama"},
	{ID: "u2", MobileNumber: "0242222222", Email: "kofi@example.com", Password: "hunter2", FirstName: "Kofi"},
}

func TestManager_InitRestoresPersistedUser(t *testing.T) {
	store := &memoryStore{user: &entities.User{ID: "u2"}}
	m := session.NewManager(store, new(MockUsersAPI))

	assert.Equal(t, "", m.CurrentUserID())
	require.NoError(t, m.Init(context.Background()))
	assert.Equal(t, "u2", m.CurrentUserID())
}

func TestManager_InitPropagatesStoreError(t *testing.T) {
	m := session.NewManager(&memoryStore{err: errors.New("disk")}, new(MockUsersAPI))
	assert.Error(t, m.Init(context.Background()))
}

func TestManager_LoginByMobileAndEmail(t *testing.T) {
	ctx := context.Background()
	users := new(MockUsersAPI)
	users.On("ListUsers", mock.Anything).Return(registered, nil)
	store := &memoryStore{}
	m := session.NewManager(store, users)

	user, err := m.Login(ctx, session.Credentials{MobileNumber: "0242222222", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
	assert.Equal(t, "u2", store.user.ID)

	user, err = m.Login(ctx, session.Credentials{Email: "AMA@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "u1", m.CurrentUserID())
}

func TestManager_LoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	users := new(MockUsersAPI)
	users.On("ListUsers", mock.Anything).Return(registered, nil)
	m := session.NewManager(&memoryStore{}, users)

	_, err := m.Login(ctx, session.Credentials{MobileNumber: "0241111111", Password: "wrong"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthenticated))
	assert.Equal(t, "", m.CurrentUserID())

	_, err = m.Login(ctx, session.Credentials{Password: "secret"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidInput))
	users.AssertNumberOfCalls(t, "ListUsers", 1)
}

func TestManager_Logout(t *testing.T) {
	store := &memoryStore{user: &entities.User{ID: "u1"}}
	m := session.NewManager(store, new(MockUsersAPI))
	require.NoError(t, m.Init(context.Background()))

	require.NoError(t, m.Logout(context.Background()))
	assert.Nil(t, m.CurrentUser())
	assert.Nil(t, store.user)
}

func TestManager_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{user: &entities.User{ID: "u1", FirstName: "Ama", LastName: "Owusu", Email: "ama@example.com"}}
	users := new(MockUsersAPI)
	users.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
		return u.ID == "u1" && u.FirstName == "Akua" && u.LastName == "Owusu"
	})).Return(&entities.User{ID: "u1", FirstName: "Akua", LastName: "Owusu", Email: "ama@example.com"}, nil)

	m := session.NewManager(store, users)
	require.NoError(t, m.Init(ctx))

	updated, err := m.UpdateProfile(ctx, session.ProfileUpdate{FirstName: " Akua "})
	require.NoError(t, err)
	assert.Equal(t, "Akua Owusu", updated.FullName())
	assert.Equal(t, "Akua", store.user.FirstName)
	users.AssertExpectations(t)
}

func TestManager_UpdateProfileRequiresSessionAndValidEmail(t *testing.T) {
	ctx := context.Background()
	users := new(MockUsersAPI)

	m := session.NewManager(&memoryStore{}, users)
	_, err := m.UpdateProfile(ctx, session.ProfileUpdate{FirstName: "X"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthenticated))

	m = session.NewManager(&memoryStore{user: &entities.User{ID: "u1"}}, users)
	require.NoError(t, m.Init(ctx))
	_, err = m.UpdateProfile(ctx, session.ProfileUpdate{Email: "not-an-email"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidInput))
	users.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
}

func TestManager_UpdateProfileKeepsSessionOnFailure(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{user: &entities.User{ID: "u1", FirstName: "Ama"}}
	users := new(MockUsersAPI)
	users.On("UpdateUser", mock.Anything, mock.Anything).Return(nil, apperrors.NewStatusError("PUT /users/u1", 500))

	m := session.NewManager(store, users)
	require.NoError(t, m.Init(ctx))

	_, err := m.UpdateProfile(ctx, session.ProfileUpdate{FirstName: "Akua"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNetwork))
	assert.Equal(t, "Ama", m.CurrentUser().FirstName)
	assert.Equal(t, "Ama", store.user.FirstName)
}
