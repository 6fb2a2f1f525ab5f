package user_test

import (
	"testing"

	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()
	u, err := user.New("alice", "$2a$hash", user.Profile{
		FirstName: "Alice",
		LastName:  "Liddell",
		Email:     "alice@example.com",
	}, user.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "Alice", u.FirstName)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.False(t, u.IsAdmin())
	assert.False(t, u.CreatedAt.IsZero())
}

func TestNew_Invalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		hash     string
		role     string
	}{
		{"empty username", "", "$2a$hash", user.RoleUser},
		{"blank username", "   ", "$2a$hash", user.RoleUser},
		{"empty hash", "alice", "", user.RoleUser},
		{"unknown role", "alice", "$2a$hash", "root"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := user.New(tt.username, tt.hash, user.Profile{}, tt.role)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestValidRole(t *testing.T) {
	t.Parallel()
	assert.True(t, user.ValidRole(user.RoleUser))
	assert.True(t, user.ValidRole(user.RoleAdmin))
	assert.False(t, user.ValidRole("Admin"))
	assert.False(t, user.ValidRole(""))
}

func TestApplyProfile(t *testing.T) {
	t.Parallel()
	u := &user.User{FirstName: "old", Email: "old@example.com", Role: user.RoleAdmin}
	u.ApplyProfile(user.Profile{FirstName: "new", NationalID: "N-9"})
	assert.Equal(t, "new", u.FirstName)
	assert.Equal(t, "N-9", u.NationalID)
	assert.Empty(t, u.Email)
	assert.True(t, u.IsAdmin())
}

// FuzzNew checks that a created user never has an empty username.
func FuzzNew(f *testing.F) {
	f.Add("alice", "$2a$hash", "user")
	f.Add("", "", "")
	f.Fuzz(func(t *testing.T, username, hash, role string) {
		u, err := user.New(username, hash, user.Profile{}, role)
		if err == nil && (u.Username == "" || u.Password == "" || !user.ValidRole(u.Role)) {
			t.Errorf("invalid user accepted: %+v", u)
		}
	})
}
