package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shrimpsizemoose/kateder/internal/models"
	"github.com/shrimpsizemoose/kateder/internal/registry"
	"github.com/shrimpsizemoose/kateder/internal/store/sqlite"
)

func setupTestAuth(t *testing.T, comparer CredentialComparer) (*Auth, *registry.Registry, func()) {
	kv, err := sqlite.NewSQLiteKV(":memory:")
	require.NoError(t, err, "Failed to create store")

	reg := registry.New(kv)
	cleanup := func() {
		require.NoError(t, reg.Close(), "Failed to close store")
	}
	return NewAuth(reg, comparer), reg, cleanup
}

func TestLoginLogoutScenario(t *testing.T) {
	auth, reg, cleanup := setupTestAuth(t, PlainComparer{})
	defer cleanup()

	ctx := context.Background()

	teacher := models.Teacher{
		ID:       "t1",
		Name:     "Anna",
		Email:    "a@x.com",
		Password: "p",
		Subject:  "Math",
	}
	require.NoError(t, reg.Teachers.Add(ctx, teacher))

	session, err := auth.Login(ctx, "a@x.com", "p")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "t1", session.ID)
	assert.Equal(t, models.RoleTeacher, session.Role)

	ok, err := auth.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, auth.Logout(ctx))

	ok, err = auth.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoginPrecedence(t *testing.T) {
	auth, reg, cleanup := setupTestAuth(t, PlainComparer{})
	defer cleanup()

	ctx := context.Background()

	// teacher and student deliberately share credentials
	require.NoError(t, reg.Teachers.Add(ctx, models.Teacher{
		ID: "t1", Name: "Anna", Email: "shared@x.com", Password: "p",
	}))
	require.NoError(t, reg.Students.Add(ctx, models.Student{
		ID: "s1", Name: "Erik", Email: "shared@x.com", Password: "p",
	}))

	session, err := auth.Login(ctx, "shared@x.com", "p")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, models.RoleTeacher, session.Role, "teacher wins the email tie-break")
	assert.Equal(t, "t1", session.ID)
}

func TestLoginResolvesEachRole(t *testing.T) {
	auth, reg, cleanup := setupTestAuth(t, PlainComparer{})
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, reg.Students.Add(ctx, models.Student{
		ID: "s1", Name: "Erik", Email: "erik@x.com", Password: "sp",
	}))
	require.NoError(t, reg.Parents.Add(ctx, models.Parent{
		ID: "p1", Name: "Maria", Email: "maria@x.com", Password: "pp",
	}))

	session, err := auth.Login(ctx, "erik@x.com", "sp")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, session.Role)

	session, err = auth.Login(ctx, "maria@x.com", "pp")
	require.NoError(t, err)
	assert.Equal(t, models.RoleParent, session.Role)
}

func TestLoginFailureKeepsSession(t *testing.T) {
	auth, reg, cleanup := setupTestAuth(t, PlainComparer{})
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, reg.Teachers.Add(ctx, models.Teacher{
		ID: "t1", Name: "Anna", Email: "a@x.com", Password: "p",
	}))

	_, err := auth.Login(ctx, "a@x.com", "p")
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, err := auth.Login(ctx, "a@x.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := auth.Login(ctx, "nobody@x.com", "p")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("case sensitive match", func(t *testing.T) {
		_, err := auth.Login(ctx, "a@x.com", "P")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	session, err := auth.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, session, "failed logins must leave the prior session untouched")
	assert.Equal(t, "t1", session.ID)
}

func TestBcryptComparer(t *testing.T) {
	auth, reg, cleanup := setupTestAuth(t, BcryptComparer{})
	defer cleanup()

	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("hemligt"), bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, reg.Teachers.Add(ctx, models.Teacher{
		ID: "t1", Name: "Anna", Email: "a@x.com", Password: string(hash),
	}))

	session, err := auth.Login(ctx, "a@x.com", "hemligt")
	require.NoError(t, err)
	assert.Equal(t, "t1", session.ID)

	_, err = auth.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestNewComparer(t *testing.T) {
	testCases := []struct {
		name    string
		wantErr bool
	}{
		{name: "", wantErr: false},
		{name: "plain", wantErr: false},
		{name: "bcrypt", wantErr: false},
		{name: "md5", wantErr: true},
	}

	for _, tc := range testCases {
		comparer, err := NewComparer(tc.name)
		if tc.wantErr {
			assert.Error(t, err, "comparer %q", tc.name)
		} else {
			assert.NoError(t, err, "comparer %q", tc.name)
			assert.NotNil(t, comparer)
		}
	}
}
