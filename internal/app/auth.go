// internal/app/auth.go
package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/shrimpsizemoose/kateder/internal/models"
	"github.com/shrimpsizemoose/kateder/internal/registry"
)

// ErrInvalidCredentials is the generic login failure. It deliberately does
// not say which field was wrong or which collection was checked.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialComparer checks a supplied password against the stored one, so
// the stored format can change without touching the login contract.
type CredentialComparer interface {
	Compare(stored, supplied string) bool
}

// PlainComparer matches the stored credential byte for byte, case-sensitive.
type PlainComparer struct{}

func (PlainComparer) Compare(stored, supplied string) bool {
	return stored == supplied
}

// BcryptComparer treats the stored credential as a bcrypt hash.
type BcryptComparer struct{}

func (BcryptComparer) Compare(stored, supplied string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
}

func NewComparer(name string) (CredentialComparer, error) {
	switch name {
	case "", "plain":
		return PlainComparer{}, nil
	case "bcrypt":
		return BcryptComparer{}, nil
	default:
		return nil, fmt.Errorf("unknown credential comparer: %s", name)
	}
}

// Auth resolves logins against the people collections and owns the persisted
// session slot.
type Auth struct {
	registry *registry.Registry
	comparer CredentialComparer
}

func NewAuth(reg *registry.Registry, comparer CredentialComparer) *Auth {
	return &Auth{
		registry: reg,
		comparer: comparer,
	}
}

// Login checks teachers, then students, then parents, and stops at the first
// record whose email and password both match. The fixed order is a deliberate
// tie-break for emails shared across roles. On failure the previous session,
// if any, is left untouched.
func (a *Auth) Login(ctx context.Context, email, password string) (*models.Session, error) {
	teachers, err := a.registry.Teachers.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range teachers {
		if t.Email == email && a.comparer.Compare(t.Password, password) {
			return a.startSession(ctx, t.ID, t.Name, t.Email, models.RoleTeacher)
		}
	}

	students, err := a.registry.Students.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range students {
		if s.Email == email && a.comparer.Compare(s.Password, password) {
			return a.startSession(ctx, s.ID, s.Name, s.Email, models.RoleStudent)
		}
	}

	parents, err := a.registry.Parents.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range parents {
		if p.Email == email && a.comparer.Compare(p.Password, password) {
			return a.startSession(ctx, p.ID, p.Name, p.Email, models.RoleParent)
		}
	}

	return nil, ErrInvalidCredentials
}

func (a *Auth) startSession(ctx context.Context, id, name, email string, role models.Role) (*models.Session, error) {
	session := models.Session{
		ID:    id,
		Name:  name,
		Email: email,
		Role:  role,
	}
	if err := a.registry.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Logout clears the session slot unconditionally.
func (a *Auth) Logout(ctx context.Context) error {
	return a.registry.ClearSession(ctx)
}

// Current returns the persisted session, or nil when logged out.
func (a *Auth) Current(ctx context.Context) (*models.Session, error) {
	return a.registry.LoadSession(ctx)
}

func (a *Auth) IsAuthenticated(ctx context.Context) (bool, error) {
	session, err := a.Current(ctx)
	if err != nil {
		return false, err
	}
	return session != nil, nil
}
