package store

import (
	"context"
	"errors"
)

// Stable storage keys. These name the persisted collections and the session
// slot and must not change between versions.
const (
	KeyStudents    = "students"
	KeyTeachers    = "teachers"
	KeyParents     = "parents"
	KeyClasses     = "classes"
	KeySchedules   = "schedules"
	KeyAssignments = "assignments"
	KeyGrades      = "grades"
	KeySession     = "auth-session"
)

// ErrCorruptCollection marks stored content that no longer decodes into the
// expected record shape. An absent key is not corrupt, it reads as empty.
var ErrCorruptCollection = errors.New("corrupt collection")

// ErrShapeMismatch marks a record or patch that does not fit the collection's
// declared field set.
var ErrShapeMismatch = errors.New("record shape mismatch")

// KV is the persistence medium: atomic single-key reads and writes over
// string keys. Backends exist for sqlite, postgres and redis.
type KV interface {
	Close() error

	// Read returns the stored value for key. ok is false when the key has
	// never been written.
	Read(ctx context.Context, key string) (value []byte, ok bool, err error)
	Write(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Entity is what a Collection holds: a record with an opaque unique ID and
// field-level validation.
type Entity interface {
	EntityID() string
	Validate() error
}
