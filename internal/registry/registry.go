package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shrimpsizemoose/kateder/internal/models"
	"github.com/shrimpsizemoose/kateder/internal/store"
)

var ErrClassNotFound = errors.New("class not found")

// Registry bundles the seven entity collections over one KV medium, plus the
// session slot and the cross-collection coordinators.
type Registry struct {
	Students    *store.Collection[models.Student]
	Teachers    *store.Collection[models.Teacher]
	Parents     *store.Collection[models.Parent]
	Classes     *store.Collection[models.Class]
	Schedules   *store.Collection[models.Schedule]
	Assignments *store.Collection[models.Assignment]
	Grades      *store.Collection[models.Grade]

	kv store.KV
	mu sync.Mutex // serializes cross-collection coordinators
}

func New(kv store.KV) *Registry {
	return &Registry{
		Students:    store.NewCollection[models.Student](kv, store.KeyStudents),
		Teachers:    store.NewCollection[models.Teacher](kv, store.KeyTeachers),
		Parents:     store.NewCollection[models.Parent](kv, store.KeyParents),
		Classes:     store.NewCollection[models.Class](kv, store.KeyClasses),
		Schedules:   store.NewCollection[models.Schedule](kv, store.KeySchedules),
		Assignments: store.NewCollection[models.Assignment](kv, store.KeyAssignments),
		Grades:      store.NewCollection[models.Grade](kv, store.KeyGrades),
		kv:          kv,
	}
}

func (r *Registry) Close() error {
	return r.kv.Close()
}

// EnrollStudent adds the student and appends them to the class roster as one
// coordinated step: the student's classId and the class's studentIds leave
// this call consistent, and concurrent enrolls cannot interleave.
func (r *Registry) EnrollStudent(ctx context.Context, classID string, student models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	classes, err := r.Classes.GetAll(ctx)
	if err != nil {
		return err
	}

	var class *models.Class
	for i := range classes {
		if classes[i].ID == classID {
			class = &classes[i]
			break
		}
	}
	if class == nil {
		return fmt.Errorf("%w: %s", ErrClassNotFound, classID)
	}

	student.ClassID = classID
	if err := r.Students.Add(ctx, student); err != nil {
		return err
	}

	roster := append(class.StudentIDs, student.ID)
	found, err := r.Classes.Update(ctx, classID, map[string]any{"studentIds": roster})
	if err != nil {
		return err
	}
	if !found {
		// class vanished between snapshot and update; roll the student back
		if _, derr := r.Students.Delete(ctx, student.ID); derr != nil {
			return fmt.Errorf("%w: %s (student %s left unrostered: %v)", ErrClassNotFound, classID, student.ID, derr)
		}
		return fmt.Errorf("%w: %s", ErrClassNotFound, classID)
	}
	return nil
}

// LoadSession reads the persisted session slot. Absent slot means logged out
// and returns nil without error; undecodable content is reported as corrupt.
func (r *Registry) LoadSession(ctx context.Context) (*models.Session, error) {
	data, ok, err := r.kv.Read(ctx, store.KeySession)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", store.ErrCorruptCollection, store.KeySession, err)
	}
	return &session, nil
}

func (r *Registry) SaveSession(ctx context.Context, session models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("invalid session: %w", err)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.kv.Write(ctx, store.KeySession, data); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// ClearSession drops the session slot unconditionally; clearing an absent
// slot is a no-op.
func (r *Registry) ClearSession(ctx context.Context) error {
	if err := r.kv.Delete(ctx, store.KeySession); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
