package registry

import (
	"context"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/kateder/internal/models"
	"github.com/shrimpsizemoose/kateder/internal/store"
)

// SeedDemo loads a minimal demo dataset on first boot. It only runs against
// an empty teachers collection so restarts never duplicate records.
func (r *Registry) SeedDemo(ctx context.Context) error {
	teachers, err := r.Teachers.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(teachers) > 0 {
		logger.Debug.Printf("Teachers collection not empty, skipping demo seed")
		return nil
	}

	teacher := models.Teacher{
		ID:       store.GenerateID(),
		Name:     "Anna Lindqvist",
		Email:    "anna@example.com",
		Password: "teacher123",
		Subject:  "Mathematics",
	}
	if err := r.Teachers.Add(ctx, teacher); err != nil {
		return err
	}

	class := models.Class{
		ID:        store.GenerateID(),
		Name:      "7A",
		TeacherID: teacher.ID,
	}
	if err := r.Classes.Add(ctx, class); err != nil {
		return err
	}

	student := models.Student{
		ID:       store.GenerateID(),
		Name:     "Erik Berg",
		Email:    "erik@example.com",
		Password: "student123",
	}
	if err := r.EnrollStudent(ctx, class.ID, student); err != nil {
		return err
	}

	parent := models.Parent{
		ID:         store.GenerateID(),
		Name:       "Maria Berg",
		Email:      "maria@example.com",
		Password:   "parent123",
		StudentIDs: []string{student.ID},
	}
	if err := r.Parents.Add(ctx, parent); err != nil {
		return err
	}

	logger.Info.Printf("Seeded demo records: teacher %s, class %s, student %s", teacher.ID, class.ID, student.ID)
	return nil
}
