package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/kateder/internal/models"
	"github.com/shrimpsizemoose/kateder/internal/store/sqlite"
)

func setupTestRegistry(t *testing.T) (*Registry, func()) {
	kv, err := sqlite.NewSQLiteKV(":memory:")
	require.NoError(t, err, "Failed to create store")

	reg := New(kv)
	cleanup := func() {
		require.NoError(t, reg.Close(), "Failed to close store")
	}
	return reg, cleanup
}

func TestEnrollStudent(t *testing.T) {
	reg, cleanup := setupTestRegistry(t)
	defer cleanup()

	ctx := context.Background()

	class := models.Class{ID: "c1", Name: "7A", TeacherID: "t1"}
	require.NoError(t, reg.Classes.Add(ctx, class))

	student := models.Student{
		ID:       "s1",
		Name:     "Erik",
		Email:    "erik@example.com",
		Password: "hemligt",
	}

	t.Run("enroll links both sides", func(t *testing.T) {
		err := reg.EnrollStudent(ctx, "c1", student)
		require.NoError(t, err)

		classes, err := reg.Classes.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, classes, 1)
		assert.Equal(t, []string{"s1"}, classes[0].StudentIDs)

		students, err := reg.Students.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, students, 1)
		assert.Equal(t, "c1", students[0].ClassID)
	})

	t.Run("second enroll appends to roster", func(t *testing.T) {
		other := models.Student{
			ID:       "s2",
			Name:     "Sara",
			Email:    "sara@example.com",
			Password: "hemligt",
		}
		err := reg.EnrollStudent(ctx, "c1", other)
		require.NoError(t, err)

		classes, err := reg.Classes.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, classes, 1)
		assert.Equal(t, []string{"s1", "s2"}, classes[0].StudentIDs)
	})

	t.Run("unknown class is rejected", func(t *testing.T) {
		ghost := models.Student{
			ID:       "s3",
			Name:     "Nils",
			Email:    "nils@example.com",
			Password: "hemligt",
		}
		err := reg.EnrollStudent(ctx, "missing", ghost)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrClassNotFound)

		students, err := reg.Students.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, students, 2, "failed enroll must not leave a student behind")
	})
}

func TestSessionSlot(t *testing.T) {
	reg, cleanup := setupTestRegistry(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("absent slot reads as nil", func(t *testing.T) {
		session, err := reg.LoadSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("save then load", func(t *testing.T) {
		session := models.Session{
			ID:    "t1",
			Name:  "Anna",
			Email: "anna@example.com",
			Role:  models.RoleTeacher,
		}
		require.NoError(t, reg.SaveSession(ctx, session))

		got, err := reg.LoadSession(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, session, *got)
	})

	t.Run("clear is unconditional", func(t *testing.T) {
		require.NoError(t, reg.ClearSession(ctx))

		session, err := reg.LoadSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, session)

		// clearing again stays a no-op
		require.NoError(t, reg.ClearSession(ctx))
	})

	t.Run("invalid session is rejected", func(t *testing.T) {
		err := reg.SaveSession(ctx, models.Session{ID: "x", Email: "x@example.com", Role: "admin"})
		require.Error(t, err)
	})
}

func TestSeedDemoIsIdempotent(t *testing.T) {
	reg, cleanup := setupTestRegistry(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, reg.SeedDemo(ctx))

	teachers, err := reg.Teachers.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, teachers, 1)

	require.NoError(t, reg.SeedDemo(ctx))

	teachers, err = reg.Teachers.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, teachers, 1, "second seed must not duplicate records")
}
