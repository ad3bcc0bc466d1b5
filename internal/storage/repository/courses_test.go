package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_GetCourse(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	courseID := factory.CreateCourse(t, "Herbal medicine basics", 49.90)

	t.Run("existing course", func(t *testing.T) {
		got, err := storage.GetCourse(ctx, courseID)
		require.NoError(t, err)
		assert.Equal(t, "Herbal medicine basics", got.Title)
		assert.InDelta(t, 49.90, got.Price, 0.001)
		assert.True(t, got.IsActive)
	})

	t.Run("missing course", func(t *testing.T) {
		got, err := storage.GetCourse(ctx, 9999)
		require.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestStorage_ListActiveLessons(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	courseID := factory.CreateCourse(t, "Herbal medicine basics", 49.90)
	factory.CreateLesson(t, courseID, 2, true)
	factory.CreateLesson(t, courseID, 1, true)
	factory.CreateLesson(t, courseID, 3, false)

	got, err := storage.ListActiveLessons(ctx, courseID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Position)
	assert.Equal(t, 2, got[1].Position)
}

func TestStorage_GetLessonInCourse(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	courseID := factory.CreateCourse(t, "Herbal medicine basics", 49.90)
	otherCourseID := factory.CreateCourse(t, "Aromatherapy", 29.90)
	lessonID := factory.CreateLesson(t, courseID, 1, true)

	t.Run("lesson belongs to course", func(t *testing.T) {
		got, err := storage.GetLessonInCourse(ctx, courseID, lessonID)
		require.NoError(t, err)
		assert.Equal(t, lessonID, got.ID)
		assert.Equal(t, courseID, got.CourseID)
	})

	t.Run("lesson from another course", func(t *testing.T) {
		got, err := storage.GetLessonInCourse(ctx, otherCourseID, lessonID)
		require.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestStorage_CountActiveLessons(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	courseID := factory.CreateCourse(t, "Herbal medicine basics", 49.90)
	factory.CreateLesson(t, courseID, 1, true)
	factory.CreateLesson(t, courseID, 2, true)
	factory.CreateLesson(t, courseID, 3, false)

	count, err := storage.CountActiveLessons(ctx, courseID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
