package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/remedies-backend/internal/models"
)

func TestStorage_SeedLessonProgress(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	userUID := factory.CreateUser(t, "ann", "ann@example.com")
	courseID := factory.CreateCourse(t, "Herbal medicine basics", 49.90)
	factory.CreateLesson(t, courseID, 1, true)
	factory.CreateLesson(t, courseID, 2, true)
	factory.CreateLesson(t, courseID, 3, false)

	t.Run("seeds only active lessons", func(t *testing.T) {
		created, err := storage.SeedLessonProgress(ctx, userUID, courseID)
		require.NoError(t, err)
		assert.Equal(t, 2, created)
	})

	t.Run("second seed is a no-op", func(t *testing.T) {
		created, err := storage.SeedLessonProgress(ctx, userUID, courseID)
		require.NoError(t, err)
		assert.Equal(t, 0, created)
	})
}

func TestStorage_CompleteLessonProgress(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	userUID := factory.CreateUser(t, "bob", "bob@example.com")
	courseID := factory.CreateCourse(t, "Herbal medicine basics", 49.90)
	firstLesson := factory.CreateLesson(t, courseID, 1, true)
	secondLesson := factory.CreateLesson(t, courseID, 2, true)

	t.Run("updates a seeded record", func(t *testing.T) {
		_, err := storage.SeedLessonProgress(ctx, userUID, courseID)
		require.NoError(t, err)

		err = storage.CompleteLessonProgress(ctx, userUID, courseID, firstLesson)
		require.NoError(t, err)

		items, err := storage.ListLessonProgress(ctx, userUID, courseID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, models.ProgressCompleted, items[0].Status)
		require.NotNil(t, items[0].CompletedAt)
		assert.Equal(t, models.ProgressNotStarted, items[1].Status)
	})

	t.Run("completion is idempotent", func(t *testing.T) {
		err := storage.CompleteLessonProgress(ctx, userUID, courseID, firstLesson)
		require.NoError(t, err)

		count, err := storage.CountCompletedLessons(ctx, userUID, courseID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("creates a record when missing", func(t *testing.T) {
		otherUID := factory.CreateUser(t, "carol", "carol@example.com")

		err := storage.CompleteLessonProgress(ctx, otherUID, courseID, secondLesson)
		require.NoError(t, err)

		count, err := storage.CountCompletedLessons(ctx, otherUID, courseID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestStorage_CountCompletedLessons(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	userUID := factory.CreateUser(t, "dave", "dave@example.com")
	courseID := factory.CreateCourse(t, "Herbal medicine basics", 49.90)
	first := factory.CreateLesson(t, courseID, 1, true)
	factory.CreateLesson(t, courseID, 2, true)
	inactive := factory.CreateLesson(t, courseID, 3, false)

	require.NoError(t, storage.CompleteLessonProgress(ctx, userUID, courseID, first))
	require.NoError(t, storage.CompleteLessonProgress(ctx, userUID, courseID, inactive))

	// Неактивные уроки не учитываются
	count, err := storage.CountCompletedLessons(ctx, userUID, courseID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStorage_ListLessonProgress(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	userUID := factory.CreateUser(t, "erin", "erin@example.com")
	courseID := factory.CreateCourse(t, "Herbal medicine basics", 49.90)
	secondLesson := factory.CreateLesson(t, courseID, 2, true)
	firstLesson := factory.CreateLesson(t, courseID, 1, true)

	_, err := storage.SeedLessonProgress(ctx, userUID, courseID)
	require.NoError(t, err)

	items, err := storage.ListLessonProgress(ctx, userUID, courseID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	// Порядок следует позициям уроков, а не порядку вставки
	assert.Equal(t, firstLesson, items[0].LessonID)
	assert.Equal(t, secondLesson, items[1].LessonID)
	for _, item := range items {
		assert.Equal(t, userUID, item.UserUID)
		assert.Equal(t, courseID, item.CourseID)
		assert.Equal(t, models.ProgressNotStarted, item.Status)
	}
}
