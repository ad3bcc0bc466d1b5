package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_GetContent(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	skilled := "skilled"
	openID := factory.CreateContent(t, "remedy", "Chamomile tea", nil)
	gatedID := factory.CreateContent(t, "article", "Advanced herbal guide", &skilled)

	t.Run("open content has no required plan", func(t *testing.T) {
		got, err := storage.GetContent(ctx, openID)
		require.NoError(t, err)
		assert.Equal(t, "Chamomile tea", got.Title)
		assert.Equal(t, "remedy", got.Kind)
		assert.Nil(t, got.RequiredPlan)
	})

	t.Run("gated content carries its plan tag", func(t *testing.T) {
		got, err := storage.GetContent(ctx, gatedID)
		require.NoError(t, err)
		require.NotNil(t, got.RequiredPlan)
		assert.Equal(t, "skilled", *got.RequiredPlan)
	})

	t.Run("missing content", func(t *testing.T) {
		got, err := storage.GetContent(ctx, 9999)
		require.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestStorage_ListContents(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	factory.CreateContent(t, "remedy", "Chamomile tea", nil)
	factory.CreateContent(t, "remedy", "Ginger infusion", nil)
	factory.CreateContent(t, "article", "Herbal basics", nil)
	factory.CreateContent(t, "video", "Brewing techniques", nil)

	t.Run("filter by kind", func(t *testing.T) {
		got, err := storage.ListContents(ctx, "remedy", 20, 0)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Chamomile tea", got[0].Title)
		assert.Equal(t, "Ginger infusion", got[1].Title)
	})

	t.Run("empty kind returns all kinds", func(t *testing.T) {
		got, err := storage.ListContents(ctx, "", 20, 0)
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("limit and offset", func(t *testing.T) {
		got, err := storage.ListContents(ctx, "", 2, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Herbal basics", got[0].Title)
	})
}
