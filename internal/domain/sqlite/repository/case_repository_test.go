package repository

import (
	"testing"

	"lawdesk/internal/domain/entity"
	"lawdesk/internal/domain/sqlite"
	"lawdesk/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCaseRepo(t *testing.T) *DefaultCaseRepository {
	t.Helper()
	db, err := sqlite.Init(":memory:")
	require.NoError(t, err)
	return NewCaseRepository(db)
}

func newCase(name string) *entity.Case {
	return &entity.Case{
		ClientName:  name,
		Phone:       "+55 11 99999-0000",
		Description: "Dispute",
		OpenedAt:    utils.NowUTC(),
		Assignee:    entity.Unassigned,
		Status:      entity.StatusOpen,
	}
}

func TestCreateAssignsIncreasingIDs(t *testing.T) {
	repo := newCaseRepo(t)

	var last int64
	for i := 0; i < 3; i++ {
		c := newCase("João")
		require.NoError(t, repo.Create(c))
		assert.Greater(t, c.ID, last)
		last = c.ID
	}
}

func TestFindByIDMissingIsNilNil(t *testing.T) {
	repo := newCaseRepo(t)

	c, err := repo.FindByID(42)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestCreateDefaults(t *testing.T) {
	repo := newCaseRepo(t)

	c := newCase("João")
	require.NoError(t, repo.Create(c))

	got, err := repo.FindByID(c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.StatusOpen, got.Status)
	assert.Equal(t, entity.Unassigned, got.Assignee)
	assert.Empty(t, got.PublicResponse)
}

func TestUpdateFromStatus(t *testing.T) {
	repo := newCaseRepo(t)

	c := newCase("João")
	require.NoError(t, repo.Create(c))

	ok, err := repo.UpdateFromStatus(c.ID, entity.StatusOpen, map[string]any{
		"assignee": "Maria",
		"status":   entity.StatusInReview,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.FindByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInReview, got.Status)
	assert.Equal(t, "Maria", got.Assignee)
	assert.Equal(t, int64(1), got.Version)

	// Second attempt from the same snapshot loses: the case is no
	// longer open.
	ok, err = repo.UpdateFromStatus(c.ID, entity.StatusOpen, map[string]any{
		"assignee": "Pedro",
		"status":   entity.StatusInReview,
	})
	require.NoError(t, err)
	assert.False(t, ok)

	got, err = repo.FindByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria", got.Assignee)
}

func TestUpdateFromStatusMissingCase(t *testing.T) {
	repo := newCaseRepo(t)

	ok, err := repo.UpdateFromStatus(42, entity.StatusOpen, map[string]any{
		"status": entity.StatusInReview,
	})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateAnyStatus(t *testing.T) {
	repo := newCaseRepo(t)

	c := newCase("João")
	require.NoError(t, repo.Create(c))

	ok, err := repo.UpdateAnyStatus(c.ID, map[string]any{
		"public_response": "done",
		"status":          entity.StatusCompleted,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.FindByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, got.Status)
	assert.Equal(t, "done", got.PublicResponse)
}

func TestFindActiveByAssigneeExcludesCompleted(t *testing.T) {
	repo := newCaseRepo(t)

	for i := 0; i < 3; i++ {
		c := newCase("João")
		require.NoError(t, repo.Create(c))
		_, err := repo.UpdateFromStatus(c.ID, entity.StatusOpen, map[string]any{
			"assignee": "Maria",
			"status":   entity.StatusInReview,
		})
		require.NoError(t, err)
	}

	// Complete one of them.
	_, err := repo.UpdateAnyStatus(1, map[string]any{
		"public_response": "done",
		"status":          entity.StatusCompleted,
	})
	require.NoError(t, err)

	active, err := repo.FindActiveByAssignee("Maria")
	require.NoError(t, err)
	assert.Len(t, active, 2)

	count, err := repo.CountActiveByAssignee("Maria")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCountByStatus(t *testing.T) {
	repo := newCaseRepo(t)

	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Create(newCase("João")))
	}
	_, err := repo.UpdateFromStatus(1, entity.StatusOpen, map[string]any{"status": entity.StatusInReview})
	require.NoError(t, err)
	_, err = repo.UpdateAnyStatus(2, map[string]any{"status": entity.StatusCompleted, "public_response": "ok"})
	require.NoError(t, err)

	counts, err := repo.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[entity.StatusOpen])
	assert.Equal(t, int64(1), counts[entity.StatusInReview])
	assert.Equal(t, int64(1), counts[entity.StatusCompleted])
	assert.Zero(t, counts[entity.StatusPendingApproval])
}
