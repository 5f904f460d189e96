package repositories

import (
	"context"
	"github.com/maxaizer/boss-harvester/internal/domain/models"
	"github.com/maxaizer/boss-harvester/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"testing"
	"time"
)

func newDbContext(t *testing.T) *DbContext {
	dbContext, err := NewDbContext(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, dbContext.Migrate())
	t.Cleanup(func() { _ = dbContext.Close() })
	return dbContext
}

func Test_Runs_StartFinishAndRemove(t *testing.T) {
	ctx := context.Background()
	runs := NewRunsRepository(newDbContext(t).DB)
	old := time.Now().Add(-48 * time.Hour)

	require.NoError(t, runs.Start(ctx, entities.Run{ID: "old", Keyword: "储能", City: "北京", StartedAt: old}))
	require.NoError(t, runs.Start(ctx, entities.Run{ID: "new", Keyword: "储能", City: "上海", StartedAt: time.Now()}))

	finished := time.Now()
	require.NoError(t, runs.Finish(ctx, entities.Run{
		ID: "new", Status: entities.RunInterrupted, Harvested: 12, Descriptions: 4, FinishedAt: &finished,
	}))

	run, err := runs.GetByID(ctx, "new")
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, entities.RunInterrupted, run.Status)
	assert.Equal(t, 12, run.Harvested)
	assert.Equal(t, "上海", run.City)
	assert.NotNil(t, run.FinishedAt)

	removed, err := runs.RemoveOlderThan(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	recent, err := runs.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "new", recent[0].ID)

	missing, err := runs.GetByID(ctx, "old")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func Test_Jobs_Upsert_ShouldKeepFirstSeenAndRefreshFields(t *testing.T) {
	ctx := context.Background()
	jobs := NewJobsRepository(newDbContext(t).DB)
	record := models.JobRecord{
		EmployerNormalized: "远景",
		JobTitle:           "储能工程师",
		City:               "北京",
		EmployerType:       models.Startup,
		Notes:              []string{models.NoteNoDescription},
	}
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)

	require.NoError(t, jobs.Upsert(ctx, []models.JobRecord{record}, first))
	record.DescriptionText = "负责储能系统"
	record.Notes = nil
	other := models.JobRecord{EmployerNormalized: "云迹", JobTitle: "算法", City: "北京"}
	require.NoError(t, jobs.Upsert(ctx, []models.JobRecord{record, other}, second))

	count, err := jobs.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	archived, err := jobs.Get(ctx, record.Key())
	require.NoError(t, err)
	require.NotNil(t, archived)
	assert.Equal(t, "负责储能系统", archived.DescriptionText)
	assert.Empty(t, archived.Notes)
	assert.True(t, first.Equal(archived.FirstSeenAt))
	assert.True(t, second.Equal(archived.LastSeenAt))
}

func Test_Jobs_Get_Unknown_ShouldReturnNil(t *testing.T) {
	jobs := NewJobsRepository(newDbContext(t).DB)

	archived, err := jobs.Get(context.Background(), models.DedupKey{EmployerNormalized: "x"})

	require.NoError(t, err)
	assert.Nil(t, archived)
}
