package snapshot

import (
	"bytes"
	"github.com/maxaizer/boss-harvester/internal/domain/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func sampleRecords() []models.JobRecord {
	collected := time.Date(2026, 3, 2, 10, 30, 0, 0, time.Local)
	return []models.JobRecord{
		{
			GroupKeyword:         "储能",
			SearchKeyword:        "储能工程师",
			City:                 "北京",
			JobTitle:             "储能系统工程师",
			EmployerRaw:          "远景科技有限公司",
			EmployerNormalized:   "远景科技",
			EmployerType:         models.Startup,
			SalaryRaw:            "15-25K·13薪",
			SalaryPeriodsPerYear: ptr(13),
			SalaryMinAnnual:      ptr(int64(195000)),
			SalaryMaxAnnual:      ptr(int64(325000)),
			SalaryAvgAnnual:      ptr(int64(260000)),
			Experience:           "3-5年",
			Education:            "本科",
			DescriptionText:      "负责储能系统, \"BMS\" 设计",
			PostedDate:           "2026-03-01",
			SourceReference:      "https://www.zhipin.com/job_detail/abc.html",
			CollectedAt:          collected,
		},
		{
			GroupKeyword:       "储能",
			SearchKeyword:      "储能工程师",
			City:               "上海",
			JobTitle:           "电池工程师",
			EmployerRaw:        "云迹",
			EmployerNormalized: "云迹",
			EmployerType:       models.OtherEmployer,
			SalaryRaw:          "面议",
			CollectedAt:        collected,
			Notes:              []string{models.NoteSalaryNegotiable, models.NoteNoDescription, models.NoteUncertainType},
		},
	}
}

func Test_Write_ShouldProduceBOMHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")
	store := NewStore(path)

	require.NoError(t, store.Write(sampleRecords()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, utf8BOM))
	assert.Contains(t, string(content), "keyword_group,search_keyword,city,job_title")
	assert.Contains(t, string(content), "salary negotiable; no description; employer type uncertain")
	assert.Contains(t, string(content), "2026-03-02 10:30:00")
}

func Test_WriteThenLoad_ShouldRoundTripRecords(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "out", "jobs.csv"))
	records := sampleRecords()

	require.NoError(t, store.Write(records))
	loaded, err := store.Load()

	require.NoError(t, err)
	require.Len(t, loaded, len(records))
	for i := range records {
		assert.Equal(t, records[i].Key(), loaded[i].Key())
		assert.Equal(t, records[i].SalaryMinAnnual, loaded[i].SalaryMinAnnual)
		assert.Equal(t, records[i].DescriptionText, loaded[i].DescriptionText)
		assert.Equal(t, records[i].Notes, loaded[i].Notes)
		assert.True(t, records[i].CollectedAt.Equal(loaded[i].CollectedAt))
	}
}

func Test_Write_ShouldBeIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")
	store := NewStore(path)

	require.NoError(t, store.Write(sampleRecords()))
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, store.Write(sampleRecords()))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func Test_Write_RenameFails_ShouldKeepPreviousSnapshotIntact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.csv")
	store := NewStore(path)
	require.NoError(t, store.Write(sampleRecords()[:1]))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	store.rename = func(string, string) error { return errors.New("disk yanked") }
	err = store.Write(sampleRecords())

	require.Error(t, err)
	after, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, before, after)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be cleaned up")
}

func Test_Write_EmptySet_ShouldWriteHeaderOnly(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "jobs.csv"))

	require.NoError(t, store.Write(nil))
	loaded, err := store.Load()

	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func Test_Load_MissingFile_ShouldReturnEmptySet(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.csv"))

	loaded, err := store.Load()

	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func Test_Load_BadNumber_ShouldFail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")
	content := "keyword_group,salary_months\nx,thirteen\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := NewStore(path).Load()

	assert.Error(t, err)
}
