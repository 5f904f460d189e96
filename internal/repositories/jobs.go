package repositories

import (
	"context"
	"github.com/maxaizer/boss-harvester/internal/domain/models"
	"github.com/maxaizer/boss-harvester/internal/entities"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"time"
)

const upsertBatchSize = 200

// Jobs is the SQLite archive of every record that ever reached a snapshot.
type Jobs struct {
	db *gorm.DB
}

func NewJobsRepository(db *gorm.DB) *Jobs {
	return &Jobs{db: db}
}

// Upsert inserts new records and refreshes known ones. first_seen_at of a
// known record is kept.
func (repo *Jobs) Upsert(ctx context.Context, records []models.JobRecord, seenAt time.Time) error {
	if len(records) == 0 {
		return nil
	}
	rows := lo.Map(records, func(r models.JobRecord, _ int) entities.ArchivedJob {
		return entities.NewArchivedJob(r, seenAt)
	})

	return repo.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "employer_normalized"}, {Name: "job_title"}, {Name: "city"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"group_keyword", "search_keyword", "employer_raw", "employer_type", "salary_raw",
			"salary_periods_per_year", "salary_min_annual", "salary_max_annual", "salary_avg_annual",
			"experience", "education", "description_text", "posted_date", "source_reference",
			"notes", "collected_at", "last_seen_at",
		}),
	}).CreateInBatches(rows, upsertBatchSize).Error
}

func (repo *Jobs) Get(ctx context.Context, key models.DedupKey) (*entities.ArchivedJob, error) {
	var jobs []entities.ArchivedJob
	err := repo.db.WithContext(ctx).
		Where("employer_normalized = ? AND job_title = ? AND city = ?", key.EmployerNormalized, key.JobTitle, key.City).
		Limit(1).Find(&jobs).Error
	if err != nil || len(jobs) == 0 {
		return nil, err
	}
	return &jobs[0], nil
}

func (repo *Jobs) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&entities.ArchivedJob{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
