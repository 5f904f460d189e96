package repositories

import (
	"context"
	"errors"
	"github.com/maxaizer/boss-harvester/internal/entities"
	"gorm.io/gorm"
	"time"
)

type Runs struct {
	db *gorm.DB
}

func NewRunsRepository(db *gorm.DB) *Runs {
	return &Runs{db: db}
}

func (repo *Runs) Start(ctx context.Context, run entities.Run) error {
	run.Status = entities.RunRunning
	return repo.db.WithContext(ctx).Create(&run).Error
}

func (repo *Runs) Finish(ctx context.Context, run entities.Run) error {
	return repo.db.WithContext(ctx).Model(&entities.Run{}).Where("id = ?", run.ID).
		Select("status", "harvested", "descriptions", "skipped", "error", "finished_at").
		Updates(run).Error
}

func (repo *Runs) GetByID(ctx context.Context, id string) (*entities.Run, error) {
	var run entities.Run
	err := repo.db.WithContext(ctx).First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (repo *Runs) Recent(ctx context.Context, limit int) ([]entities.Run, error) {
	var runs []entities.Run
	if err := repo.db.WithContext(ctx).Order("started_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (repo *Runs) RemoveOlderThan(ctx context.Context, expirationTime time.Time) (int64, error) {
	res := repo.db.WithContext(ctx).Delete(&entities.Run{}, "started_at < ?", expirationTime)
	return res.RowsAffected, res.Error
}
