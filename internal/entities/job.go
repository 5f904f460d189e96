package entities

import (
	"github.com/maxaizer/boss-harvester/internal/domain/models"
	"strings"
	"time"
)

// ArchivedJob mirrors a snapshot record; the primary key is its DedupKey.
type ArchivedJob struct {
	EmployerNormalized   string `gorm:"primaryKey"`
	JobTitle             string `gorm:"primaryKey"`
	City                 string `gorm:"primaryKey"`
	GroupKeyword         string
	SearchKeyword        string
	EmployerRaw          string
	EmployerType         string `gorm:"index"`
	SalaryRaw            string
	SalaryPeriodsPerYear *int
	SalaryMinAnnual      *int64
	SalaryMaxAnnual      *int64
	SalaryAvgAnnual      *int64
	Experience           string
	Education            string
	DescriptionText      string
	PostedDate           string
	SourceReference      string
	Notes                string
	CollectedAt          time.Time
	FirstSeenAt          time.Time
	LastSeenAt           time.Time
}

func NewArchivedJob(record models.JobRecord, seenAt time.Time) ArchivedJob {
	return ArchivedJob{
		EmployerNormalized:   record.EmployerNormalized,
		JobTitle:             record.JobTitle,
		City:                 record.City,
		GroupKeyword:         record.GroupKeyword,
		SearchKeyword:        record.SearchKeyword,
		EmployerRaw:          record.EmployerRaw,
		EmployerType:         string(record.EmployerType),
		SalaryRaw:            record.SalaryRaw,
		SalaryPeriodsPerYear: record.SalaryPeriodsPerYear,
		SalaryMinAnnual:      record.SalaryMinAnnual,
		SalaryMaxAnnual:      record.SalaryMaxAnnual,
		SalaryAvgAnnual:      record.SalaryAvgAnnual,
		Experience:           record.Experience,
		Education:            record.Education,
		DescriptionText:      record.DescriptionText,
		PostedDate:           record.PostedDate,
		SourceReference:      record.SourceReference,
		Notes:                strings.Join(record.Notes, "; "),
		CollectedAt:          record.CollectedAt,
		FirstSeenAt:          seenAt,
		LastSeenAt:           seenAt,
	}
}
