package normalize

import (
	"fmt"
	"github.com/maxaizer/boss-harvester/internal/domain/models"
	"strings"
	"time"
)

const sourceURLTemplate = "https://www.zhipin.com/job_detail/%s.html"

// Search identifies the harvesting pass a record was collected in.
type Search struct {
	Group   string
	Keyword string
	City    string
}

// Record builds a normalized JobRecord from a raw listing and an optional
// description. Listings without an identifier or title are skipped.
func Record(search Search, raw models.RawListingRecord, description string, collectedAt time.Time) models.Outcome {
	if strings.TrimSpace(raw.JobID) == "" {
		return models.Skipped("missing job id")
	}
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return models.Skipped(fmt.Sprintf("missing title for job %s", raw.JobID))
	}

	salary := ParseSalary(raw.SalaryText)
	employerType := ClassifyEmployer(raw.EmployerName, raw.FinancingStage, raw.Scale)

	record := models.JobRecord{
		GroupKeyword:         search.Group,
		SearchKeyword:        search.Keyword,
		City:                 search.City,
		JobTitle:             title,
		EmployerRaw:          raw.EmployerName,
		EmployerNormalized:   NormalizeCompanyName(raw.EmployerName),
		EmployerType:         employerType,
		SalaryRaw:            raw.SalaryText,
		SalaryPeriodsPerYear: salary.Periods,
		SalaryMinAnnual:      salary.Min,
		SalaryMaxAnnual:      salary.Max,
		SalaryAvgAnnual:      salary.Avg,
		Experience:           raw.Experience,
		Education:            raw.Education,
		DescriptionText:      Denoise(description),
		PostedDate:           raw.LastUpdate,
		SourceReference:      SourceURL(raw.JobID),
		CollectedAt:          collectedAt,
	}

	record.Notes = append(record.Notes, salary.Caveats...)
	if record.DescriptionText == "" {
		record.Notes = append(record.Notes, models.NoteNoDescription)
	}
	if employerType == models.OtherEmployer {
		record.Notes = append(record.Notes, models.NoteUncertainType)
	}

	return models.Ok(record)
}

func SourceURL(jobID string) string {
	return fmt.Sprintf(sourceURLTemplate, jobID)
}
