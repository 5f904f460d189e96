// Package boss decodes the payloads of the BOSS Zhipin web API.
package boss

import (
	"encoding/json"
	"github.com/maxaizer/boss-harvester/internal/domain/models"
	"github.com/pkg/errors"
	"strings"
)

var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrDetailRejected   = errors.New("detail request rejected")
)

type listingResponse struct {
	ZpData *struct {
		Lid     string     `json:"lid"`
		JobList *[]jobItem `json:"jobList"`
	} `json:"zpData"`
}

type jobItem struct {
	EncryptJobID     string   `json:"encryptJobId"`
	SecurityID       string   `json:"securityId"`
	JobName          string   `json:"jobName"`
	BrandName        string   `json:"brandName"`
	SalaryDesc       string   `json:"salaryDesc"`
	JobExperience    string   `json:"jobExperience"`
	JobDegree        string   `json:"jobDegree"`
	Skills           []string `json:"skills"`
	WelfareList      []string `json:"welfareList"`
	AreaDistrict     string   `json:"areaDistrict"`
	BusinessDistrict string   `json:"businessDistrict"`
	BrandIndustry    string   `json:"brandIndustry"`
	BrandStageName   string   `json:"brandStageName"`
	BrandScaleName   string   `json:"brandScaleName"`
	LastUpdateDate   string   `json:"lastUpdateDate"`
}

// DecodeListing reads one joblist.json body. A body without zpData.jobList
// yields ErrMalformedPayload.
func DecodeListing(body []byte) ([]models.RawListingRecord, error) {
	var response listingResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrapf(ErrMalformedPayload, "error decoding listing: %v", err)
	}
	if response.ZpData == nil || response.ZpData.JobList == nil {
		return nil, errors.Wrap(ErrMalformedPayload, "zpData.jobList is missing")
	}

	jobs := *response.ZpData.JobList
	records := make([]models.RawListingRecord, 0, len(jobs))
	for _, job := range jobs {
		records = append(records, models.RawListingRecord{
			JobID:            strings.TrimSpace(job.EncryptJobID),
			SecurityID:       job.SecurityID,
			Lid:              response.ZpData.Lid,
			Title:            job.JobName,
			EmployerName:     job.BrandName,
			SalaryText:       job.SalaryDesc,
			Experience:       job.JobExperience,
			Education:        job.JobDegree,
			Skills:           job.Skills,
			Welfare:          job.WelfareList,
			District:         job.AreaDistrict,
			BusinessDistrict: job.BusinessDistrict,
			Industry:         job.BrandIndustry,
			FinancingStage:   job.BrandStageName,
			Scale:            job.BrandScaleName,
			LastUpdate:       job.LastUpdateDate,
		})
	}
	return records, nil
}
