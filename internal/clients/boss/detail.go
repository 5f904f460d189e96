package boss

import (
	"encoding/json"
	"github.com/pkg/errors"
	"strings"
)

type detailResponse struct {
	Code    *int   `json:"code"`
	Message string `json:"message"`
	ZpData  *struct {
		JobInfo struct {
			JobDescription string `json:"jobDescription"`
			PositionRemark string `json:"positionRemark"`
			Responsibility string `json:"responsibility"`
			Requirement    string `json:"requirement"`
		} `json:"jobInfo"`
	} `json:"zpData"`
}

// DecodeDetail extracts the description text from an info.json body, taking
// the first non-empty of jobDescription, positionRemark and
// responsibility+requirement.
func DecodeDetail(body []byte) (string, error) {
	var response detailResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", errors.Wrapf(ErrMalformedPayload, "error decoding detail: %v", err)
	}
	if response.Code == nil {
		return "", errors.Wrap(ErrMalformedPayload, "code is missing")
	}
	if *response.Code != 0 {
		return "", errors.Wrapf(ErrDetailRejected, "code %d: %s", *response.Code, response.Message)
	}
	if response.ZpData == nil {
		return "", errors.Wrap(ErrMalformedPayload, "zpData is missing")
	}

	info := response.ZpData.JobInfo
	switch {
	case info.JobDescription != "":
		return strings.TrimSpace(info.JobDescription), nil
	case info.PositionRemark != "":
		return strings.TrimSpace(info.PositionRemark), nil
	default:
		return strings.TrimSpace(info.Responsibility + info.Requirement), nil
	}
}
