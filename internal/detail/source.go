// Package detail retrieves the description of a posting, trying the detail
// API first and the rendered detail panel second.
package detail

import (
	"context"
	"fmt"
	"github.com/maxaizer/boss-harvester/internal/browser"
	"github.com/maxaizer/boss-harvester/internal/clients/boss"
	"github.com/maxaizer/boss-harvester/internal/domain/models"
	"github.com/pkg/errors"
	"strings"
	"time"
)

// Source is one way of obtaining a description. An empty string with a nil
// error means the source had nothing to offer.
type Source interface {
	Name() string
	Description(ctx context.Context, record models.RawListingRecord) (string, error)
}

type APISource struct {
	page    browser.Controller
	timeout time.Duration
}

func NewAPISource(page browser.Controller, timeout time.Duration) *APISource {
	return &APISource{page: page, timeout: timeout}
}

func (s *APISource) Name() string { return "api" }

func (s *APISource) Description(_ context.Context, record models.RawListingRecord) (string, error) {
	s.page.Listen(boss.DetailPattern)

	if err := s.page.RunScript(boss.DetailFetchScript(record.JobID, record.SecurityID, record.Lid)); err != nil {
		return "", errors.Wrap(err, "failed to run detail request")
	}

	response, err := s.page.WaitForNetwork(s.timeout)
	if err != nil {
		return "", err
	}
	return boss.DecodeDetail(response.Body)
}

var panelSelectors = []string{
	".job-detail-container",
	".job-detail-box",
	".job-detail-section",
	".job-sec-text",
}

type DOMSource struct {
	page      browser.Controller
	panelWait time.Duration
}

func NewDOMSource(page browser.Controller, panelWait time.Duration) *DOMSource {
	return &DOMSource{page: page, panelWait: panelWait}
}

func (s *DOMSource) Name() string { return "dom" }

func (s *DOMSource) Description(ctx context.Context, record models.RawListingRecord) (string, error) {
	card, err := s.page.FindElement(fmt.Sprintf(`a[href*="%s"]`, record.JobID))
	if err != nil {
		return "", err
	}
	if card == nil {
		return "", nil
	}
	if err := card.Click(); err != nil {
		return "", errors.Wrap(err, "failed to open detail panel")
	}

	// the panel renders after the click; this wait is not interrupted
	time.Sleep(s.panelWait)

	for _, selector := range panelSelectors {
		panel, err := s.page.FindElement(selector)
		if err != nil {
			return "", err
		}
		if panel == nil {
			continue
		}
		text, err := panel.Text()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(text), nil
	}
	return "", nil
}
