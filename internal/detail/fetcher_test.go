package detail

import (
	"context"
	"github.com/maxaizer/boss-harvester/internal/browser"
	"github.com/maxaizer/boss-harvester/internal/browser/browsertest"
	"github.com/maxaizer/boss-harvester/internal/clients/boss"
	"github.com/maxaizer/boss-harvester/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

var posting = models.RawListingRecord{JobID: "j1", SecurityID: "s1", Lid: "l1", Title: "储能工程师"}

func newFetcher(page *browsertest.Controller, delay time.Duration) *Fetcher {
	return NewFetcher(browser.NewPacer(delay, delay), time.Hour,
		NewAPISource(page, time.Second),
		NewDOMSource(page, 0),
	)
}

func Test_FetchDescription_API_ShouldReturnDescription(t *testing.T) {
	page := browsertest.New()
	page.Queue(boss.DetailPattern, []byte(`{"code":0,"zpData":{"jobInfo":{"jobDescription":"负责BMS开发"}}}`))

	description := newFetcher(page, 0).FetchDescription(context.Background(), posting)

	assert.Equal(t, "负责BMS开发", description)
	require.Len(t, page.Scripts, 1)
	assert.Contains(t, page.Scripts[0], "jobId=j1&lid=l1&securityId=s1")
	assert.Equal(t, []string{boss.DetailPattern}, page.Patterns())
}

func Test_FetchDescription_APIRejected_ShouldFallBackToPanel(t *testing.T) {
	page := browsertest.New()
	page.Queue(boss.DetailPattern, []byte(`{"code":37,"message":"异常"}`))
	card := &browsertest.Element{}
	page.SetElement(`a[href*="j1"]`, card)
	page.SetElement(".job-detail-box", &browsertest.Element{Content: "  面板里的描述 \n"})

	description := newFetcher(page, 0).FetchDescription(context.Background(), posting)

	assert.Equal(t, "面板里的描述", description)
	assert.Equal(t, 1, card.Clicks)
}

func Test_FetchDescription_PanelPriority_ShouldPreferContainer(t *testing.T) {
	page := browsertest.New()
	page.SetElement(`a[href*="j1"]`, &browsertest.Element{})
	page.SetElement(".job-sec-text", &browsertest.Element{Content: "later"})
	page.SetElement(".job-detail-container", &browsertest.Element{Content: "first"})

	description := newFetcher(page, 0).FetchDescription(context.Background(), posting)

	assert.Equal(t, "first", description)
}

func Test_FetchDescription_NothingFound_ShouldReturnEmptyAndStillPace(t *testing.T) {
	page := browsertest.New()
	page.Queue(boss.DetailPattern, []byte(`not json`))

	start := time.Now()
	description := newFetcher(page, 50*time.Millisecond).FetchDescription(context.Background(), posting)

	assert.Empty(t, description)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func Test_FetchDescription_ClickFails_ShouldReturnEmpty(t *testing.T) {
	page := browsertest.New()
	page.SetElement(`a[href*="j1"]`, &browsertest.Element{ClickErr: assert.AnError})
	page.SetElement(".job-detail-box", &browsertest.Element{Content: "unreachable"})

	description := newFetcher(page, 0).FetchDescription(context.Background(), posting)

	assert.Empty(t, description)
}

func Test_FetchDescription_Cached_ShouldNotFetchAgain(t *testing.T) {
	page := browsertest.New()
	page.Queue(boss.DetailPattern, []byte(`{"code":0,"zpData":{"jobInfo":{"positionRemark":"备注"}}}`))
	fetcher := newFetcher(page, 0)

	first := fetcher.FetchDescription(context.Background(), posting)
	second := fetcher.FetchDescription(context.Background(), posting)

	assert.Equal(t, "备注", first)
	assert.Equal(t, "备注", second)
	assert.Len(t, page.Scripts, 1)
}

func Test_FetchDescription_CancelledContext_ShouldStillReturn(t *testing.T) {
	page := browsertest.New()
	page.Queue(boss.DetailPattern, []byte(`{"code":0,"zpData":{"jobInfo":{"jobDescription":"jd"}}}`))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	description := newFetcher(page, time.Minute).FetchDescription(ctx, posting)

	assert.Equal(t, "jd", description)
	assert.Less(t, time.Since(start), time.Second)
}
