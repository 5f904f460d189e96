package harvest

import (
	"context"
	"encoding/json"
	"github.com/maxaizer/boss-harvester/internal/browser"
	"github.com/maxaizer/boss-harvester/internal/browser/browsertest"
	"github.com/maxaizer/boss-harvester/internal/clients/boss"
	"github.com/maxaizer/boss-harvester/internal/domain/models"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func listing(t *testing.T, ids ...string) []byte {
	jobs := lo.Map(ids, func(id string, _ int) map[string]any {
		return map[string]any{"encryptJobId": id, "jobName": "工程师" + id, "brandName": "公司" + id}
	})
	body, err := json.Marshal(map[string]any{"code": 0, "zpData": map[string]any{"lid": "l", "jobList": jobs}})
	require.NoError(t, err)
	return body
}

func newTestHarvester(page browser.Controller, opts Options) *Harvester {
	return NewHarvester(page, browser.NewPacer(0, 0), opts)
}

func defaultOptions() Options {
	return Options{MaxRounds: 20, MinRounds: 1, EmptyRoundLimit: 2, RoundTimeout: time.Second}
}

func collect(t *testing.T, h *Harvester, ctx context.Context) ([][]string, error) {
	var batches [][]string
	for batch, err := range h.Harvest(ctx, Query{Keyword: "储能", CityCode: "101010100"}) {
		if err != nil {
			return batches, err
		}
		batches = append(batches, lo.Map(batch, func(r models.RawListingRecord, _ int) string { return r.JobID }))
	}
	return batches, nil
}

func Test_Harvest_ShouldYieldOnlyUnseenPostings(t *testing.T) {
	page := browsertest.New()
	page.Queue(boss.ListingPattern, listing(t, "a", "b"), listing(t, "b", "c"), listing(t, "a"), listing(t, "c"))

	batches, err := collect(t, newTestHarvester(page, defaultOptions()), context.Background())

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, batches)
	assert.Equal(t, []string{boss.HomeURL, boss.SearchURL("储能", "101010100")}, page.Navigated)
	assert.Len(t, page.Waits, 4)
	assert.Equal(t, time.Second, page.Waits[0])
}

func Test_Harvest_ShouldScrollBeforeWaiting(t *testing.T) {
	page := browsertest.New()
	page.Queue(boss.ListingPattern, listing(t, "a"))

	_, err := collect(t, newTestHarvester(page, Options{MaxRounds: 1, RoundTimeout: time.Second}), context.Background())

	require.NoError(t, err)
	require.GreaterOrEqual(t, len(page.Scrolled), minScrollSteps+1)
	assert.LessOrEqual(t, len(page.Scrolled), maxScrollSteps+1)
	assert.Equal(t, -1, page.Scrolled[len(page.Scrolled)-1])
	for _, px := range page.Scrolled[:len(page.Scrolled)-1] {
		assert.True(t, px >= minScrollPixels && px <= maxScrollPixels, "scroll of %d px", px)
	}
	assert.Equal(t, []string{boss.ListingPattern}, page.Patterns())
}

func Test_Harvest_EmptyRounds_ShouldRespectMinRounds(t *testing.T) {
	page := browsertest.New()
	for range 6 {
		page.Queue(boss.ListingPattern, listing(t, "a"))
	}
	opts := defaultOptions()
	opts.MinRounds = 4

	batches, err := collect(t, newTestHarvester(page, opts), context.Background())

	require.NoError(t, err)
	assert.Len(t, batches, 1)
	assert.Len(t, page.Waits, 4)
}

func Test_Harvest_ShouldStopAtMaxRounds(t *testing.T) {
	page := browsertest.New()
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		page.Queue(boss.ListingPattern, listing(t, id))
	}
	opts := defaultOptions()
	opts.MaxRounds = 3

	batches, err := collect(t, newTestHarvester(page, opts), context.Background())

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}}, batches)
}

func Test_Harvest_TimeoutsAndMalformedPayloads_ShouldNotCountAsEmpty(t *testing.T) {
	page := browsertest.New()
	page.Queue(boss.ListingPattern, nil, []byte(`{"code":0}`), nil, listing(t, "a"))
	opts := Options{MaxRounds: 5, MinRounds: 1, EmptyRoundLimit: 1, RoundTimeout: time.Millisecond}

	batches, err := collect(t, newTestHarvester(page, opts), context.Background())

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}}, batches)
	assert.Len(t, page.Waits, 5, "the fifth round times out and max rounds ends the session")
}

func Test_Harvest_AccessDenied_ShouldBeFatal(t *testing.T) {
	page := browsertest.New()
	page.Page = "<div>访问被禁止</div>"
	page.Queue(boss.ListingPattern, listing(t, "a"))

	batches, err := collect(t, newTestHarvester(page, defaultOptions()), context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAccessDenied))
	assert.Empty(t, batches)
	assert.Empty(t, page.Waits)
}

func Test_Harvest_NavigationFailure_ShouldBeFatal(t *testing.T) {
	page := browsertest.New()
	page.NavigateErr = errors.New("net::ERR_CONNECTION_RESET")

	_, err := collect(t, newTestHarvester(page, defaultOptions()), context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERR_CONNECTION_RESET")
	assert.Len(t, page.Navigated, 1)
}

func Test_Harvest_Cancelled_ShouldYieldCause(t *testing.T) {
	errStop := errors.New("stop requested")
	page := browsertest.New()
	page.Queue(boss.ListingPattern, listing(t, "a"), listing(t, "b"))
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	var batches int
	var lastErr error
	for batch, err := range newTestHarvester(page, defaultOptions()).Harvest(ctx, Query{Keyword: "储能"}) {
		if err != nil {
			lastErr = err
			break
		}
		batches++
		assert.Len(t, batch, 1)
		cancel(errStop)
	}

	assert.Equal(t, 1, batches)
	assert.ErrorIs(t, lastErr, errStop)
	assert.Len(t, page.Waits, 1)
}

func Test_Harvest_ConsumerBreak_ShouldStopRounds(t *testing.T) {
	page := browsertest.New()
	page.Queue(boss.ListingPattern, listing(t, "a"), listing(t, "b"))

	for range newTestHarvester(page, defaultOptions()).Harvest(context.Background(), Query{Keyword: "储能"}) {
		break
	}

	assert.Len(t, page.Waits, 1)
}

func Test_State_Exhausted(t *testing.T) {
	opts := Options{MaxRounds: 5, MinRounds: 3, EmptyRoundLimit: 2}
	state := NewState()

	state.CountRound(3)
	state.CountRound(0)
	state.CountRound(0)
	assert.True(t, state.Exhausted(opts))

	state = NewState()
	state.CountRound(0)
	state.CountRound(0)
	assert.False(t, state.Exhausted(opts), "min rounds not reached")
	state.CountFailedRound()
	assert.True(t, state.Exhausted(opts))

	state = NewState()
	state.CountRound(0)
	state.CountRound(1)
	assert.Zero(t, state.EmptyRounds)
	for range 3 {
		state.CountFailedRound()
	}
	assert.True(t, state.Exhausted(opts), "max rounds")
}

func Test_State_Admit_ShouldPassThroughRecordsWithoutID(t *testing.T) {
	state := NewState()

	fresh := state.Admit([]models.RawListingRecord{{JobID: "a"}, {JobID: ""}, {JobID: "a"}, {JobID: ""}})

	assert.Len(t, fresh, 3)
	assert.Equal(t, 1, state.Seen())
}
