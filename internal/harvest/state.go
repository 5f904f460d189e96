package harvest

import "github.com/maxaizer/boss-harvester/internal/domain/models"

// State is the bookkeeping of one harvest session. It is never persisted;
// cross-run dedup happens on DedupKey against the loaded snapshot.
type State struct {
	seen        map[string]struct{}
	Rounds      int
	EmptyRounds int
	Harvested   []models.RawListingRecord
}

func NewState() *State {
	return &State{seen: make(map[string]struct{})}
}

// Admit returns the records whose job IDs were not seen before in this
// session and marks them seen. Records without an ID pass through so that
// normalization can report them.
func (s *State) Admit(records []models.RawListingRecord) []models.RawListingRecord {
	var fresh []models.RawListingRecord
	for _, record := range records {
		if record.JobID != "" {
			if _, ok := s.seen[record.JobID]; ok {
				continue
			}
			s.seen[record.JobID] = struct{}{}
		}
		fresh = append(fresh, record)
	}
	s.Harvested = append(s.Harvested, fresh...)
	return fresh
}

// CountRound records a completed round that produced fresh new records.
func (s *State) CountRound(fresh int) {
	s.Rounds++
	if fresh == 0 {
		s.EmptyRounds++
	} else {
		s.EmptyRounds = 0
	}
}

// CountFailedRound records a round whose response timed out or could not be
// decoded. It leaves the empty-round counter alone.
func (s *State) CountFailedRound() {
	s.Rounds++
}

func (s *State) Exhausted(opts Options) bool {
	if s.Rounds >= opts.MaxRounds {
		return true
	}
	return s.EmptyRounds >= opts.EmptyRoundLimit && s.Rounds >= opts.MinRounds
}

func (s *State) Seen() int {
	return len(s.seen)
}
