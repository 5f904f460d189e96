// Package dedup keeps the harvested result set free of duplicate postings.
package dedup

import (
	"github.com/maxaizer/boss-harvester/internal/domain/models"
	"slices"
)

// Merge appends incoming records whose DedupKey is new to existing. A
// duplicate never moves or replaces the earlier record, but it may fill in
// the earlier record's description when that one is still empty.
func Merge(existing, incoming []models.JobRecord) []models.JobRecord {
	merged := make([]models.JobRecord, 0, len(existing)+len(incoming))
	positions := make(map[models.DedupKey]int, len(existing)+len(incoming))

	add := func(record models.JobRecord) {
		key := record.Key()
		pos, found := positions[key]
		if !found {
			positions[key] = len(merged)
			merged = append(merged, record.Clone())
			return
		}
		if merged[pos].DescriptionText == "" && record.DescriptionText != "" {
			enrich(&merged[pos], record)
		}
	}

	for _, record := range existing {
		add(record)
	}
	for _, record := range incoming {
		add(record)
	}
	return merged
}

func enrich(target *models.JobRecord, source models.JobRecord) {
	target.DescriptionText = source.DescriptionText
	target.Notes = slices.DeleteFunc(target.Notes, func(note string) bool {
		return note == models.NoteNoDescription
	})
}
