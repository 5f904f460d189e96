package models

import (
	"slices"
	"time"
)

type EmployerType string

const (
	StateAffiliated     EmployerType = "state_affiliated"
	ForeignJointVenture EmployerType = "foreign_jv"
	Startup             EmployerType = "startup"
	LargePrivateListed  EmployerType = "large_private_listed"
	OtherEmployer       EmployerType = "other"
)

const (
	NoteNoDescription    = "no description"
	NoteUncertainType    = "employer type uncertain"
	NoteAssumedPeriods   = "assumed 12 pay periods"
	NoteSalaryNegotiable = "salary negotiable"
	NoteSalaryMissing    = "salary missing"
	NoteSalaryUnparsed   = "salary unparsed: "
)

// RawListingRecord is one posting as decoded from the listing channel.
type RawListingRecord struct {
	JobID            string
	SecurityID       string
	Lid              string
	Title            string
	EmployerName     string
	SalaryText       string
	Experience       string
	Education        string
	Skills           []string
	Welfare          []string
	District         string
	BusinessDistrict string
	Industry         string
	FinancingStage   string
	Scale            string
	LastUpdate       string
}

// JobRecord is the normalized, durable unit written to the snapshot.
type JobRecord struct {
	GroupKeyword         string
	SearchKeyword        string
	City                 string
	JobTitle             string
	EmployerRaw          string
	EmployerNormalized   string
	EmployerType         EmployerType
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
	CollectedAt          time.Time
	Notes                []string
}

type DedupKey struct {
	EmployerNormalized string
	JobTitle           string
	City               string
}

func (r JobRecord) Key() DedupKey {
	return DedupKey{EmployerNormalized: r.EmployerNormalized, JobTitle: r.JobTitle, City: r.City}
}

// Clone returns a copy that shares no slices or pointers with r.
func (r JobRecord) Clone() JobRecord {
	c := r
	c.Notes = slices.Clone(r.Notes)
	c.SalaryPeriodsPerYear = clonePtr(r.SalaryPeriodsPerYear)
	c.SalaryMinAnnual = clonePtr(r.SalaryMinAnnual)
	c.SalaryMaxAnnual = clonePtr(r.SalaryMaxAnnual)
	c.SalaryAvgAnnual = clonePtr(r.SalaryAvgAnnual)
	return c
}

func (r JobRecord) HasNote(note string) bool {
	return slices.Contains(r.Notes, note)
}

func CloneRecords(records []JobRecord) []JobRecord {
	out := make([]JobRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
