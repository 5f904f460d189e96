package models

// Outcome is the result of turning one raw listing into a JobRecord.
// Exactly one of Record and SkipReason is set.
type Outcome struct {
	Record     *JobRecord
	SkipReason string
}

func Ok(record JobRecord) Outcome {
	return Outcome{Record: &record}
}

func Skipped(reason string) Outcome {
	return Outcome{SkipReason: reason}
}

func (o Outcome) IsOk() bool {
	return o.Record != nil
}
