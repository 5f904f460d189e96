// Package snapshot persists the merged result set as a CSV file that is
// replaced atomically on every write.
package snapshot

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"github.com/maxaizer/boss-harvester/internal/domain/models"
	"github.com/pkg/errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	TimeLayout     = "2006-01-02 15:04:05"
	notesSeparator = "; "
)

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}

	Columns = []string{
		"keyword_group", "search_keyword", "city", "job_title",
		"company_name_raw", "company_name_std", "company_type",
		"salary_text_raw", "salary_months",
		"salary_min_year_rmb", "salary_max_year_rmb", "salary_avg_year_rmb",
		"exp_req", "edu_req", "jd_text", "post_date", "source_url",
		"collected_at", "notes",
	}
)

type Store struct {
	path   string
	rename func(oldPath, newPath string) error
}

func NewStore(path string) *Store {
	return &Store{path: path, rename: os.Rename}
}

func (s *Store) Path() string {
	return s.path
}

// Write replaces the snapshot with records. Readers of the final path see
// either the previous complete file or the new complete file; on failure the
// previous file is left untouched and the temp file is removed.
func (s *Store) Write(records []models.JobRecord) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create snapshot directory")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temp snapshot")
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err = encode(tmp, records); err != nil {
		return errors.Wrap(err, "failed to encode snapshot")
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "failed to sync temp snapshot")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close temp snapshot")
	}
	if err = s.rename(tmpPath, s.path); err != nil {
		return errors.Wrap(err, "failed to replace snapshot")
	}
	return nil
}

// Load reads the current snapshot. A missing file is an empty result set.
func (s *Store) Load() ([]models.JobRecord, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to open snapshot")
	}
	defer f.Close()

	records, err := decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read snapshot %s", s.path)
	}
	return records, nil
}

func encode(w io.Writer, records []models.JobRecord) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(toRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func decode(r io.Reader) ([]models.JobRecord, error) {
	br := bufio.NewReader(r)
	if head, _ := br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	var records []models.JobRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		record, err := fromRow(row, index)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", len(records)+2)
		}
		records = append(records, record)
	}
}

func toRow(r models.JobRecord) []string {
	return []string{
		r.GroupKeyword, r.SearchKeyword, r.City, r.JobTitle,
		r.EmployerRaw, r.EmployerNormalized, string(r.EmployerType),
		r.SalaryRaw, formatInt(r.SalaryPeriodsPerYear),
		formatInt(r.SalaryMinAnnual), formatInt(r.SalaryMaxAnnual), formatInt(r.SalaryAvgAnnual),
		r.Experience, r.Education, r.DescriptionText, r.PostedDate, r.SourceReference,
		r.CollectedAt.Format(TimeLayout),
		strings.Join(r.Notes, notesSeparator),
	}
}

func fromRow(row []string, index map[string]int) (models.JobRecord, error) {
	get := func(column string) string {
		if i, ok := index[column]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	r := models.JobRecord{
		GroupKeyword:       get("keyword_group"),
		SearchKeyword:      get("search_keyword"),
		City:               get("city"),
		JobTitle:           get("job_title"),
		EmployerRaw:        get("company_name_raw"),
		EmployerNormalized: get("company_name_std"),
		EmployerType:       models.EmployerType(get("company_type")),
		SalaryRaw:          get("salary_text_raw"),
		Experience:         get("exp_req"),
		Education:          get("edu_req"),
		DescriptionText:    get("jd_text"),
		PostedDate:         get("post_date"),
		SourceReference:    get("source_url"),
	}

	var err error
	if r.SalaryPeriodsPerYear, err = parseInt[int](get("salary_months")); err != nil {
		return r, err
	}
	if r.SalaryMinAnnual, err = parseInt[int64](get("salary_min_year_rmb")); err != nil {
		return r, err
	}
	if r.SalaryMaxAnnual, err = parseInt[int64](get("salary_max_year_rmb")); err != nil {
		return r, err
	}
	if r.SalaryAvgAnnual, err = parseInt[int64](get("salary_avg_year_rmb")); err != nil {
		return r, err
	}
	if collected := get("collected_at"); collected != "" {
		if r.CollectedAt, err = time.ParseInLocation(TimeLayout, collected, time.Local); err != nil {
			return r, errors.Wrap(err, "bad collected_at")
		}
	}
	if notes := get("notes"); notes != "" {
		r.Notes = strings.Split(notes, notesSeparator)
	}
	return r, nil
}

func formatInt[T int | int64](v *T) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(int64(*v), 10)
}

func parseInt[T int | int64](s string) (*T, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "bad integer %q", s)
	}
	v := T(n)
	return &v, nil
}
