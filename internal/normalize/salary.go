package normalize

import (
	"github.com/maxaizer/boss-harvester/internal/domain/models"
	"golang.org/x/text/width"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	defaultPayPeriods = 12
	workDaysPerMonth  = 21.75
	thousand          = 1000
	tenThousandUnit   = "万"
	negotiable        = "面议"
)

var (
	payPeriodsRegex = regexp.MustCompile(`(\d+)薪`)
	dailyRateRegex  = regexp.MustCompile(`(\d+\.?\d*)[-~]?(\d+\.?\d*)?元/天`)
	// tried in order, the first match wins
	rangeRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(\d+\.?\d*)[-~](\d+\.?\d*)[kK]`),
		regexp.MustCompile(`(\d+\.?\d*)[kK][-~](\d+\.?\d*)[kK]`),
		regexp.MustCompile(`(\d+\.?\d*)[-~](\d+\.?\d*)万`),
	}
)

// Salary is the annualized reading of a raw salary string. Amounts are whole
// currency units; nil means unknown.
type Salary struct {
	Periods *int
	Min     *int64
	Max     *int64
	Avg     *int64
	Caveats []string
}

func ParseSalary(raw string) Salary {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Salary{Caveats: []string{models.NoteSalaryMissing}}
	}
	if strings.Contains(text, negotiable) {
		return Salary{Caveats: []string{models.NoteSalaryNegotiable}}
	}

	text = strings.ReplaceAll(width.Fold.String(text), " ", "")

	var salary Salary
	periods := defaultPayPeriods
	if m := payPeriodsRegex.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			periods = n
		}
	} else {
		salary.Caveats = append(salary.Caveats, models.NoteAssumedPeriods)
	}
	salary.Periods = &periods

	if m := dailyRateRegex.FindStringSubmatch(text); m != nil {
		low, _ := strconv.ParseFloat(m[1], 64)
		high := low
		if m[2] != "" {
			high, _ = strconv.ParseFloat(m[2], 64)
		}
		salary.setBounds(annualize(low, workDaysPerMonth*12), annualize(high, workDaysPerMonth*12))
		return salary
	}

	for _, re := range rangeRegexes {
		loc := re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		low, _ := strconv.ParseFloat(text[loc[2]:loc[3]], 64)
		high, _ := strconv.ParseFloat(text[loc[4]:loc[5]], 64)

		scale := float64(thousand)
		if strings.Contains(text[loc[0]:loc[1]], tenThousandUnit) {
			scale *= 10
		}
		salary.setBounds(annualize(low, scale*float64(periods)), annualize(high, scale*float64(periods)))
		return salary
	}

	salary.Caveats = append(salary.Caveats, models.NoteSalaryUnparsed+raw)
	return salary
}

func (s *Salary) setBounds(low, high int64) {
	if low > high {
		low, high = high, low
	}
	avg := (low + high) / 2
	s.Min, s.Max, s.Avg = &low, &high, &avg
}

// annualize multiplies and floors; the epsilon absorbs binary float error
// on inputs such as 1.1 or 0.3.
func annualize(amount, multiplier float64) int64 {
	return int64(math.Floor(amount*multiplier + 1e-6))
}
