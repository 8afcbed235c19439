package models

import (
	"fmt"
	"slices"
	"time"
)

const dateLayout = "2006-01-02"

// OverallPeriodType tags a calendar period. The numeric id is what the
// financial_calendar table stores; the code is what callers send.
type OverallPeriodType int

const (
	PeriodTypePrior   OverallPeriodType = 1
	PeriodTypeCurrent OverallPeriodType = 2
	PeriodTypeNext    OverallPeriodType = 3
)

func (t OverallPeriodType) Code() string {
	switch t {
	case PeriodTypePrior:
		return "P"
	case PeriodTypeCurrent:
		return "C"
	case PeriodTypeNext:
		return "N"
	}
	return ""
}

func (t OverallPeriodType) String() string {
	switch t {
	case PeriodTypePrior:
		return "Prior"
	case PeriodTypeCurrent:
		return "Current"
	case PeriodTypeNext:
		return "Next"
	}
	return fmt.Sprintf("OverallPeriodType(%d)", int(t))
}

func (t OverallPeriodType) IsValid() bool {
	return t.Code() != ""
}

// ParseOverallPeriodType accepts the one-letter code.
func ParseOverallPeriodType(code string) (OverallPeriodType, error) {
	for _, t := range []OverallPeriodType{PeriodTypePrior, PeriodTypeCurrent, PeriodTypeNext} {
		if t.Code() == code {
			return t, nil
		}
	}
	return 0, ValidationErrors{}.Add("periodType", fmt.Sprintf("unknown overall period type %q", code))
}

const PeriodsPerYear = 12

// FiscalPeriod is one of the twelve numbered periods of a company's fiscal year.
// PeriodFrom and PeriodTo are inclusive dates at midnight UTC.
type FiscalPeriod struct {
	ID                  int64             `json:"id"`
	CompanyID           int64             `json:"companyId"`
	OverallPeriodType   OverallPeriodType `json:"overallPeriodType"`
	PeriodNumber        int               `json:"period"`
	PeriodFrom          time.Time         `json:"periodFrom"`
	PeriodTo            time.Time         `json:"periodTo"`
	FiscalYear          int               `json:"fiscalYear"`
	GeneralLedgerOpen   bool              `json:"generalLedgerOpen"`
	AccountsPayableOpen bool              `json:"accountsPayableOpen"`
}

// Contains reports whether date falls inside [PeriodFrom, PeriodTo].
func (p FiscalPeriod) Contains(date time.Time) bool {
	d := TruncateDate(date)
	return !d.Before(p.PeriodFrom) && !d.After(p.PeriodTo)
}

// FiscalYear summarizes a year by its period-1 start and period-12 end.
type FiscalYear struct {
	FiscalYear        int               `json:"fiscalYear"`
	OverallPeriodType OverallPeriodType `json:"overallPeriodType"`
	BeginDate         time.Time         `json:"beginDate"`
	EndDate           time.Time         `json:"endDate"`
}

// DateRange is inclusive on both ends.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) Validate() error {
	var errs ValidationErrors
	if r.From.IsZero() {
		errs = errs.Add("periodFrom", "is required")
	}
	if r.To.IsZero() {
		errs = errs.Add("periodTo", "is required")
	}
	if len(errs) == 0 && r.To.Before(r.From) {
		errs = errs.Add("periodTo", "must not be before periodFrom")
	}
	return errs.OrNil()
}

// TruncateDate drops the time of day and normalizes to UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, ValidationErrors{}.Add(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// BuildFiscalYear lays out twelve contiguous monthly periods starting at firstDay.
// Both posting windows start closed.
func BuildFiscalYear(companyID int64, fiscalYear int, firstDay time.Time, periodType OverallPeriodType) []FiscalPeriod {
	start := TruncateDate(firstDay)
	periods := make([]FiscalPeriod, 0, PeriodsPerYear)
	for n := 1; n <= PeriodsPerYear; n++ {
		from := start.AddDate(0, n-1, 0)
		to := start.AddDate(0, n, -1)
		periods = append(periods, FiscalPeriod{
			CompanyID:         companyID,
			OverallPeriodType: periodType,
			PeriodNumber:      n,
			PeriodFrom:        from,
			PeriodTo:          to,
			FiscalYear:        fiscalYear,
		})
	}
	return periods
}

// FindPeriod returns the period of periods that covers date.
func FindPeriod(periods []FiscalPeriod, date time.Time) (FiscalPeriod, bool) {
	for _, p := range periods {
		if p.Contains(date) {
			return p, true
		}
	}
	return FiscalPeriod{}, false
}

// FiscalYearsFromPeriods pairs each year's period 1 start with its period 12
// end. Years missing either endpoint are left out.
func FiscalYearsFromPeriods(periods []FiscalPeriod) []FiscalYear {
	type key struct {
		year       int
		periodType OverallPeriodType
	}
	begins := make(map[key]time.Time)
	ends := make(map[key]time.Time)
	seen := make(map[key]bool)
	var order []key
	for _, p := range periods {
		k := key{p.FiscalYear, p.OverallPeriodType}
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
		switch p.PeriodNumber {
		case 1:
			begins[k] = p.PeriodFrom
		case PeriodsPerYear:
			ends[k] = p.PeriodTo
		}
	}

	years := make([]FiscalYear, 0, len(order))
	for _, k := range order {
		begin, okBegin := begins[k]
		end, okEnd := ends[k]
		if !okBegin || !okEnd {
			continue
		}
		years = append(years, FiscalYear{
			FiscalYear:        k.year,
			OverallPeriodType: k.periodType,
			BeginDate:         begin,
			EndDate:           end,
		})
	}
	slices.SortStableFunc(years, func(a, b FiscalYear) int {
		if a.FiscalYear != b.FiscalYear {
			return a.FiscalYear - b.FiscalYear
		}
		return int(a.OverallPeriodType) - int(b.OverallPeriodType)
	})
	return years
}
