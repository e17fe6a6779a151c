// Package report computes the dashboard aggregates from a normalized
// expense table. All functions are pure: they read the table and return
// derived values without touching the source.
package report

import (
	"sort"

	"github.com/buzz39/expense-tracker/internal/core"
)

// Filter narrows the table by date range and category membership.
// Zero fields match everything; bounds are inclusive.
type Filter struct {
	From       core.Date
	To         core.Date
	Categories []string
}

func (f Filter) Match(e core.Expense) bool {
	if !f.From.IsZero() && e.Date.Time.Before(f.From.Time) {
		return false
	}
	if !f.To.IsZero() && e.Date.Time.After(f.To.Time) {
		return false
	}
	if len(f.Categories) > 0 {
		found := false
		for _, c := range f.Categories {
			if e.Category == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Apply returns the records matching the filter, preserving order.
func (f Filter) Apply(records []core.Expense) []core.Expense {
	out := make([]core.Expense, 0, len(records))
	for _, e := range records {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Summary holds the headline metrics.
type Summary struct {
	Total        core.Money `json:"total"`
	Count        int        `json:"count"`
	ActiveDays   int        `json:"active_days"`
	DailyAverage core.Money `json:"daily_average"`
	TopName      string     `json:"top_name"`
	TopAmount    core.Money `json:"top_amount"`
}

// Summarize computes the headline metrics. The daily average divides the
// total by the number of distinct days with at least one expense, not by
// calendar span.
func Summarize(records []core.Expense) Summary {
	var s Summary
	days := make(map[string]struct{})
	for _, e := range records {
		s.Total = s.Total.Add(e.Amount)
		s.Count++
		days[e.Date.String()] = struct{}{}
		if e.Amount.Paise > s.TopAmount.Paise || s.Count == 1 {
			s.TopAmount = e.Amount
			s.TopName = e.Name
		}
	}
	s.ActiveDays = len(days)
	if s.ActiveDays > 0 {
		s.DailyAverage = s.Total.Div(s.ActiveDays)
	}
	return s
}

// CategoryStat aggregates one category.
type CategoryStat struct {
	Category string     `json:"category"`
	Total    core.Money `json:"total"`
	Average  core.Money `json:"average"`
	Count    int        `json:"count"`
}

// ByCategory returns per-category totals sorted by total descending,
// ties broken by category name.
func ByCategory(records []core.Expense) []CategoryStat {
	byName := make(map[string]*CategoryStat)
	for _, e := range records {
		st, ok := byName[e.Category]
		if !ok {
			st = &CategoryStat{Category: e.Category}
			byName[e.Category] = st
		}
		st.Total = st.Total.Add(e.Amount)
		st.Count++
	}

	out := make([]CategoryStat, 0, len(byName))
	for _, st := range byName {
		st.Average = st.Total.Div(st.Count)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total.Paise != out[j].Total.Paise {
			return out[i].Total.Paise > out[j].Total.Paise
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// DailyPoint is one day on the spending trend.
type DailyPoint struct {
	Date  core.Date  `json:"date"`
	Total core.Money `json:"total"`
}

// DailyTotals returns the per-day spending trend in ascending date order.
// Days without expenses are absent.
func DailyTotals(records []core.Expense) []DailyPoint {
	totals := make(map[string]DailyPoint)
	for _, e := range records {
		key := e.Date.String()
		p := totals[key]
		p.Date = e.Date
		p.Total = p.Total.Add(e.Amount)
		totals[key] = p
	}

	out := make([]DailyPoint, 0, len(totals))
	for _, p := range totals {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Time.Before(out[j].Date.Time)
	})
	return out
}

// MonthlyPivot is the month-by-category breakdown. Every month row
// carries a value for every category, zero where nothing was spent.
type MonthlyPivot struct {
	Months     []string                         `json:"months"`
	Categories []string                         `json:"categories"`
	Totals     map[string]map[string]core.Money `json:"totals"`
}

// MonthlyByCategory pivots the table to month rows and category columns.
func MonthlyByCategory(records []core.Expense) MonthlyPivot {
	p := MonthlyPivot{Totals: make(map[string]map[string]core.Money)}
	catSet := make(map[string]struct{})

	for _, e := range records {
		month := e.Date.MonthKey()
		row, ok := p.Totals[month]
		if !ok {
			row = make(map[string]core.Money)
			p.Totals[month] = row
			p.Months = append(p.Months, month)
		}
		row[e.Category] = row[e.Category].Add(e.Amount)
		catSet[e.Category] = struct{}{}
	}

	for c := range catSet {
		p.Categories = append(p.Categories, c)
	}
	sort.Strings(p.Months)
	sort.Strings(p.Categories)

	// Zero-fill so every month names every category.
	for _, row := range p.Totals {
		for _, c := range p.Categories {
			if _, ok := row[c]; !ok {
				row[c] = core.Money{}
			}
		}
	}
	return p
}

// Recent returns up to n records, most recent date first. Within one
// day the table's name order is preserved.
func Recent(records []core.Expense, n int) []core.Expense {
	out := make([]core.Expense, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Time.After(out[j].Date.Time)
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Categories returns the sorted distinct category names, including the
// empty name when uncategorized records exist.
func Categories(records []core.Expense) []string {
	set := make(map[string]struct{})
	for _, e := range records {
		set[e.Category] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
