package core

import (
	"errors"
	"time"
)

type (
	// Date is a calendar date. Time-of-day and timezone are already
	// discarded by the time a Date is constructed; the embedded time is
	// always midnight UTC so dates compare and sort directly.
	Date struct {
		time.Time
	}

	// Money is a monetary amount in integer paise (hundredths of a rupee).
	Money struct {
		Paise int64
	}

	// Expense is one normalized expense record. Records are immutable
	// after ingestion; every field except Date may be empty.
	Expense struct {
		Name     string `json:"name"`
		Amount   Money  `json:"amount"`
		Category string `json:"category"`
		Date     Date   `json:"date"`
		Comment  string `json:"comment"`
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
)

// NewDate creates a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf keeps only the calendar date of t, in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the date in ISO form (2006-01-02).
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// MonthKey returns the year-month bucket the date falls in, e.g. "2025-07".
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// MarshalJSON renders the calendar date only, never a timestamp.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (m Money) Validate() error {
	if m.Paise < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return nil
}
