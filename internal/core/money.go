// Package core provides the expense record domain types.
//
// This file contains the money helpers: conversion between the float
// amounts the data sources deliver and integer paise, and rupee
// formatting for exports and logs.
package core

import (
	"strconv"
	"strings"
)

// MoneyFromFloat converts a rupee amount to paise with half-up rounding.
// The sign is preserved; callers that require non-negative amounts clamp
// before converting.
func MoneyFromFloat(rupees float64) Money {
	if rupees < 0 {
		return Money{Paise: -int64(-rupees*100.0 + 0.5)}
	}
	return Money{Paise: int64(rupees*100.0 + 0.5)}
}

// Rupees returns the rupee value as a float64 for display and export.
// Use paise for calculations to avoid floating-point precision issues.
func (m Money) Rupees() float64 {
	return float64(m.Paise) / 100.0
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Paise: m.Paise + o.Paise}
}

// Div returns the amount divided by n, rounded half-up. n must be positive.
func (m Money) Div(n int) Money {
	if n <= 0 {
		return Money{}
	}
	half := int64(n) / 2
	return Money{Paise: (m.Paise + half) / int64(n)}
}

// MarshalJSON renders the amount as a plain decimal number of rupees.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Rupees(), 'f', 2, 64)), nil
}

// FormatRupees renders paise as "₹1,234.56" with thousand grouping.
func FormatRupees(paise int64) string {
	neg := paise < 0
	if neg {
		paise = -paise
	}
	rupees := paise / 100
	rem := paise % 100

	digits := strconv.FormatInt(rupees, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	s := "₹" + b.String() + "." + twoDigits(rem)
	if neg {
		return "-" + s
	}
	return s
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
