package utils

import (
	"fmt"
	"strings"
	"time"

	"appliance-rental-backend/internal/domain"
)

const (
	DateLayout    = "2006-01-02"
	daysPerWeek   = 7
	daysPerMonth  = 30
	secondsPerDay = 24 * 60 * 60
)

// RentalCostBreakdown provides detailed cost breakdown
type RentalCostBreakdown struct {
	Days          int   `json:"days"`
	Months        int   `json:"months"`
	Weeks         int   `json:"weeks"`
	RemainingDays int   `json:"remaining_days"`
	MonthsCost    int64 `json:"months_cost"`
	WeeksCost     int64 `json:"weeks_cost"`
	DaysCost      int64 `json:"days_cost"`
	TotalCost     int64 `json:"total_cost"`
	Deposit       int64 `json:"deposit"`
}

// ParseDate converts a yyyy-mm-dd string into a UTC midnight time
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, domain.Validationf("invalid date %q, expected yyyy-mm-dd", dateStr)
	}
	return t.UTC(), nil
}

// TruncateDate drops the clock part of t in UTC
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days elapsed from start to end.
// Counted on Unix seconds; time.Duration saturates near 292 years.
func DaysBetween(start, end time.Time) (int, error) {
	s, e := TruncateDate(start), TruncateDate(end)
	if e.Before(s) {
		return 0, domain.Validationf("end date %s is before start date %s", e.Format(DateLayout), s.Format(DateLayout))
	}
	return int((e.Unix() - s.Unix()) / secondsPerDay), nil
}

// CalculateRentalCost splits the rental span into 30-day months, then weeks, then
// days, and prices each part with its tier. The deposit is passed through.
func CalculateRentalCost(startDate, endDate time.Time, pricing domain.Pricing) (RentalCostBreakdown, error) {
	if err := pricing.Validate(); err != nil {
		return RentalCostBreakdown{}, err
	}

	days, err := DaysBetween(startDate, endDate)
	if err != nil {
		return RentalCostBreakdown{}, err
	}

	months := days / daysPerMonth
	rem := days % daysPerMonth
	weeks := rem / daysPerWeek
	remainingDays := rem % daysPerWeek

	b := RentalCostBreakdown{
		Days:          days,
		Months:        months,
		Weeks:         weeks,
		RemainingDays: remainingDays,
		MonthsCost:    int64(months) * pricing.Monthly,
		WeeksCost:     int64(weeks) * pricing.Weekly,
		DaysCost:      int64(remainingDays) * pricing.Daily,
		Deposit:       pricing.Deposit,
	}
	b.TotalCost = b.MonthsCost + b.WeeksCost + b.DaysCost
	return b, nil
}

// ParseDateRange parses both ends of a rental and requires end after start
func ParseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := ParseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start date: %w", err)
	}
	end, err := ParseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end date: %w", err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, domain.Validationf("end date must be after start date")
	}
	return start, end, nil
}
