package utils

import (
	"fmt"
	"regexp"
	"time"

	"github.com/ttacon/libphonenumber"
)

func IsValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

func ValidatePhoneNumber(phoneNumber, countryCode string) error {
	p, err := libphonenumber.Parse(phoneNumber, countryCode)
	if err != nil {
		return err // Phone number is invalid
	}

	if !libphonenumber.IsValidNumber(p) {
		return fmt.Errorf("phone number is not valid")
	}

	return nil
}

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

func UniqueSlice[T comparable](slice []T) []T {
	seen := make(map[T]bool)
	result := make([]T, 0, len(slice))
	for _, v := range slice {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}

func DereferencePtr[T any](ptr *T, defaults ...T) T {
	if ptr != nil {
		return *ptr
	}
	if len(defaults) > 0 {
		return defaults[0]
	}
	var zero T
	return zero
}

// DateRange is a closed [From, To] filter window. A nil bound means unbounded
// on that side; the zero DateRange means "all time".
type DateRange struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

func (r DateRange) IsUnbounded() bool {
	return r.From == nil && r.To == nil
}

func NewDateRange(from, to time.Time) DateRange {
	return DateRange{From: &from, To: &to}
}

// CacheKey renders a stable key fragment for redis cache keys.
func (r DateRange) CacheKey() string {
	layout := "20060102T150405"
	from, to := "min", "max"
	if r.From != nil {
		from = r.From.UTC().Format(layout)
	}
	if r.To != nil {
		to = r.To.UTC().Format(layout)
	}
	return from + "-" + to
}

// Summary window presets used by dashboards.
const (
	WindowToday = "today"
	WindowWeek  = "week"
	WindowMonth = "month"
	WindowYear  = "year"
	WindowAll   = "all"
)

// WindowDateRange resolves a dashboard window preset into a concrete range
// anchored at now. Unknown windows resolve to "all".
func WindowDateRange(window string, now time.Time) DateRange {
	switch window {
	case WindowToday:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return NewDateRange(start, endOfDay(start))
	case WindowWeek:
		weekday := int(now.Weekday())
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -weekday)
		return NewDateRange(start, endOfDay(start.AddDate(0, 0, 6)))
	case WindowMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return NewDateRange(start, endOfDay(start.AddDate(0, 1, -1)))
	case WindowYear:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return NewDateRange(start, endOfDay(time.Date(now.Year(), 12, 31, 0, 0, 0, 0, now.Location())))
	default:
		return DateRange{}
	}
}

func endOfDay(t time.Time) time.Time {
	return t.Add(time.Hour*23 + time.Minute*59 + time.Second*59)
}
