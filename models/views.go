package models

import (
	"strings"
	"time"
)

// DateLayout is the layout of CalendarEvent.Date.
const DateLayout = "2006-01-02"

// GroupBy buckets items by key, keeping the collection order inside each bucket.
func GroupBy[T any, K comparable](items []T, key func(T) K) map[K][]T {
	out := make(map[K][]T)
	for _, it := range items {
		k := key(it)
		out[k] = append(out[k], it)
	}
	return out
}

// CountBy counts items per key.
func CountBy[T any, K comparable](items []T, key func(T) K) map[K]int {
	out := make(map[K]int)
	for _, it := range items {
		out[key(it)]++
	}
	return out
}

// Filter returns the items matching keep, in order.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Calendar

type DayEvents struct {
	Date   string          `json:"date"`
	Events []CalendarEvent `json:"events"`
}

// WeekDates returns today and the six following days as YYYY-MM-DD strings.
func WeekDates(today time.Time) []string {
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, today.Location())

	dates := make([]string, 7)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates
}

// EventsOn returns the events whose date is exactly date.
func EventsOn(events []CalendarEvent, date string) []CalendarEvent {
	return Filter(events, func(e CalendarEvent) bool { return e.Date == date })
}

// Week groups events into the 7-day window starting today. Events outside the
// window are not returned.
func Week(events []CalendarEvent, today time.Time) []DayEvents {
	byDate := GroupBy(events, func(e CalendarEvent) string { return e.Date })

	dates := WeekDates(today)
	out := make([]DayEvents, 0, len(dates))
	for _, date := range dates {
		evs := byDate[date]
		if evs == nil {
			evs = []CalendarEvent{}
		}
		out = append(out, DayEvents{Date: date, Events: evs})
	}
	return out
}

// Memory

// Matches reports whether query occurs, ignoring case, in the title, the
// content or any tag of the document.
func (d MemoryDoc) Matches(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(d.Title), q) || strings.Contains(strings.ToLower(d.Content), q) {
		return true
	}
	for _, tag := range d.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// SearchMemory filters docs by query. An empty query matches everything.
func SearchMemory(docs []MemoryDoc, query string) []MemoryDoc {
	if query == "" {
		return Filter(docs, func(MemoryDoc) bool { return true })
	}
	return Filter(docs, func(d MemoryDoc) bool { return d.Matches(query) })
}
