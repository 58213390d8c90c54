package models

import (
	"testing"
	"time"
)

func TestWeekWindow(t *testing.T) {
	events := []CalendarEvent{
		{ID: "1", Title: "Standup", Date: "2025-03-10"},
		{ID: "2", Title: "Review", Date: "2025-03-16"},
		{ID: "3", Title: "Too late", Date: "2025-03-17"},
		{ID: "4", Title: "Too early", Date: "2025-03-09"},
		{ID: "5", Title: "Retro", Date: "2025-03-10"},
	}
	today := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)

	days := Week(events, today)
	if len(days) != 7 {
		t.Fatalf("Expected 7 days, got %d", len(days))
	}
	if days[0].Date != "2025-03-10" || days[6].Date != "2025-03-16" {
		t.Errorf("Unexpected window %s..%s", days[0].Date, days[6].Date)
	}
	if len(days[0].Events) != 2 {
		t.Errorf("Expected 2 events on the first day, got %d", len(days[0].Events))
	}
	if len(days[6].Events) != 1 || days[6].Events[0].ID != "2" {
		t.Errorf("Expected event 2 on the last day, got %+v", days[6].Events)
	}

	total := 0
	for _, d := range days {
		if d.Events == nil {
			t.Errorf("Day %s has nil events", d.Date)
		}
		total += len(d.Events)
	}
	if total != 3 {
		t.Errorf("Expected 3 events inside the window, got %d", total)
	}
}

func TestWeekDatesCrossMonth(t *testing.T) {
	dates := WeekDates(time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC))
	want := []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04"}
	for i := range want {
		if dates[i] != want[i] {
			t.Errorf("dates[%d] = %s, want %s", i, dates[i], want[i])
		}
	}
}

func TestEventsOnOutsideWindow(t *testing.T) {
	events := []CalendarEvent{
		{ID: "1", Date: "2030-01-01"},
		{ID: "2", Date: "2025-03-10"},
	}
	got := EventsOn(events, "2030-01-01")
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("Expected only event 1, got %+v", got)
	}
	if got := EventsOn(events, "1999-01-01"); len(got) != 0 {
		t.Errorf("Expected no events, got %+v", got)
	}
}

func TestSearchMemory(t *testing.T) {
	docs := []MemoryDoc{
		{ID: "1", Title: "Deploy notes", Content: "steps", Tags: []string{"ops"}},
		{ID: "2", Title: "Plan", Content: "nothing", Tags: []string{"Urgent"}},
		{ID: "3", Title: "Ideas", Content: "an URGENT thought"},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"tag match ignores case", "urg", []string{"2", "3"}},
		{"title match", "deploy", []string{"1"}},
		{"empty query", "", []string{"1", "2", "3"}},
		{"leading space is part of the query", " ops", nil},
		{"inner space", "urgent thought", []string{"3"}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchMemory(docs, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d docs, got %d", len(tt.want), len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("got[%d].ID = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestGroupAndCount(t *testing.T) {
	tasks := []Task{
		{ID: "1", Status: StatusTodo},
		{ID: "2", Status: StatusDone},
		{ID: "3", Status: StatusTodo},
	}
	status := func(t Task) TaskStatus { return t.Status }

	groups := GroupBy(tasks, status)
	if len(groups[StatusTodo]) != 2 || groups[StatusTodo][0].ID != "1" || groups[StatusTodo][1].ID != "3" {
		t.Errorf("Unexpected todo bucket %+v", groups[StatusTodo])
	}

	counts := CountBy(tasks, status)
	if counts[StatusTodo] != 2 || counts[StatusDone] != 1 || counts[StatusReview] != 0 {
		t.Errorf("Unexpected counts %v", counts)
	}
}
