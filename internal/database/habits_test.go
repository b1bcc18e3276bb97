package database

import (
	"testing"

	"github.com/habitflow/habitflow/internal/habits"
)

func TestOrderBy(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		field habits.SortField
		dir   habits.SortDirection
		want  string
	}{
		{"created ascending", habits.SortCreatedAt, habits.SortAsc, "created_at_utc ASC, id ASC"},
		{"created descending", habits.SortCreatedAt, habits.SortDesc, "created_at_utc DESC, id DESC"},
		{"title ascending", habits.SortTitle, habits.SortAsc, "title ASC, id ASC"},
		{"deadline descending", habits.SortDeadline, habits.SortDesc, "deadline_date DESC, id DESC"},
		{"unknown field defaults to created desc", habits.SortField("priority"), habits.SortDesc, "created_at_utc DESC, id DESC"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := orderBy(tt.field, tt.dir); got != tt.want {
				t.Errorf("orderBy(%q, %q) = %q, want %q", tt.field, tt.dir, got, tt.want)
			}
		})
	}
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "run", "run"},
		{"percent", "50%", `50\%`},
		{"underscore", "a_b", `a\_b`},
		{"backslash", `a\b`, `a\\b`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := escapeLike(tt.in); got != tt.want {
				t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
