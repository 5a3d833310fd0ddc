package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestINR(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "₹0", INR(0))
	assert.Equal(t, "₹500", INR(500))
	assert.Equal(t, "₹1,500", INR(1500))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly", Truncate("exactly", 7))
	assert.Equal(t, "a lon...", Truncate("a long description", 8))
	assert.Equal(t, "...", Truncate("abcd", 3))
}

func TestTruncateIsRuneSafe(t *testing.T) {
	t.Parallel()

	got := Truncate("पर्यटन स्थल और यात्रा", 10)
	assert.Equal(t, "पर्यटन ...", got)
}

func TestPluralize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1 day", Pluralize(1, "day", ""))
	assert.Equal(t, "3 days", Pluralize(3, "day", ""))
	assert.Equal(t, "0 days", Pluralize(0, "day", ""))
	assert.Equal(t, "2 people", Pluralize(2, "person", "people"))
}

func TestTimeAgo(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{name: "seconds", t: now.Add(-30 * time.Second), want: "just now"},
		{name: "one minute", t: now.Add(-90 * time.Second), want: "1 minute ago"},
		{name: "minutes", t: now.Add(-5 * time.Minute), want: "5 minutes ago"},
		{name: "hours", t: now.Add(-2 * time.Hour), want: "2 hours ago"},
		{name: "days", t: now.AddDate(0, 0, -3), want: "3 days ago"},
		{name: "weeks", t: now.AddDate(0, 0, -14), want: "2 weeks ago"},
		{name: "months", t: now.AddDate(0, -2, 0), want: "2 months ago"},
		{name: "years", t: now.AddDate(-1, 0, 0), want: "1 year ago"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, TimeAgo(tt.t, now))
		})
	}
}
