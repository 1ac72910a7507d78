package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Classify_CutoffBoundaries(t *testing.T) {
	p := Policy{LateCutoff: DefaultLateCutoff, Location: time.UTC}

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"one second before cutoff", time.Date(2024, 3, 4, 8, 59, 59, 0, time.UTC), StatusPresent},
		{"exactly at cutoff", time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), StatusPresent},
		{"one second after cutoff", time.Date(2024, 3, 4, 9, 0, 1, 0, time.UTC), StatusLate},
		{"sub-second past cutoff is still on time", time.Date(2024, 3, 4, 9, 0, 0, 999, time.UTC), StatusPresent},
		{"early morning", time.Date(2024, 3, 4, 6, 30, 0, 0, time.UTC), StatusPresent},
		{"afternoon", time.Date(2024, 3, 4, 13, 0, 0, 0, time.UTC), StatusLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Classify(tt.at))
		})
	}
}

func TestPolicy_Classify_UsesLocation(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	p := Policy{LateCutoff: DefaultLateCutoff, Location: wib}

	// 01:30 UTC is 08:30 WIB
	assert.Equal(t, StatusPresent, p.Classify(time.Date(2024, 3, 4, 1, 30, 0, 0, time.UTC)))
	// 02:30 UTC is 09:30 WIB
	assert.Equal(t, StatusLate, p.Classify(time.Date(2024, 3, 4, 2, 30, 0, 0, time.UTC)))
}

func TestPolicy_Today_LocalCalendarDate(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	p := Policy{LateCutoff: DefaultLateCutoff, Location: wib}

	got := p.Today(time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got)
}

func TestMonthWindow(t *testing.T) {
	first, last := MonthWindow(2024, time.February)
	assert.Equal(t, "2024-02-01", first.Format(DateLayout))
	assert.Equal(t, "2024-02-29", last.Format(DateLayout))

	assert.Equal(t, 30, DaysInMonth(2024, time.April))
	assert.Equal(t, 31, DaysInMonth(2024, time.December))
}

func TestPolicy_FormatClock(t *testing.T) {
	p := Policy{Location: time.UTC}
	at := time.Date(2024, 3, 4, 9, 15, 7, 0, time.UTC)

	assert.Nil(t, p.FormatClock(nil))
	assert.Equal(t, "09:15:07", *p.FormatClock(&at))
}
