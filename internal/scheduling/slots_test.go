package scheduling

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func TestGenerateSlots(t *testing.T) {
	tests := []struct {
		name string
		day  domain.DayHours
		want []int
	}{
		{
			name: "closed day",
			day:  domain.DayHours{IsOpen: false, Windows: []domain.TimeWindow{{Start: 540, End: 780}}},
			want: []int{},
		},
		{
			name: "open without windows",
			day:  domain.DayHours{IsOpen: true},
			want: []int{},
		},
		{
			name: "single window",
			day:  domain.DayHours{IsOpen: true, Windows: []domain.TimeWindow{{Start: 540, End: 600}}},
			want: []int{540, 555, 570, 585},
		},
		{
			name: "window not aligned to the grid",
			day:  domain.DayHours{IsOpen: true, Windows: []domain.TimeWindow{{Start: 545, End: 600}}},
			want: []int{545, 560, 575},
		},
		{
			name: "split day keeps the lunch gap",
			day: domain.DayHours{IsOpen: true, Windows: []domain.TimeWindow{
				{Start: 840, End: 870},
				{Start: 720, End: 750},
			}},
			want: []int{720, 735, 840, 855},
		},
		{
			name: "window shorter than granularity",
			day:  domain.DayHours{IsOpen: true, Windows: []domain.TimeWindow{{Start: 540, End: 550}}},
			want: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlots(tt.day, domain.SlotGranularityMinutes))
		})
	}
}

func TestGenerateSlots_CoversEveryAlignedOffsetOnce(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	const g = domain.SlotGranularityMinutes

	for i := 0; i < 200; i++ {
		day := randomDay(rnd)
		got := GenerateSlots(day, g)

		seen := make(map[int]int)
		for _, off := range got {
			seen[off]++
			require.True(t, insideSomeWindow(day, off, off+g), "offset %d outside windows %v", off, day.Windows)
		}

		for _, w := range day.Windows {
			for m := w.Start; m+g <= w.End; m += g {
				assert.Equal(t, 1, seen[m], "offset %d of window %v", m, w)
			}
		}
		assert.IsIncreasing(t, append([]int{-1}, got...))
	}
}

func TestFilterByPeriod_SplitDay(t *testing.T) {
	// 09:00-13:00 и 14:00-19:00
	day := domain.DayHours{IsOpen: true, Windows: []domain.TimeWindow{
		{Start: 540, End: 780},
		{Start: 840, End: 1140},
	}}
	all := GenerateSlots(day, domain.SlotGranularityMinutes)

	morning := FilterByPeriod(day, all, PeriodMorning)
	afternoon := FilterByPeriod(day, all, PeriodAfternoon)

	assert.Equal(t, minutesRange(540, 780, 15), morning)
	assert.Equal(t, minutesRange(840, 1140, 15), afternoon)
	assert.Equal(t, all, FilterByPeriod(day, all, PeriodFull))
}

func TestIsMorningWindow(t *testing.T) {
	assert.True(t, IsMorningWindow(0, domain.TimeWindow{Start: 540, End: 900}))
	assert.False(t, IsMorningWindow(0, domain.TimeWindow{Start: 780, End: 900}))
	// второе окно всегда относится ко второй половине дня, даже если начинается утром
	assert.False(t, IsMorningWindow(1, domain.TimeWindow{Start: 600, End: 660}))
}

func TestFilterByPeriod_FirstWindowAfterNoonIsAfternoon(t *testing.T) {
	day := domain.DayHours{IsOpen: true, Windows: []domain.TimeWindow{{Start: 810, End: 870}}}
	all := GenerateSlots(day, domain.SlotGranularityMinutes)

	assert.Empty(t, FilterByPeriod(day, all, PeriodMorning))
	assert.Equal(t, all, FilterByPeriod(day, all, PeriodAfternoon))
}

func TestFilterSlotsByPeriod_GroupsByDate(t *testing.T) {
	monday := date(2026, 3, 2)
	tuesday := date(2026, 3, 3)
	snapshot := domain.ScheduleSnapshot{Hours: weekWith(map[time.Weekday][]domain.TimeWindow{
		time.Monday:  {{Start: 540, End: 570}, {Start: 840, End: 870}},
		time.Tuesday: {{Start: 840, End: 870}},
	})}
	slots := []domain.AvailableSlot{
		{Date: monday, Minute: 540}, {Date: monday, Minute: 555}, {Date: monday, Minute: 840},
		{Date: tuesday, Minute: 840},
	}

	morning := FilterSlotsByPeriod(snapshot, slots, PeriodMorning)
	assert.Equal(t, []domain.AvailableSlot{{Date: monday, Minute: 540}, {Date: monday, Minute: 555}}, morning)

	afternoon := FilterSlotsByPeriod(snapshot, slots, PeriodAfternoon)
	assert.Equal(t, []domain.AvailableSlot{{Date: monday, Minute: 840}, {Date: tuesday, Minute: 840}}, afternoon)
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodFull, p)

	p, err = ParsePeriod("morning")
	require.NoError(t, err)
	assert.Equal(t, PeriodMorning, p)

	_, err = ParsePeriod("evening")
	assert.Error(t, err)
}

func randomDay(rnd *rand.Rand) domain.DayHours {
	day := domain.DayHours{IsOpen: rnd.Intn(5) > 0}
	cursor := rnd.Intn(8 * 60)
	for n := rnd.Intn(4); n > 0 && cursor < domain.MinutesPerDay-1; n-- {
		start := cursor + rnd.Intn(60)
		end := start + 1 + rnd.Intn(240)
		if end > domain.MinutesPerDay {
			end = domain.MinutesPerDay
		}
		if start >= end {
			break
		}
		day.Windows = append(day.Windows, domain.TimeWindow{Start: start, End: end})
		// +1 исключает касающиеся окна
		cursor = end + 1
	}
	if !day.IsOpen {
		day.Windows = nil
	}
	return day
}

func insideSomeWindow(day domain.DayHours, from, to int) bool {
	for _, w := range day.Windows {
		if w.Contains(from, to) {
			return true
		}
	}
	return false
}
