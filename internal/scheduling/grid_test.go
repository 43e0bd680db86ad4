package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func cellAt(t *testing.T, day GridDay, minute int) Cell {
	t.Helper()
	for _, c := range day.Cells {
		if c.Minute == minute {
			return c
		}
	}
	t.Fatalf("no cell at %s", domain.FormatMinuteOfDay(minute))
	return Cell{}
}

func TestMapAppointmentsToGrid_ScenarioE(t *testing.T) {
	monday := date(2026, 3, 2)
	appointments := []*domain.Appointment{appt(1, staffX, at(monday, "09:00"), 45, domain.StatusConfirmed)}

	grid := MapAppointmentsToGrid(morningMonday(), appointments, []time.Time{monday}, 15)
	require.Len(t, grid.Days, 1)
	day := grid.Days[0]

	start := cellAt(t, day, 540)
	assert.Equal(t, CellAppointmentStart, start.Kind)
	require.Len(t, start.Cards, 1)
	assert.Equal(t, 3, start.Cards[0].SpanCount)

	for _, m := range []int{555, 570} {
		c := cellAt(t, day, m)
		assert.Equal(t, CellCovered, c.Kind)
		assert.Empty(t, c.Cards, "row %s must not start a card", domain.FormatMinuteOfDay(m))
		assert.Equal(t, []int64{1}, c.Covering)
	}
	assert.Equal(t, CellEmpty, cellAt(t, day, 585).Kind)

	starts := 0
	for _, c := range day.Cells {
		starts += len(c.Cards)
	}
	assert.Equal(t, 1, starts)
	assert.Empty(t, grid.Conflicts)
}

func TestMapAppointmentsToGrid_TruncatesStartToGrid(t *testing.T) {
	monday := date(2026, 3, 2)
	appointments := []*domain.Appointment{appt(1, staffX, at(monday, "09:10"), 20, domain.StatusConfirmed)}

	grid := MapAppointmentsToGrid(morningMonday(), appointments, []time.Time{monday}, 15)

	c := cellAt(t, grid.Days[0], 540)
	assert.Equal(t, CellAppointmentStart, c.Kind)
	assert.Equal(t, 2, c.Cards[0].SpanCount)
}

func TestMapAppointmentsToGrid_DuplicateStartLowestIDWins(t *testing.T) {
	monday := date(2026, 3, 2)
	appointments := []*domain.Appointment{
		appt(9, staffX, at(monday, "10:00"), 30, domain.StatusConfirmed),
		appt(4, staffX, at(monday, "10:00"), 30, domain.StatusScheduled),
		appt(5, 8, at(monday, "10:00"), 30, domain.StatusScheduled),
	}

	grid := MapAppointmentsToGrid(morningMonday(), appointments, []time.Time{monday}, 15)

	c := cellAt(t, grid.Days[0], 600)
	require.Len(t, c.Cards, 2, "one card per staff member")
	assert.Equal(t, int64(4), c.Cards[0].AppointmentID)
	assert.Equal(t, int64(5), c.Cards[1].AppointmentID)

	require.Len(t, grid.Conflicts, 1)
	conflict := grid.Conflicts[0]
	assert.Equal(t, ConflictDuplicateStart, conflict.Kind)
	assert.Equal(t, staffX, conflict.StaffID)
	assert.Equal(t, int64(4), conflict.WinnerID)
	assert.Equal(t, []int64{4, 9}, conflict.AppointmentIDs)
}

func TestMapAppointmentsToGrid_FlagsOverlap(t *testing.T) {
	monday := date(2026, 3, 2)
	appointments := []*domain.Appointment{
		appt(1, staffX, at(monday, "10:00"), 60, domain.StatusConfirmed),
		appt(2, staffX, at(monday, "10:30"), 30, domain.StatusConfirmed),
		appt(3, staffX, at(monday, "11:00"), 30, domain.StatusConfirmed),
	}

	grid := MapAppointmentsToGrid(morningMonday(), appointments, []time.Time{monday}, 15)

	require.Len(t, grid.Conflicts, 1)
	assert.Equal(t, ConflictOverlap, grid.Conflicts[0].Kind)
	assert.Equal(t, []int64{1, 2}, grid.Conflicts[0].AppointmentIDs)

	c := cellAt(t, grid.Days[0], 630)
	assert.Equal(t, CellAppointmentStart, c.Kind)
	assert.Equal(t, []int64{1}, c.Covering)
}

func TestMapAppointmentsToGrid_ClosedCellsAndVacation(t *testing.T) {
	monday := date(2026, 3, 2)
	tuesday := monday.AddDate(0, 0, 1)
	snapshot := domain.ScheduleSnapshot{
		Hours: weekWith(map[time.Weekday][]domain.TimeWindow{
			time.Monday:  {{Start: 540, End: 600}, {Start: 660, End: 720}},
			time.Tuesday: {{Start: 540, End: 720}},
		}),
		Vacation: &domain.VacationPeriod{StartDate: tuesday, EndDate: tuesday},
	}
	appointments := []*domain.Appointment{
		appt(1, staffX, at(monday, "09:00"), 30, domain.StatusCancelled),
	}

	grid := MapAppointmentsToGrid(snapshot, appointments, []time.Time{monday, tuesday}, 15)

	assert.Equal(t, 540, grid.StartMinute)
	assert.Equal(t, 720, grid.EndMinute)

	mon := grid.Days[0]
	assert.Equal(t, CellEmpty, cellAt(t, mon, 540).Kind, "cancelled appointment is ignored")
	assert.Equal(t, CellClosed, cellAt(t, mon, 615).Kind)
	assert.False(t, cellAt(t, mon, 540).Vacation)

	tue := grid.Days[1]
	assert.True(t, tue.Vacation)
	for _, c := range tue.Cells {
		assert.True(t, c.Vacation)
	}
}

func TestMapAppointmentsToGrid_ExtendsBoundsForAppointments(t *testing.T) {
	monday := date(2026, 3, 2)
	sunday := monday.AddDate(0, 0, 6)
	appointments := []*domain.Appointment{
		appt(1, staffX, at(sunday, "19:00"), 50, domain.StatusConfirmed),
	}

	grid := MapAppointmentsToGrid(morningMonday(), appointments, []time.Time{monday, sunday}, 15)

	assert.Equal(t, 540, grid.StartMinute)
	assert.Equal(t, 1200, grid.EndMinute)

	sun := grid.Days[1]
	assert.True(t, sun.Closed)
	c := cellAt(t, sun, 1140)
	assert.Equal(t, CellAppointmentStart, c.Kind)
	assert.Equal(t, 4, c.Cards[0].SpanCount)
	assert.Equal(t, CellClosed, cellAt(t, sun, 600).Kind)
}

func TestMapAppointmentsToGrid_NoHoursNoAppointments(t *testing.T) {
	snapshot := domain.ScheduleSnapshot{Hours: domain.NewClosedWeek()}

	grid := MapAppointmentsToGrid(snapshot, nil, []time.Time{date(2026, 3, 2)}, 15)

	assert.Equal(t, DefaultGridStartMinute, grid.StartMinute)
	assert.Equal(t, DefaultGridEndMinute, grid.EndMinute)
	for _, c := range grid.Days[0].Cells {
		assert.Equal(t, CellClosed, c.Kind)
	}
}

func TestEngine_MapAppointmentsToGrid_UsesShopLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	engine := NewEngine(staticSource{snapshot: morningMonday(), loaded: true}, loc)

	// 06:00 UTC = 09:00 MSK
	appointments := []*domain.Appointment{
		appt(1, staffX, time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC), 30, domain.StatusConfirmed),
	}

	grid, err := engine.MapAppointmentsToGrid(appointments, []time.Time{time.Date(2026, 3, 2, 0, 0, 0, 0, loc)}, 15)
	require.NoError(t, err)
	assert.Equal(t, CellAppointmentStart, cellAt(t, grid.Days[0], 540).Kind)
}

func TestSpanCount(t *testing.T) {
	assert.Equal(t, 3, spanCount(45*time.Minute, 15))
	assert.Equal(t, 4, spanCount(50*time.Minute, 15))
	assert.Equal(t, 1, spanCount(10*time.Minute, 15))
	assert.Equal(t, 1, spanCount(0, 15))
}
