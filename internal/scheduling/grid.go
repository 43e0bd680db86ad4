package scheduling

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Границы сетки календаря, если в видимых днях нет ни окон, ни записей
const (
	DefaultGridStartMinute = 9 * 60
	DefaultGridEndMinute   = 18 * 60
)

// CellKind состояние ячейки календаря
type CellKind string

const (
	CellEmpty            CellKind = "empty"
	CellClosed           CellKind = "closed"
	CellAppointmentStart CellKind = "appointment_start"
	CellCovered          CellKind = "covered"
)

// ConflictKind тип несогласованности записей
type ConflictKind string

const (
	// ConflictDuplicateStart две записи мастера начинаются в одной ячейке
	ConflictDuplicateStart ConflictKind = "duplicate_start"
	// ConflictOverlap записи мастера пересекаются по времени
	ConflictOverlap ConflictKind = "overlap"
)

// Card карточка записи, начинающейся в ячейке
type Card struct {
	AppointmentID int64
	StaffID       int64
	ServiceID     int64
	Status        domain.AppointmentStatus
	StartAt       time.Time
	EndAt         time.Time
	SpanCount     int // сколько строк сетки занимает карточка
}

// Cell ячейка (дата, время) сетки
type Cell struct {
	Minute   int
	Kind     CellKind
	Vacation bool
	Cards    []Card
	Covering []int64 // записи, чьи карточки продолжаются в этой ячейке
}

// GridDay колонка сетки
type GridDay struct {
	Date     time.Time
	Closed   bool
	Vacation bool
	Cells    []Cell
}

// Conflict найденная несогласованность. Запись WinnerID отображается, остальные нет
type Conflict struct {
	Kind           ConflictKind
	StaffID        int64
	Date           time.Time
	Minute         int
	AppointmentIDs []int64
	WinnerID       int64
}

// Grid результат раскладки записей по сетке календаря
type Grid struct {
	Granularity int
	StartMinute int
	EndMinute   int
	Days        []GridDay
	Conflicts   []Conflict
}

// MapAppointmentsToGrid раскладывает записи по сетке видимых дат
func (e *Engine) MapAppointmentsToGrid(appointments []*domain.Appointment, dates []time.Time, granularity int) (Grid, error) {
	snapshot, err := e.Snapshot()
	if err != nil {
		return Grid{}, err
	}
	local := make([]time.Time, len(dates))
	for i, d := range dates {
		local[i] = domain.StartOfDay(d.In(e.location))
	}
	return MapAppointmentsToGrid(snapshot, appointments, local, granularity), nil
}

// placed запись, привязанная к ячейке
type placed struct {
	appt      *domain.Appointment
	dateIndex int
	minute    int
	span      int
}

// MapAppointmentsToGrid строит сетку (дата, время) с шагом granularity.
// Запись начинается в ячейке, если она не отменена и её начало, округленное вниз до шага,
// совпадает с ячейкой. Карточка занимает ceil(длительность/шаг) строк.
// Если у мастера две записи начинаются в одной ячейке, отображается запись с меньшим id,
// остальные попадают в Conflicts.
func MapAppointmentsToGrid(
	snapshot domain.ScheduleSnapshot,
	appointments []*domain.Appointment,
	dates []time.Time,
	granularity int,
) Grid {
	if granularity <= 0 {
		granularity = domain.SlotGranularityMinutes
	}

	grid := Grid{Granularity: granularity, Days: make([]GridDay, 0, len(dates))}

	// 1. Привязываем неотмененные записи к видимым датам
	items := placeAppointments(appointments, dates, granularity)

	// 2. Разрешаем дубли начала, проверяем пересечения
	items, grid.Conflicts = resolveConflicts(items, dates)

	// 3. Границы строк: от самого раннего окна до самого позднего, расширенные под записи
	grid.StartMinute, grid.EndMinute = gridBounds(snapshot, dates, items, granularity)

	// 4. Заполняем ячейки
	starts := make(map[[2]int][]Card)
	covering := make(map[[2]int][]int64)
	for _, it := range items {
		card := Card{
			AppointmentID: it.appt.ID,
			StaffID:       it.appt.StaffID,
			ServiceID:     it.appt.ServiceID,
			Status:        it.appt.Status,
			StartAt:       it.appt.StartAt,
			EndAt:         it.appt.EffectiveEnd(),
			SpanCount:     it.span,
		}
		key := [2]int{it.dateIndex, it.minute}
		starts[key] = append(starts[key], card)
		for row := 1; row < it.span; row++ {
			m := it.minute + row*granularity
			if m >= grid.EndMinute {
				break
			}
			covKey := [2]int{it.dateIndex, m}
			covering[covKey] = append(covering[covKey], it.appt.ID)
		}
	}

	for di, date := range dates {
		day := snapshot.DayFor(date)
		gd := GridDay{
			Date:     date,
			Closed:   !day.HasOpenWindows(),
			Vacation: snapshot.IsVacation(date),
			Cells:    make([]Cell, 0, (grid.EndMinute-grid.StartMinute)/granularity),
		}

		for m := grid.StartMinute; m < grid.EndMinute; m += granularity {
			cell := Cell{Minute: m, Vacation: gd.Vacation, Kind: CellEmpty}
			key := [2]int{di, m}
			switch {
			case len(starts[key]) > 0:
				cell.Kind = CellAppointmentStart
				cell.Cards = starts[key]
				cell.Covering = covering[key]
			case len(covering[key]) > 0:
				cell.Kind = CellCovered
				cell.Covering = covering[key]
			case !day.IsOpenAt(m):
				cell.Kind = CellClosed
			}
			gd.Cells = append(gd.Cells, cell)
		}

		grid.Days = append(grid.Days, gd)
	}

	return grid
}

func placeAppointments(appointments []*domain.Appointment, dates []time.Time, granularity int) []placed {
	items := make([]placed, 0, len(appointments))
	for _, appt := range appointments {
		if appt == nil || !appt.OccupiesSlot() {
			continue
		}
		for di, date := range dates {
			start := appt.StartAt.In(date.Location())
			if !domain.SameDate(start, date) {
				continue
			}
			minute := domain.MinuteOfDay(start)
			items = append(items, placed{
				appt:      appt,
				dateIndex: di,
				minute:    minute - minute%granularity,
				span:      spanCount(appt.Duration(), granularity),
			})
			break
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.dateIndex != b.dateIndex {
			return a.dateIndex < b.dateIndex
		}
		if a.minute != b.minute {
			return a.minute < b.minute
		}
		if a.appt.StaffID != b.appt.StaffID {
			return a.appt.StaffID < b.appt.StaffID
		}
		return a.appt.ID < b.appt.ID
	})
	return items
}

// spanCount ceil(duration/granularity), минимум одна строка
func spanCount(duration time.Duration, granularity int) int {
	minutes := int((duration + time.Minute - 1) / time.Minute)
	span := (minutes + granularity - 1) / granularity
	if span < 1 {
		span = 1
	}
	return span
}

// resolveConflicts оставляет по одной записи на (мастер, ячейка) и сообщает о пересечениях.
// items должны быть отсортированы placeAppointments
func resolveConflicts(items []placed, dates []time.Time) ([]placed, []Conflict) {
	conflicts := make([]Conflict, 0)
	kept := make([]placed, 0, len(items))

	for i := 0; i < len(items); {
		j := i + 1
		for j < len(items) &&
			items[j].dateIndex == items[i].dateIndex &&
			items[j].minute == items[i].minute &&
			items[j].appt.StaffID == items[i].appt.StaffID {
			j++
		}

		// Внутри группы id возрастают, первая запись побеждает
		kept = append(kept, items[i])
		if j-i > 1 {
			ids := make([]int64, 0, j-i)
			for _, it := range items[i:j] {
				ids = append(ids, it.appt.ID)
			}
			conflicts = append(conflicts, Conflict{
				Kind:           ConflictDuplicateStart,
				StaffID:        items[i].appt.StaffID,
				Date:           dates[items[i].dateIndex],
				Minute:         items[i].minute,
				AppointmentIDs: ids,
				WinnerID:       items[i].appt.ID,
			})
		}
		i = j
	}

	// Пересечения среди оставшихся записей одного мастера
	byStaff := make(map[int64][]placed)
	staffIDs := make([]int64, 0)
	for _, it := range kept {
		if _, ok := byStaff[it.appt.StaffID]; !ok {
			staffIDs = append(staffIDs, it.appt.StaffID)
		}
		byStaff[it.appt.StaffID] = append(byStaff[it.appt.StaffID], it)
	}
	sort.Slice(staffIDs, func(i, j int) bool { return staffIDs[i] < staffIDs[j] })

	for _, staffID := range staffIDs {
		list := byStaff[staffID]
		for a := 0; a < len(list); a++ {
			for b := a + 1; b < len(list); b++ {
				x, y := list[a].appt, list[b].appt
				if !y.StartAt.Before(x.EffectiveEnd()) {
					// список отсортирован по началу, дальше пересечений с x нет
					break
				}
				if IntervalsOverlap(x.StartAt, x.EffectiveEnd(), y.StartAt, y.EffectiveEnd()) {
					conflicts = append(conflicts, Conflict{
						Kind:           ConflictOverlap,
						StaffID:        staffID,
						Date:           dates[list[a].dateIndex],
						Minute:         list[a].minute,
						AppointmentIDs: []int64{x.ID, y.ID},
						WinnerID:       x.ID,
					})
				}
			}
		}
	}

	return kept, conflicts
}

func gridBounds(snapshot domain.ScheduleSnapshot, dates []time.Time, items []placed, granularity int) (int, int) {
	start, end := -1, -1
	for _, date := range dates {
		day := snapshot.DayFor(date)
		if !day.HasOpenWindows() {
			continue
		}
		first, last := day.Windows[0], day.Windows[len(day.Windows)-1]
		if start < 0 || first.Start < start {
			start = first.Start
		}
		if last.End > end {
			end = last.End
		}
	}

	for _, it := range items {
		if start < 0 || it.minute < start {
			start = it.minute
		}
		itemEnd := it.minute + it.span*granularity
		if itemEnd > domain.MinutesPerDay {
			itemEnd = domain.MinutesPerDay
		}
		if itemEnd > end {
			end = itemEnd
		}
	}

	if start < 0 {
		return DefaultGridStartMinute, DefaultGridEndMinute
	}

	// Выравниваем границы по сетке
	start -= start % granularity
	if rem := end % granularity; rem != 0 {
		end += granularity - rem
	}
	if end > domain.MinutesPerDay {
		end = domain.MinutesPerDay
	}
	return start, end
}
