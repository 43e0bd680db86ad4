package schedulestore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeHours struct {
	mu    sync.Mutex
	week  domain.WeeklyHours
	err   error
	calls int
}

func (f *fakeHours) GetWeekly(context.Context) (domain.WeeklyHours, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.week, f.err
}

func (f *fakeHours) set(week domain.WeeklyHours) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.week = week
}

func (f *fakeHours) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeVacation struct {
	period *domain.VacationPeriod
	err    error
}

func (f *fakeVacation) Get(context.Context) (*domain.VacationPeriod, error) {
	return f.period, f.err
}

type fakeInvalidator struct {
	mu        sync.Mutex
	published []string
	ch        chan string
}

func (f *fakeInvalidator) Publish(_ context.Context, payload string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, payload)
	return nil
}

func (f *fakeInvalidator) Subscribe(context.Context) (<-chan string, error) {
	return f.ch, nil
}

type countingMetrics struct {
	mu     sync.Mutex
	byStat map[string]int
}

func (m *countingMetrics) IncScheduleReload(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byStat == nil {
		m.byStat = make(map[string]int)
	}
	m.byStat[status]++
}

func openMonday() domain.WeeklyHours {
	week := domain.NewClosedWeek()
	week[time.Monday] = domain.DayHours{DayOfWeek: time.Monday, IsOpen: true, Windows: []domain.TimeWindow{{Start: 540, End: 780}}}
	return week
}

func TestStore_SnapshotUnavailableBeforeLoad(t *testing.T) {
	store := NewStore(&fakeHours{}, &fakeVacation{}, nil, nil, logger.NewNop(), 0)

	_, ok := store.Snapshot()
	assert.False(t, ok)
}

func TestStore_ReloadNotifiesOnlyOnChange(t *testing.T) {
	hours := &fakeHours{week: openMonday()}
	metrics := &countingMetrics{}
	store := NewStore(hours, &fakeVacation{}, nil, metrics, logger.NewNop(), 0)

	var notified []domain.ScheduleSnapshot
	store.Subscribe(func(s domain.ScheduleSnapshot) { notified = append(notified, s) })

	require.NoError(t, store.Reload(context.Background()))
	require.NoError(t, store.Reload(context.Background()))

	snapshot, ok := store.Snapshot()
	require.True(t, ok)
	assert.True(t, snapshot.Hours[time.Monday].IsOpen)
	assert.Len(t, notified, 1)

	week := openMonday()
	week[time.Tuesday] = domain.DayHours{DayOfWeek: time.Tuesday, IsOpen: true, Windows: []domain.TimeWindow{{Start: 600, End: 700}}}
	hours.set(week)
	require.NoError(t, store.Reload(context.Background()))

	assert.Len(t, notified, 2)
	assert.True(t, notified[1].Hours[time.Tuesday].IsOpen)
	assert.Equal(t, 3, metrics.byStat["ok"])
}

func TestStore_ReloadErrorKeepsPreviousSnapshot(t *testing.T) {
	hours := &fakeHours{week: openMonday()}
	vacation := &fakeVacation{}
	store := NewStore(hours, vacation, nil, nil, logger.NewNop(), 0)
	require.NoError(t, store.Reload(context.Background()))

	vacation.err = errors.New("connection reset")
	err := store.Reload(context.Background())

	assert.ErrorIs(t, err, ErrLoadVacation)
	_, ok := store.Snapshot()
	assert.True(t, ok)
}

func TestStore_Unsubscribe(t *testing.T) {
	hours := &fakeHours{week: openMonday()}
	store := NewStore(hours, &fakeVacation{}, nil, nil, logger.NewNop(), 0)

	calls := 0
	unsubscribe := store.Subscribe(func(domain.ScheduleSnapshot) { calls++ })
	unsubscribe()

	require.NoError(t, store.Reload(context.Background()))
	assert.Equal(t, 0, calls)
}

func TestStore_InvalidatePublishesInstanceID(t *testing.T) {
	inv := &fakeInvalidator{}
	vacation := &fakeVacation{}
	store := NewStore(&fakeHours{week: openMonday()}, vacation, inv, nil, logger.NewNop(), 0)
	require.NoError(t, store.Reload(context.Background()))

	vacation.period = &domain.VacationPeriod{
		StartDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Invalidate(context.Background()))

	snapshot, _ := store.Snapshot()
	assert.True(t, snapshot.IsVacation(time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{store.instanceID}, inv.published)
}

func TestStore_RunReloadsOnForeignInvalidation(t *testing.T) {
	hours := &fakeHours{week: openMonday()}
	inv := &fakeInvalidator{ch: make(chan string)}
	store := NewStore(hours, &fakeVacation{}, inv, nil, logger.NewNop(), 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Run(ctx) }()

	// собственное уведомление пропускается
	inv.ch <- store.instanceID
	inv.ch <- "other-instance"

	require.Eventually(t, func() bool { return hours.callCount() == 1 }, time.Second, 5*time.Millisecond)
	_, ok := store.Snapshot()
	assert.True(t, ok)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestStore_RunPeriodicRefresh(t *testing.T) {
	hours := &fakeHours{week: openMonday()}
	store := NewStore(hours, &fakeVacation{}, nil, nil, logger.NewNop(), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = store.Run(ctx) }()

	require.Eventually(t, func() bool { return hours.callCount() >= 2 }, time.Second, 5*time.Millisecond)
}

// gatedHours задерживает первое чтение до закрытия release, остальные чтения отдают next
type gatedHours struct {
	mu      sync.Mutex
	calls   int
	first   domain.WeeklyHours
	next    domain.WeeklyHours
	entered chan struct{}
	release chan struct{}
}

func (g *gatedHours) GetWeekly(context.Context) (domain.WeeklyHours, error) {
	g.mu.Lock()
	g.calls++
	call := g.calls
	g.mu.Unlock()

	if call == 1 {
		close(g.entered)
		<-g.release
		return g.first, nil
	}
	return g.next, nil
}

func TestStore_SlowReloadDoesNotOverwriteNewerSnapshot(t *testing.T) {
	stale := openMonday()
	fresh := openMonday()
	fresh[time.Tuesday] = domain.DayHours{DayOfWeek: time.Tuesday, IsOpen: true, Windows: []domain.TimeWindow{{Start: 600, End: 900}}}

	hours := &gatedHours{
		first:   stale,
		next:    fresh,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	store := NewStore(hours, &fakeVacation{}, nil, nil, logger.NewNop(), 0)

	ctx := context.Background()

	// Периодическая перезагрузка прочитала данные до изменения и зависла
	tickDone := make(chan error, 1)
	go func() { tickDone <- store.Reload(ctx) }()
	<-hours.entered

	// Изменение администратора перечитывает расписание
	invalidateDone := make(chan error, 1)
	go func() { invalidateDone <- store.Invalidate(ctx) }()

	select {
	case err := <-invalidateDone:
		t.Fatalf("reload finished while an earlier reload was still in progress: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(hours.release)
	require.NoError(t, <-tickDone)
	require.NoError(t, <-invalidateDone)

	snapshot, ok := store.Snapshot()
	require.True(t, ok)
	assert.Equal(t, fresh, snapshot.Hours)
}
