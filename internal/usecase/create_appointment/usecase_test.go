package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type fakeAppointments struct {
	existing  []*domain.Appointment
	listErr   error
	createErr error
	created   []*domain.Appointment
	filter    domain.AppointmentsFilter
	inTx      bool
}

func (f *fakeAppointments) ListByFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	f.filter = filter
	f.inTx = ctx.Value(txMarker{}) != nil
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.existing, nil
}

func (f *fakeAppointments) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	appt.ID = int64(100 + len(f.created))
	appt.CreatedAt = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	appt.UpdatedAt = appt.CreatedAt
	f.created = append(f.created, appt)
	return appt, nil
}

type fakeCatalog struct{}

func (fakeCatalog) GetService(_ context.Context, id int64) (*domain.Service, error) {
	switch id {
	case 1:
		return &domain.Service{ID: 1, Name: "Haircut", DurationMinutes: 30, Active: true}, nil
	case 2:
		return &domain.Service{ID: 2, Name: "Coloring", DurationMinutes: 90, Active: true}, nil
	}
	return nil, catalogRepo.ErrServiceNotFound
}

func (fakeCatalog) GetStaff(_ context.Context, id int64) (*domain.StaffMember, error) {
	if id == 7 {
		return &domain.StaffMember{ID: 7, Name: "Anna", Active: true}, nil
	}
	return nil, catalogRepo.ErrStaffNotFound
}

type txMarker struct{}

type fakeTxManager struct {
	commitErr error
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
		return err
	}
	return m.commitErr
}

type fakePublisher struct {
	events []domain.AppointmentEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event domain.AppointmentEvent) error {
	p.events = append(p.events, event)
	return p.err
}

type fakeMetrics struct {
	stages []string
}

func (m *fakeMetrics) IncBookingConflict(stage string) {
	m.stages = append(m.stages, stage)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type staticSource struct {
	snapshot domain.ScheduleSnapshot
}

func (s staticSource) Snapshot() (domain.ScheduleSnapshot, bool) {
	return s.snapshot, true
}

// monday 2026-03-02
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

type fixture struct {
	uc        *UseCase
	repo      *fakeAppointments
	tx        *fakeTxManager
	publisher *fakePublisher
	metrics   *fakeMetrics
}

func newFixture(t *testing.T, loc *time.Location) fixture {
	t.Helper()

	week := domain.NewClosedWeek()
	week[time.Monday] = domain.DayHours{
		DayOfWeek: time.Monday,
		IsOpen:    true,
		Windows:   []domain.TimeWindow{{Start: 540, End: 780}, {Start: 840, End: 1080}},
	}
	snapshot := domain.ScheduleSnapshot{
		Hours: week,
		Vacation: &domain.VacationPeriod{
			StartDate: monday.AddDate(0, 0, 7),
			EndDate:   monday.AddDate(0, 0, 7),
		},
	}

	f := fixture{
		repo:      &fakeAppointments{},
		tx:        &fakeTxManager{},
		publisher: &fakePublisher{},
		metrics:   &fakeMetrics{},
	}
	f.uc = NewUseCase(f.repo, fakeCatalog{}, scheduling.NewEngine(staticSource{snapshot: snapshot}, loc),
		f.publisher, f.tx, f.metrics, logger.NewNop())
	f.uc.timeProvider = fixedTime{now: monday.AddDate(0, 0, -1)}
	return f
}

func request(date time.Time, hhmm string) *Request {
	m, err := domain.ParseMinuteOfDay(hhmm)
	if err != nil {
		panic(err)
	}
	return &Request{StaffID: 7, ServiceID: 1, Date: date, StartMinute: m, ClientName: " Maria "}
}

func TestExecute_CreatesAndPublishes(t *testing.T) {
	f := newFixture(t, time.UTC)

	resp, err := f.uc.Execute(context.Background(), request(monday, "12:30"))
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, monday.Add(12*time.Hour+30*time.Minute), resp.StartAt)
	assert.Equal(t, monday.Add(13*time.Hour), resp.EndAt)
	assert.Equal(t, domain.StatusScheduled, resp.Status)
	assert.Equal(t, "Maria", resp.ClientName)
	assert.Equal(t, "Haircut", resp.ServiceName)

	// проверка и вставка в одной транзакции, записи берутся ровно за интервал кандидата
	assert.True(t, f.repo.inTx)
	assert.Equal(t, resp.StartAt, f.repo.filter.From)
	assert.Equal(t, resp.EndAt, f.repo.filter.To)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, domain.EventAppointmentCreated, f.publisher.events[0].Type)
	assert.Equal(t, int64(100), f.publisher.events[0].AppointmentID)
	assert.Empty(t, f.metrics.stages)
}

func TestExecute_UsesShopLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	f := newFixture(t, loc)

	resp, err := f.uc.Execute(context.Background(), request(monday, "10:00"))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC), resp.StartAt.UTC())
}

func TestExecute_ConflictDetectedInTransaction(t *testing.T) {
	f := newFixture(t, time.UTC)
	f.repo.existing = []*domain.Appointment{{
		ID:              5,
		StaffID:         7,
		StartAt:         monday.Add(12*time.Hour + 45*time.Minute),
		DurationMinutes: 15,
		Status:          domain.StatusConfirmed,
	}}

	_, err := f.uc.Execute(context.Background(), request(monday, "12:30"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, f.repo.created)
	assert.Empty(t, f.publisher.events)
	assert.Equal(t, []string{"validation"}, f.metrics.stages)
}

func TestExecute_AdjacentAppointmentIsNotAConflict(t *testing.T) {
	f := newFixture(t, time.UTC)
	f.repo.existing = []*domain.Appointment{{
		ID:              5,
		StaffID:         7,
		StartAt:         monday.Add(12 * time.Hour),
		DurationMinutes: 30,
		Status:          domain.StatusConfirmed,
	}}

	_, err := f.uc.Execute(context.Background(), request(monday, "12:30"))
	assert.NoError(t, err)
}

func TestExecute_ExclusionConstraint(t *testing.T) {
	f := newFixture(t, time.UTC)
	f.repo.createErr = appointmentRepo.ErrSlotNotAvailable

	_, err := f.uc.Execute(context.Background(), request(monday, "09:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, []string{"constraint"}, f.metrics.stages)
	assert.Empty(t, f.publisher.events)
}

func TestExecute_SerializationFailure(t *testing.T) {
	f := newFixture(t, time.UTC)
	f.tx.commitErr = fmt.Errorf("commit: %w", &pq.Error{Code: "40001"})

	_, err := f.uc.Execute(context.Background(), request(monday, "09:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, []string{"serialization"}, f.metrics.stages)
}

func TestExecute_SerializationFailureOnStatement(t *testing.T) {
	serialization := &pq.Error{Code: "40001"}

	tests := []struct {
		name      string
		listErr   error
		createErr error
	}{
		{
			name:    "locking select",
			listErr: fmt.Errorf("%w: ListByFilter - execute query: %v", appointmentRepo.ErrSerializationFailure, serialization),
		},
		{
			name:      "insert",
			createErr: fmt.Errorf("%w: Create - execute insert: %v", appointmentRepo.ErrSerializationFailure, serialization),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, time.UTC)
			f.repo.listErr = tt.listErr
			f.repo.createErr = tt.createErr

			_, err := f.uc.Execute(context.Background(), request(monday, "09:00"))
			assert.ErrorIs(t, err, ErrSlotNotAvailable)
			assert.NotErrorIs(t, err, ErrInternal)
			assert.Equal(t, []string{"serialization"}, f.metrics.stages)
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestExecute_RepositoryFailureIsInternal(t *testing.T) {
	f := newFixture(t, time.UTC)
	f.repo.createErr = fmt.Errorf("%w: Create - execute insert: connection reset", appointmentRepo.ErrExecQuery)

	_, err := f.uc.Execute(context.Background(), request(monday, "09:00"))
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.metrics.stages)
}

func TestExecute_PublishFailureKeepsAppointment(t *testing.T) {
	f := newFixture(t, time.UTC)
	f.publisher.err = errors.New("broker down")

	resp, err := f.uc.Execute(context.Background(), request(monday, "09:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.ID)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{name: "closed day", req: request(monday.AddDate(0, 0, 1), "10:00"), wantErr: ErrInvalidTimeSlot},
		{name: "vacation", req: request(monday.AddDate(0, 0, 7), "10:00"), wantErr: ErrInvalidTimeSlot},
		{name: "crosses lunch", req: request(monday, "12:45"), wantErr: ErrInvalidTimeSlot},
		{name: "not on grid", req: request(monday, "09:05"), wantErr: ErrInvalidTimeSlot},
		{name: "after closing", req: request(monday, "17:45"), wantErr: ErrInvalidTimeSlot},
		{name: "past", req: request(monday.AddDate(0, 0, -7), "10:00"), wantErr: ErrStartInPast},
		{name: "unknown service", req: &Request{StaffID: 7, ServiceID: 9, Date: monday, StartMinute: 600, ClientName: "A"}, wantErr: ErrServiceNotFound},
		{name: "unknown staff", req: &Request{StaffID: 3, ServiceID: 1, Date: monday, StartMinute: 600, ClientName: "A"}, wantErr: ErrStaffNotFound},
		{name: "no client", req: &Request{StaffID: 7, ServiceID: 1, Date: monday, StartMinute: 600}, wantErr: ErrInvalidInput},
		{name: "no date", req: &Request{StaffID: 7, ServiceID: 1, StartMinute: 600, ClientName: "A"}, wantErr: ErrInvalidInput},
		{name: "minute out of range", req: &Request{StaffID: 7, ServiceID: 1, Date: monday, StartMinute: 1440, ClientName: "A"}, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, time.UTC)

			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.repo.created)
			assert.Empty(t, f.metrics.stages)
		})
	}
}

func TestExecute_LongServiceMustFitOneWindow(t *testing.T) {
	f := newFixture(t, time.UTC)
	req := request(monday, "12:00")
	req.ServiceID = 2
	req.Notes = ptr.Ptr("first visit")

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)

	req = request(monday, "11:30")
	req.ServiceID = 2
	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 90, resp.DurationMinutes)
}
