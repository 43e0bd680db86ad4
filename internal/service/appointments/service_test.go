package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type fakeRepo struct {
	items        map[int64]*domain.Appointment
	cancelCalls  int
	statusCalls  int
	lastFilter   domain.AppointmentsFilter
	lastReason   *string
	listReadOnly bool
}

func newFakeRepo(items ...*domain.Appointment) *fakeRepo {
	r := &fakeRepo{items: make(map[int64]*domain.Appointment)}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	clone := *appt
	return &clone, nil
}

func (r *fakeRepo) ListByFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	r.lastFilter = filter
	r.listReadOnly = ctx.Value(readOnlyKey{}) != nil
	out := make([]*domain.Appointment, 0)
	for _, it := range r.items {
		out = append(out, it)
	}
	return out, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	r.statusCalls++
	r.items[id].Status = status
	return nil
}

func (r *fakeRepo) Cancel(_ context.Context, id int64, reason *string) error {
	r.cancelCalls++
	r.lastReason = reason
	r.items[id].Status = domain.StatusCancelled
	return nil
}

type readOnlyKey struct{}

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, readOnlyKey{}, true))
}

type fakePublisher struct {
	events []domain.AppointmentEvent
}

func (p *fakePublisher) Publish(_ context.Context, event domain.AppointmentEvent) error {
	p.events = append(p.events, event)
	return nil
}

var start = time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

func newService(t *testing.T, repo *fakeRepo, publisher *fakePublisher) *Service {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	return NewService(repo, publisher, fakeTx{}, loc, logger.NewNop())
}

func appointmentWithStatus(id int64, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{ID: id, StaffID: 7, ServiceID: 1, StartAt: start, DurationMinutes: 45, Status: status, ClientName: "Maria"}
}

func TestGetByID_FormatsInShopLocation(t *testing.T) {
	svc := newService(t, newFakeRepo(appointmentWithStatus(1, domain.StatusScheduled)), &fakePublisher{})

	resp, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-02", resp.Date)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "10:45", resp.EndTime)
	assert.Equal(t, "scheduled", resp.Status)

	_, err = svc.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestList_UsesReadOnlyTransaction(t *testing.T) {
	repo := newFakeRepo(appointmentWithStatus(1, domain.StatusScheduled))
	svc := newService(t, repo, &fakePublisher{})

	resp, err := svc.List(context.Background(), &models.ListAppointmentsRequest{
		From:             start,
		To:               start.Add(24 * time.Hour),
		StaffID:          ptr.Ptr(int64(7)),
		IncludeCancelled: true,
	})
	require.NoError(t, err)

	assert.Len(t, resp.Appointments, 1)
	assert.True(t, repo.listReadOnly)
	assert.True(t, repo.lastFilter.IncludeCancelled)

	_, err = svc.List(context.Background(), &models.ListAppointmentsRequest{From: start, To: start})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel(t *testing.T) {
	repo := newFakeRepo(
		appointmentWithStatus(1, domain.StatusConfirmed),
		appointmentWithStatus(2, domain.StatusCompleted),
	)
	publisher := &fakePublisher{}
	svc := newService(t, repo, publisher)

	reason := "client is ill"
	require.NoError(t, svc.Cancel(context.Background(), 1, &models.CancelRequest{CancellationReason: &reason}))
	assert.Equal(t, domain.StatusCancelled, repo.items[1].Status)
	assert.Equal(t, &reason, repo.lastReason)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, domain.EventAppointmentCancelled, publisher.events[0].Type)

	// повторная отмена не ошибка и не порождает событие
	require.NoError(t, svc.Cancel(context.Background(), 1, &models.CancelRequest{}))
	assert.Equal(t, 1, repo.cancelCalls)
	assert.Len(t, publisher.events, 1)

	assert.ErrorIs(t, svc.Cancel(context.Background(), 2, &models.CancelRequest{}), ErrCannotCancel)
	assert.ErrorIs(t, svc.Cancel(context.Background(), 3, &models.CancelRequest{}), ErrAppointmentNotFound)
}

func TestUpdateStatus(t *testing.T) {
	repo := newFakeRepo(appointmentWithStatus(1, domain.StatusConfirmed))
	publisher := &fakePublisher{}
	svc := newService(t, repo, publisher)

	require.NoError(t, svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "in_progress"}))
	assert.Equal(t, domain.StatusInProgress, repo.items[1].Status)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, domain.EventAppointmentStatusChanged, publisher.events[0].Type)
	assert.Equal(t, domain.StatusInProgress, publisher.events[0].Status)

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "scheduled"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "cancelled"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "lost"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.UpdateStatus(context.Background(), 9, &models.UpdateStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	assert.Equal(t, 1, repo.statusCalls)
}
