package create_appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeUseCase struct {
	got *createAppointment.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	start := domain.AtMinute(req.Date, req.StartMinute)
	return &createAppointment.Response{
		ID:              101,
		StaffID:         req.StaffID,
		ServiceID:       req.ServiceID,
		ServiceName:     "Haircut",
		StartAt:         start,
		EndAt:           start.Add(30 * time.Minute),
		DurationMinutes: 30,
		Status:          domain.StatusScheduled,
		ClientName:      req.ClientName,
	}, nil
}

const validBody = `{"staffId":7,"serviceId":1,"date":"2026-03-02","startTime":"12:30","clientName":"Maria"}`

func doRequest(t *testing.T, uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(uc, logger.NewNop())
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body)))
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{}
	rec := doRequest(t, uc, validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 12*60+30, uc.got.StartMinute)
	assert.Equal(t, "2026-03-02", uc.got.Date.Format(domain.DateFormat))

	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, "12:30", resp.StartTime)
	assert.Equal(t, "13:00", resp.EndTime)
	assert.Equal(t, "scheduled", resp.Status)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "conflict", err: createAppointment.ErrSlotNotAvailable, status: http.StatusConflict},
		{name: "schedule not loaded", err: scheduling.ErrConfigurationUnavailable, status: http.StatusServiceUnavailable},
		{name: "service missing", err: createAppointment.ErrServiceNotFound, status: http.StatusNotFound},
		{name: "staff missing", err: createAppointment.ErrStaffNotFound, status: http.StatusNotFound},
		{name: "in past", err: createAppointment.ErrStartInPast, status: http.StatusBadRequest},
		{name: "closed day", err: fmt.Errorf("%w: closed", createAppointment.ErrInvalidTimeSlot), status: http.StatusBadRequest},
		{name: "internal", err: createAppointment.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, &fakeUseCase{err: tt.err}, validBody)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_ServiceUnavailableHasRetryAfter(t *testing.T) {
	rec := doRequest(t, &fakeUseCase{err: scheduling.ErrConfigurationUnavailable}, validBody)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestHandle_BadInput(t *testing.T) {
	uc := &fakeUseCase{}

	rec := doRequest(t, uc, `{"staffId":7,"serviceId":1,"date":"02.03.2026","startTime":"12:30","clientName":"Maria"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, uc, `{"staffId":7,"serviceId":1,"date":"2026-03-02","startTime":"12.30","clientName":"Maria"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, uc, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Nil(t, uc.got)
}
