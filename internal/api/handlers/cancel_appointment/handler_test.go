package cancel_appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeService struct {
	id     int64
	reason *string
	err    error
}

func (f *fakeService) Cancel(_ context.Context, id int64, req *models.CancelRequest) error {
	f.id = id
	f.reason = req.CancellationReason
	return f.err
}

func serve(svc *fakeService, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/appointments/{appointmentId}/cancel", NewHandler(svc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/5/cancel", strings.NewReader(body)))
	return rec
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, `{"cancellationReason":"sick"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(5), svc.id)
	require.NotNil(t, svc.reason)
	assert.Equal(t, "sick", *svc.reason)
}

func TestHandle_EmptyBody(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, svc.reason)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: appointments.ErrAppointmentNotFound}, "").Code)
	assert.Equal(t, http.StatusConflict, serve(&fakeService{err: appointments.ErrCannotCancel}, "").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: appointments.ErrInternal}, "").Code)
}
