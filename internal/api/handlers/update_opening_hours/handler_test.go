package update_opening_hours

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeService struct {
	got *models.UpdateDayHoursRequest
	err error
}

func (f *fakeService) UpdateDayHours(_ context.Context, req *models.UpdateDayHoursRequest) (*models.DayHoursResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.DayHoursResponse{DayOfWeek: req.DayOfWeek, IsOpen: req.IsOpen, Windows: req.Windows}, nil
}

func serve(svc *fakeService, day, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/opening-hours/{dayOfWeek}", NewHandler(svc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/opening-hours/"+day, strings.NewReader(body)))
	return rec
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "1", `{"isOpen":true,"windows":[{"start":"09:00","end":"13:00"}]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, 1, svc.got.DayOfWeek)
	assert.Equal(t, []models.WindowDTO{{Start: "09:00", End: "13:00"}}, svc.got.Windows)
}

func TestHandle_InvalidDay(t *testing.T) {
	for _, day := range []string{"7", "-1", "mon"} {
		svc := &fakeService{}
		rec := serve(svc, day, `{"isOpen":false}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, day)
		assert.Nil(t, svc.got)
	}
}

func TestHandle_ValidationError(t *testing.T) {
	svc := &fakeService{err: fmt.Errorf("%w: overlapping", schedule.ErrInvalidInput)}
	rec := serve(svc, "2", `{"isOpen":true,"windows":[{"start":"09:00","end":"13:30"},{"start":"13:00","end":"18:00"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
