package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.From.IsZero() {
		return fmt.Errorf("%w: from date is required", ErrInvalidInput)
	}

	if !req.To.IsZero() && req.To.Before(req.From) {
		return fmt.Errorf("%w: to date is before from date", ErrInvalidInput)
	}

	if _, err := scheduling.ParsePeriod(string(req.Period)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return nil
}

// buildRange переводит включительные даты запроса в полуоткрытый диапазон в часовом поясе заведения
func buildRange(from, to time.Time, loc *time.Location, maxDays int) (scheduling.DateRange, error) {
	if to.IsZero() {
		to = from
	}

	start := domain.DateIn(from, loc)
	end := domain.DateIn(to, loc).AddDate(0, 0, 1)

	rng, err := scheduling.NewDateRange(start, end)
	if err != nil {
		return scheduling.DateRange{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if maxDays > 0 && rng.Len() > maxDays {
		return scheduling.DateRange{}, fmt.Errorf("%w: %d days requested, at most %d allowed",
			ErrRangeTooLarge, rng.Len(), maxDays)
	}

	return rng, nil
}
