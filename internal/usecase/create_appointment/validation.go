package create_appointment

import (
	"errors"
	"fmt"
	"strings"

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

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartMinute < 0 || req.StartMinute >= domain.MinutesPerDay {
		return fmt.Errorf("%w: start time is out of range", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ClientName) == "" {
		return fmt.Errorf("%w: clientName is required", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// mapValidationError переводит ошибки движка в ошибки use case
func mapValidationError(err error) error {
	switch {
	case errors.Is(err, scheduling.ErrSlotConflict):
		return ErrSlotNotAvailable
	case errors.Is(err, scheduling.ErrConfigurationUnavailable):
		return err
	case errors.Is(err, scheduling.ErrDayClosed),
		errors.Is(err, scheduling.ErrVacation),
		errors.Is(err, scheduling.ErrNotAligned),
		errors.Is(err, scheduling.ErrOutsideWorkingHours):
		return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	case errors.Is(err, scheduling.ErrInvalidDuration),
		errors.Is(err, scheduling.ErrStaffRequired):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: validate booking: %v", ErrInternal, err)
	}
}
