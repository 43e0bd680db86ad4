package scheduling

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// IntervalsOverlap проверяет пересечение полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd).
// Интервалы, которые только касаются границами, не пересекаются.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Overlaps проверяет, пересекается ли кандидат [candStart, candEnd) с какой-либо
// неотмененной записью мастера staffID
func Overlaps(candStart, candEnd time.Time, staffID int64, appointments []*domain.Appointment) bool {
	return len(findOverlapping(candStart, candEnd, staffID, 0, appointments)) > 0
}

// OverlapsExcluding то же, что Overlaps, но игнорирует запись excludeID (перенос записи)
func OverlapsExcluding(candStart, candEnd time.Time, staffID, excludeID int64, appointments []*domain.Appointment) bool {
	return len(findOverlapping(candStart, candEnd, staffID, excludeID, appointments)) > 0
}

// FindOverlapping возвращает неотмененные записи мастера, пересекающиеся с кандидатом
func FindOverlapping(candStart, candEnd time.Time, staffID int64, appointments []*domain.Appointment) []*domain.Appointment {
	return findOverlapping(candStart, candEnd, staffID, 0, appointments)
}

func findOverlapping(candStart, candEnd time.Time, staffID, excludeID int64, appointments []*domain.Appointment) []*domain.Appointment {
	var result []*domain.Appointment
	for _, appt := range staffAppointments(staffID, excludeID, appointments) {
		if IntervalsOverlap(candStart, candEnd, appt.StartAt, appt.EffectiveEnd()) {
			result = append(result, appt)
		}
	}
	return result
}

// staffAppointments отбирает неотмененные записи мастера один раз на весь поиск
func staffAppointments(staffID, excludeID int64, appointments []*domain.Appointment) []*domain.Appointment {
	result := make([]*domain.Appointment, 0, len(appointments))
	for _, appt := range appointments {
		if appt == nil || appt.StaffID != staffID || !appt.OccupiesSlot() {
			continue
		}
		if excludeID != 0 && appt.ID == excludeID {
			continue
		}
		result = append(result, appt)
	}
	return result
}
