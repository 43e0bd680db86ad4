package appointment

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const (
	// pgExclusionViolation SQLSTATE нарушения EXCLUDE-ограничения
	pgExclusionViolation = "23P01"
	// pgSerializationFailure SQLSTATE конфликта сериализуемых транзакций
	pgSerializationFailure = "40001"
)

// isExclusionViolation проверяет, что запрос отклонен ограничением appointments_no_overlap
func isExclusionViolation(err error) bool {
	return hasCode(err, pgExclusionViolation)
}

// IsSerializationFailure проверяет, что транзакция отменена из-за конкурентной записи.
// Для записи на прием это означает, что слот занят параллельным запросом.
// Postgres может вернуть 40001 на любом запросе транзакции, а не только на COMMIT
func IsSerializationFailure(err error) bool {
	return errors.Is(err, ErrSerializationFailure) || hasCode(err, pgSerializationFailure)
}

// wrapQueryError оборачивает ошибку драйвера в sentinel, сохраняя признак 40001
func wrapQueryError(sentinel error, method, step string, err error) error {
	if hasCode(err, pgSerializationFailure) {
		sentinel = ErrSerializationFailure
	}
	return fmt.Errorf("%w: %s - %s: %v", sentinel, method, step, err)
}

func hasCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == code
	}
	return false
}
