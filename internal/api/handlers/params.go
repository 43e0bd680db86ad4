package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ErrMissingParam возвращается, когда обязательный параметр не передан
var ErrMissingParam = errors.New("missing parameter")

// PathInt64 читает целочисленную переменную пути
func PathInt64(r *http.Request, name string) (int64, error) {
	raw, ok := mux.Vars(r)[name]
	if !ok || raw == "" {
		return 0, fmt.Errorf("%w: %s", ErrMissingParam, name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

// QueryInt64 читает обязательный целочисленный query параметр
func QueryInt64(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s", ErrMissingParam, name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

// OptionalQueryInt64 читает необязательный целочисленный query параметр; nil, если не передан
func OptionalQueryInt64(r *http.Request, name string) (*int64, error) {
	if r.URL.Query().Get(name) == "" {
		return nil, nil
	}
	id, err := QueryInt64(r, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// QueryDateRange читает from (обязателен) и to (по умолчанию равен from) в формате YYYY-MM-DD.
// Обе даты включительно
func QueryDateRange(r *http.Request) (from, to time.Time, err error) {
	query := r.URL.Query()

	fromRaw := query.Get("from")
	if fromRaw == "" {
		fromRaw = query.Get("date")
	}
	if fromRaw == "" {
		return from, to, fmt.Errorf("%w: from", ErrMissingParam)
	}
	from, err = time.Parse(domain.DateFormat, fromRaw)
	if err != nil {
		return from, to, fmt.Errorf("invalid from: %q", fromRaw)
	}

	toRaw := query.Get("to")
	if toRaw == "" {
		return from, from, nil
	}
	to, err = time.Parse(domain.DateFormat, toRaw)
	if err != nil {
		return from, to, fmt.Errorf("invalid to: %q", toRaw)
	}
	return from, to, nil
}

// QueryBool читает флаг; пустое значение равно false
func QueryBool(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
