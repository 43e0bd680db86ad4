package middleware

import "time"

// MetricsCollector интерфейс для сбора HTTP метрик
type MetricsCollector interface {
	ObserveHTTPRequest(method, route, status string, duration time.Duration)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
