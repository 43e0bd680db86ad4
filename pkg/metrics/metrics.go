package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор метрик сервиса
// Все методы безопасно вызывать на nil-получателе: метрики выключены
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal      *prometheus.CounterVec
	dbQueryDuration     *prometheus.HistogramVec
	dbOpenConnections   prometheus.Gauge
	dbInUseConnections  prometheus.Gauge
	dbIdleConnections   prometheus.Gauge
	dbWaitCount         prometheus.Gauge
	dbTransactionsTotal *prometheus.CounterVec

	slotSearchesTotal     *prometheus.CounterVec
	availableSlotsFound   prometheus.Histogram
	bookingConflictsTotal *prometheus.CounterVec
	calendarConflicts     *prometheus.CounterVec
	scheduleReloadsTotal  *prometheus.CounterVec
}

// New создает и регистрирует метрики сервиса в собственном реестре
func New(service string) *Metrics {
	constLabels := prometheus.Labels{"service": service}
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		dbQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),

		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),

		dbOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established database connections",
			ConstLabels: constLabels,
		}),

		dbInUseConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of database connections currently in use",
			ConstLabels: constLabels,
		}),

		dbIdleConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle database connections",
			ConstLabels: constLabels,
		}),

		dbWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}),

		dbTransactionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_transactions_total",
			Help:        "Total number of database transactions by outcome",
			ConstLabels: constLabels,
		}, []string{"status"}),

		slotSearchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_searches_total",
			Help:        "Total number of availability searches by period filter",
			ConstLabels: constLabels,
		}, []string{"period"}),

		availableSlotsFound: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "available_slots_found",
			Help:        "Number of available slots returned per search",
			ConstLabels: constLabels,
			Buckets:     []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),

		bookingConflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_conflicts_total",
			Help:        "Bookings rejected because the slot was taken",
			ConstLabels: constLabels,
		}, []string{"stage"}),

		calendarConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "calendar_conflicts_total",
			Help:        "Inconsistent appointments detected while building the calendar grid",
			ConstLabels: constLabels,
		}, []string{"kind"}),

		scheduleReloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "schedule_reloads_total",
			Help:        "Opening hours and vacation snapshot reloads",
			ConstLabels: constLabels,
		}, []string{"status"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueriesTotal,
		m.dbQueryDuration,
		m.dbOpenConnections,
		m.dbInUseConnections,
		m.dbIdleConnections,
		m.dbWaitCount,
		m.dbTransactionsTotal,
		m.slotSearchesTotal,
		m.availableSlotsFound,
		m.bookingConflictsTotal,
		m.calendarConflicts,
		m.scheduleReloadsTotal,
	)

	return m
}

// Handler возвращает HTTP обработчик для эндпоинта метрик
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry возвращает реестр метрик
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest учитывает обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery учитывает выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueriesTotal.WithLabelValues(operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncDBTransaction учитывает завершенную транзакцию (commit, rollback, error)
func (m *Metrics) IncDBTransaction(status string) {
	if m == nil {
		return
	}
	m.dbTransactionsTotal.WithLabelValues(status).Inc()
}

// SetDBPoolStats обновляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(open, inUse, idle int, waitCount int64) {
	if m == nil {
		return
	}
	m.dbOpenConnections.Set(float64(open))
	m.dbInUseConnections.Set(float64(inUse))
	m.dbIdleConnections.Set(float64(idle))
	m.dbWaitCount.Set(float64(waitCount))
}

// ObserveSlotSearch учитывает поиск свободных слотов и размер результата
func (m *Metrics) ObserveSlotSearch(period string, found int) {
	if m == nil {
		return
	}
	m.slotSearchesTotal.WithLabelValues(period).Inc()
	m.availableSlotsFound.Observe(float64(found))
}

// IncBookingConflict учитывает отклоненное бронирование (stage: validation, constraint)
func (m *Metrics) IncBookingConflict(stage string) {
	if m == nil {
		return
	}
	m.bookingConflictsTotal.WithLabelValues(stage).Inc()
}

// IncCalendarConflict учитывает найденную несогласованность записей
func (m *Metrics) IncCalendarConflict(kind string) {
	if m == nil {
		return
	}
	m.calendarConflicts.WithLabelValues(kind).Inc()
}

// IncScheduleReload учитывает перезагрузку расписания (status: ok, error)
func (m *Metrics) IncScheduleReload(status string) {
	if m == nil {
		return
	}
	m.scheduleReloadsTotal.WithLabelValues(status).Inc()
}
