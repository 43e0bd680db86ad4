package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

const defaultStatsInterval = 15 * time.Second

// Collector приемник метрик БД (*metrics.Metrics)
type Collector interface {
	ObserveDBQuery(operation, status string, duration time.Duration)
	IncDBTransaction(status string)
	SetDBPoolStats(open, inUse, idle int, waitCount int64)
}

// DB обёртка над *sql.DB, которая снимает метрики с каждого запроса
type DB struct {
	db      *sql.DB
	metrics Collector
	service string
}

// Wrap оборачивает соединение. metrics может быть nil: тогда запросы выполняются без учета
func Wrap(db *sql.DB, metrics Collector, service string) *DB {
	return &DB{db: db, metrics: metrics, service: service}
}

// WrapWithDefault оборачивает соединение и запускает сбор статистики пула
// до закрытия stopCh
func WrapWithDefault(db *sql.DB, metrics Collector, service string, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, metrics, service)
	if metrics != nil {
		go wrapped.collectPoolStats(defaultStatsInterval, stopCh)
	}
	return wrapped
}

// Unwrap возвращает исходное соединение
func (d *DB) Unwrap() *sql.DB {
	return d.db
}

// ExecContext выполняет запрос без результата
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.observe(query, err, start)
	return res, err
}

// QueryContext выполняет запрос, возвращающий строки
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe(query, err, start)
	return rows, err
}

// QueryRowContext выполняет запрос, возвращающий одну строку
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.observe(query, row.Err(), start)
	return row
}

// BeginTx начинает транзакцию
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		if d.metrics != nil {
			d.metrics.IncDBTransaction("error")
		}
		return nil, err
	}
	return &Tx{tx: tx, parent: d}, nil
}

// PingContext проверяет соединение
func (d *DB) PingContext(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DB) observe(query string, err error, start time.Time) {
	if d.metrics == nil {
		return
	}
	status := "ok"
	if err != nil && err != sql.ErrNoRows {
		status = "error"
	}
	d.metrics.ObserveDBQuery(operationName(query), status, time.Since(start))
}

func (d *DB) collectPoolStats(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			stats := d.db.Stats()
			d.metrics.SetDBPoolStats(stats.OpenConnections, stats.InUse, stats.Idle, stats.WaitCount)
		}
	}
}

// Tx транзакция с учетом метрик
type Tx struct {
	tx     *sql.Tx
	parent *DB
}

// ExecContext выполняет запрос внутри транзакции
func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.parent.observe(query, err, start)
	return res, err
}

// QueryContext выполняет запрос внутри транзакции
func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.parent.observe(query, err, start)
	return rows, err
}

// QueryRowContext выполняет запрос внутри транзакции
func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.parent.observe(query, row.Err(), start)
	return row
}

// Commit фиксирует транзакцию
func (t *Tx) Commit() error {
	err := t.tx.Commit()
	if t.parent.metrics != nil {
		if err != nil {
			t.parent.metrics.IncDBTransaction("error")
		} else {
			t.parent.metrics.IncDBTransaction("commit")
		}
	}
	return err
}

// Rollback откатывает транзакцию
func (t *Tx) Rollback() error {
	err := t.tx.Rollback()
	if t.parent.metrics != nil && err != sql.ErrTxDone {
		t.parent.metrics.IncDBTransaction("rollback")
	}
	return err
}

// operationName возвращает тип запроса (select, insert, ...) по первому слову
func operationName(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	op := strings.ToLower(fields[0])
	switch op {
	case "select", "insert", "update", "delete", "with":
		return op
	}
	return "other"
}
