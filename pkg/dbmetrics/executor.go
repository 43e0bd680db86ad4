package dbmetrics

import (
	"context"
	"database/sql"
)

// DBExecutor общий интерфейс для *sql.DB, *sql.Tx и обёрток этого пакета
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor транзакция, через которую выполняются запросы
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

type txKey struct{}

type txState struct {
	tx       TxExecutor
	readOnly bool
}

// WithTx кладет транзакцию в контекст
func WithTx(ctx context.Context, tx TxExecutor) context.Context {
	return context.WithValue(ctx, txKey{}, txState{tx: tx})
}

// WithReadOnlyTx кладет в контекст транзакцию только для чтения
func WithReadOnlyTx(ctx context.Context, tx TxExecutor) context.Context {
	return context.WithValue(ctx, txKey{}, txState{tx: tx, readOnly: true})
}

// TxFromContext возвращает транзакцию из контекста, если она есть
func TxFromContext(ctx context.Context) (TxExecutor, bool) {
	state, ok := ctx.Value(txKey{}).(txState)
	return state.tx, ok && state.tx != nil
}

// IsInTransaction проверяет, выполняется ли код внутри транзакции
func IsInTransaction(ctx context.Context) bool {
	_, ok := TxFromContext(ctx)
	return ok
}

// CanLockRows проверяет, что код выполняется в транзакции, где допустим SELECT ... FOR UPDATE
func CanLockRows(ctx context.Context) bool {
	state, ok := ctx.Value(txKey{}).(txState)
	return ok && state.tx != nil && !state.readOnly
}

// GetExecutor возвращает транзакцию из контекста или db, если транзакции нет
func GetExecutor(ctx context.Context, db DBExecutor) DBExecutor {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return db
}
