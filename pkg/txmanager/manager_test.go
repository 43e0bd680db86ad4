package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

type fakeTx struct {
	dbmetrics.DBExecutor
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	opts     *sql.TxOptions
	begins   int
	beginErr error
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.begins++
	b.opts = opts
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx, nil
}

func TestDoSerializable_CommitsOnSuccess(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(beginner)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, beginner.tx.committed)
	assert.False(t, beginner.tx.rolledBack)
	assert.Equal(t, sql.LevelSerializable, beginner.opts.Isolation)
}

func TestDo_RollsBackOnError(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(beginner)
	fnErr := errors.New("slot taken")

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return fnErr
	})

	assert.ErrorIs(t, err, fnErr)
	assert.True(t, beginner.tx.rolledBack)
	assert.False(t, beginner.tx.committed)
}

func TestDo_NestedCallReusesTransaction(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(beginner)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoReadOnly(ctx, func(ctx context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Equal(t, 1, beginner.begins)
}

func TestDoReadOnly_DisallowsRowLocks(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(beginner)

	err := m.DoReadOnly(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		assert.False(t, dbmetrics.CanLockRows(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, beginner.opts.ReadOnly)
}

func TestDo_WrapsBeginAndCommitErrors(t *testing.T) {
	m := NewTransactionManager(&fakeBeginner{beginErr: errors.New("conn refused")})
	err := m.Do(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrBeginTx)

	m = NewTransactionManager(&fakeBeginner{tx: &fakeTx{commitErr: errors.New("serialization failure")}})
	err = m.Do(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrCommitTx)
}

func TestDo_RollsBackOnPanic(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(beginner)

	assert.Panics(t, func() {
		_ = m.Do(context.Background(), func(ctx context.Context) error {
			panic("boom")
		})
	})
	assert.True(t, beginner.tx.rolledBack)
}
