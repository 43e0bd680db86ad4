package appointment

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestPQErrorCodes(t *testing.T) {
	exclusion := &pq.Error{Code: "23P01", Constraint: "appointments_no_overlap"}
	serialization := &pq.Error{Code: "40001"}

	assert.True(t, isExclusionViolation(exclusion))
	assert.True(t, isExclusionViolation(fmt.Errorf("wrapped: %w", exclusion)))
	assert.False(t, isExclusionViolation(serialization))
	assert.False(t, isExclusionViolation(errors.New("23P01")))
	assert.False(t, isExclusionViolation(nil))

	assert.True(t, IsSerializationFailure(fmt.Errorf("commit: %w", serialization)))
	assert.False(t, IsSerializationFailure(exclusion))
}

func TestWrapQueryError_KeepsSerializationFailure(t *testing.T) {
	serialization := &pq.Error{Code: "40001"}

	err := wrapQueryError(ErrExecQuery, "Create", "execute insert", serialization)
	assert.ErrorIs(t, err, ErrSerializationFailure)
	assert.NotErrorIs(t, err, ErrExecQuery)
	assert.True(t, IsSerializationFailure(err))

	assert.True(t, IsSerializationFailure(fmt.Errorf("tx: %w", err)))

	other := wrapQueryError(ErrExecQuery, "Create", "execute insert", errors.New("connection reset"))
	assert.ErrorIs(t, other, ErrExecQuery)
	assert.False(t, IsSerializationFailure(other))
}
