package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidator_PublishSubscribe(t *testing.T) {
	inv := NewInvalidator()
	ctx, cancel := context.WithCancel(context.Background())

	first, err := inv.Subscribe(ctx)
	require.NoError(t, err)
	second, err := inv.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, inv.Publish(context.Background(), "instance-a"))

	assert.Equal(t, "instance-a", <-first)
	assert.Equal(t, "instance-a", <-second)

	cancel()
	require.Eventually(t, func() bool {
		_, ok := <-first
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInvalidator_PublishWithoutSubscribers(t *testing.T) {
	assert.NoError(t, NewInvalidator().Publish(context.Background(), "x"))
}
