package queue

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestConsumerReturnsWhenAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := StartNotificationConsumer(ctx, zerolog.Nop())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConsumerStopsOnCancelDuringReconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- StartNotificationConsumer(ctx, zerolog.Nop()) }()

	// Give the loop time to fail its first dial and park in backoff, then
	// cancel and require a prompt exit.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("consumer kept running after cancel")
	}
}
