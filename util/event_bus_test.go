// util/event_bus_test.go
package util_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logger "github.com/revguard/api/logging"
	"github.com/revguard/api/util"
)

// Audit mirror handlers are published with the request context and keep
// running after the response is written. Cancelling the publisher's context
// must not cancel the handler's.
func TestPublishDetachesHandlersFromCallerContext(t *testing.T) {
	logger.InitTestLogger()
	bus := util.NewEventBus()

	handlerErr := make(chan error, 1)
	bus.Subscribe("entry.recorded", func(ctx context.Context, event util.Event) error {
		handlerErr <- ctx.Err()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // the request is already over when the handler runs
	bus.Publish(ctx, "entry.recorded", "payload")

	select {
	case err := <-handlerErr:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}
}

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	logger.InitTestLogger()
	bus := util.NewEventBus()

	received := make(chan util.Event, 2)
	handler := func(ctx context.Context, event util.Event) error {
		received <- event
		return nil
	}
	bus.Subscribe("entry.recorded", handler)
	bus.Subscribe("entry.recorded", handler)

	bus.Publish(context.Background(), "entry.recorded", "payload")

	for i := 0; i < 2; i++ {
		select {
		case event := <-received:
			require.Equal(t, "entry.recorded", event.Type)
			assert.Equal(t, "payload", event.Payload)
		case <-time.After(2 * time.Second):
			t.Fatal("subscriber never received the event")
		}
	}
}
