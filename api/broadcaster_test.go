package api_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avrlang/rpnc/api"
)

func TestBroadcaster_PublishesToSubscribers(t *testing.T) {
	b := api.NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe()
	defer b.Unsubscribe(sub)

	b.Publish(api.Event{Phase: api.PhaseLexed, Line: 1})

	select {
	case evt := <-sub.Channel:
		assert.Equal(t, api.PhaseLexed, evt.Phase)
		assert.Equal(t, 1, evt.Line)
	case <-time.After(time.Second):
		t.Fatal("expected to receive the published event")
	}
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := api.NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe()
	b.Unsubscribe(sub)

	select {
	case _, ok := <-sub.Channel:
		assert.False(t, ok, "channel should be closed after unsubscribe")
	case <-time.After(time.Second):
		t.Fatal("expected the channel to close")
	}
}

func TestBroadcaster_CloseDisconnectsAllClients(t *testing.T) {
	b := api.NewBroadcaster()
	sub := b.Subscribe()
	b.Close()

	select {
	case _, ok := <-sub.Channel:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected the channel to close on shutdown")
	}
}

func TestBroadcaster_MultipleSubscribersAllReceive(t *testing.T) {
	b := api.NewBroadcaster()
	defer b.Close()

	subA := b.Subscribe()
	subB := b.Subscribe()
	defer b.Unsubscribe(subA)
	defer b.Unsubscribe(subB)

	b.Publish(api.Event{Phase: api.PhaseCodegen})

	for _, sub := range []*api.Subscription{subA, subB} {
		select {
		case evt := <-sub.Channel:
			assert.Equal(t, api.PhaseCodegen, evt.Phase)
		case <-time.After(time.Second):
			t.Fatal("expected both subscribers to receive the event")
		}
	}
}
