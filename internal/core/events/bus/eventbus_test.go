package bus

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObserver struct {
	publishCount   int
	deliveredCount int
	lastErr        error
}

func (o *testObserver) OnPublish(_, _ string, _ Event) {
	o.publishCount++
}

func (o *testObserver) OnDelivered(_, _ string, handlers int, err error, _ int64) {
	o.deliveredCount += handlers
	o.lastErr = err
}

func TestBasicPublishSubscribe(t *testing.T) {
	b := New()
	var got Event
	_, err := b.SubscribeTopic("t", "test.event", func(e Event) error {
		got = e
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, b.PublishToTopic("t", NewEvent("test.event", "tester", 123)))

	require.NotNil(t, got)
	assert.Equal(t, "tester", got.Source())
	assert.Equal(t, 123, got.Data())
}

func TestTopicsIsolation(t *testing.T) {
	b := New()
	count1, count2 := 0, 0
	_, _ = b.SubscribeTopic("t1", "ev", func(e Event) error { count1++; return nil })
	_, _ = b.SubscribeTopic("t2", "ev", func(e Event) error { count2++; return nil })
	_ = b.PublishToTopic("t1", NewEvent("ev", "src", nil))

	assert.Equal(t, 1, count1)
	assert.Equal(t, 0, count2)
}

func TestAnyTypeReceivesEveryEventOfTopic(t *testing.T) {
	b := New()
	var types []string
	_, _ = b.SubscribeTopic("map:1", AnyType, func(e Event) error {
		types = append(types, e.Type())
		return nil
	})

	_ = b.PublishToTopic("map:1", NewEvent("a", "src", nil))
	_ = b.PublishToTopic("map:1", NewEvent("b", "src", nil))
	_ = b.PublishToTopic("map:2", NewEvent("c", "src", nil))

	assert.Equal(t, []string{"a", "b"}, types)
}

func TestCancelledSubscriptionStopsDelivery(t *testing.T) {
	b := New()
	count := 0
	sub, err := b.SubscribeTopic("t", "ev", func(e Event) error { count++; return nil })
	require.NoError(t, err)
	assert.True(t, sub.IsActive())

	_ = b.PublishToTopic("t", NewEvent("ev", "src", nil))
	require.NoError(t, b.Unsubscribe(sub))
	require.NoError(t, sub.Cancel())
	_ = b.PublishToTopic("t", NewEvent("ev", "src", nil))

	assert.Equal(t, 1, count)
	assert.False(t, sub.IsActive())
	assert.NoError(t, b.Unsubscribe(nil))
}

func TestHandlerErrorsAreJoined(t *testing.T) {
	b := New()
	errA := errors.New("a")
	errB := errors.New("b")
	_, _ = b.SubscribeTopic("t", "ev", func(e Event) error { return errA })
	_, _ = b.SubscribeTopic("t", AnyType, func(e Event) error { return errB })

	err := b.PublishToTopic("t", NewEvent("ev", "src", nil))
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestObserverMetricsOptional(t *testing.T) {
	b := New()
	_, _ = b.SubscribeTopic("t", "e", func(e Event) error { return nil })
	_ = b.PublishToTopic("t", NewEvent("e", "s", nil))
	assert.Zero(t, b.GetMetrics().Published)

	obs := &testObserver{}
	b.AddObserver(obs)
	_ = b.PublishToTopic("t", NewEvent("e", "s", nil))

	m := b.GetMetrics()
	assert.Equal(t, uint64(1), m.Published)
	assert.Equal(t, uint64(1), m.DeliveredHandlers)
	assert.Equal(t, uint64(1), m.SubscribersActive)
	assert.Equal(t, uint64(1), m.Topics)
	assert.Equal(t, 1, obs.publishCount)
	assert.Equal(t, 1, obs.deliveredCount)

	b.RemoveObserver(obs)
	_ = b.PublishToTopic("t", NewEvent("e", "s", nil))
	assert.Equal(t, 1, obs.publishCount)
}

func TestObserverSeesErrors(t *testing.T) {
	b := New()
	boom := errors.New("boom")
	_, _ = b.SubscribeTopic("t", "e", func(e Event) error { return boom })
	obs := &testObserver{}
	b.AddObserver(obs)

	require.ErrorIs(t, b.PublishToTopic("t", NewEvent("e", "s", nil)), boom)

	assert.ErrorIs(t, obs.lastErr, boom)
	assert.Equal(t, uint64(1), b.GetMetrics().Errors)
}

func TestGetTopics(t *testing.T) {
	b := New()
	_, _ = b.SubscribeTopic("tb", "x", func(Event) error { return nil })
	_, _ = b.SubscribeTopic("tb", "y", func(Event) error { return nil })
	sub, _ := b.SubscribeTopic("ta", "x", func(Event) error { return nil })
	require.NoError(t, sub.Cancel())

	assert.Equal(t, []TopicInfo{
		{Name: "ta"},
		{Name: "tb", EventTypes: 2, Subs: 2},
	}, b.GetTopics())
}

// Run with -race: cancellation happens on other goroutines while publishes
// are delivering.
func TestConcurrentUnsubscribeAndPublish(t *testing.T) {
	b := New()
	obs := &countingObserver{}
	b.AddObserver(obs)

	const n = 50
	var delivered atomic.Int64
	subs := make([]Subscription, n)
	for i := range subs {
		sub, err := b.SubscribeTopic(fmt.Sprintf("map:%d", i%5), AnyType, func(Event) error {
			delivered.Add(1)
			return nil
		})
		require.NoError(t, err)
		subs[i] = sub
	}

	var wg sync.WaitGroup
	for i, sub := range subs {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = b.PublishToTopic(fmt.Sprintf("map:%d", i%5), NewEvent("ev", "src", i))
		}()
		go func() {
			defer wg.Done()
			_ = b.Unsubscribe(sub)
			_ = b.GetTopics()
		}()
	}
	wg.Wait()

	for _, sub := range subs {
		assert.False(t, sub.IsActive())
	}
	before := delivered.Load()
	_ = b.PublishToTopic("map:0", NewEvent("ev", "src", nil))
	assert.Equal(t, before, delivered.Load())
	assert.Zero(t, b.GetMetrics().SubscribersActive)
	assert.Equal(t, int64(n+1), obs.published.Load())
	assert.Equal(t, int64(n+1), obs.delivered.Load())
}

type countingObserver struct {
	published atomic.Int64
	delivered atomic.Int64
}

func (o *countingObserver) OnPublish(string, string, Event)               { o.published.Add(1) }
func (o *countingObserver) OnDelivered(string, string, int, error, int64) { o.delivered.Add(1) }
