package eventbus

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/corazon/textcore/internal/logging"
)

// DefaultQueueDepth is the per-subscription async queue capacity used
// when Subscribe's caller does not override it.
const DefaultQueueDepth = 64

// Bus is the central event bus: publishers hand it events by topic;
// subscribers register a pattern and a handler.
type Bus struct {
	mu     sync.RWMutex
	subs   []*Subscription
	nextID atomic.Uint64
	log    zerolog.Logger

	published atomic.Uint64
	delivered atomic.Uint64
}

// New creates an empty Bus. A zero Logger defaults to the package logger.
func New(log zerolog.Logger) *Bus {
	return &Bus{log: fallbackLogger(log)}
}

func fallbackLogger(log zerolog.Logger) zerolog.Logger {
	if (log == zerolog.Logger{}) {
		return logging.Logger
	}
	return log
}

// Subscribe registers handler against pattern with the default async
// queue depth. Matching events published via PublishAsync are delivered
// on the subscription's own worker goroutine.
func (b *Bus) Subscribe(pattern Topic, handler Handler) (*Subscription, error) {
	return b.SubscribeQueue(pattern, handler, DefaultQueueDepth)
}

// SubscribeQueue is Subscribe with an explicit async queue depth.
func (b *Bus) SubscribeQueue(pattern Topic, handler Handler, queueDepth int) (*Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	sub := newSubscription(b.nextID.Add(1), pattern, handler, queueDepth)
	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	return sub, nil
}

// Unsubscribe removes a subscription and stops its worker.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			break
		}
	}
	b.mu.Unlock()
	sub.close()
}

// topicOf extracts the routing topic from an event payload.
func topicOf(event any) (Topic, bool) {
	tp, ok := event.(TopicProvider)
	if !ok {
		return "", false
	}
	return tp.EventTopic(), true
}

// PublishSync delivers event to every matching subscriber's handler on
// the calling goroutine, in subscription order. Use only for cheap
// handlers (metrics, logging); anything that might block belongs behind
// PublishAsync instead.
func (b *Bus) PublishSync(event any) {
	topic, ok := topicOf(event)
	if !ok {
		b.log.Warn().Msg("eventbus: published event has no topic, dropped")
		return
	}
	b.published.Add(1)
	for _, sub := range b.matching(topic) {
		sub.handler(event)
		b.delivered.Add(1)
	}
}

// PublishAsync hands event to every matching subscriber's own queue and
// returns without waiting for any handler to run, so a publisher on the
// commit path never blocks on downstream consumers. A subscriber whose
// queue is full drops the event (see Subscription.Dropped).
func (b *Bus) PublishAsync(event any) {
	topic, ok := topicOf(event)
	if !ok {
		b.log.Warn().Msg("eventbus: published event has no topic, dropped")
		return
	}
	b.published.Add(1)
	for _, sub := range b.matching(topic) {
		sub.enqueue(event)
		b.delivered.Add(1)
	}
}

func (b *Bus) matching(topic Topic) []*Subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.pattern.Matches(topic) {
			out = append(out, s)
		}
	}
	return out
}

// Stats reports coarse bus-wide counters.
type Stats struct {
	Published uint64
	Delivered uint64
}

func (b *Bus) Stats() Stats {
	return Stats{Published: b.published.Load(), Delivered: b.delivered.Load()}
}
