package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/corazon/textcore/internal/document"
	"github.com/corazon/textcore/internal/logging"
)

func TestPublishSyncDeliversToMatchingSubscribers(t *testing.T) {
	b := New(logging.Discard())

	var got []EditEvent
	var mu sync.Mutex
	_, err := b.Subscribe("doc.*", func(ev any) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ev.(EditEvent))
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	b.PublishSync(EditEvent{DocID: document.Id(1), PreVersion: 0, PostVersion: 1})

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0].DocID != document.Id(1) {
		t.Fatalf("expected one delivered event, got %#v", got)
	}
}

func TestPublishAsyncDoesNotBlockPublisher(t *testing.T) {
	b := New(logging.Discard())

	release := make(chan struct{})
	received := make(chan struct{}, 1)
	_, err := b.Subscribe("doc.edit", func(ev any) {
		<-release
		received <- struct{}{}
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	done := make(chan struct{})
	go func() {
		b.PublishAsync(EditEvent{DocID: document.Id(1)})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("PublishAsync blocked on a stalled handler")
	}
	close(release)
	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("handler never ran after release")
	}
}

func TestTopicWildcardMatching(t *testing.T) {
	cases := []struct {
		pattern Topic
		topic   Topic
		want    bool
	}{
		{"doc.edit", "doc.edit", true},
		{"doc.*", "doc.edit", true},
		{"doc.*", "doc.edit.extra", false},
		{"doc.**", "doc.edit.extra", true},
		{"syntax.*", "doc.edit", false},
	}
	for _, c := range cases {
		if got := c.pattern.Matches(c.topic); got != c.want {
			t.Errorf("Topic(%q).Matches(%q) = %v, want %v", c.pattern, c.topic, got, c.want)
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New(logging.Discard())
	count := 0
	var mu sync.Mutex
	sub, _ := b.Subscribe("doc.edit", func(ev any) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	b.PublishSync(EditEvent{})
	b.Unsubscribe(sub)
	b.PublishSync(EditEvent{})

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Fatalf("expected 1 delivery before unsubscribe, got %d", count)
	}
}
