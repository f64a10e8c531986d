package event

import (
	"testing"
	"time"
)

func TestDispatchOrderFollowsSubscription(t *testing.T) {
	d := NewDispatcher()
	var order []string
	d.Subscribe(func(Notice) { order = append(order, "first") })
	d.Subscribe(func(Notice) { order = append(order, "second") })
	d.Subscribe(func(Notice) { order = append(order, "third") })

	d.Dispatch(Notice{Type: TypeDayChanged, Timestamp: time.Now()})

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("delivered to %d subscribers, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("delivery order %v, want %v", order, want)
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	d := NewDispatcher()
	kept, removed := 0, 0
	d.Subscribe(func(Notice) { kept++ })
	unsubscribe := d.Subscribe(func(Notice) { removed++ })

	d.Dispatch(Notice{Type: TypeShiftStarted})
	unsubscribe()
	d.Dispatch(Notice{Type: TypeShiftEnded})

	if kept != 2 {
		t.Fatalf("kept subscriber saw %d notices, want 2", kept)
	}
	if removed != 1 {
		t.Fatalf("removed subscriber saw %d notices, want 1", removed)
	}
	if d.SubscriberCount() != 1 {
		t.Fatalf("subscriber count = %d, want 1", d.SubscriberCount())
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	d := NewDispatcher()
	unsubscribe := d.Subscribe(func(Notice) {})
	unsubscribe()
	unsubscribe()
	if d.SubscriberCount() != 0 {
		t.Fatalf("subscriber count = %d, want 0", d.SubscriberCount())
	}
}

func TestNilHandlerIgnored(t *testing.T) {
	d := NewDispatcher()
	unsubscribe := d.Subscribe(nil)
	if d.SubscriberCount() != 0 {
		t.Fatalf("subscriber count = %d, want 0", d.SubscriberCount())
	}
	unsubscribe()
	d.Dispatch(Notice{Type: TypeCampaignOver})
}

func TestSelfUnsubscribeDuringDispatchKeepsOrder(t *testing.T) {
	d := NewDispatcher()
	var deliveries []string

	var unsubscribeFirst func()
	unsubscribeFirst = d.Subscribe(func(Notice) {
		deliveries = append(deliveries, "first")
		unsubscribeFirst()
	})
	d.Subscribe(func(Notice) { deliveries = append(deliveries, "second") })
	d.Subscribe(func(Notice) { deliveries = append(deliveries, "third") })

	d.Dispatch(Notice{Type: TypeShiftStarted})

	want := []string{"first", "second", "third"}
	if len(deliveries) != len(want) {
		t.Fatalf("deliveries = %v, want %v", deliveries, want)
	}
	for i := range want {
		if deliveries[i] != want[i] {
			t.Fatalf("deliveries = %v, want %v", deliveries, want)
		}
	}

	if d.SubscriberCount() != 2 {
		t.Fatalf("subscriber count = %d, want 2 after self-removal", d.SubscriberCount())
	}
	d.Dispatch(Notice{Type: TypeShiftEnded})
	if got := len(deliveries); got != 5 {
		t.Fatalf("deliveries after second dispatch = %d, want 5", got)
	}
}

func TestSubscribeDuringDispatchSkipsCurrentNotice(t *testing.T) {
	d := NewDispatcher()
	lateDeliveries := 0
	d.Subscribe(func(Notice) {
		d.Subscribe(func(Notice) { lateDeliveries++ })
	})

	d.Dispatch(Notice{Type: TypeShiftStarted})
	if lateDeliveries != 0 {
		t.Fatalf("late subscriber saw %d notices during its own registration dispatch, want 0", lateDeliveries)
	}

	d.Dispatch(Notice{Type: TypeShiftEnded})
	if lateDeliveries != 1 {
		t.Fatalf("late subscriber saw %d notices, want 1", lateDeliveries)
	}
}
