package live

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/lookout/internal/detection"
	"github.com/five82/lookout/internal/state"
	"github.com/five82/lookout/internal/stream"
)

func recordEvent(id int64, cam string, typ detection.ObjectType) stream.Event {
	return stream.Event{Kind: stream.EventRecord, Record: detection.Record{ID: id, CameraID: cam, ObjectType: typ}}
}

func TestSink_PrependsInArrivalOrder(t *testing.T) {
	var store state.Store
	store.Load([]detection.Record{{ID: 10}}, nil, nil)
	sink := NewSink(&store, 8)

	sink.Handle(context.Background(), recordEvent(1, "CAM001", detection.ObjectPerson))
	sink.Handle(context.Background(), recordEvent(2, "CAM002", detection.ObjectVehicle))

	var got []int64
	for _, r := range store.Snapshot().Detections {
		got = append(got, r.ID)
	}
	if !reflect.DeepEqual(got, []int64{2, 1, 10}) {
		t.Fatalf("working set = %v, want [2 1 10]", got)
	}

	first := <-sink.Notices()
	if first.Text != "New detection: person on CAM001" || first.Level != LevelInfo {
		t.Fatalf("notice = %#v, want person on CAM001", first)
	}
	second := <-sink.Notices()
	if second.Text != "New detection: vehicle on CAM002" {
		t.Fatalf("notice = %q, want vehicle on CAM002", second.Text)
	}
}

func TestSink_IntermediateClosesAreSilent(t *testing.T) {
	var store state.Store
	sink := NewSink(&store, 8)

	sink.Handle(context.Background(), stream.Event{Kind: stream.EventClosed, Err: errors.New("reset"), Attempt: 1})
	sink.Handle(context.Background(), stream.Event{Kind: stream.EventClosed, Intentional: true})

	select {
	case n := <-sink.Notices():
		t.Fatalf("unexpected notice %#v", n)
	default:
	}
}

func TestSink_FailureNoticeIsDeliveredWhenRecordNoticesAreDropped(t *testing.T) {
	var store state.Store
	sink := NewSink(&store, 1)

	sink.Handle(context.Background(), recordEvent(1, "CAM001", detection.ObjectPerson))
	sink.Handle(context.Background(), recordEvent(2, "CAM001", detection.ObjectPerson))
	if got := len(store.Snapshot().Detections); got != 2 {
		t.Fatalf("working set = %d, want 2 (merges never dropped)", got)
	}

	done := make(chan struct{})
	go func() {
		sink.Handle(context.Background(), stream.Event{Kind: stream.EventFailed, Err: errors.New("refused")})
		close(done)
	}()

	if n := <-sink.Notices(); n.Text != "New detection: person on CAM001" {
		t.Fatalf("first notice = %q", n.Text)
	}
	select {
	case n := <-sink.Notices():
		if n.Level != LevelError || n.Text != failureText {
			t.Fatalf("notice = %#v, want failure", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("failure notice not delivered")
	}
	<-done
}

func TestSink_RunStopsOnClosedChannel(t *testing.T) {
	var store state.Store
	sink := NewSink(&store, 8)

	events := make(chan stream.Event, 2)
	events <- recordEvent(5, "CAM004", detection.ObjectAnimal)
	close(events)

	if err := sink.Run(context.Background(), events); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := len(store.Snapshot().Detections); got != 1 {
		t.Fatalf("working set = %d, want 1", got)
	}
}

func TestSink_RunStopsOnCancel(t *testing.T) {
	var store state.Store
	sink := NewSink(&store, 8)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sink.Run(ctx, make(chan stream.Event)); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
}
