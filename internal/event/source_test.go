package event

import (
	"errors"
	"testing"
	"time"
)

func TestChanSourceOrder(t *testing.T) {
	src := NewChanSource(8)

	want := []Event{
		KeyEvent(KeyRune, 'a', ModNone),
		KeyEvent(KeyRune, 'b', ModNone),
		ResizeEvent(40, 10),
	}
	for _, ev := range want {
		if err := src.Post(ev); err != nil {
			t.Fatalf("Post: %v", err)
		}
	}

	stop := make(chan struct{})
	for i, wantEv := range want {
		got, err := src.Next(stop)
		if err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
		if got != wantEv {
			t.Errorf("event %d = %+v, want %+v", i, got, wantEv)
		}
	}
}

func TestChanSourceQueueFull(t *testing.T) {
	src := NewChanSource(1)

	if err := src.Post(TickEvent(time.Now())); err != nil {
		t.Fatalf("first Post: %v", err)
	}
	if err := src.Post(TickEvent(time.Now())); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Post on full queue = %v, want ErrQueueFull", err)
	}
}

func TestChanSourceDrainsAfterClose(t *testing.T) {
	src := NewChanSource(4)
	_ = src.Post(KeyEvent(KeyRune, 'x', ModNone))
	src.Close()

	if err := src.Post(KeyEvent(KeyRune, 'y', ModNone)); !errors.Is(err, ErrSourceClosed) {
		t.Errorf("Post after close = %v, want ErrSourceClosed", err)
	}

	stop := make(chan struct{})
	ev, err := src.Next(stop)
	if err != nil {
		t.Fatalf("Next should drain queued event, got %v", err)
	}
	if ev.Rune != 'x' {
		t.Errorf("drained rune = %q, want 'x'", ev.Rune)
	}

	if _, err := src.Next(stop); !errors.Is(err, ErrSourceClosed) {
		t.Errorf("Next on drained closed source = %v, want ErrSourceClosed", err)
	}
}

func TestChanSourceStop(t *testing.T) {
	src := NewChanSource(1)
	stop := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := src.Next(stop)
		done <- err
	}()

	close(stop)
	select {
	case err := <-done:
		if !errors.Is(err, ErrSourceClosed) {
			t.Errorf("Next after stop = %v, want ErrSourceClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Next did not return after stop closed")
	}
}

func TestKindString(t *testing.T) {
	kinds := map[Kind]string{
		KindKey:      "key",
		KindResize:   "resize",
		KindTick:     "tick",
		KindShutdown: "shutdown",
		Kind(99):     "unknown",
	}
	for k, want := range kinds {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(k), k.String(), want)
		}
	}
}
