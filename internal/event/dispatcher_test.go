package event

import (
	"errors"
	"reflect"
	"testing"
)

func TestEmitDuplicateListener(t *testing.T) {
	d := New()

	var calls [][]any
	fn := func(args ...any) error {
		calls = append(calls, args)
		return nil
	}

	d.On("x", fn)
	d.On("x", fn)

	if err := d.Emit("x", 1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]any{{1, 2}, {1, 2}}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestEmitOrder(t *testing.T) {
	d := New()

	var order []string
	for _, name := range []string{"first", "second", "third"} {
		d.On("tick", func(args ...any) error {
			order = append(order, name)
			return nil
		})
	}

	if err := d.Emit("tick"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestOff(t *testing.T) {
	d := New()

	called := 0
	d.On("x", func(args ...any) error {
		called++
		return nil
	})
	d.On("y", func(args ...any) error {
		called += 10
		return nil
	})

	d.Off("x")
	d.Off("never-registered")

	if err := d.Emit("x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called != 0 {
		t.Errorf("listener ran after Off: called = %d", called)
	}
	if d.Len("x") != 0 {
		t.Errorf("Len(x) = %d, want 0", d.Len("x"))
	}

	if err := d.Emit("y"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called != 10 {
		t.Errorf("other event affected by Off: called = %d", called)
	}
}

func TestEmitUnknownEvent(t *testing.T) {
	d := New()
	if err := d.Emit("nothing", "a", 1); err != nil {
		t.Errorf("Emit on unknown event returned %v", err)
	}
}

func TestEmitStopsOnError(t *testing.T) {
	d := New()
	boom := errors.New("boom")

	var ran []int
	d.On("x", func(args ...any) error {
		ran = append(ran, 1)
		return nil
	})
	d.On("x", func(args ...any) error {
		ran = append(ran, 2)
		return boom
	})
	d.On("x", func(args ...any) error {
		ran = append(ran, 3)
		return nil
	})

	if err := d.Emit("x"); err != boom {
		t.Errorf("Emit error = %v, want %v", err, boom)
	}
	if !reflect.DeepEqual(ran, []int{1, 2}) {
		t.Errorf("ran = %v, want [1 2]", ran)
	}
}

func TestEmitPanicPropagates(t *testing.T) {
	d := New()
	d.On("x", func(args ...any) error { panic("listener failed") })

	defer func() {
		if r := recover(); r != "listener failed" {
			t.Errorf("recover() = %v, want listener failed", r)
		}
	}()

	_ = d.Emit("x")
	t.Error("Emit returned after listener panic")
}

func TestReentrantEmit(t *testing.T) {
	d := New()

	var got []any
	d.On("outer", func(args ...any) error {
		d.On("outer", func(args ...any) error {
			got = append(got, "late")
			return nil
		})
		return d.Emit("inner", args...)
	})
	d.On("inner", func(args ...any) error {
		got = append(got, args...)
		return nil
	})

	if err := d.Emit("outer", "payload"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the listener added during emission waits for the next Emit
	if !reflect.DeepEqual(got, []any{"payload"}) {
		t.Errorf("got = %v, want [payload]", got)
	}
	if d.Len("outer") != 2 {
		t.Errorf("Len(outer) = %d, want 2", d.Len("outer"))
	}
}

func TestZeroValueDispatcher(t *testing.T) {
	var d Dispatcher

	if err := d.Emit("ready"); err != nil {
		t.Fatalf("emit on empty dispatcher: %v", err)
	}
	d.Off("ready")

	calls := 0
	d.On("ready", func(args ...any) error {
		calls++
		return nil
	})
	if err := d.Emit("ready"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 || d.Len("ready") != 1 {
		t.Errorf("calls = %d, len = %d, want 1 and 1", calls, d.Len("ready"))
	}
}
