package bus

import (
	"reflect"
	"testing"
)

func TestEmitInvokesHandlersInRegistrationOrder(t *testing.T) {
	b := New()
	var got []string

	b.On("orders.changed", func(payload interface{}) {
		got = append(got, "first")
	})
	b.On("orders.changed", func(payload interface{}) {
		got = append(got, "second")
	})
	b.On("other", func(payload interface{}) {
		got = append(got, "other")
	})

	b.Emit("orders.changed", nil)

	want := []string{"first", "second"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("handler order = %v, want %v", got, want)
	}
}

func TestEmitPassesPayload(t *testing.T) {
	b := New()
	var got interface{}
	b.On(TopicProductsChanged, func(payload interface{}) {
		got = payload
	})

	b.Emit(TopicProductsChanged, 42)

	if got != 42 {
		t.Fatalf("payload = %v, want 42", got)
	}
}

func TestOffRemovesSubscription(t *testing.T) {
	b := New()
	calls := 0

	sub := b.On("x", func(payload interface{}) { calls++ })
	b.Emit("x", nil)
	sub.Off()
	b.Emit("x", nil)
	sub.Off() // double Off is a no-op

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

type counter struct{ n int }

func (c *counter) bump(payload interface{}) { c.n++ }

// Method values from different receivers share one code pointer; each must
// still subscribe and detach on its own.
func TestSameMethodOnTwoReceiversSubscribesBoth(t *testing.T) {
	b := New()
	first := &counter{}
	second := &counter{}

	subFirst := b.On("x", first.bump)
	b.On("x", second.bump)

	b.Emit("x", nil)
	if first.n != 1 || second.n != 1 {
		t.Fatalf("counts = %d/%d, want 1/1", first.n, second.n)
	}

	subFirst.Off()
	b.Emit("x", nil)
	if first.n != 1 {
		t.Fatalf("detached receiver fired: %d", first.n)
	}
	if second.n != 2 {
		t.Fatalf("sibling receiver detached too: %d", second.n)
	}
}

func TestPanickingHandlerDoesNotAbortRemaining(t *testing.T) {
	b := New()
	ran := false

	b.On("boom", func(payload interface{}) {
		panic("bad subscriber")
	})
	b.On("boom", func(payload interface{}) {
		ran = true
	})

	b.Emit("boom", nil)

	if !ran {
		t.Fatal("second handler did not run after first panicked")
	}
}

func TestEmitWithoutSubscribersIsNoop(t *testing.T) {
	b := New()
	b.Emit("nobody.listens", nil)
}
