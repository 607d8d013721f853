package observer

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestSubject_PublishOrderAndAttach(t *testing.T) {
	var got []string
	s := NewSubject[string](Func[string](func(_ context.Context, evt string) error {
		got = append(got, "first:"+evt)
		return nil
	}))
	s.Attach(Func[string](func(_ context.Context, evt string) error {
		got = append(got, "second:"+evt)
		return nil
	}))

	s.Publish(context.Background(), "ping")

	want := []string{"first:ping", "second:ping"}
	if len(got) != len(want) {
		t.Fatalf("deliveries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("delivery %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSubject_ErrorDoesNotStopFanOut(t *testing.T) {
	var delivered int
	var seen error
	s := NewSubject[int](
		Func[int](func(context.Context, int) error { return errors.New("sink down") }),
		Func[int](func(context.Context, int) error { delivered++; return nil }),
	)
	s.SetErrorHandler(func(err error) { seen = err })

	s.Publish(context.Background(), 1)

	if delivered != 1 {
		t.Errorf("second observer deliveries = %d, want 1", delivered)
	}
	if seen == nil {
		t.Error("error handler was not invoked")
	}
}

func TestSubject_NilSafety(t *testing.T) {
	var s *Subject[int]
	s.Publish(context.Background(), 1) // must not panic

	s2 := NewSubject[int](nil)
	s2.Publish(context.Background(), 2) // nil observer skipped
}

func TestSubject_ConcurrentPublish(t *testing.T) {
	var mu sync.Mutex
	count := 0
	s := NewSubject[int](Func[int](func(context.Context, int) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				s.Publish(context.Background(), j)
			}
		}()
	}
	wg.Wait()

	if count != 200 {
		t.Errorf("deliveries = %d, want 200", count)
	}
}
