package session

import (
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"dialcore/internal/dialogue"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestRegistry(ttl time.Duration) (*Registry, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	r := NewRegistry(ttl)
	r.now = clock.Now
	return r, clock
}

func TestCreateGetDelete(t *testing.T) {
	r, _ := newTestRegistry(time.Minute)
	s := r.Create()
	if s.ID == "" {
		t.Fatal("expected generated id")
	}
	got, err := r.Get(s.ID)
	if err != nil || got != s {
		t.Fatalf("get: got=%v err=%v", got, err)
	}
	if r.Len() != 1 {
		t.Fatalf("len=%d", r.Len())
	}
	if err := r.Delete(s.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := r.Get(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := r.Delete(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("second delete: expected ErrSessionNotFound, got %v", err)
	}
}

func TestGetOrCreateReusesLiveSession(t *testing.T) {
	r, _ := newTestRegistry(time.Minute)
	a := r.GetOrCreate("kiosk-1")
	b := r.GetOrCreate("kiosk-1")
	if a != b {
		t.Fatal("expected same session for same id")
	}
	if a.ID != "kiosk-1" {
		t.Fatalf("id=%q", a.ID)
	}
}

func TestExpiryAndSweep(t *testing.T) {
	r, clock := newTestRegistry(time.Minute)
	old := r.GetOrCreate("old")
	clock.Advance(45 * time.Second)
	fresh := r.GetOrCreate("fresh")
	clock.Advance(30 * time.Second)

	if _, err := r.Get(old.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected expired session to be hidden, got %v", err)
	}
	if _, err := r.Get(fresh.ID); err != nil {
		t.Fatalf("fresh session: %v", err)
	}

	removed := r.Sweep()
	if len(removed) != 1 || removed[0] != "old" {
		t.Fatalf("removed=%v", removed)
	}
	if r.Len() != 1 {
		t.Fatalf("len=%d", r.Len())
	}

	replaced := r.GetOrCreate("old")
	if replaced == old {
		t.Fatal("expected a new session after expiry")
	}
}

func TestWithDialogueTouchesSession(t *testing.T) {
	r, clock := newTestRegistry(time.Minute)
	s := r.GetOrCreate("a")
	clock.Advance(50 * time.Second)

	if err := s.WithDialogue(func(d *dialogue.Dialogue) error {
		d.SetUserInput("ahoj")
		d.EndTurn()
		return nil
	}); err != nil {
		t.Fatalf("with dialogue: %v", err)
	}
	clock.Advance(50 * time.Second)
	if _, err := r.Get("a"); err != nil {
		t.Fatalf("touched session should be live: %v", err)
	}
	var turns int
	_ = s.WithDialogue(func(d *dialogue.Dialogue) error {
		turns = d.TurnCount()
		return nil
	})
	if turns != 1 {
		t.Fatalf("turns=%d", turns)
	}
}

func TestWithDialogueReturnsError(t *testing.T) {
	r, _ := newTestRegistry(time.Minute)
	want := errors.New("boom")
	err := r.Create().WithDialogue(func(*dialogue.Dialogue) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("err=%v", err)
	}
}

func TestConcurrentTurnsAreSerialized(t *testing.T) {
	r := NewRegistry(time.Minute)
	ids := []string{"a", "b", "c"}
	const perSession = 50

	var wg sync.WaitGroup
	for _, id := range ids {
		for i := 0; i < perSession; i++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_ = r.GetOrCreate(id).WithDialogue(func(d *dialogue.Dialogue) error {
					d.SetUserInput("ahoj")
					d.EndTurn()
					return nil
				})
			}(id)
		}
	}
	wg.Wait()

	var got []string
	for _, id := range ids {
		s, err := r.Get(id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		_ = s.WithDialogue(func(d *dialogue.Dialogue) error {
			if d.TurnCount() != perSession {
				t.Errorf("session %s turns=%d", id, d.TurnCount())
			}
			return nil
		})
		got = append(got, s.ID)
	}
	sort.Strings(got)
	if len(got) != len(ids) {
		t.Fatalf("sessions=%v", got)
	}
}
