package browser

import (
	"context"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stockpipe/stockpipe/internal/sheet"
)

type fakePage struct {
	events  []string
	waitErr error
	typeErr error
	closed  bool
}

func (f *fakePage) WaitReady(_ context.Context, timeout time.Duration) error {
	f.events = append(f.events, "wait:"+timeout.String())
	return f.waitErr
}

func (f *fakePage) Click(context.Context) error {
	f.events = append(f.events, "click")
	return nil
}

func (f *fakePage) Clear(context.Context) error {
	f.events = append(f.events, "clear")
	return nil
}

func (f *fakePage) TypeRune(_ context.Context, r rune) error {
	if f.typeErr != nil {
		return f.typeErr
	}
	f.events = append(f.events, "type:"+string(r))
	return nil
}

func (f *fakePage) Submit(context.Context) error {
	f.events = append(f.events, "enter")
	return nil
}

func (f *fakePage) Close() error {
	f.closed = true
	return nil
}

type recordedSleeps struct {
	durations []time.Duration
}

func (r *recordedSleeps) sleep(_ context.Context, d time.Duration) error {
	r.durations = append(r.durations, d)
	return nil
}

func within(d, lo, hi time.Duration) bool { return d >= lo && d <= hi }

func TestSubmitSequence(t *testing.T) {
	page := &fakePage{}
	sleeps := &recordedSleeps{}
	d := NewDriver(page, DefaultTiming, sleeps.sleep, rand.New(rand.NewPCG(1, 2)))

	if err := d.Submit(context.Background(), []string{"hé", "ok"}); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	want := []string{
		"wait:10s",
		"click", "clear", "type:h", "type:é", "enter",
		"click", "clear", "type:o", "type:k", "enter",
	}
	if !reflect.DeepEqual(page.events, want) {
		t.Errorf("Expected %v, got %v", want, page.events)
	}

	// Per prompt: one delay per rune, the post-typing pause, the pre-submit
	// pause and the processing delay.
	if len(sleeps.durations) != 2*(2+3) {
		t.Fatalf("Expected 10 sleeps, got %d", len(sleeps.durations))
	}
	for p := 0; p < 2; p++ {
		s := sleeps.durations[p*5 : p*5+5]
		for i := 0; i < 2; i++ {
			if !within(s[i], 50*time.Millisecond, 200*time.Millisecond) {
				t.Errorf("Typing delay %v out of range", s[i])
			}
		}
		if !within(s[2], 300*time.Millisecond, 700*time.Millisecond) {
			t.Errorf("Post-typing pause %v out of range", s[2])
		}
		if !within(s[3], 1500*time.Millisecond, 2500*time.Millisecond) {
			t.Errorf("Pre-submit pause %v out of range", s[3])
		}
		if s[4] != 15*time.Second {
			t.Errorf("Expected processing delay 15s, got %v", s[4])
		}
	}
}

func TestBetween(t *testing.T) {
	d := NewDriver(&fakePage{}, DefaultTiming, nil, rand.New(rand.NewPCG(3, 4)))
	for i := 0; i < 1000; i++ {
		if got := d.between(50*time.Millisecond, 200*time.Millisecond); !within(got, 50*time.Millisecond, 200*time.Millisecond) {
			t.Fatalf("between returned %v", got)
		}
	}
	if got := d.between(time.Second, time.Second); got != time.Second {
		t.Errorf("Expected 1s for an empty range, got %v", got)
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		page    *fakePage
		wantErr error
		typed   bool
	}{
		{name: "success", page: &fakePage{}, typed: true},
		{name: "prompt input timeout", page: &fakePage{waitErr: ErrPromptInputTimeout}, wantErr: ErrPromptInputTimeout},
		{name: "typing error", page: &fakePage{typeErr: errors.New("detached")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sleeps := &recordedSleeps{}
			err := Run(context.Background(), tt.page, tt.page, []string{"a"}, DefaultTiming, sleeps.sleep)

			switch {
			case tt.wantErr != nil && !errors.Is(err, tt.wantErr):
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			case tt.wantErr == nil && tt.typed && err != nil:
				t.Errorf("Unexpected error %v", err)
			case tt.wantErr == nil && !tt.typed && err == nil:
				t.Error("Expected error")
			}

			if !tt.page.closed {
				t.Error("Expected browser to be closed")
			}
			if last := sleeps.durations[len(sleeps.durations)-1]; last != 5*time.Second {
				t.Errorf("Expected 5s close delay, got %v", last)
			}
			if got := strings.Contains(strings.Join(tt.page.events, ","), "enter"); got != tt.typed {
				t.Errorf("Expected submitted=%v, events %v", tt.typed, tt.page.events)
			}
		})
	}
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestReadPrompts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.xlsx")
	err := sheet.WriteIndexed(path, []sheet.Indexed{
		{Name: "Sheet1", Start: 1, Prompts: []string{"one", "two"}},
		{Name: "Sheet2", Start: 3, Prompts: []string{"three"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := ReadPrompts(path, "Sheet2")
	if err != nil {
		t.Fatalf("ReadPrompts returned error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"three"}) {
		t.Errorf("Expected [three], got %v", got)
	}

	if _, err := ReadPrompts(path, "Sheet7"); err == nil {
		t.Error("Expected error for missing sheet")
	}
}

func TestAllocatorOptions(t *testing.T) {
	if got := len(allocatorOptions("/tmp/Profile 1")); got <= len(chromedp.DefaultExecAllocatorOptions) {
		t.Errorf("Expected extra allocator options, got %d", got)
	}
}
