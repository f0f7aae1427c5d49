// Package browser types prompts from a spreadsheet into an image-generation
// web application the way a person would.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/stockpipe/stockpipe/internal/sheet"
)

// ErrPromptInputTimeout is returned when the prompt input never shows up.
var ErrPromptInputTimeout = errors.New("timeout waiting for prompt input field")

// Page is the prompt input of a loaded page.
type Page interface {
	WaitReady(ctx context.Context, timeout time.Duration) error
	Click(ctx context.Context) error
	Clear(ctx context.Context) error
	TypeRune(ctx context.Context, r rune) error
	Submit(ctx context.Context) error
}

// Timing controls the pauses between keystrokes and prompts.
type Timing struct {
	WaitTimeout     time.Duration
	MinTypeDelay    time.Duration
	MaxTypeDelay    time.Duration
	ProcessingDelay time.Duration
	CloseDelay      time.Duration
}

// DefaultTiming mirrors a slow human typist.
var DefaultTiming = Timing{
	WaitTimeout:     10 * time.Second,
	MinTypeDelay:    50 * time.Millisecond,
	MaxTypeDelay:    200 * time.Millisecond,
	ProcessingDelay: 15 * time.Second,
	CloseDelay:      5 * time.Second,
}

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the Sleeper backed by a timer.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Driver submits prompts to a Page.
type Driver struct {
	page   Page
	timing Timing
	sleep  Sleeper
	rnd    *rand.Rand
}

// NewDriver returns a Driver for page. A nil sleep uses Sleep and a nil rnd
// is seeded randomly.
func NewDriver(page Page, timing Timing, sleep Sleeper, rnd *rand.Rand) *Driver {
	if sleep == nil {
		sleep = Sleep
	}
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Driver{page: page, timing: timing, sleep: sleep, rnd: rnd}
}

// between returns a uniformly random duration in [lo, hi].
func (d *Driver) between(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(d.rnd.Int64N(int64(hi-lo)+1))
}

// Submit waits for the prompt input and then enters every prompt in order.
func (d *Driver) Submit(ctx context.Context, prompts []string) error {
	if err := d.page.WaitReady(ctx, d.timing.WaitTimeout); err != nil {
		return err
	}

	for i, text := range prompts {
		slog.Info("Processing prompt", "progress", fmt.Sprintf("%d/%d", i+1, len(prompts)), "prompt", text)
		if err := d.enter(ctx, text); err != nil {
			return fmt.Errorf("prompt %d: %w", i+1, err)
		}
	}
	return nil
}

func (d *Driver) enter(ctx context.Context, text string) error {
	if err := d.page.Click(ctx); err != nil {
		return fmt.Errorf("click: %w", err)
	}
	if err := d.page.Clear(ctx); err != nil {
		return fmt.Errorf("clear: %w", err)
	}

	for _, r := range text {
		if err := d.page.TypeRune(ctx, r); err != nil {
			return fmt.Errorf("type: %w", err)
		}
		if err := d.sleep(ctx, d.between(d.timing.MinTypeDelay, d.timing.MaxTypeDelay)); err != nil {
			return err
		}
	}
	if err := d.sleep(ctx, d.between(300*time.Millisecond, 700*time.Millisecond)); err != nil {
		return err
	}

	if err := d.sleep(ctx, d.between(1500*time.Millisecond, 2500*time.Millisecond)); err != nil {
		return err
	}
	if err := d.page.Submit(ctx); err != nil {
		return fmt.Errorf("submit: %w", err)
	}

	return d.sleep(ctx, d.timing.ProcessingDelay)
}

// ReadPrompts returns the non-blank prompts of the named sheet.
func ReadPrompts(path, sheetName string) ([]string, error) {
	values, err := sheet.ReadColumn(path, sheetName, sheet.PromptColumn)
	if err != nil {
		return nil, err
	}

	prompts := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			prompts = append(prompts, v)
		}
	}
	return prompts, nil
}

// Closer releases the browser behind a Page.
type Closer interface {
	Close() error
}

// Run submits prompts through page and always closes it afterwards, waiting
// CloseDelay first so the last submission can register. Errors from the
// prompt loop are logged and returned.
func Run(ctx context.Context, page Page, closer Closer, prompts []string, timing Timing, sleep Sleeper) error {
	d := NewDriver(page, timing, sleep, nil)

	err := d.Submit(ctx, prompts)
	switch {
	case errors.Is(err, ErrPromptInputTimeout):
		slog.Error("Timeout waiting for prompt input field. Check if the page loaded correctly.")
	case err != nil:
		slog.Error("Error encountered", "err", err)
	default:
		slog.Info("All prompts submitted", "count", len(prompts))
	}

	slog.Info("Closing browser")
	_ = d.sleep(ctx, timing.CloseDelay)
	if cerr := closer.Close(); cerr != nil {
		slog.Warn("Error closing browser", "err", cerr)
	}

	return err
}
