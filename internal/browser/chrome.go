package browser

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// LaunchOptions describe the Chrome session to start.
type LaunchOptions struct {
	ProfileDir string
	URL        string
	Selector   string
}

// allocatorOptions returns a visible, maximized Chrome without the
// automation banner, using the given profile directory.
func allocatorOptions(profileDir string) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	return append(opts,
		chromedp.Flag("headless", false),
		chromedp.Flag("hide-scrollbars", false),
		chromedp.Flag("mute-audio", false),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-save-password-bubble", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("start-maximized", true),
		chromedp.UserDataDir(profileDir),
	)
}

// ChromePage drives the prompt input of a page in a Chrome window.
type ChromePage struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	selector    string
}

// Launch starts Chrome with opts.ProfileDir and navigates to opts.URL.
func Launch(ctx context.Context, opts LaunchOptions) (*ChromePage, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOptions(opts.ProfileDir)...)
	taskCtx, cancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(taskCtx, chromedp.Navigate(opts.URL)); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("open %s: %w", opts.URL, err)
	}

	return &ChromePage{
		ctx:         taskCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		selector:    opts.Selector,
	}, nil
}

// run executes actions on the browser tab. The tab is derived from the
// context passed to Launch, so cancelling that stops it as well.
func (p *ChromePage) run(_ context.Context, actions ...chromedp.Action) error {
	return chromedp.Run(p.ctx, actions...)
}

func (p *ChromePage) WaitReady(ctx context.Context, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(waitCtx, chromedp.WaitVisible(p.selector, chromedp.ByQuery))
	if err != nil && errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
		return ErrPromptInputTimeout
	}
	return err
}

func (p *ChromePage) Click(ctx context.Context) error {
	return p.run(ctx, chromedp.Click(p.selector, chromedp.ByQuery))
}

// Clear selects everything in the focused input and deletes it.
func (p *ChromePage) Clear(ctx context.Context) error {
	mod := input.ModifierCtrl
	if runtime.GOOS == "darwin" {
		mod = input.ModifierMeta
	}
	return p.run(ctx,
		chromedp.KeyEvent("a", chromedp.KeyModifiers(mod)),
		chromedp.KeyEvent(kb.Backspace),
	)
}

func (p *ChromePage) TypeRune(ctx context.Context, r rune) error {
	return p.run(ctx, chromedp.KeyEvent(string(r)))
}

func (p *ChromePage) Submit(ctx context.Context) error {
	return p.run(ctx, chromedp.KeyEvent(kb.Enter))
}

// Close shuts the tab and then the browser process.
func (p *ChromePage) Close() error {
	err := chromedp.Cancel(p.ctx)
	p.cancel()
	p.allocCancel()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
