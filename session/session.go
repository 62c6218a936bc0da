package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/networkteam/saucecheck/collector"
)

const (
	DefaultBaseURL         = "https://www.saucedemo.com/"
	DefaultActionTimeout   = 10 * time.Second
	DefaultWaitTimeout     = 10 * time.Second
	DefaultPopupTimeout    = 2 * time.Second
	DefaultConsoleCapacity = 200
)

// Browser names accepted by Options.Browser.
const (
	BrowserChromium = "chromium"
	BrowserFirefox  = "firefox"
	BrowserWebKit   = "webkit"
)

// chromiumArgs switch off browser UI that would interfere with the page: notification
// prompts, the credential save bubble, info bars and extensions.
var chromiumArgs = []string{
	"--disable-notifications",
	"--disable-infobars",
	"--disable-extensions",
	"--disable-save-password-bubble",
	"--disable-popup-blocking",
}

var firefoxPrefs = map[string]interface{}{
	"dom.webnotifications.enabled": false,
	"signon.rememberSignons":       false,
}

type Options struct {
	// BaseURL is the application opened when the session starts.
	// Default: DefaultBaseURL
	BaseURL string
	// Browser is one of BrowserChromium, BrowserFirefox or BrowserWebKit.
	// Default: BrowserChromium
	Browser string
	// Headless runs the browser without a window.
	Headless bool
	// SlowMo delays every browser operation, useful when watching a headed run.
	SlowMo time.Duration
	// ActionTimeout bounds the implicit wait of every element interaction.
	// Default: DefaultActionTimeout
	ActionTimeout time.Duration
	// WaitTimeout is the default bound of explicit waits.
	// Default: DefaultWaitTimeout
	WaitTimeout time.Duration
	// PopupTimeout bounds the wait for the optional popup after login.
	// Default: DefaultPopupTimeout
	PopupTimeout time.Duration
	// Viewport is the page size. Default: 1280x720
	Viewport *playwright.Size
	// ConsoleCapacity is the number of browser console messages kept.
	// Default: DefaultConsoleCapacity
	ConsoleCapacity uint64
	// Logger receives session lifecycle logs. Default: slog.Default()
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.Browser == "" {
		o.Browser = BrowserChromium
	}
	if o.ActionTimeout == 0 {
		o.ActionTimeout = DefaultActionTimeout
	}
	if o.WaitTimeout == 0 {
		o.WaitTimeout = DefaultWaitTimeout
	}
	if o.PopupTimeout == 0 {
		o.PopupTimeout = DefaultPopupTimeout
	}
	if o.Viewport == nil {
		o.Viewport = &playwright.Size{Width: 1280, Height: 720}
	}
	if o.ConsoleCapacity == 0 {
		o.ConsoleCapacity = DefaultConsoleCapacity
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// ConsoleMessage is a message the page wrote to the browser console.
type ConsoleMessage struct {
	Time time.Time `json:"time"`
	Type string    `json:"type"`
	Text string    `json:"text"`
}

func (m ConsoleMessage) String() string {
	return m.Type + ": " + m.Text
}

// Session is one live browser automation context bound to one browser instance.
// It is not safe for concurrent use; every suite owns its own session.
type Session struct {
	options Options
	logger  *slog.Logger

	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	console *collector.RingBuffer[ConsoleMessage]

	stopOnce sync.Once
	stopErr  error
}

// Start launches a browser, opens a page on the base URL and returns the session.
// A failure releases everything acquired so far. There is no retry.
func Start(ctx context.Context, options Options) (*Session, error) {
	options = options.withDefaults()

	s := &Session{
		options: options,
		logger:  options.Logger.With("component", "session", "browser", options.Browser),
		console: collector.NewRingBuffer[ConsoleMessage](options.ConsoleCapacity),
	}

	if err := s.start(ctx); err != nil {
		if stopErr := s.Stop(); stopErr != nil {
			s.logger.Warn("Releasing partially started session failed", slog.Any("err", stopErr))
		}
		return nil, err
	}

	s.logger.Info("Session started", slog.String("url", options.BaseURL))
	return s, nil
}

func (s *Session) start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("starting playwright: %w", err)
	}
	s.pw = pw

	browserType, launchOptions, err := s.launchOptions()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	browser, err := browserType.Launch(launchOptions)
	if err != nil {
		return fmt.Errorf("launching %s: %w", s.options.Browser, err)
	}
	s.browser = browser

	browserContext, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport:    s.options.Viewport,
		Permissions: []string{},
	})
	if err != nil {
		return fmt.Errorf("creating browser context: %w", err)
	}
	s.context = browserContext
	browserContext.SetDefaultTimeout(milliseconds(s.options.ActionTimeout))
	browserContext.SetDefaultNavigationTimeout(milliseconds(s.options.ActionTimeout))

	page, err := browserContext.NewPage()
	if err != nil {
		return fmt.Errorf("creating page: %w", err)
	}
	s.page = page

	page.OnConsole(func(msg playwright.ConsoleMessage) {
		s.console.Add(ConsoleMessage{Time: time.Now(), Type: msg.Type(), Text: msg.Text()})
	})
	page.OnPageError(func(err error) {
		s.console.Add(ConsoleMessage{Time: time.Now(), Type: "pageerror", Text: err.Error()})
	})

	if err := ctx.Err(); err != nil {
		return err
	}

	resp, err := page.Goto(s.options.BaseURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.options.BaseURL, err)
	}
	if resp != nil && !resp.Ok() {
		return fmt.Errorf("opening %s: unexpected status %d", s.options.BaseURL, resp.Status())
	}

	return nil
}

func (s *Session) launchOptions() (playwright.BrowserType, playwright.BrowserTypeLaunchOptions, error) {
	options := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(s.options.Headless),
	}
	if s.options.SlowMo > 0 {
		options.SlowMo = playwright.Float(milliseconds(s.options.SlowMo))
	}

	switch s.options.Browser {
	case BrowserChromium:
		options.Args = chromiumArgs
		return s.pw.Chromium, options, nil
	case BrowserFirefox:
		options.FirefoxUserPrefs = firefoxPrefs
		return s.pw.Firefox, options, nil
	case BrowserWebKit:
		return s.pw.WebKit, options, nil
	default:
		return nil, options, fmt.Errorf("unsupported browser %q", s.options.Browser)
	}
}

// Stop releases the browser. It is safe to call more than once, on a session
// whose start failed half way, and on a nil session.
func (s *Session) Stop() error {
	if s == nil {
		return nil
	}

	s.stopOnce.Do(func() {
		var errs []error
		if s.page != nil {
			if err := s.page.Close(); err != nil && !errors.Is(err, playwright.ErrTargetClosed) {
				errs = append(errs, fmt.Errorf("closing page: %w", err))
			}
		}
		if s.context != nil {
			if err := s.context.Close(); err != nil && !errors.Is(err, playwright.ErrTargetClosed) {
				errs = append(errs, fmt.Errorf("closing browser context: %w", err))
			}
		}
		if s.browser != nil {
			if err := s.browser.Close(); err != nil && !errors.Is(err, playwright.ErrTargetClosed) {
				errs = append(errs, fmt.Errorf("closing browser: %w", err))
			}
		}
		if s.pw != nil {
			if err := s.pw.Stop(); err != nil {
				errs = append(errs, fmt.Errorf("stopping playwright: %w", err))
			}
		}
		s.stopErr = errors.Join(errs...)

		if s.logger != nil && s.pw != nil {
			s.logger.Info("Session stopped")
		}
	})

	return s.stopErr
}

// Options returns the effective options including defaults.
func (s *Session) Options() Options {
	return s.options
}

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// UseLogger replaces the session logger until the returned function is called.
// The runner uses it to capture helper logs per step.
func (s *Session) UseLogger(logger *slog.Logger) (restore func()) {
	if s == nil {
		return func() {}
	}
	previous := s.logger
	s.logger = logger
	return func() { s.logger = previous }
}

// Page returns the underlying page for interactions not covered by the helpers.
func (s *Session) Page() playwright.Page {
	return s.page
}

// Locate resolves a locator against the current page without waiting.
func (s *Session) Locate(l Locator) playwright.Locator {
	return s.page.Locator(l.Selector())
}

// URL returns the current location of the page.
func (s *Session) URL() string {
	return s.page.URL()
}

// Title returns the current page title.
func (s *Session) Title() (string, error) {
	return s.page.Title()
}

// Open navigates to a path relative to the base URL.
func (s *Session) Open(path string) error {
	base, err := url.Parse(s.options.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing base url: %w", err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("parsing path %q: %w", path, err)
	}
	target := base.ResolveReference(ref).String()

	if _, err := s.page.Goto(target, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return fmt.Errorf("opening %s: %w", target, err)
	}
	return nil
}

// Screenshot writes a full page screenshot to path, creating parent directories.
func (s *Session) Screenshot(path string) error {
	if s == nil || s.page == nil {
		return errors.New("no page to capture")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating screenshot directory: %w", err)
	}
	if _, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return fmt.Errorf("taking screenshot: %w", err)
	}
	return nil
}

// ConsoleTail returns the last n console messages of the page, oldest first.
func (s *Session) ConsoleTail(n int) []ConsoleMessage {
	if s == nil || s.console == nil {
		return nil
	}
	return s.console.Tail(n)
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
