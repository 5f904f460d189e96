package browser

import (
	"fmt"
	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"
	log "github.com/sirupsen/logrus"
	"strings"
	"sync"
	"time"
)

const responseBuffer = 32

type PlaywrightOptions struct {
	Headless          bool
	UserDataDir       string
	InstallBrowsers   bool
	NavigationTimeout time.Duration
}

// Playwright controls a single Chromium page through playwright-go.
type Playwright struct {
	pw                *playwright.Playwright
	browser           playwright.Browser
	context           playwright.BrowserContext
	page              playwright.Page
	navigationTimeout time.Duration

	mu        sync.Mutex
	pattern   string
	responses chan playwright.Response
}

func NewPlaywright(opts PlaywrightOptions) (*Playwright, error) {
	if opts.InstallBrowsers {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, errors.Wrap(err, "failed to install chromium")
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, errors.Wrap(err, "failed to start playwright")
	}

	p := &Playwright{
		pw:                pw,
		navigationTimeout: opts.NavigationTimeout,
		responses:         make(chan playwright.Response, responseBuffer),
	}

	if opts.UserDataDir != "" {
		p.context, err = pw.Chromium.LaunchPersistentContext(opts.UserDataDir,
			playwright.BrowserTypeLaunchPersistentContextOptions{Headless: playwright.Bool(opts.Headless)})
	} else {
		p.browser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(opts.Headless)})
		if err == nil {
			p.context, err = p.browser.NewContext()
		}
	}
	if err != nil {
		_ = p.Close()
		return nil, errors.Wrap(err, "failed to launch chromium")
	}

	if pages := p.context.Pages(); len(pages) > 0 {
		p.page = pages[0]
	} else if p.page, err = p.context.NewPage(); err != nil {
		_ = p.Close()
		return nil, errors.Wrap(err, "failed to open page")
	}

	p.page.OnResponse(p.capture)
	return p, nil
}

// capture runs on the playwright dispatcher; it must not block or call back
// into the driver.
func (p *Playwright) capture(response playwright.Response) {
	p.mu.Lock()
	pattern := p.pattern
	p.mu.Unlock()

	if pattern == "" || !strings.Contains(response.URL(), pattern) {
		return
	}
	select {
	case p.responses <- response:
	default:
		log.Warnf("dropping intercepted response %s, buffer full", response.URL())
	}
}

func (p *Playwright) Navigate(url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(p.navigationTimeout.Milliseconds())),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to navigate to %s", url)
	}
	return nil
}

func (p *Playwright) Scroll(pixels int) error {
	return p.page.Mouse().Wheel(0, float64(pixels))
}

func (p *Playwright) ScrollToBottom() error {
	_, err := p.page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	return err
}

func (p *Playwright) Listen(pattern string) {
	p.mu.Lock()
	p.pattern = pattern
	p.mu.Unlock()

	for {
		select {
		case <-p.responses:
		default:
			return
		}
	}
}

func (p *Playwright) WaitForNetwork(timeout time.Duration) (*Response, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case response := <-p.responses:
		body, err := response.Body()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read body of %s", response.URL())
		}
		return &Response{URL: response.URL(), Status: response.Status(), Body: body}, nil
	case <-timer.C:
		return nil, ErrNoResponse
	}
}

func (p *Playwright) RunScript(script string) error {
	_, err := p.page.Evaluate(fmt.Sprintf("() => { %s }", script))
	return err
}

func (p *Playwright) FindElement(selector string) (Element, error) {
	locator := p.page.Locator(selector)
	count, err := locator.Count()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	return locatorElement{locator: locator.First()}, nil
}

func (p *Playwright) HTML() (string, error) {
	return p.page.Content()
}

func (p *Playwright) Close() error {
	var errs []error
	if p.context != nil {
		errs = append(errs, p.context.Close())
	}
	if p.browser != nil {
		errs = append(errs, p.browser.Close())
	}
	if p.pw != nil {
		errs = append(errs, p.pw.Stop())
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

type locatorElement struct {
	locator playwright.Locator
}

func (e locatorElement) Text() (string, error) {
	return e.locator.InnerText()
}

func (e locatorElement) Click() error {
	return e.locator.Click()
}
