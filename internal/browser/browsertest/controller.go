// Package browsertest provides a scripted browser.Controller for tests.
package browsertest

import (
	"github.com/maxaizer/boss-harvester/internal/browser"
	"sync"
	"time"
)

// Controller replays queued responses instead of driving a page. A nil
// entry in a queue behaves like a wait that timed out.
type Controller struct {
	mu sync.Mutex

	Page        string
	NavigateErr error
	ScrollErr   error

	Navigated []string
	Scrolled  []int
	Scripts   []string
	Waits     []time.Duration

	pattern   string
	queues    map[string][]*browser.Response
	elements  map[string]*Element
	onScript  func(script string)
	listening []string
}

func New() *Controller {
	return &Controller{
		queues:   make(map[string][]*browser.Response),
		elements: make(map[string]*Element),
	}
}

// Queue appends bodies to be returned, in order, while pattern is armed.
// A nil body queues a timeout.
func (c *Controller) Queue(pattern string, bodies ...[]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, body := range bodies {
		if body == nil {
			c.queues[pattern] = append(c.queues[pattern], nil)
			continue
		}
		c.queues[pattern] = append(c.queues[pattern], &browser.Response{URL: pattern, Status: 200, Body: body})
	}
}

func (c *Controller) SetElement(selector string, element *Element) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elements[selector] = element
}

// OnScript registers a hook invoked for every RunScript call.
func (c *Controller) OnScript(hook func(script string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onScript = hook
}

// Patterns returns every pattern armed so far, in order.
func (c *Controller) Patterns() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.listening...)
}

func (c *Controller) Navigate(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Navigated = append(c.Navigated, url)
	return c.NavigateErr
}

func (c *Controller) Scroll(pixels int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Scrolled = append(c.Scrolled, pixels)
	return c.ScrollErr
}

func (c *Controller) ScrollToBottom() error {
	return c.Scroll(-1)
}

func (c *Controller) Listen(pattern string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pattern = pattern
	c.listening = append(c.listening, pattern)
}

func (c *Controller) WaitForNetwork(timeout time.Duration) (*browser.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Waits = append(c.Waits, timeout)

	queue := c.queues[c.pattern]
	if len(queue) == 0 {
		return nil, browser.ErrNoResponse
	}
	next := queue[0]
	c.queues[c.pattern] = queue[1:]
	if next == nil {
		return nil, browser.ErrNoResponse
	}
	return next, nil
}

func (c *Controller) RunScript(script string) error {
	c.mu.Lock()
	c.Scripts = append(c.Scripts, script)
	hook := c.onScript
	c.mu.Unlock()

	if hook != nil {
		hook(script)
	}
	return nil
}

func (c *Controller) FindElement(selector string) (browser.Element, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if element, ok := c.elements[selector]; ok {
		return element, nil
	}
	return nil, nil
}

func (c *Controller) HTML() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Page, nil
}

type Element struct {
	Content  string
	ClickErr error
	Clicks   int
}

func (e *Element) Text() (string, error) {
	return e.Content, nil
}

func (e *Element) Click() error {
	e.Clicks++
	return e.ClickErr
}
