// Package browser is the page controller the harvester drives: navigation,
// scrolling, network interception and DOM lookups.
package browser

import (
	"github.com/pkg/errors"
	"time"
)

var ErrNoResponse = errors.New("no matching network response")

// Response is an intercepted network response matching the armed pattern.
type Response struct {
	URL    string
	Status int
	Body   []byte
}

type Element interface {
	Text() (string, error)
	Click() error
}

// Controller is the capability surface of a live page. WaitForNetwork blocks
// for at most timeout and is never cut short; callers check for cancellation
// after it returns.
type Controller interface {
	Navigate(url string) error
	Scroll(pixels int) error
	ScrollToBottom() error
	// Listen arms interception for responses whose URL contains pattern and
	// discards anything captured for a previous pattern.
	Listen(pattern string)
	WaitForNetwork(timeout time.Duration) (*Response, error)
	RunScript(script string) error
	// FindElement returns a nil Element when nothing matches selector.
	FindElement(selector string) (Element, error)
	HTML() (string, error)
}
