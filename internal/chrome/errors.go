package chrome

import "errors"

// Sentinel errors for browser operations.
var (
	ErrBrowserConnect    = errors.New("failed to connect to browser")
	ErrPageCreate        = errors.New("failed to create browser page")
	ErrNavigation        = errors.New("navigation failed")
	ErrRender            = errors.New("render failed")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInvalidOption     = errors.New("invalid render option")
	ErrClosed            = errors.New("browser closed")
)

// NavigationError is a page load the browser refused, such as a DNS or
// connection failure. Reason carries Chromium's net::ERR_* text.
type NavigationError struct {
	Reason string
	URL    string
}

func (e *NavigationError) Error() string {
	return ErrNavigation.Error() + ": " + e.Message()
}

// Message is the browser reason followed by the target URL.
func (e *NavigationError) Message() string {
	return e.Reason + " at " + e.URL
}

func (e *NavigationError) Unwrap() error {
	return ErrNavigation
}
