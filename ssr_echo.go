package render

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// EchoSSR is the echo form of SSR. Handler errors are returned to echo
// untouched so its error handler answers them.
func EchoSSR(c *Client, opts ...SSROption) echo.MiddlewareFunc {
	s := newSSR(c, opts)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ec echo.Context) error {
			res := ec.Response()
			inner := func(w http.ResponseWriter, r *http.Request) error {
				orig := res.Writer
				res.Writer = w
				defer func() {
					res.Writer = orig
					res.Committed = false
					res.Size = 0
				}()
				ec.SetRequest(r)
				return next(ec)
			}

			resp, err := s.handle(ec.Request(), inner)
			if err != nil {
				return err
			}
			for k, vs := range resp.Header {
				res.Header()[k] = vs
			}
			return ec.Blob(resp.StatusCode, resp.Header.Get("Content-Type"), resp.Body)
		}
	}
}
