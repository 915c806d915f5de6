package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"github.com/example/curlgen/internal/jsonx"
)

// ErrNotJSON is returned when a JSONPath is evaluated on a non-JSON body.
var ErrNotJSON = errors.New("client: response body is not JSON")

// Response is the result of one request.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
	Error      error
}

// Value returns the body as an ordered JSON value, or as text when it is
// not JSON. An empty body yields nil.
func (r *Response) Value() any {
	if r == nil || len(r.Body) == 0 {
		return nil
	}
	if v, err := jsonx.Decode(r.Body); err == nil {
		return v
	}
	return string(r.Body)
}

// Extract evaluates a JSONPath expression ("$.data.id") against the body.
func (r *Response) Extract(expr string) (any, error) {
	var data any
	if r == nil || json.Unmarshal(r.Body, &data) != nil {
		return nil, ErrNotJSON
	}
	v, err := jsonpath.Get(expr, data)
	if err != nil {
		return nil, fmt.Errorf("evaluating %q: %w", expr, err)
	}
	return v, nil
}

// Capture evaluates every expression and returns the values found, keyed
// like exprs in order. Expressions that fail are reported together.
func (r *Response) Capture(exprs *jsonx.Map[string]) (*jsonx.Object, error) {
	if exprs.Len() == 0 {
		return nil, nil
	}
	out := jsonx.NewObject()
	var errs []error
	for name, expr := range exprs.All() {
		v, err := r.Extract(expr)
		if err != nil {
			errs = append(errs, fmt.Errorf("capture %s: %w", name, err))
			continue
		}
		out.Set(name, v)
	}
	return out, errors.Join(errs...)
}
