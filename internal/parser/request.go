// Package parser turns a curl command line into a structured request.
package parser

import (
	"errors"
	"strings"

	"github.com/example/curlgen/internal/jsonx"
)

// ErrMissingURL is returned when no URL token is present in the command.
var ErrMissingURL = errors.New("URL not found in curl command")

// ParseError reports why a command could not be parsed.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "parse curl command: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Headers is an ordered set of request headers.
type Headers = jsonx.Map[string]

// Request is the structured form of a curl command.
type Request struct {
	// Method is the HTTP method, as given when set explicitly.
	Method string `json:"method"`

	// URL is the last URL token of the command.
	URL string `json:"url"`

	// Headers holds headers in order of appearance.
	Headers *Headers `json:"headers"`

	// Body is the decoded and repaired JSON body, the raw data string when
	// it is not JSON, or nil when the command carries no data.
	Body any `json:"body"`

	// ParseError is set when parsing failed. URL and Body are then not
	// authoritative.
	ParseError string `json:"parseError,omitempty"`
}

// Header returns the value of a header, matching the name case-insensitively.
func (r *Request) Header(name string) (string, bool) {
	for k, v := range r.Headers.All() {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// IsQueryMethod reports whether entries are sent as query parameters
// rather than as a body when replaying this request.
func (r *Request) IsQueryMethod() bool {
	m := strings.ToUpper(r.Method)
	return m == "GET" || m == "HEAD"
}

// Failed reports whether the request carries a parse error.
func (r *Request) Failed() bool {
	return r.ParseError != ""
}
