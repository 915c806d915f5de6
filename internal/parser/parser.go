package parser

import (
	"encoding/base64"
	"strings"

	"github.com/google/uuid"

	"github.com/example/curlgen/internal/jsonx"
)

// Method override headers consulted when neither -X nor data flags are given.
var methodOverrideHeaders = []string{"X-HTTP-Method-Override", "X-Method-Override"}

// IDSource returns a fresh 32 character hexadecimal identifier.
type IDSource func() string

// Parser parses curl commands.
//
// Thread Safety: Safe for concurrent use if the IDSource is.
type Parser struct {
	newID IDSource
}

// Option configures a Parser.
type Option func(*Parser)

// WithIDSource replaces the generator used for placeholder relation
// identifiers.
func WithIDSource(src IDSource) Option {
	return func(p *Parser) {
		if src != nil {
			p.newID = src
		}
	}
}

// New creates a parser.
func New(opts ...Option) *Parser {
	p := &Parser{newID: randomHex}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func randomHex() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

var defaultParser = New()

// Parse parses a command with the default parser.
func Parse(command string) (*Request, error) {
	return defaultParser.Parse(command)
}

// Parse turns a curl command into a Request.
//
// Unknown flags and malformed arguments are skipped. The only failure is a
// missing URL: the partial request is still returned together with a
// *ParseError, and its ParseError field carries the message.
func (p *Parser) Parse(command string) (*Request, error) {
	req := &Request{Headers: jsonx.NewMap[string]()}

	var (
		explicitMethod string
		hasData        bool
	)

	tokens := Tokenize(command)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		arg := func() (string, bool) {
			if i+1 >= len(tokens) {
				return "", false
			}
			i++
			return tokens[i], true
		}

		switch tok {
		case "-X", "--request":
			if m, ok := arg(); ok {
				explicitMethod = m
			}

		case "-H", "--header":
			if h, ok := arg(); ok {
				if sep := strings.Index(h, ":"); sep > 0 {
					req.Headers.Set(strings.TrimSpace(h[:sep]), strings.TrimSpace(h[sep+1:]))
				}
			}

		case "-B", "--oauth2-bearer":
			if token, ok := arg(); ok {
				req.Headers.Set("Authorization", "Bearer "+token)
			}

		case "-u", "--user":
			if creds, ok := arg(); ok {
				req.Headers.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(creds)))
			}

		case "-d", "--data", "--data-raw", "--data-binary":
			hasData = true
			if data, ok := arg(); ok {
				req.Body = p.decodeBody(stripQuotes(data))
			}

		case "-L", "--location":
			// Redirects are not followed on replay.

		default:
			if strings.HasPrefix(tok, "http") {
				req.URL = tok
			}
		}
	}

	req.Method = resolveMethod(explicitMethod, hasData, req)

	if req.URL == "" {
		err := &ParseError{Err: ErrMissingURL}
		req.ParseError = err.Error()
		return req, err
	}
	return req, nil
}

// resolveMethod applies the precedence explicit flag, data flag, override
// header, GET.
func resolveMethod(explicit string, hasData bool, req *Request) string {
	if explicit != "" {
		return explicit
	}
	if hasData {
		return "POST"
	}
	for _, name := range methodOverrideHeaders {
		if v, ok := req.Header(name); ok && v != "" {
			return v
		}
	}
	return "GET"
}

// stripQuotes removes one layer of single quotes, then one of double quotes.
func stripQuotes(s string) string {
	for _, q := range []string{"'", `"`} {
		s = strings.TrimPrefix(s, q)
		s = strings.TrimSuffix(s, q)
	}
	return s
}

// decodeBody parses data as JSON and repairs it, keeping the raw string
// when it is not JSON.
func (p *Parser) decodeBody(data string) any {
	v, err := jsonx.DecodeString(data)
	if err != nil {
		return data
	}
	return p.Repair(v)
}
