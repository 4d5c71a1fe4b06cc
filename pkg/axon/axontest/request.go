// Package axontest provides an in-memory axon.RequestContext for tests.
package axontest

import (
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/toyz/axonresolve/pkg/axon"
)

// Option configures a Request
type Option func(*Request)

// WithBody sets the raw request body
func WithBody(body string) Option {
	return func(r *Request) {
		r.body = []byte(body)
	}
}

// WithBodyError makes reading the body fail with err after the bytes set by
// WithBody
func WithBodyError(err error) Option {
	return func(r *Request) {
		r.bodyErr = err
	}
}

// WithContentType sets the Content-Type header
func WithContentType(contentType string) Option {
	return func(r *Request) {
		r.header.Set("Content-Type", contentType)
	}
}

// WithQuery sets the query parameters
func WithQuery(query url.Values) Option {
	return func(r *Request) {
		r.query = query
	}
}

// WithRawQuery parses a raw query string such as "a=1&b[]=2"
func WithRawQuery(raw string) Option {
	return func(r *Request) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			panic(err)
		}
		r.query = values
	}
}

// WithParam sets a path parameter
func WithParam(name, value string) Option {
	return func(r *Request) {
		r.params[name] = value
		r.paramNames = append(r.paramNames, name)
	}
}

// Request is a recorded, framework-free request context
type Request struct {
	method     string
	path       string
	body       []byte
	bodyErr    error
	header     http.Header
	query      url.Values
	params     map[string]string
	paramNames []string
	values     map[string]interface{}

	// Recorder captures what handlers write
	Recorder *ResponseRecorder
}

// NewRequest creates a request for method and path
func NewRequest(method, path string, opts ...Option) *Request {
	r := &Request{
		method:   method,
		path:     path,
		header:   make(http.Header),
		query:    make(url.Values),
		params:   make(map[string]string),
		values:   make(map[string]interface{}),
		Recorder: &ResponseRecorder{header: make(http.Header)},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ axon.RequestContext = (*Request)(nil)

func (r *Request) Method() string                   { return r.method }
func (r *Request) Path() string                     { return r.path }
func (r *Request) RealIP() string                   { return "127.0.0.1" }
func (r *Request) Param(key string) string          { return r.params[key] }
func (r *Request) ParamNames() []string             { return r.paramNames }
func (r *Request) QueryParam(key string) string     { return r.query.Get(key) }
func (r *Request) QueryParams() map[string][]string { return r.query }
func (r *Request) QueryString() string              { return r.query.Encode() }
func (r *Request) Get(key string) interface{}       { return r.values[key] }
func (r *Request) Set(key string, val interface{})  { r.values[key] = val }

func (r *Request) Request() axon.RequestInterface   { return requestView{r} }
func (r *Request) Response() axon.ResponseInterface { return r.Recorder }

type requestView struct {
	r *Request
}

var _ axon.BodyReader = requestView{}

func (v requestView) Header(key string) string { return v.r.header.Get(key) }
func (v requestView) Body() []byte             { return v.r.body }
func (v requestView) ContentLength() int64     { return int64(len(v.r.body)) }

func (v requestView) ReadBody() ([]byte, error) { return v.r.body, v.r.bodyErr }
func (v requestView) ContentType() string {
	contentType := v.r.header.Get("Content-Type")
	if i := strings.IndexByte(contentType, ';'); i != -1 {
		contentType = contentType[:i]
	}
	return strings.TrimSpace(contentType)
}

// ResponseRecorder implements axon.ResponseInterface in memory
type ResponseRecorder struct {
	Code    int
	Body    []byte
	header  http.Header
	written bool
}

var _ axon.ResponseInterface = (*ResponseRecorder)(nil)

func (w *ResponseRecorder) Status() int                 { return w.Code }
func (w *ResponseRecorder) SetStatus(code int)          { w.Code = code }
func (w *ResponseRecorder) Header(key string) string    { return w.header.Get(key) }
func (w *ResponseRecorder) SetHeader(key, value string) { w.header.Set(key, value) }
func (w *ResponseRecorder) Written() bool               { return w.written }

func (w *ResponseRecorder) JSON(code int, i interface{}) error {
	body, err := json.Marshal(i)
	if err != nil {
		return err
	}
	return w.Blob(code, "application/json", body)
}

func (w *ResponseRecorder) String(code int, s string) error {
	return w.Blob(code, "text/plain; charset=utf-8", []byte(s))
}

func (w *ResponseRecorder) Blob(code int, contentType string, b []byte) error {
	w.Code = code
	w.header.Set("Content-Type", contentType)
	w.Body = append(w.Body[:0], b...)
	w.written = true
	return nil
}

func (w *ResponseRecorder) NoContent(code int) error {
	w.Code = code
	w.written = true
	return nil
}
