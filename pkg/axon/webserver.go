package axon

import (
	"context"
	"net/http"
)

// WebServerInterface defines the contract for web server implementations
type WebServerInterface interface {
	// Route registration
	RegisterRoute(method string, path AxonPath, handler HandlerFunc, middlewares ...MiddlewareFunc)
	RegisterGroup(prefix string) RouteGroup

	// Mount attaches a plain net/http handler (metrics, pprof) for GET requests on path
	Mount(path string, handler http.Handler)

	// Global middleware
	Use(middleware MiddlewareFunc)

	// Server lifecycle
	Start(addr string) error
	Stop(ctx context.Context) error

	// Server information
	Name() string
}

// RouteGroup represents a group of routes with a common prefix
type RouteGroup interface {
	RegisterRoute(method string, path AxonPath, handler HandlerFunc, middlewares ...MiddlewareFunc)
	Use(middleware MiddlewareFunc)
	Group(prefix string) RouteGroup
}

// RequestContext provides a framework-agnostic view of an inbound request.
// Argument resolvers only read from it.
type RequestContext interface {
	// Request data
	Method() string
	Path() string
	RealIP() string

	// Path parameters
	Param(key string) string
	ParamNames() []string

	// Query parameters
	QueryParam(key string) string
	QueryParams() map[string][]string
	QueryString() string

	Request() RequestInterface
	Response() ResponseInterface

	// Context data
	Get(key string) interface{}
	Set(key string, val interface{})
}

// RequestInterface provides access to the underlying request
type RequestInterface interface {
	Header(key string) string
	// Body returns the raw request content. Implementations read the
	// underlying stream once and return the same bytes on every call.
	Body() []byte
	ContentLength() int64
	ContentType() string
}

// BodyReader is implemented by requests that can report a failed body read.
// ReadBody returns the same bytes and error on every call.
type BodyReader interface {
	ReadBody() ([]byte, error)
}

// ResponseInterface provides response writing capabilities
type ResponseInterface interface {
	// Status
	Status() int
	SetStatus(code int)

	// Headers
	Header(key string) string
	SetHeader(key, value string)

	// Content
	JSON(code int, i interface{}) error
	String(code int, s string) error
	Blob(code int, contentType string, b []byte) error
	NoContent(code int) error

	Written() bool
}

// HandlerFunc defines the signature for HTTP handlers
type HandlerFunc func(RequestContext) error

// MiddlewareFunc defines the signature for middleware
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// HTTPError represents an HTTP error with status code and message
type HTTPError struct {
	Code     int         `json:"code"`
	Message  interface{} `json:"message"`
	Internal error       `json:"-"` // Stores the error returned by an external dependency
}

// Error makes HTTPError implement the error interface
func (he *HTTPError) Error() string {
	if he.Internal != nil {
		return he.Internal.Error()
	}
	if msg, ok := he.Message.(string); ok {
		return msg
	}
	return StatusText(he.Code)
}

// Unwrap exposes the internal error to errors.Is / errors.As
func (he *HTTPError) Unwrap() error {
	return he.Internal
}

// NewHTTPError creates a new HTTPError instance
func NewHTTPError(code int, message ...interface{}) *HTTPError {
	he := &HTTPError{Code: code}
	if len(message) > 0 {
		he.Message = message[0]
	} else {
		he.Message = StatusText(code)
	}
	if len(message) > 1 {
		if err, ok := message[1].(error); ok {
			he.Internal = err
		}
	}
	return he
}

// StatusText returns a text for the HTTP status code
func StatusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Unknown"
}

// ErrorBody renders err the way every adapter writes it to the client
func ErrorBody(err error) (int, map[string]interface{}) {
	if httpErr, ok := err.(*HTTPError); ok {
		return httpErr.Code, map[string]interface{}{"error": httpErr.Message}
	}
	return http.StatusInternalServerError, map[string]interface{}{"error": err.Error()}
}
