package adapters

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/toyz/axonresolve/pkg/axon"
)

// EchoAdapter implements axon.WebServerInterface for Echo v4
type EchoAdapter struct {
	engine *echo.Echo
}

// NewEchoAdapter creates a new Echo adapter
func NewEchoAdapter(e *echo.Echo) *EchoAdapter {
	return &EchoAdapter{engine: e}
}

// NewDefaultEchoAdapter creates a new Echo adapter with default Echo instance
func NewDefaultEchoAdapter() *EchoAdapter {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return &EchoAdapter{engine: e}
}

func convertAxonPathToEcho(path axon.AxonPath) string {
	return path.Convert(func(name string) string { return ":" + name }, "*")
}

// RegisterRoute registers a route with the Echo server
func (ea *EchoAdapter) RegisterRoute(method string, path axon.AxonPath, handler axon.HandlerFunc, middlewares ...axon.MiddlewareFunc) {
	ea.engine.Add(method, convertAxonPathToEcho(path), convertEchoHandler(handler), echoMiddlewares(middlewares)...)
}

// RegisterGroup creates a new route group
func (ea *EchoAdapter) RegisterGroup(prefix string) axon.RouteGroup {
	return &EchoGroupAdapter{group: ea.engine.Group(prefix)}
}

// Mount serves a plain net/http handler for GET requests on path
func (ea *EchoAdapter) Mount(path string, handler http.Handler) {
	ea.engine.GET(path, echo.WrapHandler(handler))
}

// Use adds global middleware
func (ea *EchoAdapter) Use(middleware axon.MiddlewareFunc) {
	ea.engine.Use(convertEchoMiddleware(middleware))
}

// Start starts the server and blocks until it is shut down
func (ea *EchoAdapter) Start(addr string) error {
	if err := ea.engine.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the server
func (ea *EchoAdapter) Stop(ctx context.Context) error {
	return ea.engine.Shutdown(ctx)
}

// Name returns the adapter name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// GetEngine returns the underlying Echo instance
func (ea *EchoAdapter) GetEngine() *echo.Echo {
	return ea.engine
}

// EchoGroupAdapter implements axon.RouteGroup for Echo groups
type EchoGroupAdapter struct {
	group *echo.Group
}

// RegisterRoute registers a route with the group
func (ega *EchoGroupAdapter) RegisterRoute(method string, path axon.AxonPath, handler axon.HandlerFunc, middlewares ...axon.MiddlewareFunc) {
	ega.group.Add(method, convertAxonPathToEcho(path), convertEchoHandler(handler), echoMiddlewares(middlewares)...)
}

// Use adds middleware to the group
func (ega *EchoGroupAdapter) Use(middleware axon.MiddlewareFunc) {
	ega.group.Use(convertEchoMiddleware(middleware))
}

// Group creates a sub-group
func (ega *EchoGroupAdapter) Group(prefix string) axon.RouteGroup {
	return &EchoGroupAdapter{group: ega.group.Group(prefix)}
}

func echoMiddlewares(middlewares []axon.MiddlewareFunc) []echo.MiddlewareFunc {
	converted := make([]echo.MiddlewareFunc, len(middlewares))
	for i, mw := range middlewares {
		converted[i] = convertEchoMiddleware(mw)
	}
	return converted
}

// convertEchoHandler converts axon.HandlerFunc to echo.HandlerFunc. Errors
// are rendered here so every adapter answers with the same error body.
func convertEchoHandler(handler axon.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := handler(&EchoRequestContext{context: c}); err != nil {
			if c.Response().Committed {
				return nil
			}
			return c.JSON(axon.ErrorBody(err))
		}
		return nil
	}
}

// convertEchoMiddleware converts axon.MiddlewareFunc to echo.MiddlewareFunc
func convertEchoMiddleware(middleware axon.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			axonNext := func(axon.RequestContext) error {
				return next(c)
			}

			if err := middleware(axonNext)(&EchoRequestContext{context: c}); err != nil {
				if c.Response().Committed {
					return nil
				}
				return c.JSON(axon.ErrorBody(err))
			}
			return nil
		}
	}
}

// EchoRequestContext implements axon.RequestContext for Echo
type EchoRequestContext struct {
	context echo.Context
}

func (erc *EchoRequestContext) Method() string {
	return erc.context.Request().Method
}

func (erc *EchoRequestContext) Path() string {
	return erc.context.Request().URL.Path
}

func (erc *EchoRequestContext) RealIP() string {
	return erc.context.RealIP()
}

func (erc *EchoRequestContext) Param(key string) string {
	return erc.context.Param(key)
}

func (erc *EchoRequestContext) ParamNames() []string {
	return erc.context.ParamNames()
}

func (erc *EchoRequestContext) QueryParam(key string) string {
	return erc.context.QueryParam(key)
}

func (erc *EchoRequestContext) QueryParams() map[string][]string {
	return erc.context.QueryParams()
}

func (erc *EchoRequestContext) QueryString() string {
	return erc.context.QueryString()
}

func (erc *EchoRequestContext) Request() axon.RequestInterface {
	return &EchoRequest{context: erc.context}
}

func (erc *EchoRequestContext) Response() axon.ResponseInterface {
	return &EchoResponse{context: erc.context}
}

func (erc *EchoRequestContext) Get(key string) interface{} {
	return erc.context.Get(key)
}

func (erc *EchoRequestContext) Set(key string, val interface{}) {
	erc.context.Set(key, val)
}

// EchoRequest implements axon.RequestInterface for Echo
type EchoRequest struct {
	context echo.Context
}

func (er *EchoRequest) Header(key string) string {
	return er.context.Request().Header.Get(key)
}

// Body returns what ReadBody read, dropping the error
func (er *EchoRequest) Body() []byte {
	body, _ := er.ReadBody()
	return body
}

// ReadBody reads the request body on first use and caches the bytes and
// the read error on the context
func (er *EchoRequest) ReadBody() ([]byte, error) {
	if cached, ok := er.context.Get(bodyKey).(bufferedBody); ok {
		return cached.data, cached.err
	}

	b := bufferBody(er.context.Request().Body)
	er.context.Set(bodyKey, b)
	return b.data, b.err
}

func (er *EchoRequest) ContentLength() int64 {
	return er.context.Request().ContentLength
}

func (er *EchoRequest) ContentType() string {
	return er.context.Request().Header.Get(echo.HeaderContentType)
}

// EchoResponse implements axon.ResponseInterface for Echo
type EchoResponse struct {
	context echo.Context
}

func (er *EchoResponse) Status() int {
	return er.context.Response().Status
}

func (er *EchoResponse) SetStatus(code int) {
	er.context.Response().Status = code
}

func (er *EchoResponse) Header(key string) string {
	return er.context.Response().Header().Get(key)
}

func (er *EchoResponse) SetHeader(key, value string) {
	er.context.Response().Header().Set(key, value)
}

func (er *EchoResponse) JSON(code int, i interface{}) error {
	return er.context.JSON(code, i)
}

func (er *EchoResponse) String(code int, s string) error {
	return er.context.String(code, s)
}

func (er *EchoResponse) Blob(code int, contentType string, b []byte) error {
	return er.context.Blob(code, contentType, b)
}

func (er *EchoResponse) NoContent(code int) error {
	return er.context.NoContent(code)
}

func (er *EchoResponse) Written() bool {
	return er.context.Response().Committed
}
