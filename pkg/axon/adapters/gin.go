package adapters

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/toyz/axonresolve/pkg/axon"
)

// bodyKey is the context key the adapters cache the raw request body under,
// so a middleware and the handler see the same bytes
const bodyKey = "axon.body"

// bufferedBody is what the net/http based adapters cache under bodyKey
type bufferedBody struct {
	data []byte
	err  error
}

func bufferBody(r io.Reader) bufferedBody {
	if r == nil {
		return bufferedBody{data: []byte{}}
	}
	data, err := io.ReadAll(r)
	if data == nil {
		data = []byte{}
	}
	return bufferedBody{data: data, err: err}
}

// GinAdapter implements axon.WebServerInterface for Gin framework
type GinAdapter struct {
	engine *gin.Engine

	mu     sync.Mutex
	server *http.Server
}

// NewGinAdapter creates a new Gin adapter
func NewGinAdapter(g *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: g}
}

// NewDefaultGinAdapter creates a new Gin adapter with default Gin instance
func NewDefaultGinAdapter() *GinAdapter {
	return &GinAdapter{engine: gin.Default()}
}

// convertAxonPathToGin converts AxonPath to Gin path format
func convertAxonPathToGin(path axon.AxonPath) string {
	return path.Convert(func(name string) string { return ":" + name }, "*path")
}

// RegisterRoute registers a route with the Gin server
func (ga *GinAdapter) RegisterRoute(method string, path axon.AxonPath, handler axon.HandlerFunc, middlewares ...axon.MiddlewareFunc) {
	ga.engine.Handle(method, convertAxonPathToGin(path), ginHandlers(handler, middlewares)...)
}

// RegisterGroup registers a route group with the Gin server
func (ga *GinAdapter) RegisterGroup(prefix string) axon.RouteGroup {
	return &GinRouteGroup{group: ga.engine.Group(prefix)}
}

// Mount serves a plain net/http handler for GET requests on path
func (ga *GinAdapter) Mount(path string, handler http.Handler) {
	ga.engine.GET(path, gin.WrapH(handler))
}

// Use registers a global middleware with the Gin server
func (ga *GinAdapter) Use(middleware axon.MiddlewareFunc) {
	ga.engine.Use(convertGinMiddleware(middleware))
}

// Start serves the engine on addr until Stop is called
func (ga *GinAdapter) Start(addr string) error {
	ga.mu.Lock()
	ga.server = &http.Server{Addr: addr, Handler: ga.engine}
	server := ga.server
	ga.mu.Unlock()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down. Stopping a server that never
// started is a no-op.
func (ga *GinAdapter) Stop(ctx context.Context) error {
	ga.mu.Lock()
	server := ga.server
	ga.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// GetEngine returns the underlying Gin engine
func (ga *GinAdapter) GetEngine() *gin.Engine {
	return ga.engine
}

// GinRouteGroup implements axon.RouteGroup for Gin
type GinRouteGroup struct {
	group *gin.RouterGroup
}

// RegisterRoute registers a route within the group
func (grg *GinRouteGroup) RegisterRoute(method string, path axon.AxonPath, handler axon.HandlerFunc, middlewares ...axon.MiddlewareFunc) {
	grg.group.Handle(method, convertAxonPathToGin(path), ginHandlers(handler, middlewares)...)
}

// Use registers middleware with the group
func (grg *GinRouteGroup) Use(middleware axon.MiddlewareFunc) {
	grg.group.Use(convertGinMiddleware(middleware))
}

// Group creates a sub-group
func (grg *GinRouteGroup) Group(prefix string) axon.RouteGroup {
	return &GinRouteGroup{group: grg.group.Group(prefix)}
}

func ginHandlers(handler axon.HandlerFunc, middlewares []axon.MiddlewareFunc) []gin.HandlerFunc {
	handlers := make([]gin.HandlerFunc, 0, len(middlewares)+1)
	for _, middleware := range middlewares {
		handlers = append(handlers, convertGinMiddleware(middleware))
	}
	return append(handlers, convertGinHandler(handler))
}

// convertGinHandler converts axon.HandlerFunc to gin.HandlerFunc
func convertGinHandler(handler axon.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler(&GinRequestContext{ctx: c}); err != nil {
			c.JSON(axon.ErrorBody(err))
		}
	}
}

// convertGinMiddleware converts axon.MiddlewareFunc to gin.HandlerFunc
func convertGinMiddleware(middleware axon.MiddlewareFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		next := func(axon.RequestContext) error {
			c.Next()
			return nil
		}

		if err := middleware(next)(&GinRequestContext{ctx: c}); err != nil {
			c.AbortWithStatusJSON(axon.ErrorBody(err))
		}
	}
}

// GinRequestContext implements axon.RequestContext for Gin
type GinRequestContext struct {
	ctx *gin.Context
}

func (grc *GinRequestContext) Method() string {
	return grc.ctx.Request.Method
}

func (grc *GinRequestContext) Path() string {
	return grc.ctx.Request.URL.Path
}

func (grc *GinRequestContext) RealIP() string {
	return grc.ctx.ClientIP()
}

// Param returns a path parameter; "*" reads the catch-all segment
func (grc *GinRequestContext) Param(name string) string {
	if name == "*" {
		name = "path"
	}
	return grc.ctx.Param(name)
}

func (grc *GinRequestContext) ParamNames() []string {
	names := make([]string, 0, len(grc.ctx.Params))
	for _, param := range grc.ctx.Params {
		names = append(names, param.Key)
	}
	return names
}

func (grc *GinRequestContext) QueryParam(name string) string {
	return grc.ctx.Query(name)
}

func (grc *GinRequestContext) QueryParams() map[string][]string {
	return grc.ctx.Request.URL.Query()
}

func (grc *GinRequestContext) QueryString() string {
	return grc.ctx.Request.URL.RawQuery
}

func (grc *GinRequestContext) Request() axon.RequestInterface {
	return &GinRequestInterface{ctx: grc.ctx}
}

func (grc *GinRequestContext) Response() axon.ResponseInterface {
	return &GinResponseInterface{ctx: grc.ctx}
}

func (grc *GinRequestContext) Get(key string) interface{} {
	value, _ := grc.ctx.Get(key)
	return value
}

func (grc *GinRequestContext) Set(key string, val interface{}) {
	grc.ctx.Set(key, val)
}

// GinRequestInterface implements axon.RequestInterface for Gin
type GinRequestInterface struct {
	ctx *gin.Context
}

func (gri *GinRequestInterface) Header(key string) string {
	return gri.ctx.GetHeader(key)
}

// Body returns what ReadBody read, dropping the error
func (gri *GinRequestInterface) Body() []byte {
	body, _ := gri.ReadBody()
	return body
}

// ReadBody reads the request body on first use and caches the bytes and
// the read error on the context
func (gri *GinRequestInterface) ReadBody() ([]byte, error) {
	if cached, ok := gri.ctx.Get(bodyKey); ok {
		b := cached.(bufferedBody)
		return b.data, b.err
	}

	b := bufferBody(gri.ctx.Request.Body)
	gri.ctx.Set(bodyKey, b)
	return b.data, b.err
}

func (gri *GinRequestInterface) ContentLength() int64 {
	return gri.ctx.Request.ContentLength
}

func (gri *GinRequestInterface) ContentType() string {
	return gri.ctx.ContentType()
}

// GinResponseInterface implements axon.ResponseInterface for Gin
type GinResponseInterface struct {
	ctx *gin.Context
}

func (gri *GinResponseInterface) Status() int {
	return gri.ctx.Writer.Status()
}

func (gri *GinResponseInterface) SetStatus(code int) {
	gri.ctx.Status(code)
}

func (gri *GinResponseInterface) Header(key string) string {
	return gri.ctx.Writer.Header().Get(key)
}

func (gri *GinResponseInterface) SetHeader(key, value string) {
	gri.ctx.Header(key, value)
}

func (gri *GinResponseInterface) JSON(code int, i interface{}) error {
	gri.ctx.JSON(code, i)
	return nil
}

func (gri *GinResponseInterface) String(code int, s string) error {
	gri.ctx.String(code, s)
	return nil
}

func (gri *GinResponseInterface) Blob(code int, contentType string, b []byte) error {
	gri.ctx.Data(code, contentType, b)
	return nil
}

func (gri *GinResponseInterface) NoContent(code int) error {
	gri.ctx.Status(code)
	gri.ctx.Writer.WriteHeaderNow()
	return nil
}

func (gri *GinResponseInterface) Written() bool {
	return gri.ctx.Writer.Written()
}
