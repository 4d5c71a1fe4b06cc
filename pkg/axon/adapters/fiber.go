package adapters

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/toyz/axonresolve/pkg/axon"
)

// writtenKey marks a Fiber context whose response was produced through
// FiberResponse
const writtenKey = "axon.written"

// FiberAdapter wraps a Fiber app to implement axon.WebServerInterface
type FiberAdapter struct {
	app *fiber.App
}

// NewFiberAdapter creates a new Fiber adapter instance
func NewFiberAdapter() *FiberAdapter {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			code, body := axon.ErrorBody(err)
			return c.Status(code).JSON(body)
		},
	})

	return &FiberAdapter{app: app}
}

// NewDefaultFiberAdapter creates a new Fiber adapter with default middleware
func NewDefaultFiberAdapter() *FiberAdapter {
	adapter := NewFiberAdapter()

	adapter.app.Use(logger.New())
	adapter.app.Use(recover.New())

	return adapter
}

func convertAxonPathToFiber(path axon.AxonPath) string {
	return path.Convert(func(name string) string { return ":" + name }, "*")
}

// RegisterRoute registers a route with the Fiber app
func (fa *FiberAdapter) RegisterRoute(method string, path axon.AxonPath, handler axon.HandlerFunc, middlewares ...axon.MiddlewareFunc) {
	fa.app.Add(strings.ToUpper(method), convertAxonPathToFiber(path), fiberHandlers(handler, middlewares)...)
}

// RegisterGroup creates a new route group with the given prefix
func (fa *FiberAdapter) RegisterGroup(prefix string) axon.RouteGroup {
	return &FiberRouteGroup{group: fa.app.Group(prefix)}
}

// Mount serves a plain net/http handler for GET requests on path
func (fa *FiberAdapter) Mount(path string, handler http.Handler) {
	fa.app.Get(path, adaptor.HTTPHandler(handler))
}

// Use adds middleware to the Fiber app
func (fa *FiberAdapter) Use(middleware axon.MiddlewareFunc) {
	fa.app.Use(convertFiberMiddleware(middleware))
}

// Start starts the Fiber server
func (fa *FiberAdapter) Start(addr string) error {
	return fa.app.Listen(addr)
}

// Stop gracefully shuts the server down within ctx
func (fa *FiberAdapter) Stop(ctx context.Context) error {
	return fa.app.ShutdownWithContext(ctx)
}

// Name returns the adapter name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

// GetApp returns the underlying Fiber app
func (fa *FiberAdapter) GetApp() *fiber.App {
	return fa.app
}

// FiberRouteGroup wraps a Fiber route group to implement axon.RouteGroup
type FiberRouteGroup struct {
	group fiber.Router
}

// RegisterRoute registers a route with this group
func (frg *FiberRouteGroup) RegisterRoute(method string, path axon.AxonPath, handler axon.HandlerFunc, middlewares ...axon.MiddlewareFunc) {
	frg.group.Add(strings.ToUpper(method), convertAxonPathToFiber(path), fiberHandlers(handler, middlewares)...)
}

// Use adds middleware to this route group
func (frg *FiberRouteGroup) Use(middleware axon.MiddlewareFunc) {
	frg.group.Use(convertFiberMiddleware(middleware))
}

// Group creates a sub-group with the given prefix
func (frg *FiberRouteGroup) Group(prefix string) axon.RouteGroup {
	return &FiberRouteGroup{group: frg.group.Group(prefix)}
}

func fiberHandlers(handler axon.HandlerFunc, middlewares []axon.MiddlewareFunc) []fiber.Handler {
	handlers := make([]fiber.Handler, 0, len(middlewares)+1)
	for _, mw := range middlewares {
		handlers = append(handlers, convertFiberMiddleware(mw))
	}
	return append(handlers, convertFiberHandler(handler))
}

// convertFiberHandler converts an Axon handler to a Fiber handler
func convertFiberHandler(handler axon.HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := handler(&FiberRequestContext{ctx: c}); err != nil {
			code, body := axon.ErrorBody(err)
			return c.Status(code).JSON(body)
		}
		return nil
	}
}

// convertFiberMiddleware converts an Axon middleware to a Fiber middleware
func convertFiberMiddleware(middleware axon.MiddlewareFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		next := func(axon.RequestContext) error {
			return c.Next()
		}

		if err := middleware(next)(&FiberRequestContext{ctx: c}); err != nil {
			code, body := axon.ErrorBody(err)
			return c.Status(code).JSON(body)
		}
		return nil
	}
}

// FiberRequestContext wraps fiber.Ctx to implement axon.RequestContext
type FiberRequestContext struct {
	ctx *fiber.Ctx
}

func (frc *FiberRequestContext) Method() string {
	return frc.ctx.Method()
}

func (frc *FiberRequestContext) Path() string {
	return frc.ctx.Path()
}

func (frc *FiberRequestContext) RealIP() string {
	return frc.ctx.IP()
}

func (frc *FiberRequestContext) Param(name string) string {
	return frc.ctx.Params(name)
}

func (frc *FiberRequestContext) ParamNames() []string {
	return frc.ctx.Route().Params
}

func (frc *FiberRequestContext) QueryParam(key string) string {
	return frc.ctx.Query(key)
}

// QueryParams keeps every value of a repeated key, unlike Ctx.Queries
func (frc *FiberRequestContext) QueryParams() map[string][]string {
	params := make(map[string][]string)
	frc.ctx.Request().URI().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		params[k] = append(params[k], string(value))
	})
	return params
}

func (frc *FiberRequestContext) QueryString() string {
	return string(frc.ctx.Request().URI().QueryString())
}

func (frc *FiberRequestContext) Request() axon.RequestInterface {
	return &FiberRequest{ctx: frc.ctx}
}

func (frc *FiberRequestContext) Response() axon.ResponseInterface {
	return &FiberResponse{ctx: frc.ctx}
}

func (frc *FiberRequestContext) Get(key string) interface{} {
	return frc.ctx.Locals(key)
}

func (frc *FiberRequestContext) Set(key string, val interface{}) {
	frc.ctx.Locals(key, val)
}

// FiberRequest implements axon.RequestInterface for Fiber
type FiberRequest struct {
	ctx *fiber.Ctx
}

func (fr *FiberRequest) Header(key string) string {
	return fr.ctx.Get(key)
}

// Body copies the request body on first use; fasthttp reuses the
// underlying buffer once the handler returns
func (fr *FiberRequest) Body() []byte {
	if cached, ok := fr.ctx.Locals(bodyKey).([]byte); ok {
		return cached
	}

	raw := fr.ctx.Body()
	body := make([]byte, len(raw))
	copy(body, raw)
	fr.ctx.Locals(bodyKey, body)
	return body
}

func (fr *FiberRequest) ContentLength() int64 {
	return int64(fr.ctx.Request().Header.ContentLength())
}

func (fr *FiberRequest) ContentType() string {
	return string(fr.ctx.Request().Header.ContentType())
}

// FiberResponse implements axon.ResponseInterface for Fiber
type FiberResponse struct {
	ctx *fiber.Ctx
}

func (fr *FiberResponse) Status() int {
	return fr.ctx.Response().StatusCode()
}

func (fr *FiberResponse) SetStatus(code int) {
	fr.ctx.Status(code)
}

func (fr *FiberResponse) Header(key string) string {
	return string(fr.ctx.Response().Header.Peek(key))
}

func (fr *FiberResponse) SetHeader(name, value string) {
	fr.ctx.Set(name, value)
}

func (fr *FiberResponse) JSON(code int, data interface{}) error {
	fr.markWritten()
	return fr.ctx.Status(code).JSON(data)
}

func (fr *FiberResponse) String(code int, s string) error {
	fr.markWritten()
	return fr.ctx.Status(code).SendString(s)
}

func (fr *FiberResponse) Blob(code int, contentType string, data []byte) error {
	fr.markWritten()
	fr.ctx.Set(fiber.HeaderContentType, contentType)
	return fr.ctx.Status(code).Send(data)
}

func (fr *FiberResponse) NoContent(code int) error {
	fr.markWritten()
	return fr.ctx.SendStatus(code)
}

func (fr *FiberResponse) Written() bool {
	written, _ := fr.ctx.Locals(writtenKey).(bool)
	return written
}

func (fr *FiberResponse) markWritten() {
	fr.ctx.Locals(writtenKey, true)
}
