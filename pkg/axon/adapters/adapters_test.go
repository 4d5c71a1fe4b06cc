package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyz/axonresolve/pkg/axon"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type serveFunc func(*http.Request) (int, string)

type adapterCase struct {
	name   string
	server axon.WebServerInterface
	serve  serveFunc
}

func adapterCases(t *testing.T) []adapterCase {
	t.Helper()

	ginAdapter := NewGinAdapter(gin.New())
	echoAdapter := NewDefaultEchoAdapter()
	fiberAdapter := NewFiberAdapter()

	viaHandler := func(h http.Handler) serveFunc {
		return func(req *http.Request) (int, string) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			return rec.Code, strings.TrimSpace(rec.Body.String())
		}
	}

	return []adapterCase{
		{"gin", ginAdapter, viaHandler(ginAdapter.GetEngine())},
		{"echo", echoAdapter, viaHandler(echoAdapter.GetEngine())},
		{"fiber", fiberAdapter, func(req *http.Request) (int, string) {
			resp, err := fiberAdapter.GetApp().Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			return resp.StatusCode, strings.TrimSpace(string(body))
		}},
	}
}

func TestAdapters_Name(t *testing.T) {
	assert.Equal(t, "Gin", NewDefaultGinAdapter().Name())
	assert.Equal(t, "Echo", NewDefaultEchoAdapter().Name())
	assert.Equal(t, "Fiber", NewFiberAdapter().Name())
}

func TestAdapters_JSON(t *testing.T) {
	for _, tc := range adapterCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			tc.server.RegisterRoute("GET", axon.NewAxonPath("/test"), func(ctx axon.RequestContext) error {
				return ctx.Response().JSON(http.StatusOK, map[string]string{"message": "hello"})
			})

			code, body := tc.serve(httptest.NewRequest("GET", "/test", nil))
			assert.Equal(t, http.StatusOK, code)
			assert.JSONEq(t, `{"message":"hello"}`, body)
		})
	}
}

func TestAdapters_PathParameters(t *testing.T) {
	for _, tc := range adapterCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			tc.server.RegisterRoute("GET", axon.NewAxonPath("/users/{id:int}/posts/{slug}"), func(ctx axon.RequestContext) error {
				return ctx.Response().JSON(http.StatusOK, map[string]interface{}{
					"id":    ctx.Param("id"),
					"slug":  ctx.Param("slug"),
					"names": ctx.ParamNames(),
				})
			})

			code, body := tc.serve(httptest.NewRequest("GET", "/users/42/posts/hello", nil))
			assert.Equal(t, http.StatusOK, code)
			assert.JSONEq(t, `{"id":"42","slug":"hello","names":["id","slug"]}`, body)
		})
	}
}

func TestAdapters_QueryParameters(t *testing.T) {
	for _, tc := range adapterCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			tc.server.RegisterRoute("GET", axon.NewAxonPath("/search"), func(ctx axon.RequestContext) error {
				return ctx.Response().JSON(http.StatusOK, map[string]interface{}{
					"q":    ctx.QueryParam("q"),
					"tags": ctx.QueryParams()["tag[]"],
					"tree": axon.NewQueryMap(ctx).Tree(),
					"raw":  ctx.QueryString(),
				})
			})

			code, body := tc.serve(httptest.NewRequest("GET", "/search?q=go&tag[]=a&tag[]=b", nil))
			assert.Equal(t, http.StatusOK, code)
			assert.JSONEq(t, `{
				"q": "go",
				"tags": ["a", "b"],
				"tree": {"q": "go", "tag": ["a", "b"]},
				"raw": "q=go&tag[]=a&tag[]=b"
			}`, body)
		})
	}
}

func TestAdapters_BodyIsCached(t *testing.T) {
	for _, tc := range adapterCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			peek := func(next axon.HandlerFunc) axon.HandlerFunc {
				return func(ctx axon.RequestContext) error {
					ctx.Set("peeked", string(ctx.Request().Body()))
					return next(ctx)
				}
			}

			tc.server.RegisterRoute("POST", axon.NewAxonPath("/echo"), func(ctx axon.RequestContext) error {
				return ctx.Response().JSON(http.StatusOK, map[string]interface{}{
					"peeked":       ctx.Get("peeked"),
					"body":         string(ctx.Request().Body()),
					"content_type": ctx.Request().ContentType(),
				})
			}, peek)

			req := httptest.NewRequest("POST", "/echo", strings.NewReader(`{"foobar":"barfoo"}`))
			req.Header.Set("Content-Type", "application/json")

			code, body := tc.serve(req)
			assert.Equal(t, http.StatusOK, code)
			assert.JSONEq(t, `{
				"peeked": "{\"foobar\":\"barfoo\"}",
				"body": "{\"foobar\":\"barfoo\"}",
				"content_type": "application/json"
			}`, body)
		})
	}
}

// cutOffReader yields data once, then fails like a dropped connection
type cutOffReader struct {
	data string
	sent bool
}

func (r *cutOffReader) Read(p []byte) (int, error) {
	if r.sent {
		return 0, io.ErrUnexpectedEOF
	}
	r.sent = true
	return copy(p, r.data), nil
}

func TestAdapters_BodyReadFailure(t *testing.T) {
	for _, tc := range adapterCases(t) {
		if tc.name == "fiber" {
			// fasthttp reads the whole body before the handler runs
			continue
		}
		t.Run(tc.name, func(t *testing.T) {
			tc.server.RegisterRoute("POST", axon.NewAxonPath("/upload"), func(ctx axon.RequestContext) error {
				reader, ok := ctx.Request().(axon.BodyReader)
				require.True(t, ok)

				body, err := reader.ReadBody()
				_, again := reader.ReadBody()
				return ctx.Response().JSON(http.StatusOK, map[string]interface{}{
					"body":   string(body),
					"error":  fmt.Sprint(err),
					"cached": again == err,
				})
			})

			req := httptest.NewRequest("POST", "/upload", &cutOffReader{data: `{"foo`})
			code, body := tc.serve(req)
			assert.Equal(t, http.StatusOK, code)
			assert.JSONEq(t, `{"body": "{\"foo", "error": "unexpected EOF", "cached": true}`, body)
		})
	}
}

func TestAdapters_ErrorHandling(t *testing.T) {
	for _, tc := range adapterCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			tc.server.RegisterRoute("GET", axon.NewAxonPath("/bad"), func(axon.RequestContext) error {
				return axon.NewHTTPError(http.StatusBadRequest, "Unable to resolve argument with name 'page' from query parameters.")
			})
			tc.server.RegisterRoute("GET", axon.NewAxonPath("/boom"), func(axon.RequestContext) error {
				return assert.AnError
			})

			code, body := tc.serve(httptest.NewRequest("GET", "/bad", nil))
			assert.Equal(t, http.StatusBadRequest, code)
			assert.JSONEq(t, `{"error":"Unable to resolve argument with name 'page' from query parameters."}`, body)

			code, body = tc.serve(httptest.NewRequest("GET", "/boom", nil))
			assert.Equal(t, http.StatusInternalServerError, code)
			assert.Contains(t, body, assert.AnError.Error())
		})
	}
}

func TestAdapters_MiddlewareRejects(t *testing.T) {
	for _, tc := range adapterCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			var reached bool
			deny := func(axon.HandlerFunc) axon.HandlerFunc {
				return func(axon.RequestContext) error {
					return axon.NewHTTPError(http.StatusForbidden, "denied")
				}
			}

			tc.server.RegisterRoute("GET", axon.NewAxonPath("/private"), func(axon.RequestContext) error {
				reached = true
				return nil
			}, deny)

			code, body := tc.serve(httptest.NewRequest("GET", "/private", nil))
			assert.Equal(t, http.StatusForbidden, code)
			assert.JSONEq(t, `{"error":"denied"}`, body)
			assert.False(t, reached)
		})
	}
}

func TestAdapters_GroupsAndGlobalMiddleware(t *testing.T) {
	for _, tc := range adapterCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			tc.server.Use(func(next axon.HandlerFunc) axon.HandlerFunc {
				return func(ctx axon.RequestContext) error {
					ctx.Set("global", "yes")
					return next(ctx)
				}
			})

			v1 := tc.server.RegisterGroup("/api").Group("/v1")
			v1.RegisterRoute("GET", axon.NewAxonPath("/ping"), func(ctx axon.RequestContext) error {
				return ctx.Response().JSON(http.StatusOK, map[string]interface{}{
					"global": ctx.Get("global"),
					"path":   ctx.Path(),
				})
			})

			code, body := tc.serve(httptest.NewRequest("GET", "/api/v1/ping", nil))
			assert.Equal(t, http.StatusOK, code)
			assert.JSONEq(t, `{"global":"yes","path":"/api/v1/ping"}`, body)
		})
	}
}

func TestAdapters_NoContentAndWritten(t *testing.T) {
	for _, tc := range adapterCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			var written bool
			tc.server.RegisterRoute("DELETE", axon.NewAxonPath("/items/{id}"), func(ctx axon.RequestContext) error {
				err := ctx.Response().NoContent(http.StatusNoContent)
				written = ctx.Response().Written()
				return err
			})

			code, body := tc.serve(httptest.NewRequest("DELETE", "/items/7", nil))
			assert.Equal(t, http.StatusNoContent, code)
			assert.Empty(t, body)
			assert.True(t, written)
		})
	}
}

func TestAdapters_Mount(t *testing.T) {
	for _, tc := range adapterCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			tc.server.Mount("/metrics", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				_, _ = w.Write([]byte("resolutions_total 3"))
			}))

			code, body := tc.serve(httptest.NewRequest("GET", "/metrics", nil))
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, "resolutions_total 3", body)
		})
	}
}

func TestAdapters_Wildcard(t *testing.T) {
	for _, tc := range adapterCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			tc.server.RegisterRoute("GET", axon.NewAxonPath("/files/{*}"), func(ctx axon.RequestContext) error {
				return ctx.Response().String(http.StatusOK, strings.TrimPrefix(ctx.Param("*"), "/"))
			})

			code, body := tc.serve(httptest.NewRequest("GET", "/files/docs/readme.md", nil))
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, "docs/readme.md", body)
		})
	}
}

func TestGinAdapter_StopWithoutStart(t *testing.T) {
	assert.NoError(t, NewDefaultGinAdapter().Stop(context.Background()))
}
