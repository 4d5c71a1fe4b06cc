package resolvefx

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/toyz/axonresolve/internal/errors"
	"github.com/toyz/axonresolve/pkg/axon"
	"github.com/toyz/axonresolve/pkg/axon/axontest"
	"github.com/toyz/axonresolve/pkg/binding"
	"github.com/toyz/axonresolve/pkg/resolve"
)

type shadowBodyResolver struct{}

func newShadowBodyResolver() *shadowBodyResolver { return &shadowBodyResolver{} }

func (*shadowBodyResolver) SupportedMarker() resolve.MarkerType { return resolve.FromBodyMarker }

func (*shadowBodyResolver) Resolve(axon.RequestContext, *resolve.Argument, resolve.Marker) (interface{}, error) {
	return "shadow", nil
}

type countingObserver struct {
	mu    sync.Mutex
	calls map[resolve.Outcome]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{calls: make(map[resolve.Outcome]int)}
}

func (o *countingObserver) ObserveResolution(_ resolve.MarkerType, outcome resolve.Outcome, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls[outcome]++
}

func TestModule_ProvidesEngine(t *testing.T) {
	var (
		reg    *resolve.Registry
		binder *binding.Binder
		obs    *countingObserver
	)

	app := fxtest.New(t,
		Module(),
		fx.Supply(zap.NewNop()),
		fx.Provide(newCountingObserver),
		fx.Provide(AsObserver(func(o *countingObserver) *countingObserver { return o })),
		fx.Populate(&reg, &binder, &obs),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.Equal(t, 2, reg.Len())
	assert.True(t, reg.Has(resolve.FromBodyMarker))
	assert.True(t, reg.Has(resolve.FromQueryMarker))

	handler := binder.MustBind(func(page int) (int, error) { return page, nil }, "page @FromQuery")
	req := axontest.NewRequest(http.MethodGet, "/items", axontest.WithRawQuery("page=3"))
	require.NoError(t, handler(req))
	assert.JSONEq(t, `3`, string(req.Recorder.Body))

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, 1, obs.calls[resolve.OutcomeResolved])
}

func TestModule_DuplicateResolverFailsStartup(t *testing.T) {
	app := fx.New(
		Module(),
		fx.Provide(AsResolver(newShadowBodyResolver)),
		fx.Invoke(func(*resolve.Dispatcher) {}),
		fx.NopLogger,
	)

	err := app.Err()
	require.Error(t, err)

	var dup *resolve.DuplicateResolverError
	require.ErrorAs(t, err, &dup)
	require.Len(t, dup.Conflicts, 1)
	assert.Equal(t, resolve.FromBodyMarker, dup.Conflicts[0].Marker)
	assert.Len(t, dup.Conflicts[0].Resolvers, 2)
	assert.Equal(t, errors.DuplicateResolverErrorCode, dup.ErrorCode())
}

func TestModule_WithoutLogger(t *testing.T) {
	var dispatcher *resolve.Dispatcher

	app := fxtest.New(t, Module(), fx.Populate(&dispatcher))
	app.RequireStart()
	defer app.RequireStop()

	assert.NotNil(t, dispatcher.Registry())
}

func TestWithZapLogger(t *testing.T) {
	app := fxtest.New(t,
		fx.Supply(zap.NewNop()),
		WithZapLogger(),
		Module(),
		fx.Invoke(func(*resolve.Registry) {}),
	)
	app.RequireStart()
	app.RequireStop()
}
