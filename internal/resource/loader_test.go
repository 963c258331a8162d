package resource_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/resources/internal/resource"
)

type stubFetcher struct {
	data  []byte
	err   error
	calls int
}

func (s *stubFetcher) Fetch(context.Context) ([]byte, error) {
	s.calls++
	return s.data, s.err
}

func TestLoad_RemoteSource(t *testing.T) {
	srv := serveDocument(t, http.StatusOK, gistYAML)
	res, err := resource.Load(context.Background(), srv.URL+"/raw/resources.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"mine", "chop"}, res.Actions.Keys())
}

func TestLoad_LocalAsset(t *testing.T) {
	res, err := resource.Load(context.Background(), writeAsset(t, legacyYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"fish"}, res.Actions.Keys())
}

func TestLoad_UnreachableIsFetchError(t *testing.T) {
	res, err := resource.Load(context.Background(), "http://127.0.0.1:1/resources.yaml")
	assert.Nil(t, res)
	requireFetchError(t, err)
}

func TestLoad_EmptyLocationIsFetchError(t *testing.T) {
	_, err := resource.Load(context.Background(), "")
	requireFetchError(t, err)
}

func TestLoad_ActionsAsListIsParseError(t *testing.T) {
	path := writeAsset(t, "actions:\n  - mine\n  - chop\n")
	res, err := resource.Load(context.Background(), path)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, resource.ErrParse))
}

func TestLoader_SingleAttemptOnFailure(t *testing.T) {
	stub := &stubFetcher{err: &resource.FetchError{Location: "stub", Err: errors.New("boom")}}
	l := resource.NewLoaderWithFetcher("stub", stub, zaptest.NewLogger(t))

	_, err := l.Load(context.Background())
	requireFetchError(t, err)
	assert.Equal(t, 1, stub.calls, "loads must not retry")
}

func TestLoader_LoadPayload(t *testing.T) {
	stub := &stubFetcher{data: []byte(gistYAML)}
	l := resource.NewLoaderWithFetcher("stub", stub, zaptest.NewLogger(t))

	p, err := l.LoadPayload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"mining", "woodcutting"}, p.Skills.Names())
	require.NotNil(t, p.Equipments)
	assert.Equal(t, []string{"axe"}, p.Equipments.Names())
	assert.Equal(t, "stub", l.Location())
}

func TestLoader_LoadPayloadParseError(t *testing.T) {
	stub := &stubFetcher{data: []byte("actions: [mine]")}
	l := resource.NewLoaderWithFetcher("stub", stub, zap.NewNop())

	p, err := l.LoadPayload(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, resource.ErrParse))
	assert.Equal(t, resource.Payload{}, p)
}

func TestLoader_FreshValuesPerLoad(t *testing.T) {
	stub := &stubFetcher{data: []byte(gistYAML)}
	l := resource.NewLoaderWithFetcher("stub", stub, zap.NewNop())

	first, err := l.Load(context.Background())
	require.NoError(t, err)
	second, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, stub.calls)
}

func TestLoader_LogsLoadSummary(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	stub := &stubFetcher{data: []byte(gistYAML)}
	l := resource.NewLoaderWithFetcher("stub", stub, zap.New(core))

	_, err := l.Load(context.Background())
	require.NoError(t, err)

	loaded := logs.FilterMessage("resources loaded").All()
	require.Len(t, loaded, 1)
	fields := loaded[0].ContextMap()
	assert.Equal(t, int64(2), fields["actions"])
	assert.Equal(t, "stub", fields["location"])
	assert.NotEmpty(t, fields["load_id"])
}

func TestNewLoader_UnsupportedScheme(t *testing.T) {
	l, err := resource.NewLoader("gopher://example.com/resources", zap.NewNop())
	assert.Nil(t, l)
	requireFetchError(t, err)
}

func TestLoad_ShippedStaticAsset(t *testing.T) {
	res, err := resource.Load(context.Background(), "../../static/resources.yaml")
	require.NoError(t, err)

	idx := resource.Index(res)
	assert.True(t, idx.Skills.Equal(resource.NewSet("mining", "woodcutting", "smithing", "fishing")))
	assert.True(t, idx.Equipments.Equal(resource.NewSet("pickaxe", "axe", "furnace")))
	wood, ok := idx.Costs.Get("wood")
	require.True(t, ok)
	assert.Equal(t, 1.0, wood)
	assert.Equal(t, []string{"mine", "fish"}, res.Deferred.Keys())
}
