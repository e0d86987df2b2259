package odatagen_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/odatagen"
	"github.com/syssam/odatagen/compiler/gen"
	"github.com/syssam/odatagen/compiler/load"
)

const trippin = "compiler/load/testdata/trippin.xml"

func config(t *testing.T, dir string, opts ...gen.Option) *gen.Config {
	t.Helper()
	return gen.MustNewConfig(append([]gen.Option{
		gen.WithTarget(dir),
		gen.WithLogger(slog.New(slog.DiscardHandler)),
	}, opts...)...)
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("typescript by default", func(t *testing.T) {
		var logs bytes.Buffer
		dir := filepath.Join(t.TempDir(), "models")
		cfg := config(t, dir, gen.WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))))

		m, err := odatagen.Generate(context.Background(), load.FileSource{Path: trippin}, cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, 6, m.Len())

		src, err := os.ReadFile(filepath.Join(dir, "Person.ts"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(src), "/* This code was generated by odatagen v"+odatagen.Version+" */"))
		assert.FileExists(t, filepath.Join(dir, "AllModels.ts"))
		assert.Contains(t, logs.String(), "run=")
		assert.Empty(t, cfg.Version, "caller config is not modified")
	})

	t.Run("load failure writes nothing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "models")
		src := load.SourceFunc(func(context.Context) (*load.Schema, error) {
			return nil, errors.New("connection refused")
		})
		_, err := odatagen.Generate(context.Background(), src, config(t, dir), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
		assert.NoDirExists(t, dir)
	})

	t.Run("empty schema", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "models")
		src := load.SourceFunc(func(context.Context) (*load.Schema, error) {
			return &load.Schema{Namespace: "Empty"}, nil
		})
		m, err := odatagen.Generate(context.Background(), src, config(t, dir), nil)
		require.NoError(t, err)
		assert.Equal(t, 0, m.Len())
		assert.NoDirExists(t, dir)
	})

	t.Run("nil arguments", func(t *testing.T) {
		_, err := odatagen.Generate(context.Background(), nil, config(t, t.TempDir()), nil)
		assert.True(t, gen.IsConfigError(err))
		_, err = odatagen.Generate(context.Background(), load.FileSource{Path: trippin}, nil, nil)
		assert.True(t, gen.IsConfigError(err))
	})
}

func TestGenerateAll(t *testing.T) {
	t.Parallel()

	t.Run("multiple services", func(t *testing.T) {
		root := t.TempDir()
		services := []odatagen.Service{
			{Name: "ts", Source: load.FileSource{Path: trippin}, Config: config(t, filepath.Join(root, "ts"))},
			{Name: "go", Source: load.FileSource{Path: trippin}, Config: config(t, filepath.Join(root, "trippin")), Renderer: "go"},
		}
		manifests, err := odatagen.GenerateAll(context.Background(), services, 1)
		require.NoError(t, err)
		require.Len(t, manifests, 2)
		assert.FileExists(t, filepath.Join(root, "ts", "AllModels.ts"))
		assert.FileExists(t, filepath.Join(root, "trippin", "AllModels.go"))

		src, err := os.ReadFile(filepath.Join(root, "trippin", "Person.go"))
		require.NoError(t, err)
		assert.Contains(t, string(src), "package trippin")
		assert.Contains(t, string(src), "odatagen v"+odatagen.Version)
	})

	t.Run("failures are collected", func(t *testing.T) {
		root := t.TempDir()
		broken := load.SourceFunc(func(context.Context) (*load.Schema, error) {
			return nil, errors.New("boom")
		})
		services := []odatagen.Service{
			{Name: "ok", Source: load.FileSource{Path: trippin}, Config: config(t, filepath.Join(root, "ok"))},
			{Name: "broken", Source: broken, Config: config(t, filepath.Join(root, "broken"))},
			{Name: "unknown", Source: load.FileSource{Path: trippin}, Config: config(t, filepath.Join(root, "unknown")), Renderer: "cobol"},
		}
		manifests, err := odatagen.GenerateAll(context.Background(), services, 0)
		require.Error(t, err)
		assert.Contains(t, manifests, "ok")

		var agg *odatagen.AggregateError
		require.ErrorAs(t, err, &agg)
		assert.Len(t, agg.Errors, 2)
		assert.True(t, odatagen.IsServiceError(err))
		assert.True(t, gen.IsConfigError(err))
		assert.Contains(t, err.Error(), "service broken (generate)")
		assert.Contains(t, err.Error(), "service unknown (resolve)")
	})

	t.Run("shared target", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "models")
		services := []odatagen.Service{
			{Name: "a", Source: load.FileSource{Path: trippin}, Config: config(t, dir)},
			{Name: "b", Source: load.FileSource{Path: trippin}, Config: config(t, dir+"/")},
		}
		_, err := odatagen.GenerateAll(context.Background(), services, 0)
		assert.True(t, gen.IsConfigError(err))
	})

	t.Run("no services", func(t *testing.T) {
		_, err := odatagen.GenerateAll(context.Background(), nil, 0)
		assert.ErrorIs(t, err, odatagen.ErrNoServices)
	})
}

func TestCachedSource(t *testing.T) {
	t.Parallel()

	var loads atomic.Int32
	src := load.SourceFunc(func(ctx context.Context) (*load.Schema, error) {
		loads.Add(1)
		return load.FileSource{Path: trippin}.Load(ctx)
	})
	cache := odatagen.NewMemoryCache()
	key := odatagen.CacheKey{Service: "trippin", URL: "https://example.com/$metadata"}
	cached := odatagen.CachedSource(src, cache, key, time.Hour)

	first, err := cached.Load(context.Background())
	require.NoError(t, err)
	second, err := cached.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), loads.Load())
	assert.Equal(t, first, second)

	t.Run("corrupt entry is reloaded", func(t *testing.T) {
		require.NoError(t, cache.Set(context.Background(), key.String(), []byte("junk"), 0))
		_, err := cached.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(2), loads.Load())
	})
}

func TestMemoryCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := odatagen.NewMemoryCache()

	v, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	v, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	require.NoError(t, c.Set(ctx, "short", []byte("v"), time.Nanosecond))
	time.Sleep(time.Millisecond)
	v, err = c.Get(ctx, "short")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, c.Delete(ctx, "k"))
	v, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestAggregateError(t *testing.T) {
	t.Parallel()
	assert.NoError(t, odatagen.NewAggregateError(nil, nil))

	single := errors.New("one")
	assert.Equal(t, single, odatagen.NewAggregateError(nil, single))

	err := odatagen.NewAggregateError(errors.New("one"), errors.New("two"))
	assert.Contains(t, err.Error(), "odatagen: multiple errors:")
	assert.Contains(t, err.Error(), "[2] two")
}
