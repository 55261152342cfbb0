package didi_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/junioryono/didi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_GeneratesID(t *testing.T) {
	c := didi.New()

	_, err := uuid.Parse(c.ID())
	assert.NoError(t, err)
	assert.NotEqual(t, c.ID(), didi.New().ID())
	assert.Equal(t, "Composer("+c.ID()+")", c.String())
}

func TestNew_Options(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := didi.New(didi.WithID("app"), didi.WithLogger(logger), nil)
	assert.Equal(t, "app", c.ID())
	require.NotNil(t, c.Logger())

	p := didi.Singleton(newDb, didi.Kw("dsn", "x")).Named("db")
	p.MustResolve(c)
	p.MustResolve(c)

	out := buf.String()
	assert.Contains(t, out, "constructed singleton")
	assert.Contains(t, out, "provider=db")
	assert.Contains(t, out, "composer=app")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("constructed singleton")))
}

func TestComposer_CloseLogsTeardownFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	p := didi.Resource(func(didi.Args) (int, didi.Teardown, error) {
		return 1, func() error { return errBoom }, nil
	}).Named("flaky")

	c := didi.New(didi.WithLogger(logger))
	p.MustResolve(c)

	assert.Error(t, c.Close())
	assert.Contains(t, buf.String(), "teardown failed")
	assert.Contains(t, buf.String(), "flaky: boom")
}

func TestComposer_Close(t *testing.T) {
	g := newTestGraph()
	g.settings.Set(defaultSettings())
	c := didi.New()

	g.db.MustResolve(c)
	assert.False(t, c.IsClosed())

	require.NoError(t, c.Close())
	assert.True(t, c.IsClosed())
	assert.False(t, c.Resolved(g.db), "close drops cached values")

	_, err := g.service.Resolve(c)
	assert.ErrorIs(t, err, didi.ErrComposerClosed)
}

func TestComposer_Resolved(t *testing.T) {
	g := newTestGraph()
	g.settings.Set(defaultSettings())
	c := didi.New()

	assert.False(t, c.Resolved(g.db))
	assert.False(t, c.Resolved(g.api))

	g.service.MustResolve(c)

	assert.True(t, c.Resolved(g.db))
	assert.True(t, c.Resolved(g.api))
	assert.False(t, c.Resolved(g.repo))
	assert.False(t, c.Resolved(g.service))
	assert.False(t, c.Resolved(g.settings.Ref("db_dsn")))
	assert.False(t, c.Resolved(nil))
}

func TestComposer_Preload(t *testing.T) {
	g := newTestGraph()
	g.settings.Set(defaultSettings())
	c := didi.New()

	require.NoError(t, c.Preload(context.Background(), g.db, g.api, nil))

	assert.True(t, c.Resolved(g.db))
	assert.True(t, c.Resolved(g.api))

	svc := g.service.MustResolve(c)
	assert.Equal(t, int32(1), g.dbBuilds.Load())
	assert.Equal(t, int32(1), g.apiSetups.Load())
	assert.Same(t, g.db.MustResolve(c), svc.Repo.DB)
}

func TestComposer_PreloadWithConcurrencyLimit(t *testing.T) {
	g := newTestGraph()
	g.settings.Set(defaultSettings())
	c := didi.New(didi.WithPreloadConcurrency(1))

	require.NoError(t, c.Preload(context.Background(), g.db, g.api, g.service))
	assert.True(t, c.Resolved(g.db))
	assert.True(t, c.Resolved(g.api))
}

func TestComposer_PreloadError(t *testing.T) {
	g := newTestGraph()
	c := didi.New()

	err := c.Preload(context.Background(), g.db)
	assert.ErrorIs(t, err, didi.ErrConfigUnset)
	assert.False(t, c.Resolved(g.db))
}

func TestComposer_PreloadCanceled(t *testing.T) {
	g := newTestGraph()
	g.settings.Set(defaultSettings())
	c := didi.New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Preload(ctx, g.db, g.api)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, c.Resolved(g.db))
	assert.False(t, c.Resolved(g.api))
}

func TestComposer_PreloadClosed(t *testing.T) {
	c := didi.New()
	require.NoError(t, c.Close())

	assert.ErrorIs(t, c.Preload(context.Background()), didi.ErrComposerClosed)

	var nilComposer *didi.Composer
	assert.ErrorIs(t, nilComposer.Preload(context.Background()), didi.ErrNilComposer)
}

func TestResolve(t *testing.T) {
	g := newTestGraph()
	g.settings.Set(defaultSettings())
	c := didi.New()

	db, err := didi.Resolve[*Db](c, g.db)
	require.NoError(t, err)
	assert.Same(t, g.db.MustResolve(c), db)

	dsn, err := didi.Resolve[any](c, g.settings.Ref("db_dsn"))
	require.NoError(t, err)
	assert.Equal(t, "http://db", dsn)
}
