package didi_test

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/junioryono/didi"
)

// ============================================================================
// Shared Test Types
// ============================================================================

// Settings is the configuration object most tests load into a slot.
type Settings struct {
	DBDsn      string `didi:"db_dsn"`
	APIBaseURL string `didi:"api_base_url"`
	Retries    int
}

// Db stands in for a database handle.
type Db struct {
	DSN string
}

// Repo depends on Db.
type Repo struct {
	DB *Db
}

// APIClient is a closable client used as a resource.
type APIClient struct {
	BaseURL string
	closed  atomic.Int32
}

func (c *APIClient) Close() error {
	c.closed.Add(1)
	return nil
}

func (c *APIClient) Closed() int {
	return int(c.closed.Load())
}

// Service depends on Repo and APIClient.
type Service struct {
	Repo *Repo
	API  *APIClient
}

var errBoom = errors.New("boom")

// ============================================================================
// Makers
// ============================================================================

func newDb(args didi.Args) (*Db, error) {
	dsn, err := didi.Arg[string](args, "dsn")
	if err != nil {
		return nil, err
	}
	return &Db{DSN: dsn}, nil
}

func newRepo(args didi.Args) (*Repo, error) {
	db, err := didi.Arg[*Db](args, "db")
	if err != nil {
		return nil, err
	}
	return &Repo{DB: db}, nil
}

func newService(args didi.Args) (*Service, error) {
	return &Service{
		Repo: didi.MustArg[*Repo](args, "repo"),
		API:  didi.MustArg[*APIClient](args, "api"),
	}, nil
}

// ============================================================================
// Graph
// ============================================================================

// testGraph is the settings -> db -> repo -> service graph with an API
// client resource, declared fresh for each test.
type testGraph struct {
	settings *didi.Config[Settings]
	db       *didi.SingletonProvider[*Db]
	repo     *didi.FactoryProvider[*Repo]
	api      *didi.ResourceProvider[*APIClient]
	service  *didi.FactoryProvider[*Service]

	dbBuilds  atomic.Int32
	apiSetups atomic.Int32

	mu        sync.Mutex
	teardowns []string
}

func newTestGraph() *testGraph {
	g := &testGraph{}

	g.settings = didi.NewConfig[Settings]("settings")

	g.db = didi.Singleton(func(args didi.Args) (*Db, error) {
		g.dbBuilds.Add(1)
		return newDb(args)
	}, didi.Kw("dsn", g.settings.Ref("db_dsn"))).Named("db")

	g.repo = didi.Factory(newRepo, didi.Kw("db", g.db)).Named("repo")

	g.api = didi.Resource(func(args didi.Args) (*APIClient, didi.Teardown, error) {
		g.apiSetups.Add(1)
		client := &APIClient{BaseURL: didi.MustArg[string](args, "base_url")}
		return client, func() error {
			g.recordTeardown("api")
			return client.Close()
		}, nil
	}, didi.Kw("base_url", g.settings.Ref("api_base_url"))).Named("api")

	g.service = didi.Factory(newService, didi.Kw("repo", g.repo), didi.Kw("api", g.api)).Named("service")

	return g
}

func (g *testGraph) recordTeardown(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.teardowns = append(g.teardowns, name)
}

func (g *testGraph) teardownLog() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.teardowns))
	copy(out, g.teardowns)
	return out
}

func defaultSettings() Settings {
	return Settings{DBDsn: "http://db", APIBaseURL: "http://api"}
}

// echoArgs returns a factory that hands its resolved arguments back.
func echoArgs(kwargs ...didi.Kwarg) *didi.FactoryProvider[didi.Args] {
	return didi.Factory(func(args didi.Args) (didi.Args, error) {
		return args, nil
	}, kwargs...)
}
