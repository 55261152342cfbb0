package main

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/junioryono/didi"
)

// Settings is populated by envconfig before anything is resolved.
type Settings struct {
	DBDsn      string        `env:"DB_DSN" envDefault:"postgres://localhost/app" didi:"db_dsn"`
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:8080" didi:"api_base_url"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"5s" didi:"api_timeout"`
}

type Database struct {
	DSN string
}

type UserRepository struct {
	DB *Database
}

type APIClient struct {
	BaseURL string
	Timeout time.Duration

	closed atomic.Bool
}

func (c *APIClient) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("api client %s already closed", c.BaseURL)
	}
	return nil
}

type UserService struct {
	Repo *UserRepository
	API  *APIClient
}

func (s *UserService) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "database: %s\n", s.Repo.DB.DSN)
	fmt.Fprintf(&b, "api:      %s (timeout %s)\n", s.API.BaseURL, s.API.Timeout)
	return b.String()
}

type graph struct {
	settings *didi.Config[Settings]
	db       *didi.SingletonProvider[*Database]
	repo     *didi.FactoryProvider[*UserRepository]
	api      *didi.ResourceProvider[*APIClient]
	service  *didi.FactoryProvider[*UserService]
}

type repoParams struct {
	DB *Database `didi:"db"`
}

func newGraph() *graph {
	g := &graph{settings: didi.NewConfig[Settings]("settings")}

	g.db = didi.Singleton(func(args didi.Args) (*Database, error) {
		return &Database{DSN: didi.MustArg[string](args, "dsn")}, nil
	}, didi.Kw("dsn", g.settings.Ref("db_dsn"))).Named("database")

	g.repo = didi.Factory(didi.Construct[*UserRepository](func(p repoParams) *UserRepository {
		return &UserRepository{DB: p.DB}
	}), didi.Kw("db", g.db)).Named("user-repository")

	g.api = didi.ResourceFromCloser(func(args didi.Args) (*APIClient, error) {
		return &APIClient{
			BaseURL: didi.MustArg[string](args, "base_url"),
			Timeout: didi.MustArg[time.Duration](args, "timeout"),
		}, nil
	},
		didi.Kw("base_url", g.settings.Ref("api_base_url")),
		didi.Kw("timeout", g.settings.Ref("api_timeout")),
	).Named("api-client")

	g.service = didi.Factory(func(args didi.Args) (*UserService, error) {
		repo, err := didi.Arg[*UserRepository](args, "repo")
		if err != nil {
			return nil, err
		}
		api, err := didi.Arg[*APIClient](args, "api")
		if err != nil {
			return nil, err
		}
		return &UserService{Repo: repo, API: api}, nil
	}, didi.Kw("repo", g.repo), didi.Kw("api", g.api)).Named("user-service")

	return g
}
