package envconfig_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/junioryono/didi"
	"github.com/junioryono/didi/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mailSettings struct {
	Host string `env:"HOST" envDefault:"localhost"`
	Port int    `env:"PORT" envDefault:"25"`
}

type appSettings struct {
	DBDsn      string        `env:"DB_DSN" envDefault:"postgres://localhost/app" didi:"db_dsn"`
	APIBaseURL string        `env:"API_BASE_URL,required"`
	Debug      bool          `env:"APP_DEBUG"`
	Timeout    time.Duration `env:"API_TIMEOUT" envDefault:"5s"`
	Ratio      float64       `env:"RATIO"`
	Workers    uint8         `env:"WORKERS" envDefault:"4"`
	Hosts      []string      `env:"HOSTS"`
	Untagged   string
	Mail       mailSettings `envPrefix:"MAIL_"`
}

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func environ(vars map[string]string) envconfig.Option {
	if vars == nil {
		vars = map[string]string{}
	}
	return envconfig.Environment(vars)
}

func TestParse_Defaults(t *testing.T) {
	s, err := envconfig.Parse[appSettings](
		envconfig.Files(),
		environ(map[string]string{"API_BASE_URL": "http://api"}),
	)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/app", s.DBDsn)
	assert.Equal(t, "http://api", s.APIBaseURL)
	assert.False(t, s.Debug)
	assert.Equal(t, 5*time.Second, s.Timeout)
	assert.Equal(t, uint8(4), s.Workers)
	assert.Nil(t, s.Hosts)
	assert.Equal(t, "localhost", s.Mail.Host)
	assert.Equal(t, 25, s.Mail.Port)
}

func TestParse_AllKinds(t *testing.T) {
	s, err := envconfig.Parse[appSettings](
		envconfig.Files(),
		environ(map[string]string{
			"DB_DSN":       "postgres://db",
			"API_BASE_URL": "http://api",
			"APP_DEBUG":    "true",
			"API_TIMEOUT":  "250ms",
			"RATIO":        "0.5",
			"WORKERS":      "16",
			"HOSTS":        "a,b,c",
			"Untagged":     "nope",
			"MAIL_HOST":    "smtp.example.com",
			"MAIL_PORT":    "587",
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, "postgres://db", s.DBDsn)
	assert.True(t, s.Debug)
	assert.Equal(t, 250*time.Millisecond, s.Timeout)
	assert.InDelta(t, 0.5, s.Ratio, 1e-9)
	assert.Equal(t, uint8(16), s.Workers)
	assert.Equal(t, []string{"a", "b", "c"}, s.Hosts)
	assert.Empty(t, s.Untagged)
	assert.Equal(t, "smtp.example.com", s.Mail.Host)
	assert.Equal(t, 587, s.Mail.Port)
}

func TestParse_Required(t *testing.T) {
	_, err := envconfig.Parse[appSettings](envconfig.Files(), environ(nil))

	var fieldErr *envconfig.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "API_BASE_URL", fieldErr.Var)
	assert.Contains(t, err.Error(), "API_BASE_URL")
	assert.ErrorIs(t, err, envconfig.ErrRequired)
}

func TestParse_InvalidValue(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		val   string
		field string
	}{
		{"bool", "APP_DEBUG", "maybe", "Debug"},
		{"duration", "API_TIMEOUT", "soon", "Timeout"},
		{"overflow", "WORKERS", "300", "Workers"},
		{"float", "RATIO", "half", "Ratio"},
		{"nested int", "MAIL_PORT", "smtp", "Port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := envconfig.Parse[appSettings](
				envconfig.Files(),
				environ(map[string]string{"API_BASE_URL": "http://api", tt.key: tt.val}),
			)

			var fieldErr *envconfig.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

func TestParse_UnsupportedType(t *testing.T) {
	type bad struct {
		Phase complex128 `env:"PHASE"`
	}

	_, err := envconfig.Parse[bad](envconfig.Files(), environ(map[string]string{"PHASE": "1+2i"}))
	assert.ErrorIs(t, err, envconfig.ErrUnsupportedType)
}

func TestParse_NotStruct(t *testing.T) {
	_, err := envconfig.Parse[string](envconfig.Files(), environ(nil))
	assert.ErrorIs(t, err, envconfig.ErrNotStruct)
}

func TestParse_EnvFile(t *testing.T) {
	path := writeEnv(t, "API_BASE_URL=http://from-file\nDB_DSN=postgres://file\n")

	s, err := envconfig.Parse[appSettings](
		envconfig.Files(path),
		environ(map[string]string{"DB_DSN": "postgres://process"}),
	)
	require.NoError(t, err)

	assert.Equal(t, "http://from-file", s.APIBaseURL)
	assert.Equal(t, "postgres://process", s.DBDsn, "process environment wins over the file")
}

func TestParse_FirstFileWins(t *testing.T) {
	first := writeEnv(t, "API_BASE_URL=http://first\n")
	second := writeEnv(t, "API_BASE_URL=http://second\nDB_DSN=postgres://second\n")

	s, err := envconfig.Parse[appSettings](envconfig.Files(first, second), environ(nil))
	require.NoError(t, err)

	assert.Equal(t, "http://first", s.APIBaseURL)
	assert.Equal(t, "postgres://second", s.DBDsn)
}

func TestParse_MissingFileIgnored(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.env")

	s, err := envconfig.Parse[appSettings](
		envconfig.Files(missing),
		environ(map[string]string{"API_BASE_URL": "http://api"}),
	)
	require.NoError(t, err)
	assert.Equal(t, "http://api", s.APIBaseURL)
}

func TestParse_ProcessEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://process")

	s, err := envconfig.Parse[appSettings](envconfig.Files())
	require.NoError(t, err)
	assert.Equal(t, "http://process", s.APIBaseURL)
}

func TestLoad_SetsSlot(t *testing.T) {
	settings := didi.NewConfig[appSettings]("settings")
	db := didi.Singleton(func(args didi.Args) (string, error) {
		return didi.MustArg[string](args, "dsn"), nil
	}, didi.Kw("dsn", settings.Ref("db_dsn")))

	err := envconfig.Load(settings,
		envconfig.Files(writeEnv(t, "API_BASE_URL=http://api\nDB_DSN=postgres://loaded\n")),
		environ(nil),
	)
	require.NoError(t, err)
	require.True(t, settings.IsSet())

	dsn, err := db.Resolve(didi.New())
	require.NoError(t, err)
	assert.Equal(t, "postgres://loaded", dsn)
}

func TestLoad_ErrorLeavesSlotUnset(t *testing.T) {
	settings := didi.NewConfig[appSettings]("settings")

	err := envconfig.Load(settings, envconfig.Files(), environ(nil))
	assert.ErrorIs(t, err, envconfig.ErrRequired)
	assert.False(t, settings.IsSet())
}

func TestParse_EmptyCountsAsUnset(t *testing.T) {
	s, err := envconfig.Parse[appSettings](
		envconfig.Files(),
		environ(map[string]string{"API_BASE_URL": "http://api", "API_TIMEOUT": ""}),
	)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, s.Timeout)

	_, err = envconfig.Parse[appSettings](envconfig.Files(), environ(map[string]string{"API_BASE_URL": ""}))
	assert.ErrorIs(t, err, envconfig.ErrRequired)
}

func TestParse_ReportsEveryField(t *testing.T) {
	_, err := envconfig.Parse[appSettings](
		envconfig.Files(),
		environ(map[string]string{"APP_DEBUG": "maybe"}),
	)
	require.Error(t, err)

	assert.ErrorIs(t, err, envconfig.ErrRequired)
	assert.Contains(t, err.Error(), "API_BASE_URL")
	assert.Contains(t, err.Error(), "Debug")
}
