package didi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DBDsn", "db_dsn"},
		{"APIBaseURL", "api_base_url"},
		{"Retries", "retries"},
		{"HTTPPort2", "http_port2"},
		{"Port2Value", "port2_value"},
		{"URL", "url"},
		{"simple", "simple"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, snakeCase(tt.in))
		})
	}
}

func sampleMaker(Args) (int, error) { return 0, nil }

func TestFuncName(t *testing.T) {
	assert.Equal(t, "didi.sampleMaker", funcName(sampleMaker))
	assert.Contains(t, funcName(func() {}), "didi.TestFuncName.func")
}

func TestIsNilFunc(t *testing.T) {
	var nilMaker Maker[int]

	assert.True(t, isNilFunc(nil))
	assert.True(t, isNilFunc(nilMaker))
	assert.False(t, isNilFunc(sampleMaker))
	assert.False(t, isNilFunc(42))
}

func TestIsNilLazy(t *testing.T) {
	var nilProvider *SingletonProvider[int]
	var nilRef *AttrRef

	assert.True(t, isNilLazy(nil))
	assert.True(t, isNilLazy(nilProvider))
	assert.True(t, isNilLazy(nilRef))
	assert.False(t, isNilLazy(Singleton(sampleMaker)))
	assert.False(t, isNilLazy(NewConfig[int]("port").Ref("x")))
}
