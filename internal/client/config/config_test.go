package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name string
		env  string
		args []string
		want string
	}{
		{name: "default", want: "http://localhost:6001"},
		{name: "env", env: "http://api.test:8080", want: "http://api.test:8080"},
		{name: "flag wins", env: "http://api.test:8080", args: []string{"-a", "http://flag.test"}, want: "http://flag.test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.env != "" {
				t.Setenv("SOCIAL_API_URL", tt.env)
			}
			cfg, err := Load(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.APIURL)
		})
	}
}

func TestLoad_UnknownFlag(t *testing.T) {
	_, err := Load([]string{"-z"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse flags")
}
