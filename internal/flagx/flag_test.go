package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-c", "conf.json", "-b", "http://api"},
			allowed: []string{"-c"},
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=alt.json", "-b", "http://api"},
			allowed: []string{"--config"},
			want:    []string{"--config=alt.json"},
		},
		{
			name:    "next dash token is not a value",
			args:    []string{"-c", "-b", "http://api"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "several allowed flags keep order",
			args:    []string{"-b", "http://api", "-x", "1", "-r", "60"},
			allowed: []string{"-b", "-r"},
			want:    []string{"-b", "http://api", "-r", "60"},
		},
		{
			name:    "nothing matches",
			args:    []string{"-x", "1", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFile(t *testing.T) {
	assert.Equal(t, "/etc/learnly.json", ConfigFile([]string{"-c", "/etc/learnly.json"}))
	assert.Equal(t, "/etc/learnly.json", ConfigFile([]string{"-b", "http://api", "-config", "/etc/learnly.json"}))
	assert.Equal(t, "second.json", ConfigFile([]string{"-c", "first.json", "-config", "second.json"}))
	assert.Empty(t, ConfigFile([]string{"-b", "http://api"}))
}
