package limiter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		errMsg string
	}{
		{name: "limit only", cfg: Config{Limit: 10}},
		{name: "offset only", cfg: Config{Offset: 5}},
		{name: "limit and offset", cfg: Config{Limit: 10, Offset: 5}},
		{name: "tail ignores offset", cfg: Config{Tail: 10, Offset: 5}},
		{name: "limit and tail", cfg: Config{Limit: 10, Tail: 5}, errMsg: "mutually exclusive"},
		{name: "negative limit", cfg: Config{Limit: -1}, errMsg: "non-negative"},
		{name: "negative offset", cfg: Config{Offset: -1}, errMsg: "non-negative"},
		{name: "negative tail", cfg: Config{Tail: -1}, errMsg: "non-negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestApply(t *testing.T) {
	rows := []string{"a", "b", "c", "d", "e"}
	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{"inactive", Config{}, rows},
		{"limit", Config{Limit: 2}, []string{"a", "b"}},
		{"offset", Config{Offset: 3}, []string{"d", "e"}},
		{"offset and limit", Config{Offset: 1, Limit: 2}, []string{"b", "c"}},
		{"limit past end", Config{Offset: 4, Limit: 10}, []string{"e"}},
		{"offset past end", Config{Offset: 9}, []string{}},
		{"tail", Config{Tail: 2, Offset: 1}, []string{"d", "e"}},
		{"tail longer than rows", Config{Tail: 9}, rows},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.cfg, rows))
		})
	}
}
