package ovba

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStreamPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`/VBA\dir`, "VBA/dir"},
		{"VBA/dir", "VBA/dir"},
		{`\VBA\Module1`, "VBA/Module1"},
		{"/PROJECT", "PROJECT"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeStreamPath(tc.in), "input %q", tc.in)
	}
}

func TestOpenProjectNotCompoundFile(t *testing.T) {
	_, err := OpenProject([]byte("not a compound file"), nil)
	assert.Error(t, err)
}
