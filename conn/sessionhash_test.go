package conn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Known-answer vectors from wiki.vg's "Server Hash" examples: the
// session hash algorithm applied to just the string itself, standing in
// for an empty shared secret and public key.
func TestServerHashKnownVectors(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Notch", "4ed1f46bbe04bc756bcb17c0c7ce3e4632f06a48"},
		{"jeb_", "-7c9d5b0044c130109bd30cc5b0efbfa3ecd3581"},
		{"simon", "88e16a1019277b15d58faf0541e11910eb756f6"},
	}
	for _, c := range cases {
		got := ServerHash(c.in, nil, nil)
		assert.Equal(t, c.want, got, c.in)
	}
}
