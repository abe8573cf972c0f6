package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "Rudzz Auto Care", "Rudzz Auto Care"},
		{"script tag", "<script>alert(1)</script>hello", "alert(1)hello"},
		{"nested markup", "a <b>bold</b> claim", "a bold claim"},
		{"entities escaped", `O'Brien & Sons "quality"`, "O&#39;Brien &amp; Sons &#34;quality&#34;"},
		{"unclosed tag drops remainder", "fine <img src=x onerror=alert(1)", "fine "},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Sanitize(tc.in))
		})
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse", 4) // min cost keeps the test quick
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, VerifyPassword(hash, "correct horse"))
	assert.False(t, VerifyPassword(hash, "wrong horse"))
	assert.False(t, VerifyPassword("not-a-hash", "correct horse"))
}
