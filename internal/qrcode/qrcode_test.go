package qrcode

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "qrcodes")
	g, err := NewFileGenerator(dir, "https://feedback.example.com")
	require.NoError(t, err)

	url, err := g.Generate("65f0c0ffee0000000000abcd")
	require.NoError(t, err)
	assert.Equal(t, "/public/qrcodes/65f0c0ffee0000000000abcd.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "65f0c0ffee0000000000abcd.png"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "expected a PNG file")
}

func TestFeedbackURL(t *testing.T) {
	g, err := NewFileGenerator(t.TempDir(), "https://feedback.example.com")
	require.NoError(t, err)

	assert.Equal(t, "https://feedback.example.com/api/feedback/abc", g.FeedbackURL("abc"))
	assert.Equal(t, g.dir, g.Dir())
}
