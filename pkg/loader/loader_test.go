package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHTML(t *testing.T) {
	html := `
		<html>
			<head><title>Voice Guide</title></head>
			<body>
				<nav>Home About</nav>
				<main>
					<h1>Tone of voice</h1>
					<p>We speak plainly   and warmly.</p>
				</main>
				<footer>Copyright</footer>
			</body>
		</html>
	`

	text, err := ExtractHTML(strings.NewReader(html))
	require.NoError(t, err)

	assert.Contains(t, text, "Tone of voice")
	assert.Contains(t, text, "We speak plainly and warmly.")
	assert.NotContains(t, text, "Home About")
	assert.NotContains(t, text, "Copyright")
}

func TestExtractHTMLFallsBackToBody(t *testing.T) {
	html := `<html><body><p>No main container here.</p></body></html>`

	text, err := ExtractHTML(strings.NewReader(html))
	require.NoError(t, err)
	assert.Equal(t, "No main container here.", text)
}

func TestExtractFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("plaintext", func(t *testing.T) {
		path := filepath.Join(tmpDir, "guide.txt")
		require.NoError(t, os.WriteFile(path, []byte("  our   brand\nis bold  "), 0644))

		text, err := ExtractFile(path)
		require.NoError(t, err)
		assert.Equal(t, "our brand is bold", text)
	})

	t.Run("html", func(t *testing.T) {
		path := filepath.Join(tmpDir, "guide.html")
		require.NoError(t, os.WriteFile(path, []byte("<html><body><main>Bold and kind.</main></body></html>"), 0644))

		text, err := ExtractFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Bold and kind.", text)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ExtractFile(filepath.Join(tmpDir, "nope.txt"))
		assert.Error(t, err)
	})
}
