package richtext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	out := Render("Grilled beef, **cheddar**.\n\n- pickles")
	require.Contains(t, out, "<strong>cheddar</strong>")
	require.Contains(t, out, "<li>pickles</li>")
}

func TestRenderStripsScripts(t *testing.T) {
	t.Parallel()

	out := Render(`Tasty <script>alert(1)</script><a href="javascript:alert(1)">x</a>`)
	require.NotContains(t, out, "<script")
	require.NotContains(t, out, "javascript:")
	require.Contains(t, out, "Tasty")
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	require.Empty(t, Render("   "))
	require.Empty(t, Plain(""))
}

func TestPlain(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Beer-battered onion rings. served with ranch", Plain("Beer-battered onion rings.\n\n- served with ranch"))
}

func TestRenderKeepsDescriptionHTML(t *testing.T) {
	t.Parallel()

	require.Equal(t, "<p>Spicy fried chicken</p>", Render("<p>Spicy fried chicken</p>"))
	require.Equal(t, "<p>Hot <b>spicy</b> wings</p>", Render("Hot <b>spicy</b> wings"))

	out := Render("<p>Spicy fried chicken</p>\n<script>alert(1)</script>")
	require.Contains(t, out, "<p>Spicy fried chicken</p>")
	require.NotContains(t, out, "<script")
	require.NotContains(t, out, "alert(1)")
	require.NotContains(t, out, "raw HTML omitted")
}
