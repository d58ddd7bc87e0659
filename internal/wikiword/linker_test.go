package wikiword_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wakawaka/internal/wikiword"
)

type fakeResolver map[string]string

func (f fakeResolver) PageExists(slug string) (string, bool) {
	canonical, ok := f[slug]
	return canonical, ok
}

type fakeURLs struct{}

func (fakeURLs) PageURL(slug string) string { return "/page/" + slug }
func (fakeURLs) EditURL(slug string) string { return "/edit/" + slug }

func newTestLinker(t *testing.T, pages ...string) *wikiword.Linker {
	t.Helper()
	resolver := fakeResolver{}
	for _, slug := range pages {
		resolver[slug] = slug
	}
	linker, err := wikiword.New("", resolver, fakeURLs{})
	require.NoError(t, err)
	return linker
}

func TestReplaceExistingAndMissingPages(t *testing.T) {
	linker := newTestLinker(t, "CarrotCake")

	out := linker.Replace("See CarrotCake and BeanSoup and Carrotcake")

	// Existing page links to the view, unknown CamelCase slugs link to
	// the creation form, single-segment words stay plain text.
	assert.Equal(t, `See <a href="/page/CarrotCake">CarrotCake</a> and `+
		`<a class="doesnotexist" href="/edit/BeanSoup">BeanSoup</a> and Carrotcake`, out)
}

func TestReplaceMissingPageGetsMarkerClass(t *testing.T) {
	linker := newTestLinker(t)

	out := linker.Replace("Start at WikiIndex please")
	assert.Equal(t, `Start at <a class="doesnotexist" href="/edit/WikiIndex">WikiIndex</a> please`, out)
}

func TestSingleSegmentDoesNotMatch(t *testing.T) {
	linker := newTestLinker(t, "Carrotcake")

	// Even an existing page is only linked when the token matches the
	// slug pattern: one CamelCase segment never does.
	out := linker.Replace("Carrotcake")
	assert.Equal(t, "Carrotcake", out)
}

func TestWholeWordOnly(t *testing.T) {
	linker := newTestLinker(t, "CarrotCake")

	out := linker.Replace("xCarrotCakey is not a wiki word")
	assert.Equal(t, "xCarrotCakey is not a wiki word", out)
}

func TestSlashChainedSlugs(t *testing.T) {
	linker := newTestLinker(t, "CarrotCake/WithButter")

	out := linker.Replace("Try CarrotCake/WithButter today")
	assert.Contains(t, out, `<a href="/page/CarrotCake/WithButter">CarrotCake/WithButter</a>`)
}

func TestCustomPattern(t *testing.T) {
	linker, err := wikiword.New(`\b(wiki:[a-z]+)\b`, fakeResolver{}, fakeURLs{})
	require.NoError(t, err)

	out := linker.Replace("go to wiki:home now")
	assert.Contains(t, out, `href="/edit/wiki:home"`)
}

func TestInvalidPattern(t *testing.T) {
	_, err := wikiword.New(`(`, fakeResolver{}, fakeURLs{})
	assert.Error(t, err)
}

func TestCanonicalSlugUsedAsAnchorText(t *testing.T) {
	linker, err := wikiword.New("", fakeResolver{"CarrotCake": "CarrotCake"}, fakeURLs{})
	require.NoError(t, err)

	out := linker.Replace("CarrotCake")
	assert.Equal(t, `<a href="/page/CarrotCake">CarrotCake</a>`, out)
}
