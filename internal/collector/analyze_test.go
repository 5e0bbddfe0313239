package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrandMatcherWordBoundaries(t *testing.T) {
	matcher := newBrandMatcher("Acme", nil)

	assert.Equal(t, 0, matcher.firstMention("Acme makes widgets"))
	assert.Equal(t, 8, matcher.firstMention("Try the Acme store"))
	assert.Equal(t, -1, matcher.firstMention("Acmeta is unrelated"))
	assert.Equal(t, -1, matcher.firstMention("nothing here"))
}

func TestBrandMatcherCaseInsensitive(t *testing.T) {
	matcher := newBrandMatcher("Acme", nil)

	assert.Equal(t, 2, matcher.mentionCount("I love acme. ACME rocks."))
}

func TestBrandMatcherAliases(t *testing.T) {
	matcher := newBrandMatcher("Acme Corp", []string{"Acme", "ACME Inc."})

	text := "Acme Corp, also known as Acme or ACME Inc., sells anvils"
	assert.Equal(t, 3, matcher.mentionCount(text))
	assert.Equal(t, 0, matcher.firstMention(text))
}

func TestBrandMatcherSkipsBlankAliases(t *testing.T) {
	matcher := newBrandMatcher("Acme", []string{"", "  "})

	assert.Len(t, matcher.patterns, 1)
}

func TestCitedURLs(t *testing.T) {
	text := `See https://www.reddit.com/r/widgets for reviews,
https://acme.com/docs. Also https://www.reddit.com/r/widgets again.`

	urls := citedURLs(text)

	assert.Equal(t, []string{
		"https://www.reddit.com/r/widgets",
		"https://acme.com/docs",
	}, urls)
}

func TestCitedURLsTrimsTrailingPunctuation(t *testing.T) {
	urls := citedURLs("Check http://example.com/page; then stop.")

	assert.Equal(t, []string{"http://example.com/page"}, urls)
}

func TestSourceHost(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://www.reddit.com/r/widgets", "reddit.com"},
		{"https://reddit.com/user/x", "reddit.com"},
		{"http://Example.COM:8080/path", "example.com"},
		{"not a url", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sourceHost(tt.raw), tt.raw)
	}
}

func TestAppearanceRanks(t *testing.T) {
	ranks := appearanceRanks(map[string]int{
		"Acme":  40,
		"Beta":  5,
		"Gamma": -1,
		"Delta": 12,
	})

	assert.Equal(t, map[string]int{
		"Beta":  1,
		"Delta": 2,
		"Acme":  3,
	}, ranks)
}

func TestAppearanceRanksEmpty(t *testing.T) {
	assert.Empty(t, appearanceRanks(map[string]int{"Acme": -1}))
	assert.Empty(t, appearanceRanks(nil))
}
