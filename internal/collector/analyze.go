package collector

import (
	"net/url"
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"')\]]+`)

// brandMatcher matches one tracked brand (and its aliases) in answer text,
// case-insensitively on word boundaries so "Acme" does not match "Acmeta"
type brandMatcher struct {
	name     string
	patterns []*regexp.Regexp
}

func newBrandMatcher(name string, aliases []string) brandMatcher {
	terms := append([]string{name}, aliases...)
	patterns := make([]*regexp.Regexp, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(term)+`\b`))
	}
	return brandMatcher{name: name, patterns: patterns}
}

// firstMention returns the byte offset of the earliest occurrence, or -1
func (m brandMatcher) firstMention(text string) int {
	first := -1
	for _, pattern := range m.patterns {
		if loc := pattern.FindStringIndex(text); loc != nil {
			if first == -1 || loc[0] < first {
				first = loc[0]
			}
		}
	}
	return first
}

// mentionCount returns the total number of occurrences across all terms
func (m brandMatcher) mentionCount(text string) int {
	count := 0
	for _, pattern := range m.patterns {
		count += len(pattern.FindAllStringIndex(text, -1))
	}
	return count
}

// citedURLs extracts http(s) URLs from answer text, de-duplicated in order
// of first appearance
func citedURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	seen := make(map[string]bool, len(matches))
	urls := make([]string, 0, len(matches))
	for _, match := range matches {
		match = strings.TrimRight(match, ".,;:!?")
		if match == "" || seen[match] {
			continue
		}
		seen[match] = true
		urls = append(urls, match)
	}
	return urls
}

// sourceHost reduces a URL to its content domain ("www.reddit.com/r/x" and
// "reddit.com/y" both land on "reddit.com")
func sourceHost(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return ""
	}
	host := strings.ToLower(parsed.Host)
	host = strings.TrimPrefix(host, "www.")
	if i := strings.Index(host, ":"); i >= 0 {
		host = host[:i]
	}
	return host
}

// appearanceRanks orders the brands present in an answer by first-mention
// offset and assigns 1-based ranks
func appearanceRanks(offsets map[string]int) map[string]int {
	type hit struct {
		brand  string
		offset int
	}
	hits := make([]hit, 0, len(offsets))
	for brand, offset := range offsets {
		if offset >= 0 {
			hits = append(hits, hit{brand, offset})
		}
	}

	// insertion sort keeps this allocation-free for the few brands per answer
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].offset < hits[j-1].offset; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}

	ranks := make(map[string]int, len(hits))
	for i, h := range hits {
		ranks[h.brand] = i + 1
	}
	return ranks
}
