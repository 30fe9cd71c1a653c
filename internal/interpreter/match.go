package interpreter

import (
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// audioExts are stripped from candidate names before matching, so "wind"
// fully covers "Wind.mp3".
var audioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".flac": true,
	".m4a":  true,
}

// normalize folds s into a compact key: accents decomposed and dropped,
// lower-cased, and everything outside [a-z0-9] removed.
func normalize(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range strings.ToLower(decomposed) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func candidateKey(name string) string {
	if ext := path.Ext(name); audioExts[strings.ToLower(ext)] {
		name = strings.TrimSuffix(name, ext)
	}
	return normalize(name)
}

// containmentScore returns the ratio of the shorter key to the longer one
// when either contains the other, and 0 otherwise.
func containmentScore(queryKey, candKey string) float64 {
	if queryKey == "" || candKey == "" {
		return 0
	}
	switch {
	case strings.Contains(candKey, queryKey):
		return float64(len(queryKey)) / float64(len(candKey))
	case strings.Contains(queryKey, candKey):
		return float64(len(candKey)) / float64(len(queryKey))
	}
	return 0
}

// BestMatch finds the candidate whose normalized key contains, or is
// contained in, the normalized query. The highest score wins and ties keep
// the earliest candidate. ok is false when nothing matches.
func BestMatch(query string, candidates []string) (match string, score float64, ok bool) {
	key := normalize(query)
	for _, c := range candidates {
		sc := containmentScore(key, candidateKey(c))
		if sc > score {
			match, score, ok = c, sc, true
		}
	}
	return match, score, ok
}

// resolveSpan searches the contiguous word spans of words, longest first,
// against candidates. At the first span length with any hit, the
// highest-scoring hit across that length wins (earliest on ties).
func resolveSpan(words []string, candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	for span := len(words); span > 0; span-- {
		var best string
		var bestScore float64
		for i := 0; i+span <= len(words); i++ {
			phrase := strings.Join(words[i:i+span], " ")
			m, sc, ok := BestMatch(phrase, candidates)
			if ok && sc > bestScore {
				best, bestScore = m, sc
			}
		}
		if bestScore > 0 {
			return best, true
		}
	}
	return "", false
}
