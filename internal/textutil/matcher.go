package textutil

import "github.com/schollz/closestmatch"

// Matcher finds the candidate closest to a free-text description: an exact
// normalized match first, then a fuzzy bag-of-words match.
type Matcher struct {
	byKey map[string]int
	cm    *closestmatch.ClosestMatch
}

// NewMatcher indexes candidates. Candidates that normalize to the same key
// keep the first occurrence.
func NewMatcher(candidates []string) *Matcher {
	m := &Matcher{byKey: make(map[string]int, len(candidates))}
	keys := make([]string, 0, len(candidates))
	for i, c := range candidates {
		k := Normalize(c)
		if k == "" {
			continue
		}
		if _, dup := m.byKey[k]; dup {
			continue
		}
		m.byKey[k] = i
		keys = append(keys, k)
	}
	if len(keys) > 0 {
		m.cm = closestmatch.New(keys, []int{3, 4, 5})
	}
	return m
}

// Closest returns the index of the best candidate for text, or -1.
func (m *Matcher) Closest(text string) int {
	k := Normalize(text)
	if k == "" || m.cm == nil {
		return -1
	}
	if i, ok := m.byKey[k]; ok {
		return i
	}
	if match := m.cm.Closest(k); match != "" {
		if i, ok := m.byKey[match]; ok {
			return i
		}
	}
	return -1
}
