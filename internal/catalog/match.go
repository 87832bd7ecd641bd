package catalog

import (
	"sort"
	"strings"
)

// MatchSymptoms scans free text against the decision tree's keyword
// table and returns the matched symptom names, ordered by where the
// matching keyword first occurs in the text (ties broken by catalog
// order). Matching is a finite keyword scan: lowercase, whitespace
// collapsed, substring comparison with a space-stripped fallback so
// "head ache" and "headache" both hit. No stemming, no fuzzy matching.
func (c *Catalog) MatchSymptoms(text string) []string {
	norm := normalize(text)
	if norm == "" {
		return nil
	}
	// compactPos maps each index of the space-stripped text back to its
	// byte offset in norm, so fallback matches sort against the same
	// scale as direct matches.
	compactPos := make([]int, 0, len(norm))
	var cb strings.Builder
	for i := 0; i < len(norm); i++ {
		if norm[i] != ' ' {
			compactPos = append(compactPos, i)
			cb.WriteByte(norm[i])
		}
	}
	compact := cb.String()

	type match struct {
		symptom string
		pos     int
		rank    int
	}
	var matches []match
	for rank, entry := range c.tree {
		pos := -1
		for _, kw := range entry.Keywords {
			k := normalize(kw)
			if k == "" {
				continue
			}
			if i := strings.Index(norm, k); i >= 0 {
				if pos < 0 || i < pos {
					pos = i
				}
				continue
			}
			ck := strings.ReplaceAll(k, " ", "")
			if i := strings.Index(compact, ck); i >= 0 {
				if p := compactPos[i]; pos < 0 || p < pos {
					pos = p
				}
			}
		}
		if pos >= 0 {
			matches = append(matches, match{symptom: entry.Symptom, pos: pos, rank: rank})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].pos != matches[j].pos {
			return matches[i].pos < matches[j].pos
		}
		return matches[i].rank < matches[j].rank
	})
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.symptom
	}
	return out
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func foldEq(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func containsFold(opts []string, v string) bool {
	for _, o := range opts {
		if foldEq(o, v) {
			return true
		}
	}
	return false
}
