package skill

import "strings"

type Skill struct {
	Name     string
	Industry string
}

// Normalize lower-cases and trims a skill label. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CleanLabel strips the quote and bracket characters that list-valued CSV
// cells carry (e.g. "['Java', 'SQL']") and trims the result.
func CleanLabel(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\'', '"', '[', ']':
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// SplitCell splits a comma separated skills cell into cleaned labels,
// dropping empty items.
func SplitCell(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return []string{}
	}
	parts := strings.Split(cell, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = CleanLabel(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Set keeps unique labels in first-seen order. Uniqueness is exact on the
// cleaned label, matching how the catalog presents skills to users.
type Set struct {
	seen  map[string]struct{}
	order []string
}

func NewSet() *Set {
	return &Set{seen: make(map[string]struct{})}
}

func (s *Set) Add(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	if _, ok := s.seen[label]; ok {
		return false
	}
	s.seen[label] = struct{}{}
	s.order = append(s.order, label)
	return true
}

func (s *Set) Len() int {
	return len(s.order)
}

func (s *Set) Items() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// NormalizedSet returns the de-duplicated normalized form of labels.
func NormalizedSet(labels []string) map[string]struct{} {
	out := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		n := Normalize(l)
		if n == "" {
			continue
		}
		out[n] = struct{}{}
	}
	return out
}
