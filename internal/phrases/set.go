// Package phrases holds the validated forbidden-phrase configuration used for
// redaction. A Set is immutable once built; reloading means building a new Set
// and publishing it through a Holder.
package phrases

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const DefaultReplacement = "[REDACTED]"

// minPasses is the pass budget Redact always gets. On top of it, every byte
// of input buys two more passes, since a phrase that straddles an inserted
// replacement can consume one input byte per pass.
const minPasses = 8

var (
	ErrCascade          = errors.New("forbidden phrase found in replacement")
	ErrEmptyReplacement = errors.New("replacement must not be empty")
)

// ValidationError names the phrase that made a candidate set unsafe. The whole
// candidate set is rejected, not just the offending phrase.
type ValidationError struct {
	Phrase      string
	Replacement string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("forbidden phrase %q found in replacement %q: cannot load phrase list because of risk of cascade",
		e.Phrase, e.Replacement)
}

func (e *ValidationError) Unwrap() error {
	return ErrCascade
}

type Set struct {
	phrases     []string
	replacement string
}

// TryBuild deduplicates phrases and checks that none of them is a substring
// of the replacement. The empty phrase is a substring of every replacement and
// is rejected the same way.
func TryBuild(phrases []string, replacement string) (*Set, error) {
	if replacement == "" {
		return nil, ErrEmptyReplacement
	}

	seen := make(map[string]struct{}, len(phrases))
	ordered := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		ordered = append(ordered, p)
	}

	// Longest first, ties lexicographic.
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i]) != len(ordered[j]) {
			return len(ordered[i]) > len(ordered[j])
		}
		return ordered[i] < ordered[j]
	})

	for _, p := range ordered {
		if strings.Contains(replacement, p) {
			return nil, &ValidationError{Phrase: p, Replacement: replacement}
		}
	}

	return &Set{phrases: ordered, replacement: replacement}, nil
}

// Phrases returns the phrases in application order.
func (s *Set) Phrases() []string {
	out := make([]string, len(s.phrases))
	copy(out, s.phrases)
	return out
}

func (s *Set) Replacement() string {
	return s.replacement
}

func (s *Set) Len() int {
	return len(s.phrases)
}

// Redact replaces every occurrence of every phrase with the replacement,
// applying phrases in order against the progressively rewritten text. The
// pass is repeated until the text stops changing. Some accepted sets have no
// stable result for some texts (with replacement "ab", phrases "aa" and "bb"
// turn "aab" into "abb" and back); Redact stops at the first text it has seen
// before, so redacting its result again returns the same text.
//
// matched lists each phrase that caused at least one substitution, in the
// order first applied. It is nil when the returned text equals the input.
func (s *Set) Redact(text string) (string, []string) {
	original := text
	var matched []string
	hit := make(map[string]struct{})
	seen := map[string]struct{}{text: {}}

	limit := minPasses + 2*len(text)
	for pass := 0; pass < limit; pass++ {
		next := s.pass(text, hit, &matched)
		if next == text {
			break
		}
		text = next
		if _, ok := seen[text]; ok {
			break
		}
		seen[text] = struct{}{}
	}

	if text == original {
		return text, nil
	}
	return text, matched
}

func (s *Set) pass(text string, hit map[string]struct{}, matched *[]string) string {
	for _, p := range s.phrases {
		if !strings.Contains(text, p) {
			continue
		}
		text = strings.ReplaceAll(text, p, s.replacement)
		if _, ok := hit[p]; !ok {
			hit[p] = struct{}{}
			*matched = append(*matched, p)
		}
	}
	return text
}
