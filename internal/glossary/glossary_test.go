package glossary

import (
	"testing"

	"github.com/fathima-sithara/lingua-relay/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestProtectRestoreRoundTrip(t *testing.T) {
	p := New("acme", nil)
	text := "FlowTalk is great, check our API docs"
	protected := p.Protect(text)

	require.NotContains(t, protected.Text, "FlowTalk")
	require.NotContains(t, protected.Text, "API")

	restored := Restore(protected.Text, protected.Matches)
	require.Equal(t, text, restored)
}

func TestProtectPreservesOriginalCase(t *testing.T) {
	p := New("acme", nil)
	text := "flowtalk and FLOWTALK and FlowTalk all match"
	protected := p.Protect(text)
	restored := Restore(protected.Text, protected.Matches)
	require.Equal(t, text, restored)
}

func TestLongestTermWinsOverShorter(t *testing.T) {
	entries := []domain.GlossaryEntry{
		{Scope: "acme", Term: "GitHub API", Category: domain.GlossaryBrand},
	}
	p := New("acme", entries)
	text := "Use the GitHub API for this"
	protected := p.Protect(text)

	require.NotContains(t, protected.Text, "GitHub API")
	// "API" alone must not leave a stray second placeholder since the
	// two-word term already consumed it.
	count := 0
	for _, m := range protected.Matches {
		if m.Term == "GitHub API" {
			count++
		}
	}
	require.Equal(t, 1, count)
	require.Len(t, protected.Matches, 1)

	restored := Restore(protected.Text, protected.Matches)
	require.Equal(t, text, restored)
}

func TestCommunityScopeWinsOnCaseInsensitiveEquality(t *testing.T) {
	entries := []domain.GlossaryEntry{
		{Scope: "acme", Term: "api", Category: domain.GlossaryCustom, PreserveCase: false},
	}
	p := New("acme", entries)
	// community entry for "api" should replace the default "API" entry
	// (case-insensitive equality), not duplicate it.
	count := 0
	for _, e := range p.terms {
		if e.Term == "api" || e.Term == "API" {
			count++
		}
	}
	require.Equal(t, 1, count)
}
