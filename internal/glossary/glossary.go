// Package glossary protects a configurable set of terms (brand names,
// technical acronyms, framework names) through translation by replacing
// them with opaque placeholders before the call to the Translator Adapter
// and restoring their original surface form afterward.
package glossary

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/fathima-sithara/lingua-relay/internal/domain"
)

// Match records one placeholder substitution so Restore can reproduce the
// exact original surface form (case included) of the matched substring.
type Match struct {
	Term    string
	Surface string
}

// Protected is the result of Protect.
type Protected struct {
	Text    string
	Matches []Match
}

// Protector holds an ordered (longest-first) term list built from the
// default glossary plus a community's scoped entries.
type Protector struct {
	terms []domain.GlossaryEntry
}

// DefaultEntries is the bundled glossary: technology acronyms, brand and
// product names, popular frameworks/tools, and programming languages.
func DefaultEntries() []domain.GlossaryEntry {
	def := func(term string, cat domain.GlossaryCategory) domain.GlossaryEntry {
		return domain.GlossaryEntry{Scope: domain.DefaultGlossaryScope, Term: term, Category: cat, PreserveCase: true}
	}
	var entries []domain.GlossaryEntry
	for _, t := range []string{"API", "SDK", "CLI", "JSON", "HTTP", "HTTPS", "URL", "SQL", "REST", "gRPC", "JWT", "CI/CD", "DNS", "TCP", "UDP"} {
		entries = append(entries, def(t, domain.GlossaryTechnical))
	}
	for _, t := range []string{"GitHub", "GitHub API", "Slack", "Anthropic", "OpenAI", "Google", "Microsoft", "Amazon", "FlowTalk"} {
		entries = append(entries, def(t, domain.GlossaryBrand))
	}
	for _, t := range []string{"React", "Vue", "Angular", "Kubernetes", "Docker", "PostgreSQL", "MongoDB", "Redis", "Kafka", "TensorFlow"} {
		entries = append(entries, def(t, domain.GlossaryTechnical))
	}
	for _, t := range []string{"Go", "Python", "JavaScript", "TypeScript", "Rust", "Java", "Kotlin", "Swift"} {
		entries = append(entries, def(t, domain.GlossaryCustom))
	}
	return entries
}

// New builds a Protector from the default glossary unioned with a
// community-scoped list. Community entries win over default on
// case-insensitive equality; a term is never added twice. Terms are
// sorted longest-first so "GitHub API" wins over "API".
func New(communityScope string, communityEntries []domain.GlossaryEntry) *Protector {
	seen := map[string]domain.GlossaryEntry{}
	add := func(e domain.GlossaryEntry) {
		key := strings.ToLower(e.Term)
		seen[key] = e
	}
	for _, e := range DefaultEntries() {
		add(e)
	}
	for _, e := range communityEntries {
		if e.Scope == communityScope || e.Scope == domain.DefaultGlossaryScope {
			add(e)
		}
	}

	terms := make([]domain.GlossaryEntry, 0, len(seen))
	for _, e := range seen {
		terms = append(terms, e)
	}
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i].Term) != len(terms[j].Term) {
			return len(terms[i].Term) > len(terms[j].Term)
		}
		return terms[i].Term < terms[j].Term
	})

	return &Protector{terms: terms}
}

func wordBoundaryPattern(term string) string {
	return `(?i)\b` + regexp.QuoteMeta(term) + `\b`
}

func placeholder(i int) string {
	return fmt.Sprintf("⟪G%d⟫", i)
}

// Protect replaces each whole-word, case-insensitive occurrence of a
// glossary term with a placeholder ⟪G{j}⟫, longest terms matched first so
// a multi-word term is never partially shadowed by a shorter one.
func (p *Protector) Protect(text string) Protected {
	out := text
	var matches []Match
	idx := 0

	for _, entry := range p.terms {
		re, err := regexp.Compile(wordBoundaryPattern(entry.Term))
		if err != nil {
			continue
		}
		out = re.ReplaceAllStringFunc(out, func(surface string) string {
			matches = append(matches, Match{Term: entry.Term, Surface: surface})
			tok := placeholder(idx)
			idx++
			return tok
		})
	}

	return Protected{Text: out, Matches: matches}
}

var glossaryTokenRe = regexp.MustCompile(`⟪G(\d+)⟫`)

// Restore replaces each ⟪G{j}⟫ placeholder in translated with the original
// surface form (case preserved) recorded by a prior Protect call.
func Restore(translated string, matches []Match) string {
	return glossaryTokenRe.ReplaceAllStringFunc(translated, func(tok string) string {
		sub := glossaryTokenRe.FindStringSubmatch(tok)
		if sub == nil {
			return tok
		}
		var n int
		fmt.Sscanf(sub[1], "%d", &n)
		if n < 0 || n >= len(matches) {
			return tok
		}
		return matches[n].Surface
	})
}
