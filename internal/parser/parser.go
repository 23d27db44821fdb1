// Package parser segments a message into translatable text and protected
// spans (code fences, inline code, URLs, mentions, hashtags), and masks
// the protected spans behind opaque tokens so the rest of the pipeline can
// treat them as inert during translation.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fathima-sithara/lingua-relay/internal/domain"
)

// SegmentKind identifies what a Segment represents.
type SegmentKind string

const (
	KindText            SegmentKind = "text"
	KindCodeFence       SegmentKind = "code_fence"
	KindInlineCode       SegmentKind = "inline_code"
	KindURL             SegmentKind = "url"
	KindMention         SegmentKind = "mention"
	KindHashtag         SegmentKind = "hashtag"
	KindPlaceholder     SegmentKind = "placeholder_marker"
)

// Segment is one ordered piece of a parsed message.
type Segment struct {
	Kind SegmentKind
	Raw  string
}

// Masked is the result of Mask: the masked text plus the ordered original
// segments (text and protected) so Unmask can reconstruct the original
// byte-for-byte.
type Masked struct {
	Text     string
	Segments []Segment
}

var (
	codeFenceRe = regexp.MustCompile("(?s)```[^\n]*\n.*?```|```[^`\n]*```")
	inlineCodeRe = regexp.MustCompile("`[^`\n]+`")
	urlRe        = regexp.MustCompile(`https?://[^\s]+`)
	mentionRe    = regexp.MustCompile(`@\w+`)
	hashtagRe    = regexp.MustCompile(`#\w+`)

	forbiddenRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)data:text/html`),
	}
)

// DefaultMaxContentLength is the default maximum content length in code
// points, used when Config.MaxContentLength is zero.
const DefaultMaxContentLength = 4000

// Config tunes the Parser's length limit.
type Config struct {
	MaxContentLength int
}

// Parser segments and masks message content.
type Parser struct {
	maxLen int
}

// New constructs a Parser with the given configuration.
func New(cfg Config) *Parser {
	maxLen := cfg.MaxContentLength
	if maxLen <= 0 {
		maxLen = DefaultMaxContentLength
	}
	return &Parser{maxLen: maxLen}
}

// Validate enforces the structural checks that must reject content before
// it is ever stored: forbidden patterns and max length. It returns all
// violations found, not just the first.
func (p *Parser) Validate(content string) []error {
	var errs []error
	if n := utf8.RuneCountInString(content); n > p.maxLen {
		errs = append(errs, fmt.Errorf("%w: content length %d exceeds max %d", domain.ErrInvalidContent, n, p.maxLen))
	}
	for _, re := range forbiddenRes {
		if re.MatchString(content) {
			errs = append(errs, fmt.Errorf("%w: forbidden pattern %s", domain.ErrInvalidContent, re.String()))
		}
	}
	return errs
}

type match struct {
	kind       SegmentKind
	start, end int
}

// segmentMatches finds all protected-span matches in content, in document
// order, with overlaps resolved by first-match-wins (code fences take
// priority over inline code, which takes priority over URLs/mentions/
// hashtags, since fence/inline-code bodies may themselves contain those
// patterns and must stay protected as a whole).
func segmentMatches(content string) []match {
	var all []match
	add := func(kind SegmentKind, re *regexp.Regexp) {
		for _, loc := range re.FindAllStringIndex(content, -1) {
			all = append(all, match{kind: kind, start: loc[0], end: loc[1]})
		}
	}
	add(KindCodeFence, codeFenceRe)
	add(KindInlineCode, inlineCodeRe)
	add(KindURL, urlRe)
	add(KindMention, mentionRe)
	add(KindHashtag, hashtagRe)

	// Resolve overlaps keeping the first-declared kind (fence > inline >
	// url > mention > hashtag) by iterating in the priority groups above and
	// rejecting any later match that overlaps an earlier accepted one; the
	// accepted matches are sorted by start offset afterwards.
	accepted := make([]match, 0, len(all))
	for _, m := range all {
		overlaps := false
		for _, a := range accepted {
			if m.start < a.end && a.start < m.end {
				overlaps = true
				break
			}
		}
		if !overlaps {
			accepted = append(accepted, m)
		}
	}

	// Sort accepted by start offset for linear scanning in Mask.
	for i := 1; i < len(accepted); i++ {
		for j := i; j > 0 && accepted[j-1].start > accepted[j].start; j-- {
			accepted[j-1], accepted[j] = accepted[j], accepted[j-1]
		}
	}
	return accepted
}

// placeholderFormat renders the opaque token for the i-th protected span.
func placeholderFormat(i int) string {
	return fmt.Sprintf("⟪P%d⟫", i)
}

// Mask replaces every protected span in content with an opaque token
// ⟪P{i}⟫ and returns the masked text alongside the ordered original
// segments (text segments included, so Unmask can reassemble exactly).
func (p *Parser) Mask(content string) Masked {
	matches := segmentMatches(content)

	var sb strings.Builder
	var segments []Segment
	cursor := 0
	placeholderIdx := 0

	for _, m := range matches {
		if m.start > cursor {
			text := content[cursor:m.start]
			sb.WriteString(text)
			segments = append(segments, Segment{Kind: KindText, Raw: text})
		}
		raw := content[m.start:m.end]
		sb.WriteString(placeholderFormat(placeholderIdx))
		segments = append(segments, Segment{Kind: m.kind, Raw: raw})
		placeholderIdx++
		cursor = m.end
	}
	if cursor < len(content) {
		text := content[cursor:]
		sb.WriteString(text)
		segments = append(segments, Segment{Kind: KindText, Raw: text})
	}

	return Masked{Text: sb.String(), Segments: segments}
}

// Unmask reconstructs the original text from a masked string and its
// ordered segments, replacing each ⟪P{i}⟫ token with its original raw
// content. masked need not be byte-identical to Mask's output text: it may
// be a translated string, as long as the tokens themselves survived
// unchanged (a required pipeline property).
func Unmask(masked string, segments []Segment) string {
	var out strings.Builder
	i := 0
	for i < len(masked) {
		if tok, _, ok := matchPlaceholder(masked[i:]); ok {
			n, _ := strconv.Atoi(tok[len("⟪P") : len(tok)-len("⟫")])
			out.WriteString(findProtectedRaw(segments, n))
			i += len(tok)
			continue
		}
		r, size := decodeRune(masked[i:])
		out.WriteRune(r)
		i += size
	}
	return out.String()
}

// findProtectedRaw returns the raw text of the n-th protected (non-text)
// segment in order.
func findProtectedRaw(segments []Segment, n int) string {
	count := 0
	for _, s := range segments {
		if s.Kind == KindText {
			continue
		}
		if count == n {
			return s.Raw
		}
		count++
	}
	return ""
}

var placeholderTokenRe = regexp.MustCompile(`^\x{27EA}P(\d+)\x{27EB}`)

// matchPlaceholder checks whether s begins with a ⟪P{i}⟫ token and, if so,
// returns the matched token, the remainder of s after it, and true.
func matchPlaceholder(s string) (token string, rest string, ok bool) {
	loc := placeholderTokenRe.FindStringIndex(s)
	if loc == nil || loc[0] != 0 {
		return "", s, false
	}
	return s[:loc[1]], s[loc[1]:], true
}

func decodeRune(s string) (rune, int) {
	r, size := utf8.DecodeRuneInString(s)
	return r, size
}
