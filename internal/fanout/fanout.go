// Package fanout implements the Fan-out Resolver: a pure function over a
// channel's membership and a snapshot of member language preferences that
// determines which languages a message must be translated into.
package fanout

import "github.com/fathima-sithara/lingua-relay/internal/domain"

// MemberSnapshot captures one channel member's language preference at the
// moment a message is translated. The resolver does not react to later
// preference changes (those take effect on future messages) — this type
// is how the caller freezes the preference at the right instant.
type MemberSnapshot struct {
	UserID          string
	PrimaryLanguage string
}

// Resolve returns the distinct target languages for a message: the
// primary language of each channel member, minus the message's source
// language, unconditionally (DM fan-out never includes the sender's own
// language; see SPEC_FULL.md open question (c)).
func Resolve(members []MemberSnapshot, sourceLanguage string) []string {
	seen := make(map[string]bool, len(members))
	var targets []string
	for _, m := range members {
		if m.PrimaryLanguage == "" || m.PrimaryLanguage == sourceLanguage {
			continue
		}
		if seen[m.PrimaryLanguage] {
			continue
		}
		seen[m.PrimaryLanguage] = true
		targets = append(targets, m.PrimaryLanguage)
	}
	return targets
}

// ResolveForThread resolves fan-out for a two-party DM thread: membership
// is exactly the two participants.
func ResolveForThread(thread domain.Thread, profiles map[string]domain.UserProfile, sourceLanguage string) []string {
	var members []MemberSnapshot
	for _, uid := range thread.Participants {
		if p, ok := profiles[uid]; ok {
			members = append(members, MemberSnapshot{UserID: uid, PrimaryLanguage: p.PrimaryLanguage})
		}
	}
	return Resolve(members, sourceLanguage)
}

// ResolveForChannel resolves fan-out for a community channel: membership
// is the community's member set.
func ResolveForChannel(community domain.Community, profiles map[string]domain.UserProfile, sourceLanguage string) []string {
	var members []MemberSnapshot
	for uid := range community.Members {
		if p, ok := profiles[uid]; ok {
			members = append(members, MemberSnapshot{UserID: uid, PrimaryLanguage: p.PrimaryLanguage})
		}
	}
	return Resolve(members, sourceLanguage)
}
