// Package directory is the minimal social-graph store backing the
// /auth, /communities, /channels, and /conversations surface: user
// profiles, community membership, channels, and DM threads. It is the
// membership source the Fan-out Resolver reads from, grounded in the
// teacher's repository interface pattern (user-service's UserRepository)
// generalized to an in-memory, concurrency-safe store.
package directory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/fathima-sithara/lingua-relay/internal/domain"
)

// Directory is an in-memory, concurrency-safe social store.
type Directory struct {
	mu sync.Mutex

	usersByID    map[string]*domain.UserProfile
	usersByEmail map[string]string // email -> userID
	passwords    map[string]string // userID -> password hash (opaque to this package)

	communities map[string]*domain.Community
	channels    map[string]*domain.Channel
	threads     map[string]*domain.Thread

	// defaultChannelByCommunity maps a community to its "general" channel,
	// created alongside the community.
	defaultChannelByCommunity map[string]string
}

// New constructs an empty Directory.
func New() *Directory {
	return &Directory{
		usersByID:                 make(map[string]*domain.UserProfile),
		usersByEmail:              make(map[string]string),
		passwords:                 make(map[string]string),
		communities:               make(map[string]*domain.Community),
		channels:                  make(map[string]*domain.Channel),
		threads:                   make(map[string]*domain.Thread),
		defaultChannelByCommunity: make(map[string]string),
	}
}

// ErrEmailTaken signals a duplicate registration attempt, mirroring the
// unique index on user email that §6 requires.
var ErrEmailTaken = fmt.Errorf("%w: email already registered", domain.ErrConflict)

// CreateUser registers a new user profile with a password hash, enforcing
// per-email uniqueness.
func (d *Directory) CreateUser(ctx context.Context, email, passwordHash, username, primaryLanguage string) (*domain.UserProfile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	if _, exists := d.usersByEmail[email]; exists {
		return nil, ErrEmailTaken
	}

	u := &domain.UserProfile{
		ID:              uuid.NewString(),
		Username:        username,
		PrimaryLanguage: primaryLanguage,
	}
	d.usersByID[u.ID] = u
	d.usersByEmail[email] = u.ID
	d.passwords[u.ID] = passwordHash
	return cloneUser(u), nil
}

// AuthenticateByEmail returns the user and password hash for email, or
// domain.ErrNotFound.
func (d *Directory) AuthenticateByEmail(ctx context.Context, email string) (*domain.UserProfile, string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id, ok := d.usersByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	return cloneUser(d.usersByID[id]), d.passwords[id], nil
}

// GetUser returns a user profile by id.
func (d *Directory) GetUser(ctx context.Context, id string) (*domain.UserProfile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.usersByID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

// GetUserByUsername resolves a username to a profile, used by
// POST /conversations which accepts a username or a user id.
func (d *Directory) GetUserByUsername(ctx context.Context, username string) (*domain.UserProfile, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.usersByID {
		if u.Username == username {
			return cloneUser(u), true
		}
	}
	return nil, false
}

// UpdateProfile patches the caller's own profile fields; empty strings
// leave the existing value untouched.
func (d *Directory) UpdateProfile(ctx context.Context, userID, primaryLanguage, avatar, status string) (*domain.UserProfile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.usersByID[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if primaryLanguage != "" {
		u.PrimaryLanguage = primaryLanguage
	}
	if avatar != "" {
		u.Avatar = avatar
	}
	if status != "" {
		u.Status = status
	}
	return cloneUser(u), nil
}

// CreateCommunity creates a community owned implicitly by its creator (who
// is added as the first member) along with a default "general" channel.
func (d *Directory) CreateCommunity(ctx context.Context, name, description, creatorID string) (*domain.Community, *domain.Channel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c := &domain.Community{
		ID:      uuid.NewString(),
		Name:    name,
		Members: map[string]bool{creatorID: true},
	}
	d.communities[c.ID] = c

	general := &domain.Channel{
		ID:          uuid.NewString(),
		CommunityID: c.ID,
		Name:        "general",
		Description: description,
	}
	d.channels[general.ID] = general
	d.defaultChannelByCommunity[c.ID] = general.ID

	return cloneCommunity(c), general, nil
}

// JoinCommunity adds userID to a community's membership, idempotently.
func (d *Directory) JoinCommunity(ctx context.Context, communityID, userID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.communities[communityID]
	if !ok {
		return domain.ErrNotFound
	}
	c.Members[userID] = true
	return nil
}

// CommunitiesForMember returns the communities userID belongs to, and the
// channels within them.
func (d *Directory) CommunitiesForMember(ctx context.Context, userID string) ([]*domain.Community, []*domain.Channel) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var communities []*domain.Community
	var channels []*domain.Channel
	for _, c := range d.communities {
		if !c.Members[userID] {
			continue
		}
		communities = append(communities, cloneCommunity(c))
		for _, ch := range d.channels {
			if ch.CommunityID == c.ID {
				cp := *ch
				channels = append(channels, &cp)
			}
		}
	}
	return communities, channels
}

// DiscoverCommunities returns every community with its member set;
// whether userID is a member is read from each community's Members by the
// caller.
func (d *Directory) DiscoverCommunities(ctx context.Context, userID string) []*domain.Community {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]*domain.Community, 0, len(d.communities))
	for _, c := range d.communities {
		out = append(out, cloneCommunity(c))
	}
	return out
}

// IsMember reports whether userID belongs to communityID.
func (d *Directory) IsMember(ctx context.Context, communityID, userID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.communities[communityID]
	return ok && c.Members[userID]
}

// slugify lowercases name and replaces spaces with hyphens, per §6's
// channel-creation contract.
func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// CreateChannel creates a channel within communityID with a slugified name.
func (d *Directory) CreateChannel(ctx context.Context, communityID, name, description string) (*domain.Channel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.communities[communityID]; !ok {
		return nil, domain.ErrNotFound
	}
	ch := &domain.Channel{
		ID:          uuid.NewString(),
		CommunityID: communityID,
		Name:        slugify(name),
		Description: description,
	}
	d.channels[ch.ID] = ch
	cp := *ch
	return &cp, nil
}

// GetChannel returns a channel by id.
func (d *Directory) GetChannel(ctx context.Context, id string) (*domain.Channel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch, ok := d.channels[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ch
	return &cp, nil
}

// CommunityMemberProfiles returns the UserProfile of every member of
// communityID, for Fan-out Resolver membership snapshots.
func (d *Directory) CommunityMemberProfiles(ctx context.Context, communityID string) map[string]domain.UserProfile {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := map[string]domain.UserProfile{}
	c, ok := d.communities[communityID]
	if !ok {
		return out
	}
	for uid := range c.Members {
		if u, ok := d.usersByID[uid]; ok {
			out[uid] = *u
		}
	}
	return out
}

func threadKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// GetOrCreateThread returns the existing DM thread between a and b, or
// creates one — at most one Thread exists per unordered participant pair.
func (d *Directory) GetOrCreateThread(ctx context.Context, a, b string) (*domain.Thread, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := threadKey(a, b)
	for _, t := range d.threads {
		if threadKey(t.Participants[0], t.Participants[1]) == key {
			cp := *t
			return &cp, nil
		}
	}
	t := &domain.Thread{
		ID:           uuid.NewString(),
		Participants: [2]string{a, b},
	}
	d.threads[t.ID] = t
	cp := *t
	return &cp, nil
}

// GetThread returns a DM thread by id.
func (d *Directory) GetThread(ctx context.Context, id string) (*domain.Thread, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.threads[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// ThreadsForParticipant returns every DM thread userID belongs to.
func (d *Directory) ThreadsForParticipant(ctx context.Context, userID string) []*domain.Thread {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []*domain.Thread
	for _, t := range d.threads {
		if t.Participants[0] == userID || t.Participants[1] == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out
}

// ThreadProfiles returns the UserProfile of both thread participants, for
// Fan-out Resolver membership snapshots.
func (d *Directory) ThreadProfiles(ctx context.Context, t *domain.Thread) map[string]domain.UserProfile {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := map[string]domain.UserProfile{}
	for _, uid := range t.Participants {
		if u, ok := d.usersByID[uid]; ok {
			out[uid] = *u
		}
	}
	return out
}

func cloneUser(u *domain.UserProfile) *domain.UserProfile {
	cp := *u
	return &cp
}

func cloneCommunity(c *domain.Community) *domain.Community {
	cp := *c
	cp.Members = make(map[string]bool, len(c.Members))
	for k, v := range c.Members {
		cp.Members[k] = v
	}
	return &cp
}
