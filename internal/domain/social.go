package domain

import "time"

// UserProfile is the identity and language preference that drives fan-out
// and display. Account lifecycle beyond these fields is an external
// collaborator (see spec Non-goals).
type UserProfile struct {
	ID              string `json:"id" bson:"_id"`
	Username        string `json:"username" bson:"username"`
	PrimaryLanguage string `json:"primaryLanguage" bson:"primary_language"`
	Avatar          string `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Status          string `json:"status,omitempty" bson:"status,omitempty"`
}

// Community is a (id, name) container whose membership drives channel
// fan-out.
type Community struct {
	ID      string          `json:"id" bson:"_id"`
	Name    string          `json:"name" bson:"name"`
	Members map[string]bool `json:"-" bson:"members"`
}

// Channel is a named room within a community, or a DM thread when its
// CommunityID equals DMCommunityID.
type Channel struct {
	ID          string `json:"id" bson:"_id"`
	CommunityID string `json:"communityId" bson:"community_id"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// Thread is a two-party DM channel. At most one Thread exists per
// unordered participant pair.
type Thread struct {
	ID            string    `json:"id" bson:"_id"`
	Participants  [2]string `json:"participants" bson:"participants"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
	LastMessageAt time.Time `json:"lastMessageAt" bson:"last_message_at"`
}

// GlossaryCategory classifies a protected glossary term.
type GlossaryCategory string

const (
	GlossaryTechnical  GlossaryCategory = "technical"
	GlossaryBrand      GlossaryCategory = "brand"
	GlossaryProperNoun GlossaryCategory = "proper_noun"
	GlossaryCustom     GlossaryCategory = "custom"
)

// DefaultGlossaryScope is the scope key for terms that apply everywhere.
const DefaultGlossaryScope = "default"

// GlossaryEntry is a protected term kept verbatim through translation.
type GlossaryEntry struct {
	Scope        string           `json:"scope" bson:"scope"`
	Term         string           `json:"term" bson:"term"`
	Category     GlossaryCategory `json:"category" bson:"category"`
	PreserveCase bool             `json:"preserveCase" bson:"preserve_case"`
}
