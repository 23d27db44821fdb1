// Package domain defines the at-rest shapes shared by the Translation
// Pipeline, the Message Store, and the Fan-out Resolver.
package domain

import "time"

// Status is the lifecycle stage of a Message.
type Status string

const (
	StatusSent        Status = "sent"
	StatusTranslating Status = "translating"
	StatusTranslated  Status = "translated"
	StatusFailed      Status = "failed"
)

// allowedTransitions enumerates the legal edges of the status state machine.
var allowedTransitions = map[Status]map[Status]bool{
	StatusSent:        {StatusTranslating: true},
	StatusTranslating: {StatusTranslated: true, StatusFailed: true},
	StatusTranslated:  {},
	StatusFailed:      {},
}

// CanTransition reports whether moving from 'from' to 'to' is permitted.
func CanTransition(from, to Status) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// DMCommunityID is the reserved community sentinel for direct-message
// threads modelled as channels.
const DMCommunityID = "dm"

// Translation is a lazily populated derivative of a Message for one target
// language. Once written for a given (messageId, targetLanguage) it is
// never mutated.
type Translation struct {
	TargetLanguage    string    `json:"targetLanguage" bson:"target_language"`
	TranslatedContent string    `json:"translatedContent" bson:"translated_content"`
	CreatedAt         time.Time `json:"createdAt" bson:"created_at"`
	FromCache         bool      `json:"-" bson:"from_cache"`
}

// Reaction records a single user's emoji reaction to a message. The
// invariant at most one reaction per (messageId, userId) is enforced by
// the Message Store, not by this type.
type Reaction struct {
	UserID    string    `json:"userId" bson:"user_id"`
	Emoji     string    `json:"emoji" bson:"emoji"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// Attachment is opaque metadata the pipeline never inspects.
type Attachment struct {
	URL         string `json:"url" bson:"url"`
	ContentType string `json:"contentType" bson:"content_type"`
	SizeBytes   int64  `json:"sizeBytes" bson:"size_bytes"`
}

// Message is an immutable (after creation) text unit posted to a channel.
type Message struct {
	ID             string        `json:"id" bson:"_id"`
	ChannelID      string        `json:"channelId" bson:"channel_id"`
	SenderID       string        `json:"senderId" bson:"sender_id"`
	Content        string        `json:"content" bson:"content"`
	SourceLanguage string        `json:"sourceLanguage" bson:"source_language"`
	Status         Status        `json:"status" bson:"status"`
	Timestamp      time.Time     `json:"timestamp" bson:"timestamp"`
	Seq            int64         `json:"-" bson:"seq"`
	Translations   []Translation `json:"translations" bson:"translations"`
	Attachment     *Attachment   `json:"attachment,omitempty" bson:"attachment,omitempty"`
	Reactions      []Reaction    `json:"reactions,omitempty" bson:"reactions,omitempty"`
}

// TranslationFor returns the translation matching targetLanguage, if any.
func (m *Message) TranslationFor(lang string) (Translation, bool) {
	for _, t := range m.Translations {
		if t.TargetLanguage == lang {
			return t, true
		}
	}
	return Translation{}, false
}

// HasTarget reports whether a translation for lang already exists.
func (m *Message) HasTarget(lang string) bool {
	_, ok := m.TranslationFor(lang)
	return ok
}
