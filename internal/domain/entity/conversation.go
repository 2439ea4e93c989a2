package entity

import (
	"sort"
	"strings"
	"time"
)

// Conversation is a two-party chat thread stored at conversations/{id}, with
// its messages in a nested subcollection. The document id is derived from the
// sorted participant pair so creation is idempotent: two clients starting a
// conversation with each other at the same time resolve to the same document.
type Conversation struct {
	ID                   string    `json:"id" firestore:"-"`
	Participants         []string  `json:"participants" firestore:"participants"`
	LastMessage          string    `json:"last_message" firestore:"lastMessage"`
	LastMessageTimestamp time.Time `json:"last_message_timestamp" firestore:"lastMessageTimestamp,serverTimestamp"`
	UnreadCount          int       `json:"unread_count" firestore:"unreadCount"`
	PropertyID           string    `json:"property_id,omitempty" firestore:"propertyId,omitempty"`
	PropertyTitle        string    `json:"property_title,omitempty" firestore:"propertyTitle,omitempty"`
}

// ConversationIDFor returns the deterministic document id for a participant
// pair, independent of argument order.
func ConversationIDFor(userID, otherUserID string) string {
	pair := []string{userID, otherUserID}
	sort.Strings(pair)
	return strings.Join(pair, "_")
}

// Counterpart returns the participant that is not userID, or "" when userID
// is not a participant.
func (c *Conversation) Counterpart(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// HasParticipant reports whether userID belongs to this conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
