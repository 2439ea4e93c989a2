package entity

import "time"

// Message lives in the messages subcollection of its conversation. CreatedAt
// is server-assigned and is the ordering key (descending for display, so the
// reversed list reads chronologically).
type Message struct {
	ID        string    `json:"id" firestore:"-"`
	Text      string    `json:"text" firestore:"text"`
	SenderID  string    `json:"sender_id" firestore:"senderId"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
	Read      bool      `json:"read" firestore:"read"`
}
