package entity

import "time"

// SavedProperty marks a listing as saved by a user. The document id is the
// userID/propertyID pair joined with "_" so saving is idempotent.
type SavedProperty struct {
	ID         string    `json:"id" firestore:"-"`
	UserID     string    `json:"user_id" firestore:"userId"`
	PropertyID string    `json:"property_id" firestore:"propertyId"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
}

func SavedPropertyIDFor(userID, propertyID string) string {
	return userID + "_" + propertyID
}
