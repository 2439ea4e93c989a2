package entity

import "strings"

const virtualEmailDomain = "mahto.app"

// User is the profile document stored at users/{uid}. The document id is the
// Firebase Auth uid; LoggedIn is derived state and never persisted.
type User struct {
	ID        string `json:"id" firestore:"-"`
	Name      string `json:"name" firestore:"name"`
	Phone     string `json:"phone" firestore:"phone"`
	Email     string `json:"email" firestore:"email"`
	Address   string `json:"address,omitempty" firestore:"address"`
	Image     string `json:"image,omitempty" firestore:"image"`
	UpdatedAt string `json:"updated_at,omitempty" firestore:"updatedAt"`

	LoggedIn bool `json:"logged_in" firestore:"-"`
}

// VirtualEmail derives the account email from a phone number, since MAHTO
// users sign up with a phone number rather than a real mailbox.
func VirtualEmail(countryCode, phone string) string {
	countryCode = strings.TrimPrefix(strings.TrimSpace(countryCode), "+")
	phone = strings.TrimSpace(phone)
	return countryCode + phone + "@" + virtualEmailDomain
}

// FullPhone joins the country code and local number into the form stored on
// the profile, e.g. "+15550001111".
func FullPhone(countryCode, phone string) string {
	countryCode = strings.TrimSpace(countryCode)
	if countryCode != "" && !strings.HasPrefix(countryCode, "+") {
		countryCode = "+" + countryCode
	}
	return countryCode + strings.TrimSpace(phone)
}

// GuestProfile is the snapshot published when no identity is active.
func GuestProfile() *User {
	return &User{
		Name:     "Guest",
		LoggedIn: false,
	}
}
