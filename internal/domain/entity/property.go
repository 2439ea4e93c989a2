package entity

import "time"

type PropertyType string

const (
	PropertyTypeHome       PropertyType = "Home"
	PropertyTypeApartment  PropertyType = "Apartment"
	PropertyTypeVilla      PropertyType = "Villa"
	PropertyTypeCommercial PropertyType = "Commercial"
	PropertyTypeLand       PropertyType = "Land"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeHome, PropertyTypeApartment, PropertyTypeVilla, PropertyTypeCommercial, PropertyTypeLand:
		return true
	}
	return false
}

type ListingType string

const (
	ListingTypeSell ListingType = "Sell"
	ListingTypeRent ListingType = "Rent"
)

func (t ListingType) Valid() bool {
	return t == ListingTypeSell || t == ListingTypeRent
}

// MaxPropertyImages caps the photo list on a listing document.
const MaxPropertyImages = 5

type Property struct {
	ID          string       `json:"id" firestore:"-"`
	OwnerID     string       `json:"user_id" firestore:"userId"`
	Title       string       `json:"title" firestore:"title"`
	Description string       `json:"description" firestore:"description"`
	Price       float64      `json:"price" firestore:"price"`
	Location    string       `json:"location" firestore:"location"`
	State       string       `json:"state,omitempty" firestore:"state"`
	District    string       `json:"district,omitempty" firestore:"district"`
	Type        PropertyType `json:"type" firestore:"type"`
	ListingType ListingType  `json:"listing_type" firestore:"listingType"`
	Images      []string     `json:"images" firestore:"images"`
	Bedrooms    int          `json:"bedrooms,omitempty" firestore:"bedrooms"`
	Bathrooms   int          `json:"bathrooms,omitempty" firestore:"bathrooms"`
	Area        string       `json:"area,omitempty" firestore:"area"`
	CreatedAt   time.Time    `json:"created_at" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time    `json:"updated_at" firestore:"updatedAt"`
}
