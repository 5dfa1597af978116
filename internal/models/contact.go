package models

import "time"

// Contact is a single address-book entry owned by exactly one user.
// Email, Phone and Photo are optional; Photo holds the filename of an
// uploaded image, not the image itself.
type Contact struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Photo     *string   `json:"photo"`
	CreatedAt time.Time `json:"createdAt"`
	OwnerID   int       `json:"ownerId"`
}
