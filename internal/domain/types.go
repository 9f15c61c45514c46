package domain

import "time"

// User is a registered account. Password holds the bcrypt hash and is never
// serialized to clients.
type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Gender    string    `json:"gender"`
	Interest  []string  `json:"interest"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Book is a book record owned by a user. Status is a soft-visibility flag:
// rows with Status=false stay in the table but drop out of default listings.
type Book struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"userId"`
	BookName     string    `json:"bookName"`
	BookDesc     string    `json:"bookDesc"`
	NoOfPages    int       `json:"noOfPages"`
	BookAuthor   string    `json:"bookAuthor"`
	BookCategory string    `json:"bookCategory"`
	BookPrice    float64   `json:"bookPrice"`
	ReleasedYear int       `json:"releasedYear"`
	Status       bool      `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BookDetail is a book joined with its owner's display name.
type BookDetail struct {
	Book
	OwnerName string `json:"ownerName"`
}
