package store

import (
	"strings"
	"time"

	"bookvault/internal/domain"
)

// GORM models used for persistence.
//
// The composite unique index on (email, password) mirrors the legacy schema;
// with salted hashes it can never trip before the plain email unique index
// does, but it is kept for parity with existing databases.
type UserModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:50;not null"`
	Email     string `gorm:"size:255;uniqueIndex;not null;index:idx_users_email_password,unique"`
	Password  string `gorm:"size:255;not null;index:idx_users_email_password,unique"`
	Gender    string `gorm:"size:20;not null"`
	Interest  string `gorm:"size:500;not null"`
	Image     string `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string { return "users" }

// BookModel rows cascade-delete with their owner. The no_of_pages check
// (>= 10) is stricter than input validation (>= 1); the gap is inherited
// from the legacy schema.
type BookModel struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	UserID       uint      `gorm:"not null;index"`
	User         UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	BookName     string    `gorm:"size:50;not null"`
	BookDesc     string    `gorm:"size:200;not null"`
	NoOfPages    int       `gorm:"not null;check:no_of_pages >= 10"`
	BookAuthor   string    `gorm:"size:50;not null"`
	BookCategory string    `gorm:"size:30;not null"`
	BookPrice    float64   `gorm:"type:numeric(10,2);not null"`
	ReleasedYear int       `gorm:"not null;check:released_year >= 1500"`
	Status       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (BookModel) TableName() string { return "books" }

const interestSeparator = ","

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		Gender:    u.Gender,
		Interest:  strings.Join(u.Interest, interestSeparator),
		Image:     u.Image,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Password:  m.Password,
		Gender:    m.Gender,
		Interest:  splitInterest(m.Interest),
		Image:     m.Image,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// splitInterest reconstructs the ordered sequence; an empty column yields an
// empty slice, never nil, so JSON renders [] rather than null.
func splitInterest(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, interestSeparator)
}

func bookToModel(b domain.Book) BookModel {
	return BookModel{
		ID:           b.ID,
		UserID:       b.UserID,
		BookName:     b.BookName,
		BookDesc:     b.BookDesc,
		NoOfPages:    b.NoOfPages,
		BookAuthor:   b.BookAuthor,
		BookCategory: b.BookCategory,
		BookPrice:    b.BookPrice,
		ReleasedYear: b.ReleasedYear,
		Status:       b.Status,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func bookFromModel(m BookModel) domain.Book {
	return domain.Book{
		ID:           m.ID,
		UserID:       m.UserID,
		BookName:     m.BookName,
		BookDesc:     m.BookDesc,
		NoOfPages:    m.NoOfPages,
		BookAuthor:   m.BookAuthor,
		BookCategory: m.BookCategory,
		BookPrice:    m.BookPrice,
		ReleasedYear: m.ReleasedYear,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
