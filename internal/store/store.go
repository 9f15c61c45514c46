package store

import "bookvault/internal/domain"

// Store defines persistence operations for users and books.
type Store interface {
	// users
	SaveUser(u *domain.User) error
	HasUserEmail(email string) (bool, error)
	GetUserByEmail(email string) (domain.User, bool, error)
	GetUserByID(id uint) (domain.User, bool, error)
	DeleteUser(id uint) (int64, error)

	// books
	CreateBook(b *domain.Book) error
	SearchBooksByName(name string) ([]domain.Book, error)
	CountVisibleBooks() (int64, error)
	ListVisibleBooks(limit, offset int) ([]domain.Book, error)
	GetBookWithOwner(id uint) (domain.BookDetail, bool, error)
	UpdateBook(id uint, b domain.Book) (int64, error)
	DeleteBook(id uint) (int64, error)

	Close() error
}
