// Package app holds the core orchestration: credential handling, session
// issuance, and book CRUD on top of the store.
package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"bookvault/internal/domain"
	"bookvault/internal/session"
	"bookvault/internal/store"
	"bookvault/internal/validation"
)

// Config wires the application's dependencies.
type Config struct {
	DatabaseURL string
	JWTSecret   string
	SessionTTL  time.Duration
	Store       store.Store
	Sessions    *session.Manager
}

// App is the core application service.
type App struct {
	store    store.Store
	sessions *session.Manager
}

// New constructs the application. When cfg.Store is nil a Postgres store is
// opened from cfg.DatabaseURL; Close releases it again.
func New(cfg Config) (*App, error) {
	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}
	sessions := cfg.Sessions
	if sessions == nil {
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("jwt secret required")
		}
		sessions = session.NewManager(cfg.JWTSecret, cfg.SessionTTL)
	}
	return &App{store: dataStore, sessions: sessions}, nil
}

// Close releases the underlying store.
func (a *App) Close() error {
	return a.store.Close()
}

// Register persists a new user. The input must already be schema-validated;
// imageURL is the served URL of an uploaded profile image, or empty.
func (a *App) Register(in validation.RegisterInput, imageURL string) (domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	exists, err := a.store.HasUserEmail(email)
	if err != nil {
		return domain.User{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return domain.User{}, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		Name:     in.Name,
		Email:    email,
		Password: string(hash),
		Gender:   in.Gender,
		Interest: in.Interest,
		Image:    imageURL,
	}
	if err := a.store.SaveUser(&user); err != nil {
		return domain.User{}, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// Login validates credentials and issues a session token.
func (a *App) Login(email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, ok, err := a.store.GetUserByEmail(email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return domain.User{}, "", ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return domain.User{}, "", ErrWrongPassword
	}
	token, err := a.sessions.Issue(user)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue session: %w", err)
	}
	return user, token, nil
}

// UserFromToken verifies a session token and resolves the current user.
func (a *App) UserFromToken(token string) (domain.User, error) {
	claims, err := a.sessions.Verify(token)
	if err != nil {
		return domain.User{}, err
	}
	uid, err := claims.UserID()
	if err != nil {
		return domain.User{}, session.ErrInvalidToken
	}
	user, ok, err := a.store.GetUserByID(uid)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return domain.User{}, session.ErrInvalidToken
	}
	return user, nil
}

// CreateBook persists a book. The body's userId wins over the token subject
// when supplied; new books are visible by default.
func (a *App) CreateBook(owner domain.User, in validation.BookInput) (domain.Book, error) {
	ownerID := in.UserID
	if ownerID == 0 {
		ownerID = owner.ID
	}
	book := domain.Book{
		UserID:       ownerID,
		BookName:     in.BookName,
		BookDesc:     in.BookDesc,
		NoOfPages:    in.NoOfPages,
		BookAuthor:   in.BookAuthor,
		BookCategory: in.BookCategory,
		BookPrice:    in.BookPrice,
		ReleasedYear: in.ReleasedYear,
		Status:       true,
	}
	if err := a.store.CreateBook(&book); err != nil {
		return domain.Book{}, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

// SearchBooks matches book names case-insensitively, across all books.
func (a *App) SearchBooks(name string) ([]domain.Book, error) {
	books, err := a.store.SearchBooksByName(name)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	if books == nil {
		books = []domain.Book{}
	}
	return books, nil
}

// ListBooks returns a status=true page. maxPage is 1 when the total fits in
// one page, otherwise ceil(total/limit); asking past it is an error carrying
// the actual maximum.
func (a *App) ListBooks(page, limit int) ([]domain.Book, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	total, err := a.store.CountVisibleBooks()
	if err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}
	maxPage := 1
	if total > int64(limit) {
		maxPage = int((total + int64(limit) - 1) / int64(limit))
	}
	if page > maxPage {
		return nil, maxPage, &PageRangeError{MaxPage: maxPage}
	}
	books, err := a.store.ListVisibleBooks(limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	if books == nil {
		books = []domain.Book{}
	}
	return books, maxPage, nil
}

// BookDetail fetches a book with its owner's name.
func (a *App) BookDetail(id uint) (domain.BookDetail, error) {
	detail, ok, err := a.store.GetBookWithOwner(id)
	if err != nil {
		return domain.BookDetail{}, fmt.Errorf("fetch book: %w", err)
	}
	if !ok {
		return domain.BookDetail{}, ErrBookNotFound
	}
	return detail, nil
}

// UpdateBook performs a full-document update by id. No ownership check is
// applied, matching the legacy contract.
func (a *App) UpdateBook(id uint, b domain.Book) error {
	matched, err := a.store.UpdateBook(id, b)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if matched == 0 {
		return ErrBookNotFound
	}
	return nil
}

// DeleteBook removes a book by id. No ownership check is applied.
func (a *App) DeleteBook(id uint) error {
	deleted, err := a.store.DeleteBook(id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if deleted == 0 {
		return ErrBookNotFound
	}
	return nil
}

// IsInvalidToken reports whether err is a token verification failure.
func IsInvalidToken(err error) bool {
	return errors.Is(err, session.ErrInvalidToken)
}
