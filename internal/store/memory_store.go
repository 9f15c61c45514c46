package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"bookvault/internal/domain"
)

// MemoryStore keeps users and books in-process. It mirrors GormStore's
// observable behavior (including FK cascade on user delete) and backs the
// app and server tests.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[uint]domain.User
	email      map[string]uint
	books      map[uint]domain.Book
	nextUserID uint
	nextBookID uint
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[uint]domain.User),
		email: make(map[string]uint),
		books: make(map[uint]domain.Book),
	}
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }

// SaveUser registers a user, assigning the next ID.
func (m *MemoryStore) SaveUser(u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextUserID++
	u.ID = m.nextUserID
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	m.users[u.ID] = *u
	m.email[u.Email] = u.ID
	return nil
}

// HasUserEmail checks if email exists.
func (m *MemoryStore) HasUserEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.email[email]
	return ok, nil
}

// GetUserByEmail looks up a user by email.
func (m *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.email[email]; ok {
		u, exists := m.users[id]
		return u, exists, nil
	}
	return domain.User{}, false, nil
}

// GetUserByID returns a user by ID.
func (m *MemoryStore) GetUserByID(id uint) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// DeleteUser removes a user and, like the FK cascade, all their books.
func (m *MemoryStore) DeleteUser(id uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return 0, nil
	}
	delete(m.users, id)
	delete(m.email, u.Email)
	for bid, b := range m.books {
		if b.UserID == id {
			delete(m.books, bid)
		}
	}
	return 1, nil
}

// CreateBook stores a book, assigning the next ID.
func (m *MemoryStore) CreateBook(b *domain.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextBookID++
	b.ID = m.nextBookID
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	m.books[b.ID] = *b
	return nil
}

// SearchBooksByName matches names case-insensitively, ignoring status.
func (m *MemoryStore) SearchBooksByName(name string) ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	needle := strings.ToLower(name)
	var res []domain.Book
	for _, b := range m.books {
		if strings.Contains(strings.ToLower(b.BookName), needle) {
			res = append(res, b)
		}
	}
	sortBooks(res)
	return res, nil
}

// CountVisibleBooks counts books with status=true.
func (m *MemoryStore) CountVisibleBooks() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, b := range m.books {
		if b.Status {
			count++
		}
	}
	return count, nil
}

// ListVisibleBooks returns a status=true page ordered by id.
func (m *MemoryStore) ListVisibleBooks(limit, offset int) ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var visible []domain.Book
	for _, b := range m.books {
		if b.Status {
			visible = append(visible, b)
		}
	}
	sortBooks(visible)
	if offset >= len(visible) {
		return []domain.Book{}, nil
	}
	end := offset + limit
	if end > len(visible) {
		end = len(visible)
	}
	return visible[offset:end], nil
}

// GetBookWithOwner fetches a book and resolves the owner's name.
func (m *MemoryStore) GetBookWithOwner(id uint) (domain.BookDetail, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[id]
	if !ok {
		return domain.BookDetail{}, false, nil
	}
	detail := domain.BookDetail{Book: b}
	if owner, exists := m.users[b.UserID]; exists {
		detail.OwnerName = owner.Name
	}
	return detail, true, nil
}

// UpdateBook replaces all mutable fields of a book by id.
func (m *MemoryStore) UpdateBook(id uint, b domain.Book) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.books[id]
	if !ok {
		return 0, nil
	}
	b.ID = existing.ID
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = time.Now().UTC()
	m.books[id] = b
	return 1, nil
}

// DeleteBook removes a book by id.
func (m *MemoryStore) DeleteBook(id uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[id]; !ok {
		return 0, nil
	}
	delete(m.books, id)
	return 1, nil
}

func sortBooks(books []domain.Book) {
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
}
