package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bookvault/internal/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&UserModel{}, &BookModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveUser inserts a user and backfills the assigned ID.
func (s *GormStore) SaveUser(u *domain.User) error {
	model := userToModel(*u)
	if err := s.db.Create(&model).Error; err != nil {
		return err
	}
	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

// HasUserEmail checks if email exists.
func (s *GormStore) HasUserEmail(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserByEmail looks up a user by email.
func (s *GormStore) GetUserByEmail(email string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(id uint) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// DeleteUser removes a user row; owned books go with it via FK cascade.
func (s *GormStore) DeleteUser(id uint) (int64, error) {
	tx := s.db.Delete(&UserModel{}, "id = ?", id)
	return tx.RowsAffected, tx.Error
}

// CreateBook inserts a book row and backfills the assigned ID.
func (s *GormStore) CreateBook(b *domain.Book) error {
	model := bookToModel(*b)
	if err := s.db.Omit("User").Create(&model).Error; err != nil {
		return err
	}
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// SearchBooksByName returns all books whose name contains the fragment,
// case-insensitively. No status filter and no paging, matching the legacy
// search behavior.
func (s *GormStore) SearchBooksByName(name string) ([]domain.Book, error) {
	var models []BookModel
	if err := s.db.Where("book_name ILIKE ?", "%"+name+"%").Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return booksFromModels(models), nil
}

// CountVisibleBooks counts rows with status=true.
func (s *GormStore) CountVisibleBooks() (int64, error) {
	var count int64
	if err := s.db.Model(&BookModel{}).Where("status = ?", true).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListVisibleBooks returns a status=true page ordered by id.
func (s *GormStore) ListVisibleBooks(limit, offset int) ([]domain.Book, error) {
	var models []BookModel
	if err := s.db.Where("status = ?", true).Order("id ASC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, err
	}
	return booksFromModels(models), nil
}

// GetBookWithOwner fetches a book together with the owner's name.
func (s *GormStore) GetBookWithOwner(id uint) (domain.BookDetail, bool, error) {
	var model BookModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.BookDetail{}, false, nil
		}
		return domain.BookDetail{}, false, err
	}
	detail := domain.BookDetail{Book: bookFromModel(model)}
	var owner UserModel
	if err := s.db.Select("name").First(&owner, "id = ?", model.UserID).Error; err == nil {
		detail.OwnerName = owner.Name
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.BookDetail{}, false, err
	}
	return detail, true, nil
}

// UpdateBook performs a full-document update by id and reports matched rows.
// A map is used so zero values (status=false, price 0) are written too.
func (s *GormStore) UpdateBook(id uint, b domain.Book) (int64, error) {
	tx := s.db.Model(&BookModel{}).Where("id = ?", id).Updates(map[string]any{
		"user_id":       b.UserID,
		"book_name":     b.BookName,
		"book_desc":     b.BookDesc,
		"no_of_pages":   b.NoOfPages,
		"book_author":   b.BookAuthor,
		"book_category": b.BookCategory,
		"book_price":    b.BookPrice,
		"released_year": b.ReleasedYear,
		"status":        b.Status,
		"updated_at":    time.Now().UTC(),
	})
	return tx.RowsAffected, tx.Error
}

// DeleteBook removes a book by id and reports deleted rows.
func (s *GormStore) DeleteBook(id uint) (int64, error) {
	tx := s.db.Delete(&BookModel{}, "id = ?", id)
	return tx.RowsAffected, tx.Error
}

func booksFromModels(models []BookModel) []domain.Book {
	res := make([]domain.Book, 0, len(models))
	for _, m := range models {
		res = append(res, bookFromModel(m))
	}
	return res
}
