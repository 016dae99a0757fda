// Package authors provides database operations for the shared author
// reference data. Authors are not owner-scoped.
package authors

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mkowalski/homelibrary/internal/entities"
)

// ErrNotFound means no author exists with the given id.
var ErrNotFound = errors.New("author not found")

// ErrNameRequired rejects an author without a name.
var ErrNameRequired = errors.New("name is required")

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateAuthor inserts a new author.
func (r *Repository) CreateAuthor(author *entities.Author) (*entities.Author, error) {
	if author.Name == "" {
		return nil, ErrNameRequired
	}
	if err := r.db.Create(author).Error; err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}
	return author, nil
}

// GetAllAuthors retrieves every author ordered by name.
func (r *Repository) GetAllAuthors() ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.Order("name ASC").Find(&authors).Error
	return authors, err
}

// GetAuthorByID retrieves a single author.
func (r *Repository) GetAuthorByID(id uint) (*entities.Author, error) {
	var author entities.Author
	err := r.db.First(&author, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &author, nil
}

// SearchAuthors finds authors whose name contains the query (case-insensitive).
func (r *Repository) SearchAuthors(query string) ([]entities.Author, error) {
	var authors []entities.Author
	pattern := "%" + query + "%"
	err := r.db.Where("LOWER(name) LIKE LOWER(?)", pattern).
		Order("name ASC").
		Find(&authors).Error
	return authors, err
}

// UpdateAuthor rewrites all author fields. Returns whether a row was modified.
func (r *Repository) UpdateAuthor(id uint, author *entities.Author) (bool, error) {
	if author.Name == "" {
		return false, ErrNameRequired
	}
	res := r.db.Model(&entities.Author{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":       author.Name,
			"birth_date": author.BirthDate,
			"death_date": author.DeathDate,
			"biography":  author.Biography,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update author: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteAuthor removes an author and clears the weak reference on any books
// pointing at it, in one transaction.
func (r *Repository) DeleteAuthor(id uint) (bool, error) {
	var deleted bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Book{}).
			Where("author_id = ?", id).
			Update("author_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach books: %w", err)
		}
		res := tx.Delete(&entities.Author{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete author: %w", res.Error)
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
