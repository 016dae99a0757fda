// Package books provides owner-scoped database operations for the book
// catalog.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetBookByID(123, userID)
//
// The Available flag is written here only on create/update passthrough;
// lifecycle transitions flip it through the borrowings repository.
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mkowalski/homelibrary/internal/entities"
)

// ErrNotFound means no book with the given id belongs to the caller.
var ErrNotFound = errors.New("book not found")

// ErrTitleRequired rejects a book without a title.
var ErrTitleRequired = errors.New("title is required")

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBook inserts a new book for the user. The caller may seed Available
// explicitly; a freshly created book defaults to available.
func (r *Repository) CreateBook(book *entities.Book, userID uint) (*entities.Book, error) {
	if book.Title == "" {
		return nil, ErrTitleRequired
	}
	book.UserID = userID
	if err := r.db.Create(book).Error; err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return book, nil
}

// GetAllBooks retrieves all books for the user, ordered by title.
func (r *Repository) GetAllBooks(userID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Preload("Author").
		Where("user_id = ?", userID).
		Order("title ASC").
		Find(&books).Error
	return books, err
}

// GetBookByID retrieves a book scoped to the user.
func (r *Repository) GetBookByID(id uint, userID uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Author").Where("id = ? AND user_id = ?", id, userID).First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// SearchBooks finds the user's books whose title contains the query
// (case-insensitive).
func (r *Repository) SearchBooks(query string, userID uint) ([]entities.Book, error) {
	var books []entities.Book
	pattern := "%" + query + "%"
	err := r.db.Preload("Author").
		Where("LOWER(title) LIKE LOWER(?) AND user_id = ?", pattern, userID).
		Order("title ASC").
		Find(&books).Error
	return books, err
}

// UpdateBook rewrites all mutable book fields, including the Available
// passthrough. Returns whether a row was modified.
func (r *Repository) UpdateBook(id uint, book *entities.Book, userID uint) (bool, error) {
	if book.Title == "" {
		return false, ErrTitleRequired
	}
	res := r.db.Model(&entities.Book{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"title":            book.Title,
			"author_id":        book.AuthorID,
			"isbn":             book.ISBN,
			"publication_year": book.PublicationYear,
			"publisher":        book.Publisher,
			"genre":            book.Genre,
			"description":      book.Description,
			"page_count":       book.PageCount,
			"language":         book.Language,
			"available":        book.Available,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update book: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteBook removes a book and its borrowing history in one transaction.
func (r *Repository) DeleteBook(id uint, userID uint) (bool, error) {
	var deleted bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ? AND user_id = ?", id, userID).
			Delete(&entities.Borrowing{}).Error; err != nil {
			return fmt.Errorf("failed to delete borrowings: %w", err)
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Book{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete book: %w", res.Error)
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// SetAvailable writes the availability flag directly. Reserved for the
// consistency audit; lifecycle code goes through the borrowings repository.
func (r *Repository) SetAvailable(id uint, available bool) error {
	return r.db.Model(&entities.Book{}).Where("id = ?", id).Update("available", available).Error
}

// GetBorrowingHistory returns the borrowings referencing a book, most
// recently borrowed first.
func (r *Repository) GetBorrowingHistory(bookID uint, userID uint) ([]entities.Borrowing, error) {
	var records []entities.Borrowing
	err := r.db.Where("book_id = ? AND user_id = ?", bookID, userID).
		Order("borrowed_date DESC").
		Find(&records).Error
	return records, err
}
