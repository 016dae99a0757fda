// Package borrowings owns the borrowing lifecycle and is the only component
// that mutates books.available. Every lifecycle transition runs in a single
// transaction so the flag can never be observed out of sync with the set of
// open borrowing records.
//
// # Usage
//
//	repo := borrowings.NewRepository(db)
//	record, err := repo.Create(borrowings.CreateInput{...}, userID)
package borrowings

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mkowalski/homelibrary/internal/entities"
)

var (
	// ErrNotFound means no borrowing with the given id belongs to the caller.
	ErrNotFound = errors.New("borrowing record not found")
	// ErrBookNotFound means the referenced book does not exist for the caller.
	ErrBookNotFound = errors.New("book not found")
	// ErrBookUnavailable means the target book already has an open borrowing.
	ErrBookUnavailable = errors.New("book is not available for borrowing")
	// ErrAlreadyReturned means the borrowing is already closed.
	ErrAlreadyReturned = errors.New("book has already been returned")

	ErrBookIDRequired       = errors.New("book id is required")
	ErrBorrowerNameRequired = errors.New("borrower name is required")
	ErrBorrowedDateRequired = errors.New("borrowed date is required")
	ErrDueDateRequired      = errors.New("due date is required")
)

// Repository handles all borrowing database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new borrowings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateInput carries the fields for a new borrowing record.
type CreateInput struct {
	BookID       uint
	BorrowerName string
	BorrowedDate time.Time
	DueDate      time.Time
	ReturnedDate *time.Time
	Notes        string
}

func (in CreateInput) validate() error {
	switch {
	case in.BookID == 0:
		return ErrBookIDRequired
	case in.BorrowerName == "":
		return ErrBorrowerNameRequired
	case in.BorrowedDate.IsZero():
		return ErrBorrowedDateRequired
	case in.DueDate.IsZero():
		return ErrDueDateRequired
	}
	return nil
}

// UpdateInput carries the full set of mutable borrowing fields. Update
// rewrites all of them.
type UpdateInput struct {
	BookID       uint
	BorrowerName string
	BorrowedDate time.Time
	DueDate      time.Time
	ReturnedDate *time.Time
	Notes        string
}

func (in UpdateInput) validate() error {
	return CreateInput{
		BookID:       in.BookID,
		BorrowerName: in.BorrowerName,
		BorrowedDate: in.BorrowedDate,
		DueDate:      in.DueDate,
	}.validate()
}

// Create inserts a new borrowing record and marks the book as checked out.
// The book must exist for the caller and must currently be available. The
// availability check is repeated inside the transaction as a conditional
// update so two concurrent creates cannot both open a borrowing against the
// same book.
func (r *Repository) Create(input CreateInput, userID uint) (*entities.Borrowing, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	borrowing := &entities.Borrowing{
		BookID:       input.BookID,
		UserID:       userID,
		BorrowerName: input.BorrowerName,
		BorrowedDate: input.BorrowedDate,
		DueDate:      input.DueDate,
		ReturnedDate: input.ReturnedDate,
		Notes:        input.Notes,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.Where("id = ? AND user_id = ?", input.BookID, userID).First(&book).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return fmt.Errorf("failed to load book: %w", err)
		}
		if !book.Available {
			return ErrBookUnavailable
		}

		if err := tx.Create(borrowing).Error; err != nil {
			return fmt.Errorf("failed to create borrowing: %w", err)
		}

		// The flag derives from whether the record is born already returned,
		// not from a hard-coded false. The WHERE available clause re-validates
		// the precondition under the transaction: zero rows means a concurrent
		// create won the book.
		res := tx.Model(&entities.Book{}).
			Where("id = ? AND user_id = ? AND available = ?", input.BookID, userID, true).
			Update("available", input.ReturnedDate != nil)
		if res.Error != nil {
			return fmt.Errorf("failed to update book availability: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrBookUnavailable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return borrowing, nil
}

// Update rewrites all mutable fields of a borrowing. When the book reference
// changes, the previous book is marked available and the new book takes the
// flag derived from ReturnedDate.
//
// The old-book flip does not check whether other open borrowings still
// reference it, so reassigning away from a book that was double-borrowed can
// mark it available too early. That mirrors the write path this service is
// compatible with; the consistency audit in internal/scheduler surfaces the
// drift.
func (r *Repository) Update(id uint, input UpdateInput, userID uint) (bool, error) {
	if err := input.validate(); err != nil {
		return false, err
	}

	var updated bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var current entities.Borrowing
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load borrowing: %w", err)
		}

		bookChanged := input.BookID != current.BookID
		if bookChanged {
			var book entities.Book
			if err := tx.Where("id = ? AND user_id = ?", input.BookID, userID).First(&book).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrBookNotFound
				}
				return fmt.Errorf("failed to load book: %w", err)
			}
			// Repointing an open record needs an available target book.
			if input.ReturnedDate == nil && !book.Available {
				return ErrBookUnavailable
			}
		}

		res := tx.Model(&entities.Borrowing{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(map[string]any{
				"book_id":       input.BookID,
				"borrower_name": input.BorrowerName,
				"borrowed_date": input.BorrowedDate,
				"due_date":      input.DueDate,
				"returned_date": input.ReturnedDate,
				"notes":         input.Notes,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update borrowing: %w", res.Error)
		}
		updated = res.RowsAffected > 0

		if bookChanged {
			if err := tx.Model(&entities.Book{}).
				Where("id = ?", current.BookID).
				Update("available", true).Error; err != nil {
				return fmt.Errorf("failed to release previous book: %w", err)
			}
			if input.ReturnedDate == nil {
				// Same conditional claim as Create: the new book must still
				// be available at commit time.
				claim := tx.Model(&entities.Book{}).
					Where("id = ? AND user_id = ? AND available = ?", input.BookID, userID, true).
					Update("available", false)
				if claim.Error != nil {
					return fmt.Errorf("failed to claim new book: %w", claim.Error)
				}
				if claim.RowsAffected == 0 {
					return ErrBookUnavailable
				}
				return nil
			}
		}

		if err := tx.Model(&entities.Book{}).
			Where("id = ?", input.BookID).
			Update("available", input.ReturnedDate != nil).Error; err != nil {
			return fmt.Errorf("failed to update book availability: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return updated, nil
}

// Return closes an open borrowing with today's date and marks the book
// available again. Returning an already-closed record is a conflict.
func (r *Repository) Return(id uint, userID uint) (bool, error) {
	var returned bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var current entities.Borrowing
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load borrowing: %w", err)
		}
		if !current.Open() {
			return ErrAlreadyReturned
		}

		today := startOfDay(time.Now())
		res := tx.Model(&entities.Borrowing{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("returned_date", today)
		if res.Error != nil {
			return fmt.Errorf("failed to set returned date: %w", res.Error)
		}
		returned = res.RowsAffected > 0

		if err := tx.Model(&entities.Book{}).
			Where("id = ?", current.BookID).
			Update("available", true).Error; err != nil {
			return fmt.Errorf("failed to update book availability: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return returned, nil
}

// Delete removes a borrowing record. Deleting an open record frees the book;
// deleting an already-returned record leaves the flag untouched.
func (r *Repository) Delete(id uint, userID uint) (bool, error) {
	var deleted bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var current entities.Borrowing
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load borrowing: %w", err)
		}

		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Borrowing{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete borrowing: %w", res.Error)
		}
		deleted = res.RowsAffected > 0

		if current.Open() {
			if err := tx.Model(&entities.Book{}).
				Where("id = ?", current.BookID).
				Update("available", true).Error; err != nil {
				return fmt.Errorf("failed to update book availability: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}

// GetAll returns every borrowing for the user, most recently borrowed first.
func (r *Repository) GetAll(userID uint) ([]entities.Borrowing, error) {
	var records []entities.Borrowing
	err := r.db.Preload("Book").
		Where("user_id = ?", userID).
		Order("borrowed_date DESC").
		Find(&records).Error
	return records, err
}

// GetCurrent returns open borrowings ordered by due date ascending.
func (r *Repository) GetCurrent(userID uint) ([]entities.Borrowing, error) {
	var records []entities.Borrowing
	err := r.db.Preload("Book").
		Where("user_id = ? AND returned_date IS NULL", userID).
		Order("due_date ASC").
		Find(&records).Error
	return records, err
}

// GetOverdue returns open borrowings whose due date has passed, ordered by
// due date ascending. A record due today is not yet overdue.
func (r *Repository) GetOverdue(userID uint) ([]entities.Borrowing, error) {
	var records []entities.Borrowing
	err := r.db.Preload("Book").
		Where("user_id = ? AND returned_date IS NULL AND due_date < ?", userID, startOfDay(time.Now())).
		Order("due_date ASC").
		Find(&records).Error
	return records, err
}

// GetByID retrieves a single borrowing scoped to the user.
func (r *Repository) GetByID(id uint, userID uint) (*entities.Borrowing, error) {
	var record entities.Borrowing
	err := r.db.Preload("Book").Where("id = ? AND user_id = ?", id, userID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
