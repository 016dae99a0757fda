package http

import (
	"github.com/mkowalski/homelibrary/internal/database/borrowings"
	"github.com/mkowalski/homelibrary/internal/entities"
)

// This file consolidates the store interface definitions used by HTTP
// controllers. Each controller depends only on the operations it calls.

// BorrowingStore is the lifecycle manager plus the owner-scoped query
// surface consumed by the borrowings controller.
type BorrowingStore interface {
	Create(input borrowings.CreateInput, userID uint) (*entities.Borrowing, error)
	Update(id uint, input borrowings.UpdateInput, userID uint) (bool, error)
	Return(id uint, userID uint) (bool, error)
	Delete(id uint, userID uint) (bool, error)
	GetAll(userID uint) ([]entities.Borrowing, error)
	GetCurrent(userID uint) ([]entities.Borrowing, error)
	GetOverdue(userID uint) ([]entities.Borrowing, error)
	GetByID(id uint, userID uint) (*entities.Borrowing, error)
}

// BookStore is the owner-scoped book catalog consumed by the books
// controller.
type BookStore interface {
	CreateBook(book *entities.Book, userID uint) (*entities.Book, error)
	GetAllBooks(userID uint) ([]entities.Book, error)
	GetBookByID(id uint, userID uint) (*entities.Book, error)
	SearchBooks(query string, userID uint) ([]entities.Book, error)
	UpdateBook(id uint, book *entities.Book, userID uint) (bool, error)
	DeleteBook(id uint, userID uint) (bool, error)
	GetBorrowingHistory(bookID uint, userID uint) ([]entities.Borrowing, error)
}

// AuthorStore is the shared author reference data consumed by the authors
// controller.
type AuthorStore interface {
	CreateAuthor(author *entities.Author) (*entities.Author, error)
	GetAllAuthors() ([]entities.Author, error)
	GetAuthorByID(id uint) (*entities.Author, error)
	SearchAuthors(query string) ([]entities.Author, error)
	UpdateAuthor(id uint, author *entities.Author) (bool, error)
	DeleteAuthor(id uint) (bool, error)
}

// ProfileStore is the slice of the users repository consumed by the profile
// controller.
type ProfileStore interface {
	GetUserByID(id uint) (*entities.User, error)
	GetUserByEmail(email string) (*entities.User, error)
	UpdateProfile(id uint, email, fullName string) (bool, error)
}
