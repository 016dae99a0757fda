package entities

import (
	"time"
)

// User owns books and borrowing records. Every catalog row is scoped to
// exactly one user; there is no cross-user visibility.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:100" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	FullName     string    `gorm:"size:100" json:"full_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Author is shared, unscoped reference data. Books hold a weak reference to
// it: deleting an author clears books.author_id rather than cascading.
type Author struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"index;size:100" json:"name"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	DeathDate *time.Time `json:"death_date,omitempty"`
	Biography string     `gorm:"type:text" json:"biography,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Book belongs to one user. Available is a materialized cache of the
// predicate "no open borrowing references this book"; the borrowings
// repository is the only writer of this flag during lifecycle transitions.
type Book struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index" json:"user_id"`
	Title           string    `gorm:"index;size:255" json:"title"`
	AuthorID        *uint     `gorm:"index" json:"author_id,omitempty"`
	ISBN            string    `gorm:"size:20" json:"isbn,omitempty"`
	PublicationYear int       `json:"publication_year,omitempty"`
	Publisher       string    `gorm:"size:100" json:"publisher,omitempty"`
	Genre           string    `gorm:"size:50" json:"genre,omitempty"`
	Description     string    `gorm:"type:text" json:"description,omitempty"`
	PageCount       int       `json:"page_count,omitempty"`
	Language        string    `gorm:"size:50" json:"language,omitempty"`
	Available       bool      `gorm:"default:true" json:"available"`
	Author          *Author   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	User            User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Borrowing records a book being lent out to a named person (free text, not
// a user account). A nil ReturnedDate means the book is currently out.
type Borrowing struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	BookID       uint       `gorm:"index" json:"book_id"`
	UserID       uint       `gorm:"index" json:"user_id"`
	BorrowerName string     `gorm:"size:100" json:"borrower_name"`
	BorrowedDate time.Time  `json:"borrowed_date"`
	DueDate      time.Time  `gorm:"index" json:"due_date"`
	ReturnedDate *time.Time `json:"returned_date,omitempty"`
	Notes        string     `gorm:"type:text" json:"notes,omitempty"`
	Book         Book       `gorm:"foreignKey:BookID" json:"book,omitempty"`
	User         User       `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Open reports whether the borrowing is still out.
func (b *Borrowing) Open() bool {
	return b.ReturnedDate == nil
}
