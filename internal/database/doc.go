// Package database provides the data access layer for the catalog service.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations
//	├── users/           # User accounts and profile updates
//	├── authors/         # Shared author reference data
//	├── books/           # Owner-scoped book CRUD and the availability flag
//	└── borrowings/      # Borrowing lifecycle and availability transitions
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase("./homelibrary.db")
//
//	booksRepo := books.NewRepository(db.DB)
//	borrowingsRepo := borrowings.NewRepository(db.DB)
//
//	book, err := booksRepo.GetBookByID(123, userID)
//	record, err := borrowingsRepo.Create(input, userID)
//
// # Availability Contract
//
// books.available mirrors "no borrowing with a null returned_date references
// this book". The borrowings repository is the sole writer of the flag during
// lifecycle transitions and keeps every multi-statement transition atomic;
// nothing else may flip the flag as a side effect.
package database
