package books

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mkowalski/homelibrary/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	t.Helper()
	dbPath := "./test_books_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Author{},
		&entities.Book{},
		&entities.Borrowing{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func TestRepository_CreateBook(t *testing.T) {
	t.Run("new books are available by default", func(t *testing.T) {
		repo, _, cleanup := setupTestDB(t)
		defer cleanup()

		book, err := repo.CreateBook(&entities.Book{Title: "Solaris"}, 1)

		require.NoError(t, err)
		assert.NotZero(t, book.ID)
		assert.Equal(t, uint(1), book.UserID)
		assert.True(t, book.Available)
	})

	t.Run("title is required", func(t *testing.T) {
		repo, _, cleanup := setupTestDB(t)
		defer cleanup()

		_, err := repo.CreateBook(&entities.Book{}, 1)
		assert.ErrorIs(t, err, ErrTitleRequired)
	})
}

func TestRepository_GetAllBooks(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	author := entities.Author{Name: "Stanislaw Lem"}
	require.NoError(t, db.Create(&author).Error)

	_, err := repo.CreateBook(&entities.Book{Title: "Solaris", AuthorID: &author.ID}, 1)
	require.NoError(t, err)
	_, err = repo.CreateBook(&entities.Book{Title: "Fiasco"}, 1)
	require.NoError(t, err)
	_, err = repo.CreateBook(&entities.Book{Title: "Not Mine"}, 2)
	require.NoError(t, err)

	books, err := repo.GetAllBooks(1)

	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Fiasco", books[0].Title)
	assert.Equal(t, "Solaris", books[1].Title)
	require.NotNil(t, books[1].Author)
	assert.Equal(t, "Stanislaw Lem", books[1].Author.Name)
}

func TestRepository_GetBookByID(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := repo.CreateBook(&entities.Book{Title: "Solaris"}, 1)
	require.NoError(t, err)

	book, err := repo.GetBookByID(created.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Solaris", book.Title)

	_, err = repo.GetBookByID(created.ID, 2)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetBookByID(999, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_SearchBooks(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.CreateBook(&entities.Book{Title: "The Invincible"}, 1)
	require.NoError(t, err)
	_, err = repo.CreateBook(&entities.Book{Title: "His Master's Voice"}, 1)
	require.NoError(t, err)
	_, err = repo.CreateBook(&entities.Book{Title: "invincible copy"}, 2)
	require.NoError(t, err)

	books, err := repo.SearchBooks("invinc", 1)

	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "The Invincible", books[0].Title)
}

func TestRepository_UpdateBook(t *testing.T) {
	t.Run("updates fields for the owner", func(t *testing.T) {
		repo, _, cleanup := setupTestDB(t)
		defer cleanup()

		created, err := repo.CreateBook(&entities.Book{Title: "Solaris"}, 1)
		require.NoError(t, err)

		updated, err := repo.UpdateBook(created.ID, &entities.Book{
			Title:     "Solaris (2nd ed.)",
			Genre:     "science fiction",
			Available: true,
		}, 1)

		require.NoError(t, err)
		assert.True(t, updated)

		book, err := repo.GetBookByID(created.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, "Solaris (2nd ed.)", book.Title)
		assert.Equal(t, "science fiction", book.Genre)
	})

	t.Run("does not touch other users' books", func(t *testing.T) {
		repo, _, cleanup := setupTestDB(t)
		defer cleanup()

		created, err := repo.CreateBook(&entities.Book{Title: "Solaris"}, 1)
		require.NoError(t, err)

		updated, err := repo.UpdateBook(created.ID, &entities.Book{Title: "Hijacked"}, 2)

		require.NoError(t, err)
		assert.False(t, updated)
	})
}

func TestRepository_DeleteBook(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := repo.CreateBook(&entities.Book{Title: "Solaris"}, 1)
	require.NoError(t, err)
	require.NoError(t, db.Create(&entities.Borrowing{
		BookID:       created.ID,
		UserID:       1,
		BorrowerName: "Alice",
		BorrowedDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		DueDate:      time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
	}).Error)

	deleted, err := repo.DeleteBook(created.ID, 1)

	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.GetBookByID(created.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&entities.Borrowing{}).Where("book_id = ?", created.ID).Count(&count).Error)
	assert.Zero(t, count, "borrowing history goes with the book")
}

func TestRepository_GetBorrowingHistory(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := repo.CreateBook(&entities.Book{Title: "Solaris"}, 1)
	require.NoError(t, err)

	first := time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for _, borrowed := range []time.Time{first, second} {
		require.NoError(t, db.Create(&entities.Borrowing{
			BookID:       created.ID,
			UserID:       1,
			BorrowerName: "Alice",
			BorrowedDate: borrowed,
			DueDate:      borrowed.AddDate(0, 0, 14),
		}).Error)
	}

	history, err := repo.GetBorrowingHistory(created.ID, 1)

	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, second.Equal(history[0].BorrowedDate))
	assert.True(t, first.Equal(history[1].BorrowedDate))
}
