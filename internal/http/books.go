package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mkowalski/homelibrary/internal/database/books"
	"github.com/mkowalski/homelibrary/internal/entities"
)

// BooksController exposes owner-scoped CRUD over the book catalog.
type BooksController struct {
	store BookStore
}

// NewBooksController creates a new books controller.
func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

type bookRequest struct {
	Title           string `json:"title" binding:"required"`
	AuthorID        *uint  `json:"author_id"`
	ISBN            string `json:"isbn"`
	PublicationYear int    `json:"publication_year"`
	Publisher       string `json:"publisher"`
	Genre           string `json:"genre"`
	Description     string `json:"description"`
	PageCount       int    `json:"page_count"`
	Language        string `json:"language"`
	Available       *bool  `json:"available"`
}

func (req bookRequest) toEntity() *entities.Book {
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	return &entities.Book{
		Title:           req.Title,
		AuthorID:        req.AuthorID,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
		Publisher:       req.Publisher,
		Genre:           req.Genre,
		Description:     req.Description,
		PageCount:       req.PageCount,
		Language:        req.Language,
		Available:       available,
	}
}

// GetAllBooks lists the caller's books ordered by title.
func (ctrl *BooksController) GetAllBooks(c *gin.Context) {
	list, err := ctrl.store.GetAllBooks(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(200, gin.H{"books": list, "count": len(list)})
}

// GetBookByID fetches one book.
func (ctrl *BooksController) GetBookByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	book, err := ctrl.store.GetBookByID(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}
	c.JSON(200, gin.H{"book": book})
}

// SearchBooks finds books by title substring.
func (ctrl *BooksController) SearchBooks(c *gin.Context) {
	query := c.Query("title")
	if query == "" {
		respondBadRequest(c, "title query parameter is required")
		return
	}
	list, err := ctrl.store.SearchBooks(query, GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "search books")
		return
	}
	c.JSON(200, gin.H{"books": list, "count": len(list)})
}

// CreateBook adds a book to the caller's catalog.
func (ctrl *BooksController) CreateBook(c *gin.Context) {
	var req bookRequest
	if !bindJSON(c, &req) {
		return
	}
	book, err := ctrl.store.CreateBook(req.toEntity(), GetUserID(c))
	if err != nil {
		if errors.Is(err, books.ErrTitleRequired) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create book")
		return
	}
	respondCreated(c, gin.H{
		"message": "Book created successfully",
		"book":    book,
	})
}

// UpdateBook rewrites all book fields.
func (ctrl *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req bookRequest
	if !bindJSON(c, &req) {
		return
	}
	userID := GetUserID(c)
	updated, err := ctrl.store.UpdateBook(id, req.toEntity(), userID)
	if err != nil {
		if errors.Is(err, books.ErrTitleRequired) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "update book")
		return
	}
	if !updated {
		respondNotFound(c, "book")
		return
	}
	book, err := ctrl.store.GetBookByID(id, userID)
	if err != nil {
		respondInternalError(c, err, "reload book")
		return
	}
	c.JSON(200, gin.H{
		"message": "Book updated successfully",
		"book":    book,
	})
}

// DeleteBook removes a book and its borrowing history.
func (ctrl *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	deleted, err := ctrl.store.DeleteBook(id, GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}
	if !deleted {
		respondNotFound(c, "book")
		return
	}
	respondSuccess(c, "Book deleted successfully")
}

// GetBorrowingHistory lists all borrowings ever recorded against a book.
func (ctrl *BooksController) GetBorrowingHistory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)
	if _, err := ctrl.store.GetBookByID(id, userID); err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}
	history, err := ctrl.store.GetBorrowingHistory(id, userID)
	if err != nil {
		respondInternalError(c, err, "borrowing history")
		return
	}
	c.JSON(200, gin.H{"borrowings": history, "count": len(history)})
}
