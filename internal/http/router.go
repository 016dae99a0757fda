package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mkowalski/homelibrary/internal/auth"
	"github.com/mkowalski/homelibrary/internal/database"
)

// RouterConfig carries every dependency the router needs, so wiring stays in
// one place and tests can swap pieces out.
type RouterConfig struct {
	Database    *database.Database
	AuthService *auth.Service

	BorrowingStore BorrowingStore
	BookStore      BookStore
	AuthorStore    AuthorStore
	ProfileStore   ProfileStore

	Version string
	Debug   bool
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	debugMode = cfg.Debug

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	authMiddleware := auth.NewMiddleware(cfg.AuthService)
	router.Use(authMiddleware.Handler())

	health := NewHealthController(cfg.Database, cfg.Version)
	authController := NewAuthController(cfg.AuthService)
	borrowingsController := NewBorrowingsController(cfg.BorrowingStore)
	booksController := NewBooksController(cfg.BookStore)
	authorsController := NewAuthorsController(cfg.AuthorStore)
	profileController := NewProfileController(cfg.ProfileStore, cfg.AuthService)

	router.GET("/health", health.Status)

	api := router.Group("/api")
	{
		api.POST("/auth/signup", authController.Signup)
		api.POST("/auth/signin", authController.Signin)

		api.GET("/users/me", profileController.GetProfile)
		api.PUT("/users/me", profileController.UpdateProfile)
		api.POST("/users/me/password", profileController.ChangePassword)

		api.GET("/authors", authorsController.GetAllAuthors)
		api.GET("/authors/search", authorsController.SearchAuthors)
		api.GET("/authors/:id", authorsController.GetAuthorByID)
		api.POST("/authors", authorsController.CreateAuthor)
		api.PUT("/authors/:id", authorsController.UpdateAuthor)
		api.DELETE("/authors/:id", authorsController.DeleteAuthor)

		api.GET("/books", booksController.GetAllBooks)
		api.GET("/books/search", booksController.SearchBooks)
		api.GET("/books/:id/history", booksController.GetBorrowingHistory)
		api.GET("/books/:id", booksController.GetBookByID)
		api.POST("/books", booksController.CreateBook)
		api.PUT("/books/:id", booksController.UpdateBook)
		api.DELETE("/books/:id", booksController.DeleteBook)

		api.GET("/borrowings", borrowingsController.GetAllBorrowings)
		api.GET("/borrowings/current", borrowingsController.GetCurrentBorrowings)
		api.GET("/borrowings/overdue", borrowingsController.GetOverdueBorrowings)
		api.GET("/borrowings/:id", borrowingsController.GetBorrowingByID)
		api.POST("/borrowings", borrowingsController.CreateBorrowing)
		api.PUT("/borrowings/:id", borrowingsController.UpdateBorrowing)
		api.POST("/borrowings/:id/return", borrowingsController.ReturnBook)
		api.DELETE("/borrowings/:id", borrowingsController.DeleteBorrowing)
	}

	return router
}
