package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mkowalski/homelibrary/internal/database/authors"
	"github.com/mkowalski/homelibrary/internal/entities"
)

// AuthorsController exposes CRUD over the shared author reference data.
type AuthorsController struct {
	store AuthorStore
}

// NewAuthorsController creates a new authors controller.
func NewAuthorsController(store AuthorStore) *AuthorsController {
	return &AuthorsController{store: store}
}

type authorRequest struct {
	Name      string `json:"name" binding:"required"`
	BirthDate string `json:"birth_date"`
	DeathDate string `json:"death_date"`
	Biography string `json:"biography"`
}

func (req authorRequest) toEntity(c *gin.Context) (*entities.Author, bool) {
	birth, err := parseOptionalDate(req.BirthDate)
	if err != nil {
		respondBadRequest(c, "invalid birth_date, expected YYYY-MM-DD")
		return nil, false
	}
	death, err := parseOptionalDate(req.DeathDate)
	if err != nil {
		respondBadRequest(c, "invalid death_date, expected YYYY-MM-DD")
		return nil, false
	}
	return &entities.Author{
		Name:      req.Name,
		BirthDate: birth,
		DeathDate: death,
		Biography: req.Biography,
	}, true
}

// GetAllAuthors lists every author.
func (ctrl *AuthorsController) GetAllAuthors(c *gin.Context) {
	list, err := ctrl.store.GetAllAuthors()
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}
	c.JSON(200, gin.H{"authors": list, "count": len(list)})
}

// GetAuthorByID fetches one author.
func (ctrl *AuthorsController) GetAuthorByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	author, err := ctrl.store.GetAuthorByID(id)
	if err != nil {
		if errors.Is(err, authors.ErrNotFound) {
			respondNotFound(c, "author")
			return
		}
		respondInternalError(c, err, "get author")
		return
	}
	c.JSON(200, gin.H{"author": author})
}

// SearchAuthors finds authors by name substring.
func (ctrl *AuthorsController) SearchAuthors(c *gin.Context) {
	query := c.Query("name")
	if query == "" {
		respondBadRequest(c, "name query parameter is required")
		return
	}
	list, err := ctrl.store.SearchAuthors(query)
	if err != nil {
		respondInternalError(c, err, "search authors")
		return
	}
	c.JSON(200, gin.H{"authors": list, "count": len(list)})
}

// CreateAuthor adds an author.
func (ctrl *AuthorsController) CreateAuthor(c *gin.Context) {
	var req authorRequest
	if !bindJSON(c, &req) {
		return
	}
	author, ok := req.toEntity(c)
	if !ok {
		return
	}
	created, err := ctrl.store.CreateAuthor(author)
	if err != nil {
		if errors.Is(err, authors.ErrNameRequired) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create author")
		return
	}
	respondCreated(c, gin.H{
		"message": "Author created successfully",
		"author":  created,
	})
}

// UpdateAuthor rewrites all author fields.
func (ctrl *AuthorsController) UpdateAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req authorRequest
	if !bindJSON(c, &req) {
		return
	}
	author, ok := req.toEntity(c)
	if !ok {
		return
	}
	updated, err := ctrl.store.UpdateAuthor(id, author)
	if err != nil {
		if errors.Is(err, authors.ErrNameRequired) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "update author")
		return
	}
	if !updated {
		respondNotFound(c, "author")
		return
	}
	reloaded, err := ctrl.store.GetAuthorByID(id)
	if err != nil {
		respondInternalError(c, err, "reload author")
		return
	}
	c.JSON(200, gin.H{
		"message": "Author updated successfully",
		"author":  reloaded,
	})
}

// DeleteAuthor removes an author, detaching any books that reference it.
func (ctrl *AuthorsController) DeleteAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	deleted, err := ctrl.store.DeleteAuthor(id)
	if err != nil {
		respondInternalError(c, err, "delete author")
		return
	}
	if !deleted {
		respondNotFound(c, "author")
		return
	}
	respondSuccess(c, "Author deleted successfully")
}
