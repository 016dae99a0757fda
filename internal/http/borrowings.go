package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mkowalski/homelibrary/internal/database/borrowings"
)

// BorrowingsController exposes the borrowing lifecycle and its query surface.
type BorrowingsController struct {
	store BorrowingStore
}

// NewBorrowingsController creates a new borrowings controller.
func NewBorrowingsController(store BorrowingStore) *BorrowingsController {
	return &BorrowingsController{store: store}
}

// borrowingRequest is the request body for create and update. Dates are
// "2006-01-02" strings; returned_date empty or absent means the record is
// open.
type borrowingRequest struct {
	BookID       uint   `json:"book_id" binding:"required"`
	BorrowerName string `json:"borrower_name" binding:"required"`
	BorrowedDate string `json:"borrowed_date" binding:"required"`
	DueDate      string `json:"due_date" binding:"required"`
	ReturnedDate string `json:"returned_date"`
	Notes        string `json:"notes"`
}

func (req borrowingRequest) toCreateInput(c *gin.Context) (borrowings.CreateInput, bool) {
	borrowed, err := parseDate(req.BorrowedDate)
	if err != nil {
		respondBadRequest(c, "invalid borrowed_date, expected YYYY-MM-DD")
		return borrowings.CreateInput{}, false
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		respondBadRequest(c, "invalid due_date, expected YYYY-MM-DD")
		return borrowings.CreateInput{}, false
	}
	returned, err := parseOptionalDate(req.ReturnedDate)
	if err != nil {
		respondBadRequest(c, "invalid returned_date, expected YYYY-MM-DD")
		return borrowings.CreateInput{}, false
	}
	return borrowings.CreateInput{
		BookID:       req.BookID,
		BorrowerName: req.BorrowerName,
		BorrowedDate: borrowed,
		DueDate:      due,
		ReturnedDate: returned,
		Notes:        req.Notes,
	}, true
}

// GetAllBorrowings lists every borrowing record for the caller.
func (ctrl *BorrowingsController) GetAllBorrowings(c *gin.Context) {
	records, err := ctrl.store.GetAll(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list borrowings")
		return
	}
	c.JSON(200, gin.H{"borrowings": records, "count": len(records)})
}

// GetCurrentBorrowings lists open records ordered by due date.
func (ctrl *BorrowingsController) GetCurrentBorrowings(c *gin.Context) {
	records, err := ctrl.store.GetCurrent(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list current borrowings")
		return
	}
	c.JSON(200, gin.H{"borrowings": records, "count": len(records)})
}

// GetOverdueBorrowings lists open records past their due date.
func (ctrl *BorrowingsController) GetOverdueBorrowings(c *gin.Context) {
	records, err := ctrl.store.GetOverdue(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list overdue borrowings")
		return
	}
	c.JSON(200, gin.H{"borrowings": records, "count": len(records)})
}

// GetBorrowingByID fetches one record.
func (ctrl *BorrowingsController) GetBorrowingByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	record, err := ctrl.store.GetByID(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, borrowings.ErrNotFound) {
			respondNotFound(c, "borrowing record")
			return
		}
		respondInternalError(c, err, "get borrowing")
		return
	}
	c.JSON(200, gin.H{"borrowing": record})
}

// CreateBorrowing opens a new borrowing against an available book.
func (ctrl *BorrowingsController) CreateBorrowing(c *gin.Context) {
	var req borrowingRequest
	if !bindJSON(c, &req) {
		return
	}
	input, ok := req.toCreateInput(c)
	if !ok {
		return
	}

	record, err := ctrl.store.Create(input, GetUserID(c))
	if err != nil {
		ctrl.respondLifecycleError(c, err, "create borrowing")
		return
	}
	respondCreated(c, gin.H{
		"message":   "Borrowing record created successfully",
		"borrowing": record,
	})
}

// UpdateBorrowing rewrites a record, possibly repointing it at another book.
func (ctrl *BorrowingsController) UpdateBorrowing(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req borrowingRequest
	if !bindJSON(c, &req) {
		return
	}
	input, ok := req.toCreateInput(c)
	if !ok {
		return
	}

	userID := GetUserID(c)
	updated, err := ctrl.store.Update(id, borrowings.UpdateInput(input), userID)
	if err != nil {
		ctrl.respondLifecycleError(c, err, "update borrowing")
		return
	}
	if !updated {
		respondNotFound(c, "borrowing record")
		return
	}

	record, err := ctrl.store.GetByID(id, userID)
	if err != nil {
		respondInternalError(c, err, "reload borrowing")
		return
	}
	c.JSON(200, gin.H{
		"message":   "Borrowing record updated successfully",
		"borrowing": record,
	})
}

// ReturnBook closes an open record with today's date.
func (ctrl *BorrowingsController) ReturnBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	returned, err := ctrl.store.Return(id, GetUserID(c))
	if err != nil {
		ctrl.respondLifecycleError(c, err, "return book")
		return
	}
	if !returned {
		respondNotFound(c, "borrowing record")
		return
	}
	respondSuccess(c, "Book returned successfully")
}

// DeleteBorrowing removes a record, freeing the book if it was still open.
func (ctrl *BorrowingsController) DeleteBorrowing(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	deleted, err := ctrl.store.Delete(id, GetUserID(c))
	if err != nil {
		ctrl.respondLifecycleError(c, err, "delete borrowing")
		return
	}
	if !deleted {
		respondNotFound(c, "borrowing record")
		return
	}
	respondSuccess(c, "Borrowing record deleted successfully")
}

// respondLifecycleError maps lifecycle sentinels onto HTTP statuses.
func (ctrl *BorrowingsController) respondLifecycleError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, borrowings.ErrNotFound):
		respondNotFound(c, "borrowing record")
	case errors.Is(err, borrowings.ErrBookNotFound):
		respondNotFound(c, "book")
	case errors.Is(err, borrowings.ErrBookUnavailable),
		errors.Is(err, borrowings.ErrAlreadyReturned):
		respondConflict(c, err.Error())
	case errors.Is(err, borrowings.ErrBookIDRequired),
		errors.Is(err, borrowings.ErrBorrowerNameRequired),
		errors.Is(err, borrowings.ErrBorrowedDateRequired),
		errors.Is(err, borrowings.ErrDueDateRequired):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}
