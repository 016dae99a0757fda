// Package scheduler runs the periodic availability consistency audit.
//
// books.available is a materialized cache of "no open borrowing references
// this book". The lifecycle write path keeps it synchronized, but one write
// path is deliberately lossy: repointing a borrowing away from a book marks
// the old book available without checking for other open borrowings. The
// audit recomputes the predicate per book, logs any drift and, when repair
// is enabled, writes the flag back.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/mkowalski/homelibrary/internal/config"
)

// ConsistencyAuditor periodically checks the availability flag against the
// set of open borrowings.
type ConsistencyAuditor struct {
	db  *gorm.DB
	cfg config.Consistency

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// Drift describes one book whose flag disagrees with its borrowing records.
type Drift struct {
	BookID    uint  `gorm:"column:book_id"`
	Available bool  `gorm:"column:available"`
	OpenCount int64 `gorm:"column:open_count"`
}

// NewConsistencyAuditor creates a new auditor instance.
func NewConsistencyAuditor(db *gorm.DB, cfg config.Consistency) *ConsistencyAuditor {
	return &ConsistencyAuditor{
		db:   db,
		cfg:  cfg,
		cron: cron.New(),
	}
}

// Start begins the scheduler if the audit is enabled.
func (a *ConsistencyAuditor) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.isRunning {
		return nil
	}

	if !a.cfg.Enabled {
		log.Printf("Consistency audit: disabled")
		return nil
	}

	entryID, err := a.cron.AddFunc(a.cfg.Schedule, func() {
		if _, err := a.RunAudit(); err != nil {
			log.Printf("Consistency audit: failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule consistency audit: %w", err)
	}
	a.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, a.cancelFunc = context.WithCancel(ctx)

	a.cron.Start()
	a.isRunning = true

	log.Printf("Consistency audit: started with schedule '%s' (repair=%v)", a.cfg.Schedule, a.cfg.Repair)

	go func() {
		<-cancelCtx.Done()
		a.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (a *ConsistencyAuditor) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.isRunning {
		return
	}

	ctx := a.cron.Stop()
	<-ctx.Done()

	a.isRunning = false
	a.cancelFunc = nil

	log.Printf("Consistency audit: stopped")
}

// IsRunning returns whether the scheduler is active.
func (a *ConsistencyAuditor) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.isRunning
}

// RunAudit performs one check over the whole catalog and returns the books
// whose flag disagreed with the predicate. With repair enabled the flag is
// rewritten in place.
func (a *ConsistencyAuditor) RunAudit() ([]Drift, error) {
	var rows []Drift
	err := a.db.Raw(`
		SELECT b.id AS book_id,
		       b.available AS available,
		       (SELECT COUNT(*) FROM borrowings br
		         WHERE br.book_id = b.id AND br.returned_date IS NULL) AS open_count
		  FROM books b`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scan catalog: %w", err)
	}

	var drifted []Drift
	for _, row := range rows {
		expected := row.OpenCount == 0
		if row.Available == expected {
			continue
		}
		drifted = append(drifted, row)
		log.Printf("Consistency audit: book %d available=%v but has %d open borrowings",
			row.BookID, row.Available, row.OpenCount)

		if a.cfg.Repair {
			if err := a.db.Exec(`UPDATE books SET available = ? WHERE id = ?`, expected, row.BookID).Error; err != nil {
				return drifted, fmt.Errorf("failed to repair book %d: %w", row.BookID, err)
			}
			log.Printf("Consistency audit: repaired book %d -> available=%v", row.BookID, expected)
		}
	}

	if len(drifted) == 0 {
		log.Printf("Consistency audit: %d books checked, no drift", len(rows))
	} else {
		log.Printf("Consistency audit: %d books checked, %d drifted (repair=%v)",
			len(rows), len(drifted), a.cfg.Repair)
	}

	return drifted, nil
}
