package processor

import (
	"brandlink/internal/observability"
	"brandlink/internal/store"
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// NotificationStore defines the database operations required by NotificationProcessor
type NotificationStore interface {
	CountAssignmentsWithStatus(ctx context.Context, status string) (int, error)
	CountPaymentsWithStatus(ctx context.Context, status string) (int, error)
	CountAccountsCreatedSince(ctx context.Context, since time.Time) (int, error)
}

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type NotificationProcessor struct {
	store            NotificationStore
	newAccountWindow time.Duration
	logger           *observability.Logger
}

func New(store NotificationStore, newAccountWindow time.Duration, logger *observability.Logger) NotificationProcessor {
	return NotificationProcessor{
		store:            store,
		newAccountWindow: newAccountWindow,
		logger:           logger,
	}
}

// Counts is the input snapshot the notification rules evaluate against
type Counts struct {
	PendingAssignments int `json:"pending_assignments"`
	PendingPayments    int `json:"pending_payments"`
	NewAccounts        int `json:"new_accounts"`
}

// Notification is one entry in the operator feed. Nothing is persisted; the
// feed is recomputed from current counts on every read.
type Notification struct {
	ID        int       `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
	Priority  string    `json:"priority"`
}

// Evaluate turns a counts snapshot into the notification feed. Rules fire
// independently and keep declaration order: pending assignments, then pending
// payments, then new accounts. IDs are sequential in that order and
// timestamps stagger backwards an hour per rule so recency-sorted rendering
// stays stable. When nothing fires the feed holds a single already-read info
// entry rather than being empty.
func (p *NotificationProcessor) Evaluate(counts Counts, now time.Time) []Notification {
	notifications := make([]Notification, 0, 3)

	if counts.PendingAssignments > 0 {
		notifications = append(notifications, Notification{
			Type:      "assignment",
			Title:     "Pending assignments",
			Message:   fmt.Sprintf("%d %s awaiting influencer response", counts.PendingAssignments, pluralize(counts.PendingAssignments, "assignment", "assignments")),
			Timestamp: now,
			Priority:  PriorityHigh,
		})
	}
	if counts.PendingPayments > 0 {
		notifications = append(notifications, Notification{
			Type:      "payment",
			Title:     "Pending payments",
			Message:   fmt.Sprintf("%d %s awaiting completion", counts.PendingPayments, pluralize(counts.PendingPayments, "payment", "payments")),
			Timestamp: now.Add(-1 * time.Hour),
			Priority:  PriorityMedium,
		})
	}
	if counts.NewAccounts > 0 {
		notifications = append(notifications, Notification{
			Type:      "account",
			Title:     "New accounts",
			Message:   fmt.Sprintf("%d new %s joined in the last 30 days", counts.NewAccounts, pluralize(counts.NewAccounts, "account", "accounts")),
			Timestamp: now.Add(-2 * time.Hour),
			Priority:  PriorityLow,
		})
	}

	if len(notifications) == 0 {
		notifications = append(notifications, Notification{
			Type:      "info",
			Title:     "All caught up",
			Message:   "No pending items require attention",
			Timestamp: now,
			Read:      true,
			Priority:  PriorityLow,
		})
	}

	for i := range notifications {
		notifications[i].ID = i + 1
	}
	return notifications
}

// GetNotifications gathers the current counts and evaluates the rules
func (p *NotificationProcessor) GetNotifications(ctx context.Context) ([]Notification, error) {
	var counts Counts

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts.PendingAssignments, err = p.store.CountAssignmentsWithStatus(gctx, store.AssignmentStatusPending)
		return err
	})
	g.Go(func() error {
		var err error
		counts.PendingPayments, err = p.store.CountPaymentsWithStatus(gctx, store.PaymentStatusPending)
		return err
	})
	g.Go(func() error {
		var err error
		counts.NewAccounts, err = p.store.CountAccountsCreatedSince(gctx, time.Now().Add(-p.newAccountWindow))
		return err
	})
	if err := g.Wait(); err != nil {
		p.logger.Error(ctx, "failed to gather notification counts", err)
		return nil, err
	}

	return p.Evaluate(counts, time.Now()), nil
}

// MarkAllRead acknowledges a mark-all-read request. Read state is not
// persisted: the feed is derived from live counts, so there is nothing to
// mark. Kept as an explicit endpoint so clients have a stable contract if
// read state ever becomes durable.
func (p *NotificationProcessor) MarkAllRead(ctx context.Context) error {
	p.logger.Info(ctx, "mark-all-read acknowledged without persisted state")
	return nil
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
