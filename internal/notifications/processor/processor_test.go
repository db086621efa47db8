package processor

import (
	"brandlink/internal/observability"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeStore struct {
	pendingAssignments int
	pendingPayments    int
	newAccounts        int
	sinceSeen          time.Time
	err                error
}

func (f *fakeStore) CountAssignmentsWithStatus(context.Context, string) (int, error) {
	return f.pendingAssignments, f.err
}

func (f *fakeStore) CountPaymentsWithStatus(context.Context, string) (int, error) {
	return f.pendingPayments, f.err
}

func (f *fakeStore) CountAccountsCreatedSince(_ context.Context, since time.Time) (int, error) {
	f.sinceSeen = since
	return f.newAccounts, f.err
}

func newProcessor(f *fakeStore) NotificationProcessor {
	return New(f, 30*24*time.Hour, observability.NewLogger())
}

func TestEvaluate_NoCountsYieldsSingleReadInfo(t *testing.T) {
	p := newProcessor(&fakeStore{})

	feed := p.Evaluate(Counts{}, time.Now())
	if len(feed) != 1 {
		t.Fatalf("expected exactly one default notification, got %d", len(feed))
	}

	n := feed[0]
	if n.Type != "info" || !n.Read || n.Priority != PriorityLow {
		t.Errorf("default notification = %+v, want read info with low priority", n)
	}
	if n.ID != 1 {
		t.Errorf("ID = %d, want 1", n.ID)
	}
}

func TestEvaluate_PendingAssignmentsFiresHigh(t *testing.T) {
	p := newProcessor(&fakeStore{})

	feed := p.Evaluate(Counts{PendingAssignments: 3}, time.Now())
	if len(feed) != 1 {
		t.Fatalf("expected one notification, got %d", len(feed))
	}
	if feed[0].Priority != PriorityHigh {
		t.Errorf("priority = %q, want high", feed[0].Priority)
	}
	if !strings.Contains(feed[0].Message, "3") {
		t.Errorf("message %q must mention the count", feed[0].Message)
	}
	if feed[0].Read {
		t.Error("fired notifications start unread")
	}
}

func TestEvaluate_AllRulesFireInDeclarationOrder(t *testing.T) {
	p := newProcessor(&fakeStore{})
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	feed := p.Evaluate(Counts{PendingAssignments: 2, PendingPayments: 1, NewAccounts: 5}, now)
	if len(feed) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(feed))
	}

	wantPriorities := []string{PriorityHigh, PriorityMedium, PriorityLow}
	for i, want := range wantPriorities {
		if feed[i].Priority != want {
			t.Errorf("feed[%d] priority = %q, want %q", i, feed[i].Priority, want)
		}
		if feed[i].ID != i+1 {
			t.Errorf("feed[%d] ID = %d, want %d", i, feed[i].ID, i+1)
		}
	}

	// Timestamps stagger backwards one hour per rule.
	if !feed[0].Timestamp.Equal(now) {
		t.Errorf("feed[0] timestamp = %v, want now", feed[0].Timestamp)
	}
	if !feed[1].Timestamp.Equal(now.Add(-1 * time.Hour)) {
		t.Errorf("feed[1] timestamp = %v, want now-1h", feed[1].Timestamp)
	}
	if !feed[2].Timestamp.Equal(now.Add(-2 * time.Hour)) {
		t.Errorf("feed[2] timestamp = %v, want now-2h", feed[2].Timestamp)
	}
}

func TestEvaluate_Pluralization(t *testing.T) {
	p := newProcessor(&fakeStore{})
	now := time.Now()

	single := p.Evaluate(Counts{PendingPayments: 1}, now)
	if !strings.Contains(single[0].Message, "1 payment ") {
		t.Errorf("singular message = %q", single[0].Message)
	}

	many := p.Evaluate(Counts{PendingPayments: 4}, now)
	if !strings.Contains(many[0].Message, "4 payments ") {
		t.Errorf("plural message = %q", many[0].Message)
	}
}

func TestEvaluate_IdempotentForIdenticalCounts(t *testing.T) {
	p := newProcessor(&fakeStore{})
	now := time.Now()
	counts := Counts{PendingAssignments: 1, NewAccounts: 2}

	first := p.Evaluate(counts, now)
	second := p.Evaluate(counts, now)
	if len(first) != len(second) {
		t.Fatalf("feed lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("feed[%d] differs between evaluations: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGetNotifications_UsesTrailingWindow(t *testing.T) {
	f := &fakeStore{pendingPayments: 2}
	p := newProcessor(f)

	feed, err := p.GetNotifications(context.Background())
	if err != nil {
		t.Fatalf("GetNotifications() error = %v", err)
	}
	if len(feed) != 1 || feed[0].Priority != PriorityMedium {
		t.Fatalf("unexpected feed: %+v", feed)
	}

	elapsed := time.Since(f.sinceSeen)
	if elapsed < 29*24*time.Hour || elapsed > 31*24*time.Hour {
		t.Errorf("new-account window = %v ago, want ~30 days", elapsed)
	}
}

func TestGetNotifications_StoreError(t *testing.T) {
	p := newProcessor(&fakeStore{err: errors.New("connection refused")})

	_, err := p.GetNotifications(context.Background())
	if err == nil {
		t.Fatal("expected error to propagate from store")
	}
}

func TestMarkAllRead_Acknowledges(t *testing.T) {
	p := newProcessor(&fakeStore{})

	if err := p.MarkAllRead(context.Background()); err != nil {
		t.Errorf("MarkAllRead() error = %v, want nil", err)
	}
}
