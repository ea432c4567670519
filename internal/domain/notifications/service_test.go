package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeStore struct {
	mu       sync.Mutex
	rows     []Notification
	emails   map[string]string
	insErr   error
	sweepCut time.Time
}

func (f *fakeStore) CreateNotification(ctx context.Context, employeeID, ntype, message string) error {
	if f.insErr != nil {
		return f.insErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, Notification{EmployeeID: employeeID, Type: ntype, Message: message, CreatedAt: time.Now()})
	return nil
}

func (f *fakeStore) ListForEmployee(ctx context.Context, employeeID string, limit, offset int) ([]Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Notification
	for _, n := range f.rows {
		if n.EmployeeID == employeeID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeStore) CountForEmployee(ctx context.Context, employeeID string) (int, error) {
	rows, _ := f.ListForEmployee(ctx, employeeID, 0, 0)
	return len(rows), nil
}

func (f *fakeStore) MarkRead(ctx context.Context, employeeID, notificationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].EmployeeID == employeeID && f.rows[i].ID == notificationID {
			f.rows[i].Read = true
			return nil
		}
	}
	// Same contract as the SQL store: zero rows touched is a miss.
	return ErrNotFound
}

func (f *fakeStore) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.sweepCut = cutoff
	return 3, nil
}

func (f *fakeStore) EmployeeEmail(ctx context.Context, employeeID string) (string, error) {
	if f.emails == nil {
		return "", nil
	}
	return f.emails[employeeID], nil
}

type fakeMailer struct {
	sent chan string
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, from, to, subject, body string) error {
	if f.sent != nil {
		f.sent <- to
	}
	return f.err
}

func TestNotifyPersistsAndDispatches(t *testing.T) {
	store := &fakeStore{emails: map[string]string{"emp-1": "emp1@example.com"}}
	mailer := &fakeMailer{sent: make(chan string, 1)}
	svc := New(store, mailer, "no-reply@example.com", time.Second)

	svc.Notify(context.Background(), "emp-1", TypeLateArrival, "late")

	rows, _ := store.ListForEmployee(context.Background(), "emp-1", 0, 0)
	if len(rows) != 1 {
		t.Fatalf("expected 1 stored notification, got %d", len(rows))
	}

	select {
	case to := <-mailer.sent:
		if to != "emp1@example.com" {
			t.Fatalf("unexpected recipient %s", to)
		}
	case <-time.After(time.Second):
		t.Fatal("email was never dispatched")
	}
}

func TestNotifySwallowsMailerFailure(t *testing.T) {
	store := &fakeStore{emails: map[string]string{"emp-1": "emp1@example.com"}}
	mailer := &fakeMailer{sent: make(chan string, 1), err: errors.New("smtp down")}
	svc := New(store, mailer, "no-reply@example.com", time.Second)

	// Must not panic or block; the stored row must survive the send failure.
	svc.Notify(context.Background(), "emp-1", TypeLocationIssue, "outside fence")
	<-mailer.sent

	rows, _ := store.ListForEmployee(context.Background(), "emp-1", 0, 0)
	if len(rows) != 1 {
		t.Fatalf("expected stored notification despite mail failure, got %d", len(rows))
	}
}

func TestNotifyDropsUnknownType(t *testing.T) {
	store := &fakeStore{}
	svc := New(store, nil, "no-reply@example.com", time.Second)

	svc.Notify(context.Background(), "emp-1", "unknown_type", "msg")

	rows, _ := store.ListForEmployee(context.Background(), "emp-1", 0, 0)
	if len(rows) != 0 {
		t.Fatalf("unknown type must not be stored, got %d rows", len(rows))
	}
}

func TestMarkReadMissingNotification(t *testing.T) {
	store := &fakeStore{rows: []Notification{
		{ID: "n-1", EmployeeID: "emp-1", Type: TypeLateArrival, Message: "late"},
	}}
	svc := New(store, nil, "no-reply@example.com", time.Second)

	if err := svc.MarkRead(context.Background(), "emp-1", "n-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.rows[0].Read {
		t.Fatal("notification was not marked read")
	}

	if err := svc.MarkRead(context.Background(), "emp-1", "n-404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
	// Another employee's notification must look like a miss, not be mutated.
	if err := svc.MarkRead(context.Background(), "emp-2", "n-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign notification, got %v", err)
	}
}

func TestSweepCutoff(t *testing.T) {
	store := &fakeStore{}
	svc := New(store, nil, "no-reply@example.com", time.Second)

	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)
	deleted, err := svc.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("expected 3 deleted, got %d", deleted)
	}
	if want := now.AddDate(0, 0, -30); !store.sweepCut.Equal(want) {
		t.Fatalf("expected cutoff %v, got %v", want, store.sweepCut)
	}
}
