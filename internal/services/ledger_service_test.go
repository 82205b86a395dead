package services

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/ledger/memory"
)

type fakePublisher struct {
	syncIDs    []int64
	deleteIdxs []int
	fail       bool
}

func (p *fakePublisher) PublishTransactionSync(_ context.Context, id int64) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.syncIDs = append(p.syncIDs, id)
	return nil
}

func (p *fakePublisher) PublishTransactionDelete(_ context.Context, index int) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.deleteIdxs = append(p.deleteIdxs, index)
	return nil
}

// refStore wraps the memory store but hands out numeric refs like SQLite does.
type refStore struct {
	*memory.Store
	last int64
}

func (s *refStore) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if _, err := s.Store.Append(ctx, tx); err != nil {
		return "", err
	}
	s.last++
	return strconv.FormatInt(s.last, 10), nil
}

// pendingStore reports a configurable pending-sync state.
type pendingStore struct {
	*memory.Store
	pending bool
}

func (s *pendingStore) HasPendingSync(_ context.Context) (bool, error) {
	return s.pending, nil
}

func sampleTx() core.Transaction {
	return core.Transaction{
		Date:     core.NewDate(2024, 3, 1),
		Type:     core.Expense,
		Category: "Food",
		Amount:   core.Money{Cents: 1000},
	}
}

func TestAppendPublishesSync(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewLedgerService(&refStore{Store: memory.New()}, pub)

	ref, err := svc.Append(context.Background(), sampleTx())
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "1" {
		t.Fatalf("unexpected ref: %q", ref)
	}
	if len(pub.syncIDs) != 1 || pub.syncIDs[0] != 1 {
		t.Fatalf("expected sync publish for id 1, got %v", pub.syncIDs)
	}
}

func TestAppendSkipsPublishForNonNumericRef(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub) // memory refs look like "mem:1"

	if _, err := svc.Append(context.Background(), sampleTx()); err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(pub.syncIDs) != 0 {
		t.Fatalf("expected no sync publish, got %v", pub.syncIDs)
	}
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	pub := &fakePublisher{fail: true}
	store := &refStore{Store: memory.New()}
	svc := NewLedgerService(store, pub)

	if _, err := svc.Append(context.Background(), sampleTx()); err != nil {
		t.Fatalf("append must succeed despite publish failure: %v", err)
	}
	rows, _ := store.Load(context.Background())
	if len(rows) != 1 {
		t.Fatalf("local write lost: %d rows", len(rows))
	}

	if err := svc.Delete(context.Background(), 0); err != nil {
		t.Fatalf("delete must succeed despite publish failure: %v", err)
	}
}

func TestDeletePublishesIndex(t *testing.T) {
	pub := &fakePublisher{}
	store := memory.New()
	svc := NewLedgerService(store, pub)

	if _, err := store.Append(context.Background(), sampleTx()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := svc.Delete(context.Background(), 0); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(pub.deleteIdxs) != 1 || pub.deleteIdxs[0] != 0 {
		t.Fatalf("expected delete publish for index 0, got %v", pub.deleteIdxs)
	}
}

func TestDeleteSkipsPublishWhileRowsPendingSync(t *testing.T) {
	pub := &fakePublisher{}
	store := &pendingStore{Store: memory.New(), pending: true}
	svc := NewLedgerService(store, pub)

	for i := 0; i < 2; i++ {
		if _, err := store.Append(context.Background(), sampleTx()); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	// Mirror ordinals may not line up yet, so no delete goes out
	if err := svc.Delete(context.Background(), 0); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(pub.deleteIdxs) != 0 {
		t.Fatalf("expected no delete publish with pending rows, got %v", pub.deleteIdxs)
	}
	rows, _ := store.Load(context.Background())
	if len(rows) != 1 {
		t.Fatalf("local delete lost: %d rows", len(rows))
	}

	store.pending = false
	if err := svc.Delete(context.Background(), 0); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(pub.deleteIdxs) != 1 || pub.deleteIdxs[0] != 0 {
		t.Fatalf("expected delete publish once synced, got %v", pub.deleteIdxs)
	}
}

func TestDeleteOutOfRangeDoesNotPublish(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub)

	if err := svc.Delete(context.Background(), 5); !errors.Is(err, ledger.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if len(pub.deleteIdxs) != 0 {
		t.Fatalf("publish after failed delete: %v", pub.deleteIdxs)
	}
}
