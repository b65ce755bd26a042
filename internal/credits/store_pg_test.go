package credits

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGStoreGetMissingLedger(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT ledger FROM credit_ledgers").
		WithArgs("guest:a").
		WillReturnRows(sqlmock.NewRows([]string{"ledger"}))

	store := NewPGStore(db)
	_, ok, err := store.Get(context.Background(), "guest:a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected no ledger")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreInitInsertsThenReads(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ledger := defaultLedger(TierFree)
	raw, _ := json.Marshal(ledger)

	mock.ExpectExec("INSERT INTO credit_ledgers").
		WithArgs("guest:a", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT ledger FROM credit_ledgers").
		WithArgs("guest:a").
		WillReturnRows(sqlmock.NewRows([]string{"ledger"}).AddRow(raw))

	store := NewPGStore(db)
	got, err := store.Init(context.Background(), "guest:a", ledger)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !got.Equal(ledger) {
		t.Fatalf("ledger mismatch: got %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreCompareAndSetReportsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	expected := defaultLedger(TierFree)
	updated := expected.Clone()
	updated[CapArticle]--

	mock.ExpectExec("UPDATE credit_ledgers SET ledger").
		WithArgs("guest:a", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewPGStore(db)
	swapped, err := store.CompareAndSet(context.Background(), "guest:a", expected, updated)
	if err != nil {
		t.Fatalf("CompareAndSet: %v", err)
	}
	if swapped {
		t.Fatal("expected conflict, got swap")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
