package creations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectExec("INSERT INTO creations").
		WithArgs("c1", "u1", "write about go", "Go is...", TypeArticle, false, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	err = repo.Create(context.Background(), Creation{
		ID: "c1", UserID: "u1", Prompt: "write about go", Content: "Go is...",
		Type: TypeArticle, CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPGRepoListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "prompt", "content", "type", "publish", "created_at"}).
		AddRow("c2", "u1", "a fox", "https://cdn/img.png", TypeImage, true, now).
		AddRow("c1", "u1", "write about go", "Go is...", TypeArticle, false, now.Add(-time.Hour))
	mock.ExpectQuery("SELECT id, user_id, prompt, content, type, publish, created_at").
		WithArgs("u1", 20, 0).
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.ListByUser(context.Background(), "u1", 0, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c2" || got[1].Type != TypeArticle {
		t.Errorf("unexpected rows: %+v", got)
	}
}

func TestPGRepoSetPublishNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE creations").
		WithArgs(true, "u1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	if err := repo.SetPublish(context.Background(), "u1", "missing", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
