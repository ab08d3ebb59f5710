package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

func TestGetAbsentKey(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewWithClient(db)

	mock.ExpectGet("cart:alice").RedisNil()

	val, err := c.Get(context.Background(), "cart:alice")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if val != nil {
		t.Errorf("expected nil value for absent key, got %q", val)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetPresentKey(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewWithClient(db)

	mock.ExpectGet("cart:alice").SetVal(`{"customerId":"alice"}`)

	val, err := c.Get(context.Background(), "cart:alice")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(val) != `{"customerId":"alice"}` {
		t.Errorf("unexpected value: %q", val)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSetWithTTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewWithClient(db)

	payload := []byte(`{"customerId":"alice"}`)
	mock.ExpectSet("cart:alice", payload, 7*24*time.Hour).SetVal("OK")

	if err := c.Set(context.Background(), "cart:alice", payload, 7*24*time.Hour); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDelete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewWithClient(db)

	mock.ExpectDel("cart:alice").SetVal(1)

	if err := c.Delete(context.Background(), "cart:alice"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
