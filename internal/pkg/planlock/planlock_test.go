package planlock

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestLocalAcquireRelease(t *testing.T) {
	l := NewLocal()
	key := Key(uuid.New())

	release, err := l.Acquire(context.Background(), key)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	if _, err := l.Acquire(context.Background(), key); !errors.Is(err, ErrHeld) {
		t.Fatalf("second acquire: want ErrHeld, got %v", err)
	}

	release()

	release2, err := l.Acquire(context.Background(), key)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	release2()
}

func TestLocalIndependentKeys(t *testing.T) {
	l := NewLocal()

	r1, err := l.Acquire(context.Background(), Key(uuid.New()))
	if err != nil {
		t.Fatalf("acquire a: %v", err)
	}
	defer r1()

	r2, err := l.Acquire(context.Background(), Key(uuid.New()))
	if err != nil {
		t.Fatalf("acquire b: %v", err)
	}
	defer r2()
}
