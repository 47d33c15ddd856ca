package authctx

import (
	"context"
	"errors"
	"testing"
)

type claims struct{ UserID int64 }

func TestSetGet(t *testing.T) {
	ctx := Set(context.Background(), &claims{UserID: 42})

	got, ok := Get[*claims](ctx)
	if !ok || got.UserID != 42 {
		t.Fatalf("Get = %v, %v", got, ok)
	}
	if _, ok := Get[string](ctx); ok {
		t.Error("expected wrong type to miss")
	}
	if _, ok := Get[*claims](context.Background()); ok {
		t.Error("expected empty context to miss")
	}
}

func TestGetOrError(t *testing.T) {
	if _, err := GetOrError[*claims](context.Background()); !errors.Is(err, ErrNoClaims) {
		t.Errorf("expected ErrNoClaims, got %v", err)
	}
	ctx := Set(context.Background(), &claims{UserID: 1})
	if c, err := GetOrError[*claims](ctx); err != nil || c.UserID != 1 {
		t.Errorf("GetOrError = %v, %v", c, err)
	}
}

func TestMustGet(t *testing.T) {
	ctx := Set(context.Background(), &claims{UserID: 7})
	if MustGet[*claims](ctx).UserID != 7 {
		t.Error("expected claims")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for missing claims")
		}
	}()
	MustGet[*claims](context.Background())
}

func (c *claims) SubjectID() int64 { return c.UserID }

func TestUserID(t *testing.T) {
	if _, ok := UserID(context.Background()); ok {
		t.Error("expected no user id on empty context")
	}
	if _, ok := UserID(Set(context.Background(), "opaque")); ok {
		t.Error("expected no user id for claims without SubjectID")
	}
	id, ok := UserID(Set(context.Background(), &claims{UserID: 12}))
	if !ok || id != 12 {
		t.Errorf("UserID = %d, %v", id, ok)
	}
}
