package auth

import (
	"context"
	"testing"
)

func TestWithAuthAndFromContext(t *testing.T) {
	ac := AuthContext{
		User:      true,
		Admin:     false,
		SessionID: "abc",
	}

	ctx := WithAuth(context.Background(), ac)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected AuthContext in context")
	}
	if !got.User {
		t.Error("User = false, want true")
	}
	if got.Admin {
		t.Error("Admin = true, want false")
	}
	if got.SessionID != "abc" {
		t.Errorf("SessionID = %q, want %q", got.SessionID, "abc")
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing AuthContext")
	}
}

func TestIsUser(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{User: true})
	if !IsUser(ctx) {
		t.Error("expected IsUser = true")
	}
	if IsAdmin(ctx) {
		t.Error("user flag must not imply admin")
	}
}

func TestIsAdmin(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{Admin: true})
	if !IsAdmin(ctx) {
		t.Error("expected IsAdmin = true")
	}
	if IsUser(ctx) {
		t.Error("admin flag must not imply user")
	}
}

func TestFlagsMissing(t *testing.T) {
	if IsUser(context.Background()) {
		t.Error("expected IsUser = false for missing context")
	}
	if IsAdmin(context.Background()) {
		t.Error("expected IsAdmin = false for missing context")
	}
}
