package auth

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "cred.db"))
	if err != nil {
		t.Fatalf("OpenStore err: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SaveLoadClear(t *testing.T) {
	s := openTestStore(t)

	if _, ok, err := s.Load(); err != nil || ok {
		t.Fatalf("fresh store: ok=%v err=%v", ok, err)
	}

	cred := Credential{Token: "tok-abc", UserID: "u1", Username: "alice"}
	if err := s.Save(cred); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	got, ok, err := s.Load()
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if got.Token != "tok-abc" || got.Username != "alice" {
		t.Fatalf("loaded %+v", got)
	}
	if got.SavedAt.IsZero() {
		t.Fatalf("SavedAt must be stamped on save")
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear err: %v", err)
	}
	if _, ok, _ := s.Load(); ok {
		t.Fatalf("credential survived Clear")
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	s := openTestStore(t)
	if err := s.Save(Credential{Token: "first", UserID: "u1", Username: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(Credential{Token: "second", UserID: "u1", Username: "a"}); err != nil {
		t.Fatal(err)
	}
	got, _, _ := s.Load()
	if got.Token != "second" {
		t.Fatalf("expected overwrite, got %q", got.Token)
	}
}

func TestStore_TokenErrors(t *testing.T) {
	s := openTestStore(t)
	// 没有凭证时匿名（空串），登录/注册请求仍可发出
	if tok, err := s.Token(); err != nil || tok != "" {
		t.Fatalf("empty store: tok=%q err=%v", tok, err)
	}

	// 不是 JWT 的不透明 token 交给服务端裁决
	if err := s.Save(Credential{Token: "opaque-token"}); err != nil {
		t.Fatal(err)
	}
	if tok, err := s.Token(); err != nil || tok != "opaque-token" {
		t.Fatalf("opaque token: %q %v", tok, err)
	}

	// exp=1700000000 (2023-11-14)，已过期
	expired := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJleHAiOjE3MDAwMDAwMDB9.sig"
	if err := s.Save(Credential{Token: expired}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Token(); !errors.Is(err, ErrCredentialExpired) {
		t.Fatalf("expected ErrCredentialExpired, got %v", err)
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	// exp=1700000000 (2023-11-14)，早于 now
	expired := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
		"eyJleHAiOjE3MDAwMDAwMDB9." +
		"sig-is-not-checked"
	if !TokenExpired(expired, now) {
		t.Fatalf("token with past exp must be expired")
	}
	if TokenExpired(expired, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("token must be valid before its exp")
	}

	if TokenExpired("not-a-jwt", now) {
		t.Fatalf("opaque token must not be treated as expired")
	}
}
