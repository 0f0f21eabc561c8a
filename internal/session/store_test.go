package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/HoneyChauhan001/attendance-management-system-frontend/internal/amsapi"
)

type fakeAuth struct {
	user  *amsapi.User
	token string
	err   error
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (*amsapi.User, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.user, f.token, nil
}

func tokenFilePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "sessions.json")
}

func TestLoginOpensSession(t *testing.T) {
	auth := &fakeAuth{user: &amsapi.User{ID: "u1", Role: amsapi.RoleEmployee}, token: "tok-1"}
	store, err := NewStore(auth, tokenFilePath(t))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	user, sid, err := store.Login(context.Background(), "asha", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sid == "" {
		t.Fatal("empty session id")
	}
	if user.ID != "u1" {
		t.Errorf("user = %+v", user)
	}

	sess := store.Get(sid)
	if sess == nil {
		t.Fatal("Get returned nil for fresh session")
	}
	if sess.Token != "tok-1" || sess.User == nil || sess.User.ID != "u1" {
		t.Errorf("unexpected session: %+v", sess)
	}
}

func TestLoginFailureOpensNothing(t *testing.T) {
	auth := &fakeAuth{err: errors.New("bad credentials")}
	store, err := NewStore(auth, tokenFilePath(t))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if _, _, err := store.Login(context.Background(), "asha", "wrong"); err == nil {
		t.Fatal("expected login error")
	}
	if _, statErr := os.Stat(store.tokenFile); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("token file written on failed login: %v", statErr)
	}
}

func TestGetUnknownSessionReturnsNil(t *testing.T) {
	store, err := NewStore(&fakeAuth{}, tokenFilePath(t))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if sess := store.Get("nope"); sess != nil {
		t.Errorf("Get(unknown) = %+v, want nil", sess)
	}
	if sess := store.Get(""); sess != nil {
		t.Errorf("Get(empty) = %+v, want nil", sess)
	}
}

func TestTokensSurviveRestartWithoutUsers(t *testing.T) {
	path := tokenFilePath(t)
	auth := &fakeAuth{user: &amsapi.User{ID: "u1"}, token: "tok-1"}

	store, err := NewStore(auth, path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	_, sid, err := store.Login(context.Background(), "asha", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	reopened, err := NewStore(auth, path)
	if err != nil {
		t.Fatalf("NewStore after restart: %v", err)
	}
	sess := reopened.Get(sid)
	if sess == nil {
		t.Fatal("session token lost across restart")
	}
	if sess.Token != "tok-1" {
		t.Errorf("token = %q, want tok-1", sess.Token)
	}
	if sess.User != nil {
		t.Errorf("user survived restart: %+v", sess.User)
	}
}

func TestLogoutDropsTokenDurably(t *testing.T) {
	path := tokenFilePath(t)
	auth := &fakeAuth{user: &amsapi.User{ID: "u1"}, token: "tok-1"}

	store, err := NewStore(auth, path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	_, sid, err := store.Login(context.Background(), "asha", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	store.Logout(sid)
	if sess := store.Get(sid); sess != nil {
		t.Errorf("session survives logout: %+v", sess)
	}
	// Logging out twice is harmless.
	store.Logout(sid)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read token file: %v", err)
	}
	var tokens map[string]string
	if err := json.Unmarshal(data, &tokens); err != nil {
		t.Fatalf("parse token file: %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("tokens remain after logout: %v", tokens)
	}
}

func TestNewStoreRejectsCorruptTokenFile(t *testing.T) {
	path := tokenFilePath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed token file: %v", err)
	}
	if _, err := NewStore(&fakeAuth{}, path); err == nil {
		t.Fatal("expected error for corrupt token file")
	}
}
