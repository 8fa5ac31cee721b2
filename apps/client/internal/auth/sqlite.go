package auth

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const defaultLocalDBName = "tractor_local.db"

// Store sqlite 凭证存储。单行表，Save 整体覆盖。
type Store struct {
	db *sql.DB

	mu     sync.Mutex
	cached *Credential // nil 表示未加载或已清除
	loaded bool
}

func OpenStoreFromEnv() (*Store, error) {
	return OpenStore(credentialDBPathFromEnv())
}

func OpenStore(dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS credentials (
    slot        INTEGER PRIMARY KEY CHECK (slot = 1),
    token       TEXT NOT NULL,
    user_id     TEXT NOT NULL,
    username    TEXT NOT NULL,
    saved_at_ms INTEGER NOT NULL
);`)
	return err
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save 覆盖保存当前凭证。
func (s *Store) Save(cred Credential) error {
	if strings.TrimSpace(cred.Token) == "" {
		return fmt.Errorf("empty token")
	}
	if cred.SavedAt.IsZero() {
		cred.SavedAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO credentials (slot, token, user_id, username, saved_at_ms)
VALUES (1, ?, ?, ?, ?)
ON CONFLICT(slot) DO UPDATE SET
    token = excluded.token,
    user_id = excluded.user_id,
    username = excluded.username,
    saved_at_ms = excluded.saved_at_ms;`,
		cred.Token, cred.UserID, cred.Username, cred.SavedAt.UTC().UnixMilli())
	if err != nil {
		return err
	}

	s.mu.Lock()
	c := cred
	s.cached = &c
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Load 读取保存的凭证；第二个返回值表示是否存在。
func (s *Store) Load() (Credential, bool, error) {
	s.mu.Lock()
	if s.loaded {
		defer s.mu.Unlock()
		if s.cached == nil {
			return Credential{}, false, nil
		}
		return *s.cached, true, nil
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var cred Credential
	var savedAtMs int64
	err := s.db.QueryRowContext(ctx, `
SELECT token, user_id, username, saved_at_ms FROM credentials WHERE slot = 1;`).
		Scan(&cred.Token, &cred.UserID, &cred.Username, &savedAtMs)
	switch {
	case err == sql.ErrNoRows:
		s.mu.Lock()
		s.cached = nil
		s.loaded = true
		s.mu.Unlock()
		return Credential{}, false, nil
	case err != nil:
		return Credential{}, false, err
	}
	cred.SavedAt = time.UnixMilli(savedAtMs).UTC()

	s.mu.Lock()
	c := cred
	s.cached = &c
	s.loaded = true
	s.mu.Unlock()
	return cred, true, nil
}

// Clear 登出或凭证被服务端拒绝后清除。
func (s *Store) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE slot = 1;`); err != nil {
		return err
	}
	s.mu.Lock()
	s.cached = nil
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Token 实现 api.TokenSource：每次请求取当前凭证。
// 没有凭证时返回空串（登录/注册是匿名请求）；
// 已知过期的凭证直接报错，不再发出注定 401 的请求。
func (s *Store) Token() (string, error) {
	cred, ok, err := s.Load()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	if TokenExpired(cred.Token, time.Now()) {
		return "", ErrCredentialExpired
	}
	return cred.Token, nil
}

func credentialDBPathFromEnv() string {
	for _, key := range []string{"TRACTOR_CREDENTIAL_DB_PATH", "LOCAL_CREDENTIAL_DB_PATH"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".tractor", defaultLocalDBName)
	}
	return defaultLocalDBName
}
