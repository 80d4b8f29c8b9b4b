package lexicon

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

const lexiconSchema = `
CREATE TABLE IF NOT EXISTS words (
  lemma TEXT PRIMARY KEY
) WITHOUT ROWID;
`

// SQLiteLexicon looks words up in a sqlite database built by ImportWordList.
type SQLiteLexicon struct {
	path   string
	db     *sql.DB
	lookup *sql.Stmt
}

// OpenSQLite opens an existing lexicon database read-only. A missing file or
// an empty words table is an error so the run can fail before scanning.
func OpenSQLite(path string) (*SQLiteLexicon, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("lexicon path must not be empty")
	}
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat lexicon %q: %w", cleanPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("lexicon path %q is a directory, expected file", cleanPath)
	}

	db, err := sql.Open(driverName, fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(2000)", cleanPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite lexicon %q: %w", cleanPath, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite lexicon %q: %w", cleanPath, err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM words`).Scan(&count); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("read lexicon words %q: %w", cleanPath, err)
	}
	if count == 0 {
		_ = db.Close()
		return nil, fmt.Errorf("lexicon %q contains no words", cleanPath)
	}

	stmt, err := db.Prepare(`SELECT 1 FROM words WHERE lemma = ? LIMIT 1`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prepare lexicon lookup: %w", err)
	}

	return &SQLiteLexicon{path: cleanPath, db: db, lookup: stmt}, nil
}

func (l *SQLiteLexicon) IsWord(token string) bool {
	for _, form := range baseForms(strings.ToLower(token)) {
		var one int
		err := l.lookup.QueryRow(form).Scan(&one)
		if err == nil {
			return true
		}
		if err != sql.ErrNoRows {
			slog.Debug("lexicon lookup failed", "token", form, "error", err)
			return false
		}
	}
	return false
}

func (l *SQLiteLexicon) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	if l.lookup != nil {
		_ = l.lookup.Close()
	}
	return l.db.Close()
}

func (l *SQLiteLexicon) Path() string {
	return l.path
}

// ImportWordList loads a newline separated word list into a sqlite lexicon
// at dbPath, creating it when needed. It returns the number of rows added.
func ImportWordList(ctx context.Context, srcPath, dbPath string) (int, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return 0, fmt.Errorf("open word list %q: %w", srcPath, err)
	}
	defer src.Close()

	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create lexicon directory %q: %w", dir, err)
		}
	}

	db, err := sql.Open(driverName, fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)", dbPath))
	if err != nil {
		return 0, fmt.Errorf("open sqlite lexicon %q: %w", dbPath, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, lexiconSchema); err != nil {
		return 0, fmt.Errorf("create lexicon schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin lexicon import: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO words(lemma) VALUES (?)`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare lexicon insert: %w", err)
	}
	defer stmt.Close()

	added := 0
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		word := strings.ToLower(strings.TrimSpace(sc.Text()))
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		res, err := stmt.ExecContext(ctx, word)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert %q: %w", word, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			added += int(n)
		}
	}
	if err := sc.Err(); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("read word list %q: %w", srcPath, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit lexicon import: %w", err)
	}
	return added, nil
}
