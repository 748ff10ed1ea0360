// Package gnucash reads and writes GnuCash books stored as SQLite files.
//
// Every write commits immediately. Callers that change several rows in a
// loop get no atomicity across iterations.
package gnucash

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/leonschreuder/gnucsh/internal/model"
)

var (
	// ErrBookNotFound is returned by Open when the file does not exist.
	ErrBookNotFound = errors.New("book not found")
	// ErrNotABook is returned by Open when the file lacks the GnuCash tables.
	ErrNotABook = errors.New("not a GnuCash book")
	// ErrTransactionNotFound is returned when a transaction GUID is unknown.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrSplitNotFound is returned when a split GUID is unknown.
	ErrSplitNotFound = errors.New("split not found")
	// ErrAccountNotFound is returned when an account GUID is unknown.
	ErrAccountNotFound = errors.New("account not found")
	// ErrPrecision is returned for amounts finer than the commodity fraction.
	ErrPrecision = errors.New("amount exceeds commodity precision")
)

// Book is an open GnuCash SQLite file.
type Book struct {
	db           *sql.DB
	rootGUID     string
	templateGUID string
	lock         *lock
}

// CreateOptions configures a new book.
type CreateOptions struct {
	Currency string // ISO 4217 mnemonic of the default currency
	Fraction int64  // smallest currency unit, e.g. 100 for cents
}

// DefaultCreateOptions returns a book in euros with cent precision.
func DefaultCreateOptions() CreateOptions {
	return CreateOptions{Currency: "EUR", Fraction: 100}
}

// Open opens an existing book for reading and writing. A lock left by
// another session is reported and ignored.
func Open(ctx context.Context, path string) (*Book, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrBookNotFound, path)
	} else if err != nil {
		return nil, fmt.Errorf("stat book: %w", err)
	}

	db, err := openDB(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrNotABook, err)
	}

	if err := checkTables(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	b := &Book{db: db}
	if err := b.loadRoots(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if b.lock, err = acquireLock(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	slog.Debug("opened book", "path", path)
	return b, nil
}

// Create writes a new, empty book at path, replacing any existing file.
// The book has a default currency, a root account and a template root.
func Create(ctx context.Context, path string, opts CreateOptions) (*Book, error) {
	if opts.Currency == "" {
		opts.Currency = DefaultCreateOptions().Currency
	}
	if opts.Fraction <= 0 {
		opts.Fraction = DefaultCreateOptions().Fraction
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating book directory: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("removing existing book: %w", err)
	}

	db, err := openDB(ctx, path)
	if err != nil {
		return nil, err
	}

	b := &Book{db: db}
	if err := b.initialize(ctx, opts); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing book: %w", err)
	}

	if b.lock, err = acquireLock(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	slog.Debug("created book", "path", path, "currency", opts.Currency)
	return b, nil
}

// Close releases the lock and the database connection.
func (b *Book) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	var errs []error
	if b.lock != nil {
		errs = append(errs, b.lock.release(context.Background(), b.db))
		b.lock = nil
	}
	errs = append(errs, b.db.Close())
	b.db = nil
	return errors.Join(errs...)
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps the lock row and every write on the same handle.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

func checkTables(ctx context.Context, db *sql.DB) error {
	for _, table := range requiredTables {
		var name string
		err := db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: missing table %s", ErrNotABook, table)
		}
		if err != nil {
			// Files that are not SQLite at all fail here.
			return fmt.Errorf("%w: %v", ErrNotABook, err)
		}
	}
	return nil
}

func (b *Book) loadRoots(ctx context.Context) error {
	err := b.db.QueryRowContext(ctx,
		"SELECT root_account_guid, root_template_guid FROM books LIMIT 1",
	).Scan(&b.rootGUID, &b.templateGUID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: no book row", ErrNotABook)
	}
	if err != nil {
		return fmt.Errorf("reading book row: %w", err)
	}
	return nil
}

func (b *Book) initialize(ctx context.Context, opts CreateOptions) error {
	if _, err := b.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return b.withTx(ctx, func(tx *sql.Tx) error {
		commodityGUID := newGUID()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO commodities (guid, namespace, mnemonic, fullname, cusip, fraction, quote_flag, quote_source, quote_tz)
			 VALUES (?, 'CURRENCY', ?, ?, '', ?, 1, 'currency', '')`,
			commodityGUID, opts.Currency, opts.Currency, opts.Fraction,
		); err != nil {
			return fmt.Errorf("inserting commodity: %w", err)
		}

		b.rootGUID = newGUID()
		b.templateGUID = newGUID()
		roots := []struct {
			guid, name, commodity string
		}{
			{b.rootGUID, "Root Account", commodityGUID},
			{b.templateGUID, "Template Root", ""},
		}
		for _, r := range roots {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO accounts (guid, name, account_type, commodity_guid, commodity_scu, non_std_scu, parent_guid, code, description, hidden, placeholder)
				 VALUES (?, ?, ?, NULLIF(?, ''), ?, 0, NULL, '', '', 0, 0)`,
				r.guid, r.name, string(model.AccountTypeRoot), r.commodity, opts.Fraction,
			); err != nil {
				return fmt.Errorf("inserting %s: %w", strings.ToLower(r.name), err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO books (guid, root_account_guid, root_template_guid) VALUES (?, ?, ?)",
			newGUID(), b.rootGUID, b.templateGUID,
		); err != nil {
			return fmt.Errorf("inserting book: %w", err)
		}
		return nil
	})
}

// withTx runs fn in a database transaction, rolling back if fn fails.
func (b *Book) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// newGUID returns a GnuCash style GUID: 32 lowercase hex characters.
func newGUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
