package gnucash

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
)

// lock is this process's row in gnclock, the table GnuCash uses to mark a
// book as open.
type lock struct {
	hostname string
	pid      int
}

func acquireLock(ctx context.Context, db *sql.DB) (*lock, error) {
	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS gnclock (Hostname varchar(255), PID int)"); err != nil {
		return nil, fmt.Errorf("creating lock table: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT Hostname, PID FROM gnclock")
	if err != nil {
		return nil, fmt.Errorf("reading lock: %w", err)
	}
	for rows.Next() {
		var host sql.NullString
		var pid sql.NullInt64
		if err := rows.Scan(&host, &pid); err != nil {
			rows.Close()
			return nil, fmt.Errorf("reading lock: %w", err)
		}
		slog.Warn("book is locked by another session, opening anyway", "hostname", host.String, "pid", pid.Int64)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading lock: %w", err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	l := &lock{hostname: hostname, pid: os.Getpid()}
	if _, err := db.ExecContext(ctx, "INSERT INTO gnclock (Hostname, PID) VALUES (?, ?)", l.hostname, l.pid); err != nil {
		return nil, fmt.Errorf("writing lock: %w", err)
	}
	slog.Debug("acquired book lock", "hostname", l.hostname, "pid", l.pid)
	return l, nil
}

func (l *lock) release(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM gnclock WHERE Hostname = ? AND PID = ?", l.hostname, l.pid); err != nil {
		return fmt.Errorf("releasing lock: %w", err)
	}
	return nil
}
