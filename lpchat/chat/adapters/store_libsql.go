package adapters

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	ports "github.com/loanworks-dev/lpchat/lpchat/chat/ports"
	"github.com/loanworks-dev/lpchat/lpchat/db"
)

// sqliteTimeLayout matches the server-side CURRENT_TIMESTAMP default (UTC).
const sqliteTimeLayout = "2006-01-02 15:04:05"

// LibSQLMessageStore implements ports.MessageStore on the embedded libsql
// database. Each operation runs as a single context-scoped statement; no
// cross-operation locking is needed.
type LibSQLMessageStore struct {
	conn    *sql.DB
	appName string
	log     zerolog.Logger
}

// NewLibSQLMessageStore builds the store and ensures the chat_messages
// schema exists. A migration failure is propagated; everything this store
// does afterwards is best-effort.
func NewLibSQLMessageStore(conn *sql.DB, appName string, log zerolog.Logger) (*LibSQLMessageStore, error) {
	if err := db.Migrate(conn, log); err != nil {
		return nil, fmt.Errorf("message store init: %w", err)
	}
	return &LibSQLMessageStore{
		conn:    conn,
		appName: appName,
		log:     log.With().Str("component", "message_store").Logger(),
	}, nil
}

// Insert appends one turn to the durable log. Content is truncated to the
// storage limit here, not by callers. Failures are reported as false and
// logged, never raised.
func (s *LibSQLMessageStore) Insert(ctx context.Context, role ports.Role, sequence int64, content string) bool {
	if runes := []rune(content); len(runes) > ports.MaxContentChars {
		content = string(runes[:ports.MaxContentChars])
	}

	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO chat_messages (application_name, chat_role, sequence, message_content)
		VALUES (?, ?, ?, ?)
	`, s.appName, role.String(), sequence, content)
	if err != nil {
		s.log.Error().Err(err).
			Stringer("role", role).
			Int64("sequence", sequence).
			Msg("failed to log message")
		return false
	}
	return true
}

// CountAll returns the total number of logged messages.
func (s *LibSQLMessageStore) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_messages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return count, nil
}

// Recent returns up to limit messages, most recent first by timestamp.
func (s *LibSQLMessageStore) Recent(ctx context.Context, limit int) ([]ports.LoggedMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, application_name, chat_role, sequence, timestamp, message_content
		FROM chat_messages
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent messages: %w", err)
	}
	defer rows.Close()

	var out []ports.LoggedMessage
	for rows.Next() {
		var (
			msg       ports.LoggedMessage
			roleText  string
			stampText string
		)
		if err := rows.Scan(&msg.ID, &msg.ApplicationName, &roleText, &msg.Sequence, &stampText, &msg.Content); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		if msg.Role, err = ports.ParseRole(roleText); err != nil {
			return nil, fmt.Errorf("message %d: %w", msg.ID, err)
		}
		if msg.Timestamp, err = time.Parse(sqliteTimeLayout, stampText); err != nil {
			return nil, fmt.Errorf("message %d: parse timestamp %q: %w", msg.ID, stampText, err)
		}
		out = append(out, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}
	return out, nil
}

// CountByRole returns per-role message counts.
func (s *LibSQLMessageStore) CountByRole(ctx context.Context) (map[ports.Role]int64, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT chat_role, COUNT(*) FROM chat_messages GROUP BY chat_role
	`)
	if err != nil {
		return nil, fmt.Errorf("count messages by role: %w", err)
	}
	defer rows.Close()

	counts := make(map[ports.Role]int64)
	for rows.Next() {
		var (
			roleText string
			count    int64
		)
		if err := rows.Scan(&roleText, &count); err != nil {
			return nil, fmt.Errorf("scan role count: %w", err)
		}
		role, err := ports.ParseRole(roleText)
		if err != nil {
			return nil, err
		}
		counts[role] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role counts: %w", err)
	}
	return counts, nil
}

// PurgeOlderThan deletes all messages older than maxAge and returns the
// number removed. Used exclusively by the retention sweeper.
func (s *LibSQLMessageStore) PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format(sqliteTimeLayout)

	res, err := s.conn.ExecContext(ctx, `DELETE FROM chat_messages WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge old messages: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge old messages: %w", err)
	}
	return deleted, nil
}

var _ ports.MessageStore = (*LibSQLMessageStore)(nil)
