package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditEntry is one recorded password-evaluation decision.
type AuditEntry struct {
	ID        int64     `json:"id" db:"id"`
	Actor     string    `json:"actor" db:"actor"`
	Action    string    `json:"action" db:"action"`
	Outcome   string    `json:"outcome" db:"outcome"`
	Kind      string    `json:"kind" db:"kind"`
	Reason    string    `json:"reason" db:"reason"`
	IPAddress string    `json:"ip_address" db:"ip_address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AuditFilter defines filter criteria for querying the audit log.
type AuditFilter struct {
	Actor   string
	Action  string
	Outcome string
	Offset  int
	Limit   int
}

// AuditStore handles database operations for the decision log.
type AuditStore struct {
	pool *pgxpool.Pool
}

// NewAuditStore creates a new AuditStore.
func NewAuditStore(pool *pgxpool.Pool) *AuditStore {
	return &AuditStore{pool: pool}
}

// Insert adds a new entry to the decision log.
func (s *AuditStore) Insert(ctx context.Context, entry *AuditEntry) error {
	query := `
		INSERT INTO audit_log (actor, action, outcome, kind, reason, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6::inet)
		RETURNING id, created_at`

	err := s.pool.QueryRow(ctx, query,
		entry.Actor, entry.Action, entry.Outcome, entry.Kind,
		entry.Reason, entry.IPAddress,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// List returns paginated decision-log entries matching the filter, along
// with the total count.
func (s *AuditStore) List(ctx context.Context, filter AuditFilter) ([]AuditEntry, int, error) {
	// Build WHERE conditions
	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Actor != "" {
		where += fmt.Sprintf(" AND actor = $%d", argIdx)
		args = append(args, filter.Actor)
		argIdx++
	}
	if filter.Action != "" {
		where += fmt.Sprintf(" AND action = $%d", argIdx)
		args = append(args, filter.Action)
		argIdx++
	}
	if filter.Outcome != "" {
		where += fmt.Sprintf(" AND outcome = $%d", argIdx)
		args = append(args, filter.Outcome)
		argIdx++
	}

	// Count query
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM audit_log %s", where)
	var total int
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting audit entries: %w", err)
	}

	// Data query with pagination
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	dataQuery := fmt.Sprintf(`
		SELECT id, actor, action, outcome, kind, reason, ip_address, created_at
		FROM audit_log %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)

	args = append(args, limit, filter.Offset)

	rows, err := s.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(
			&e.ID, &e.Actor, &e.Action, &e.Outcome, &e.Kind,
			&e.Reason, &e.IPAddress, &e.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating audit entries: %w", err)
	}

	return entries, total, nil
}
