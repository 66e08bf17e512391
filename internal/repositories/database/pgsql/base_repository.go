package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/shop_finance_ledger/internal/apperrors"
	"github.com/SscSPs/shop_finance_ledger/internal/core/domain"
	"github.com/SscSPs/shop_finance_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to rollback transaction", err)
	}
	return nil
}

// inTx runs fn inside a transaction, committing when it returns nil.
func (r *BaseRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	if err := fn(tx); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// mapPgError converts driver errors into application errors.
// Unique violations are told apart by constraint name.
func mapPgError(err error, message string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(message)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case "accounts_tenant_code_key", "accounts_shared_code_key":
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateCode, message)
		case "journal_entries_tenant_reference_key", "invoices_tenant_reference_key":
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateReference, message)
		default:
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, message)
		}
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrInvalidState) || errors.Is(err, apperrors.ErrValidation) {
		return err
	}
	return apperrors.NewAppError(http.StatusInternalServerError, message, err)
}

// insertAuditRecord writes an audit row inside tx.
func insertAuditRecord(ctx context.Context, tx pgx.Tx, rec domain.AuditRecord) error {
	m, err := mapping.ToModelAuditRecord(rec)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to encode audit record", err)
	}
	query := `
		INSERT INTO audit_log (audit_id, tenant_id, actor_id, action, target_type, target_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, query,
		m.AuditID,
		m.TenantID,
		m.ActorID,
		m.Action,
		m.TargetType,
		m.TargetID,
		m.Metadata,
		m.CreatedAt,
	)
	if err != nil {
		return mapPgError(err, "failed to write audit record for "+rec.TargetType+" "+rec.TargetID)
	}
	return nil
}
