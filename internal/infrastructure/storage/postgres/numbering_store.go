package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"fieldops/internal/core/apperror"
	corenumbering "fieldops/internal/core/numbering"
	numberingdomain "fieldops/internal/domain/numbering"
	"fieldops/pkg/logger"
)

// NumberingStore implements the numbering Store contract on PostgreSQL.
// The per-tenant format map lives in the tenants.number_formats JSONB
// column; Mutate serializes writers with SELECT ... FOR UPDATE on the
// tenant row, so concurrent generates for the same tenant queue on the
// row lock while different tenants proceed in parallel.
type NumberingStore struct {
	txm *TxManager
}

// Ensure compile-time interface compliance.
var _ numberingdomain.Store = (*NumberingStore)(nil)

// NewNumberingStore creates a store using the transaction manager.
func NewNumberingStore(txm *TxManager) *NumberingStore {
	return &NumberingStore{txm: txm}
}

func (s *NumberingStore) GetFormats(ctx context.Context, tenantID string) (corenumbering.FormatMap, bool, error) {
	querier := s.txm.GetQuerier(ctx)

	var raw []byte
	err := querier.QueryRow(ctx, `
		SELECT number_formats FROM tenants WHERE id = $1
	`, tenantID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, apperror.NewDatabase(fmt.Errorf("read number formats: %w", err))
	}

	formats, err := unmarshalFormats(raw)
	if err != nil {
		return nil, false, apperror.NewInternal(fmt.Errorf("decode number formats: %w", err))
	}
	return formats, true, nil
}

func (s *NumberingStore) Mutate(ctx context.Context, tenantID string, fn func(corenumbering.FormatMap) (corenumbering.FormatMap, error)) error {
	operation := func() error {
		err := s.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
			return s.mutateInTx(txCtx, tenantID, fn)
		})
		if err == nil {
			return nil
		}
		if isSerializationFailure(err) {
			logger.Warn(ctx, "numbering transaction conflict, retrying",
				"tenant_id", tenantID, "error", err)
			return err
		}
		return backoff.Permanent(err)
	}

	err := backoff.Retry(operation, backoff.WithContext(retryPolicy(), ctx))
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewDatabase(err)
}

// mutateInTx performs the locked read-modify-write within an open transaction.
func (s *NumberingStore) mutateInTx(ctx context.Context, tenantID string, fn func(corenumbering.FormatMap) (corenumbering.FormatMap, error)) error {
	querier := s.txm.GetQuerier(ctx)

	var raw []byte
	err := querier.QueryRow(ctx, `
		SELECT number_formats FROM tenants WHERE id = $1 FOR UPDATE
	`, tenantID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NewNotFound("tenant", tenantID)
		}
		return fmt.Errorf("lock tenant row: %w", err)
	}

	formats, err := unmarshalFormats(raw)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("decode number formats: %w", err))
	}

	updated, err := fn(formats)
	if err != nil {
		return err
	}

	return s.writeFormats(ctx, querier, tenantID, updated)
}

func (s *NumberingStore) ReplaceFormats(ctx context.Context, tenantID string, formats corenumbering.FormatMap) error {
	// Settings updates are rare, human-driven and last-write-wins, so no
	// row lock is taken here.
	err := s.writeFormats(ctx, s.txm.GetQuerier(ctx), tenantID, formats)
	if err == nil || apperror.IsAppError(err) {
		return err
	}
	return apperror.NewDatabase(err)
}

// writeFormats persists the full map for the tenant. A zero row count means
// the tenant record does not exist.
func (s *NumberingStore) writeFormats(ctx context.Context, querier Querier, tenantID string, formats corenumbering.FormatMap) error {
	raw, err := json.Marshal(formats)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("encode number formats: %w", err))
	}

	sql, args, err := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Update("tenants").
		Set("number_formats", raw).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": tenantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build formats update: %w", err)
	}

	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("write number formats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("tenant", tenantID)
	}
	return nil
}

func unmarshalFormats(raw []byte) (corenumbering.FormatMap, error) {
	if len(raw) == 0 {
		return corenumbering.FormatMap{}, nil
	}
	var formats corenumbering.FormatMap
	if err := json.Unmarshal(raw, &formats); err != nil {
		return nil, err
	}
	if formats == nil {
		formats = corenumbering.FormatMap{}
	}
	return formats, nil
}

// retryPolicy bounds conflict retries; the row lock makes conflicts rare,
// deadlock/serialization SQLSTATEs are the only retried class.
func retryPolicy() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 10 * time.Millisecond
	bo.MaxInterval = 250 * time.Millisecond
	bo.MaxElapsedTime = 3 * time.Second
	return bo
}

// isSerializationFailure reports whether err is a transient transaction
// conflict (serialization_failure 40001 or deadlock_detected 40P01).
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
