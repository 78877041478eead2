package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"fieldops/internal/core/apperror"
	corenumbering "fieldops/internal/core/numbering"
	numberingdomain "fieldops/internal/domain/numbering"
)

// NumberingStore implements the numbering Store contract on SQLite.
// Mutate runs the read-modify-write under BEGIN IMMEDIATE, which takes the
// single writer lock up front: concurrent generates queue on the busy
// timeout instead of reading a stale counter.
type NumberingStore struct {
	db *DB
}

// Ensure compile-time interface compliance.
var _ numberingdomain.Store = (*NumberingStore)(nil)

// NewNumberingStore creates a store backed by db.
func NewNumberingStore(db *DB) *NumberingStore {
	return &NumberingStore{db: db}
}

func (s *NumberingStore) GetFormats(ctx context.Context, tenantID string) (corenumbering.FormatMap, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT number_formats FROM tenants WHERE id = ?
	`, tenantID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
		err := s.mutateOnce(ctx, tenantID, fn)
		if err == nil {
			return nil
		}
		if isBusy(err) {
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

// mutateOnce runs one attempt of the locked read-modify-write on a
// dedicated connection, since BEGIN IMMEDIATE is connection state.
func (s *NumberingStore) mutateOnce(ctx context.Context, tenantID string, fn func(corenumbering.FormatMap) (corenumbering.FormatMap, error)) (err error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("begin immediate: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_, _ = conn.ExecContext(context.Background(), "ROLLBACK")
		}
	}()

	var raw string
	scanErr := conn.QueryRowContext(ctx, `
		SELECT number_formats FROM tenants WHERE id = ?
	`, tenantID).Scan(&raw)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return apperror.NewNotFound("tenant", tenantID)
		}
		return fmt.Errorf("read number formats: %w", scanErr)
	}

	formats, err := unmarshalFormats(raw)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("decode number formats: %w", err))
	}

	updated, err := fn(formats)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(updated)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("encode number formats: %w", err))
	}

	if _, err := conn.ExecContext(ctx, `
		UPDATE tenants SET number_formats = ?, updated_at = ? WHERE id = ?
	`, string(encoded), time.Now().UTC(), tenantID); err != nil {
		return fmt.Errorf("write number formats: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

func (s *NumberingStore) ReplaceFormats(ctx context.Context, tenantID string, formats corenumbering.FormatMap) error {
	encoded, err := json.Marshal(formats)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("encode number formats: %w", err))
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE tenants SET number_formats = ?, updated_at = ? WHERE id = ?
	`, string(encoded), time.Now().UTC(), tenantID)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("write number formats: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperror.NewDatabase(err)
	}
	if affected == 0 {
		return apperror.NewNotFound("tenant", tenantID)
	}
	return nil
}

func unmarshalFormats(raw string) (corenumbering.FormatMap, error) {
	if raw == "" {
		return corenumbering.FormatMap{}, nil
	}
	var formats corenumbering.FormatMap
	if err := json.Unmarshal([]byte(raw), &formats); err != nil {
		return nil, err
	}
	if formats == nil {
		formats = corenumbering.FormatMap{}
	}
	return formats, nil
}

func retryPolicy() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 5 * time.Millisecond
	bo.MaxInterval = 100 * time.Millisecond
	bo.MaxElapsedTime = 5 * time.Second
	return bo
}

// isBusy reports whether err is a transient writer-lock conflict.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
