// Package repository persists the current source attachment set per handler.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/payload-manager/internal/logger"
	"github.com/jonesrussell/payload-manager/internal/models"
)

// AttachmentRepository stores one row per attached source per handler, with
// position preserving attachment order.
type AttachmentRepository struct {
	db     *sql.DB
	logger logger.Logger
}

// NewAttachmentRepository creates a repository over the given connection.
func NewAttachmentRepository(db *sql.DB, log logger.Logger) *AttachmentRepository {
	return &AttachmentRepository{
		db:     db,
		logger: log,
	}
}

// ReplaceForHandler replaces the stored attachment set of a handler in a
// single transaction. An empty spec list clears the set.
func (r *AttachmentRepository) ReplaceForHandler(ctx context.Context, handler string, specs []models.SourceSpec) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("Failed to rollback transaction",
					logger.Error(rbErr),
				)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM source_attachments WHERE handler = $1`, handler,
	); err != nil {
		return fmt.Errorf("clear attachments: %w", err)
	}

	now := time.Now()
	for position, spec := range specs {
		var optionsJSON []byte
		if len(spec.Options) > 0 {
			optionsJSON, err = json.Marshal(spec.Options)
			if err != nil {
				return fmt.Errorf("marshal options: %w", err)
			}
		}

		query := `
			INSERT INTO source_attachments (
				id, handler, position, type, name, url, device, path, options, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		if _, err = tx.ExecContext(ctx,
			query,
			uuid.New().String(),
			handler,
			position,
			spec.Type,
			spec.Name,
			spec.URL,
			spec.Device,
			spec.Path,
			optionsJSON,
			now,
		); err != nil {
			return fmt.Errorf("insert attachment %d: %w", position, err)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		err = fmt.Errorf("commit transaction: %w", commitErr)
		return err
	}

	return nil
}

// ListForHandler returns the stored attachment set of a handler in position
// order.
func (r *AttachmentRepository) ListForHandler(ctx context.Context, handler string) ([]models.SourceSpec, error) {
	query := `
		SELECT type, name, url, device, path, options
		FROM source_attachments
		WHERE handler = $1
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, handler)
	if err != nil {
		return nil, fmt.Errorf("query attachments: %w", err)
	}
	defer rows.Close()

	specs := make([]models.SourceSpec, 0)
	for rows.Next() {
		var spec models.SourceSpec
		var optionsJSON []byte
		if scanErr := rows.Scan(
			&spec.Type,
			&spec.Name,
			&spec.URL,
			&spec.Device,
			&spec.Path,
			&optionsJSON,
		); scanErr != nil {
			return nil, fmt.Errorf("scan attachment: %w", scanErr)
		}
		if len(optionsJSON) > 0 {
			if unmarshalErr := json.Unmarshal(optionsJSON, &spec.Options); unmarshalErr != nil {
				return nil, fmt.Errorf("unmarshal options: %w", unmarshalErr)
			}
		}
		specs = append(specs, spec)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate attachments: %w", rowsErr)
	}

	return specs, nil
}

// DeleteForHandler removes the stored attachment set of a handler. Deleting
// an empty set is not an error.
func (r *AttachmentRepository) DeleteForHandler(ctx context.Context, handler string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM source_attachments WHERE handler = $1`, handler,
	); err != nil {
		return fmt.Errorf("delete attachments: %w", err)
	}
	return nil
}
