// Package database provides PostgreSQL database operations for label designs.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ticketing-console/labeldesigner/internal/config"
	"github.com/ticketing-console/labeldesigner/internal/layout"
	"github.com/ticketing-console/labeldesigner/internal/models"
)

// ErrNotFound is returned when a design does not exist.
var ErrNotFound = errors.New("design not found")

// Repository defines the interface for design data operations.
type Repository interface {
	// Create stores a new design and returns it with its ID and timestamps set.
	Create(ctx context.Context, design *models.Design) (*models.Design, error)

	// GetByID retrieves a design by its ID. It returns nil when none exists.
	GetByID(ctx context.Context, id string) (*models.Design, error)

	// ListByEvent retrieves the designs of an event, or all designs when eventID is empty.
	ListByEvent(ctx context.Context, eventID string) ([]models.Design, error)

	// Update replaces an existing design.
	Update(ctx context.Context, design *models.Design) (*models.Design, error)

	// Delete removes a design by its ID.
	Delete(ctx context.Context, id string) error

	// Close closes the database connection.
	Close()
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(cfg *config.Config, logger *zap.Logger) (Repository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &PostgresRepository{
		pool:   pool,
		logger: logger,
	}

	if err := repo.migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Connected to PostgreSQL database")
	return repo, nil
}

// migrate creates the necessary database tables if they don't exist.
func (r *PostgresRepository) migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS label_designs (
			id UUID PRIMARY KEY,
			event_id VARCHAR(64) NOT NULL,
			name VARCHAR(256) NOT NULL,
			width_mm DOUBLE PRECISION NOT NULL CHECK (width_mm > 0),
			height_mm DOUBLE PRECISION NOT NULL CHECK (height_mm > 0),
			custom_size BOOLEAN NOT NULL DEFAULT FALSE,
			placements JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_label_designs_event_id ON label_designs(event_id, updated_at DESC);
	`

	_, err := r.pool.Exec(ctx, query)
	return err
}

const selectColumns = `id, event_id, name, width_mm, height_mm, custom_size, placements, created_at, updated_at`

func scanDesign(row pgx.Row) (*models.Design, error) {
	var design models.Design
	err := row.Scan(
		&design.ID,
		&design.EventID,
		&design.Name,
		&design.Size.WidthMM,
		&design.Size.HeightMM,
		&design.CustomSize,
		&design.Placements,
		&design.CreatedAt,
		&design.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if design.Placements == nil {
		design.Placements = []layout.Placement{}
	}
	return &design, nil
}

// Create stores a new design.
func (r *PostgresRepository) Create(ctx context.Context, design *models.Design) (*models.Design, error) {
	created := *design
	created.ID = uuid.New().String()
	created.CreatedAt = time.Now().UTC()
	created.UpdatedAt = created.CreatedAt
	if created.Placements == nil {
		created.Placements = []layout.Placement{}
	}

	query := `
		INSERT INTO label_designs (id, event_id, name, width_mm, height_mm, custom_size, placements, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		created.ID,
		created.EventID,
		created.Name,
		created.Size.WidthMM,
		created.Size.HeightMM,
		created.CustomSize,
		created.Placements,
		created.CreatedAt,
		created.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create design", zap.Error(err))
		return nil, fmt.Errorf("failed to create design: %w", err)
	}

	r.logger.Info("Created design", zap.String("id", created.ID), zap.String("event_id", created.EventID))
	return &created, nil
}

// GetByID retrieves a design by its ID.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Design, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	query := `SELECT ` + selectColumns + ` FROM label_designs WHERE id = $1`

	design, err := scanDesign(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get design", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get design: %w", err)
	}

	return design, nil
}

// ListByEvent retrieves the designs of an event, most recently updated first.
func (r *PostgresRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Design, error) {
	query := `SELECT ` + selectColumns + ` FROM label_designs`
	args := []any{}
	if eventID != "" {
		query += ` WHERE event_id = $1`
		args = append(args, eventID)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list designs", zap.String("event_id", eventID), zap.Error(err))
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}
	defer rows.Close()

	designs := []models.Design{}
	for rows.Next() {
		design, err := scanDesign(rows)
		if err != nil {
			r.logger.Error("Failed to scan design row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan design: %w", err)
		}
		designs = append(designs, *design)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}

	return designs, nil
}

// Update replaces the name, size and placements of an existing design.
func (r *PostgresRepository) Update(ctx context.Context, design *models.Design) (*models.Design, error) {
	if _, err := uuid.Parse(design.ID); err != nil {
		return nil, ErrNotFound
	}

	updated := *design
	updated.UpdatedAt = time.Now().UTC()
	if updated.Placements == nil {
		updated.Placements = []layout.Placement{}
	}

	query := `
		UPDATE label_designs
		SET name = $2, width_mm = $3, height_mm = $4, custom_size = $5, placements = $6, updated_at = $7
		WHERE id = $1
		RETURNING event_id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		updated.ID,
		updated.Name,
		updated.Size.WidthMM,
		updated.Size.HeightMM,
		updated.CustomSize,
		updated.Placements,
		updated.UpdatedAt,
	).Scan(&updated.EventID, &updated.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to update design", zap.String("id", design.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to update design: %w", err)
	}

	r.logger.Info("Updated design", zap.String("id", updated.ID))
	return &updated, nil
}

// Delete removes a design by its ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}

	query := `DELETE FROM label_designs WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete design", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete design: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.logger.Info("Deleted design", zap.String("id", id))
	return nil
}

// Close closes the database connection pool.
func (r *PostgresRepository) Close() {
	r.pool.Close()
	r.logger.Info("Closed database connection")
}
