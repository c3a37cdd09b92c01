package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gomediate/domain/core"
	"gomediate/domain/mediation"
	"gomediate/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// TableConfig selects the table observations are read from
type TableConfig struct {
	// Table may be schema-qualified, e.g. "study.observations"
	Table string `json:"table" mapstructure:"table"`
	// OrderBy fixes row order so resampling indices refer to the same rows
	// on every load; empty leaves the order to the database
	OrderBy string `json:"order_by" mapstructure:"order_by"`
}

// datasetRepository implements ports.DatasetSource over a PostgreSQL table
type datasetRepository struct {
	db  *sqlx.DB
	cfg TableConfig
}

// Connect opens and pings a PostgreSQL connection
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

// NewDatasetRepository creates a dataset source for cfg.Table
func NewDatasetRepository(db *sqlx.DB, cfg TableConfig) ports.DatasetSource {
	return &datasetRepository{db: db, cfg: cfg}
}

// Load selects the named columns from every row of the table.
// NULL values are rejected rather than silently dropped.
func (r *datasetRepository) Load(ctx context.Context, columns []string) (*mediation.Dataset, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no columns requested", core.ErrInsufficientData)
	}
	query, err := r.selectQuery(columns)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.cfg.Table, err)
	}
	defer rows.Close()

	values := make(map[string][]float64, len(columns))
	cells := make([]sql.NullFloat64, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range cells {
		dest[i] = &cells[i]
	}

	row := 0
	for rows.Next() {
		row++
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", row, err)
		}
		for i, name := range columns {
			if !cells[i].Valid {
				return nil, fmt.Errorf("%w: NULL in column %q at row %d", core.ErrInsufficientData, name, row)
			}
			values[name] = append(values[name], cells[i].Float64)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.cfg.Table, err)
	}
	if row == 0 {
		return nil, fmt.Errorf("%w: table %s has no rows", core.ErrInsufficientData, r.cfg.Table)
	}

	return mediation.NewDataset(values)
}

func (r *datasetRepository) selectQuery(columns []string) (string, error) {
	table, err := quoteQualified(r.cfg.Table)
	if err != nil {
		return "", err
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		if strings.TrimSpace(c) == "" {
			return "", core.NewConfigurationError("columns", "empty column name")
		}
		quoted[i] = pq.QuoteIdentifier(c)
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), table)
	if r.cfg.OrderBy != "" {
		query += " ORDER BY " + pq.QuoteIdentifier(r.cfg.OrderBy)
	}
	return query, nil
}

func quoteQualified(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", core.NewConfigurationError("table", "table name is required")
	}
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return "", core.NewConfigurationError("table", fmt.Sprintf("%q has too many qualifiers", name))
	}
	for i, p := range parts {
		if p == "" {
			return "", core.NewConfigurationError("table", fmt.Sprintf("%q is not a valid table name", name))
		}
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, "."), nil
}
