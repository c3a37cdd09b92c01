package postgres

import (
	"context"
	"errors"
	"testing"

	"gomediate/domain/core"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T, cfg TableConfig) (sqlmock.Sqlmock, *datasetRepository) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewDatasetRepository(sqlx.NewDb(db, "postgres"), cfg).(*datasetRepository)
	return mock, repo
}

func TestDatasetRepository_Load(t *testing.T) {
	tests := []struct {
		name        string
		cfg         TableConfig
		setupMock   func(sqlmock.Sqlmock)
		wantRows    int
		wantErr     bool
		errContains string
		errIs       error
	}{
		{
			name: "ordered schema-qualified table",
			cfg:  TableConfig{Table: "study.obs", OrderBy: "id"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT "x", "m", "y" FROM "study"."obs" ORDER BY "id"`).
					WillReturnRows(sqlmock.NewRows([]string{"x", "m", "y"}).
						AddRow(1.0, 2.0, 3.0).
						AddRow(1.5, 2.5, 3.5))
			},
			wantRows: 2,
		},
		{
			name: "null cell",
			cfg:  TableConfig{Table: "obs"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT "x", "m", "y" FROM "obs"`).
					WillReturnRows(sqlmock.NewRows([]string{"x", "m", "y"}).
						AddRow(1.0, nil, 3.0))
			},
			wantErr:     true,
			errContains: `NULL in column "m" at row 1`,
			errIs:       core.ErrInsufficientData,
		},
		{
			name: "empty table",
			cfg:  TableConfig{Table: "obs"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT "x", "m", "y" FROM "obs"`).
					WillReturnRows(sqlmock.NewRows([]string{"x", "m", "y"}))
			},
			wantErr: true,
			errIs:   core.ErrInsufficientData,
		},
		{
			name: "query failure",
			cfg:  TableConfig{Table: "obs"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT "x", "m", "y" FROM "obs"`).
					WillReturnError(errors.New("relation does not exist"))
			},
			wantErr:     true,
			errContains: "relation does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := setupMockDB(t, tt.cfg)
			tt.setupMock(mock)

			data, err := repo.Load(context.Background(), []string{"x", "m", "y"})
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				if tt.errIs != nil {
					assert.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantRows, data.Len())
				m, _ := data.Column("m")
				assert.Equal(t, []float64{2.0, 2.5}, m)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDatasetRepository_QuotesIdentifiers(t *testing.T) {
	_, repo := setupMockDB(t, TableConfig{Table: `obs"; DROP TABLE x; --`})
	query, err := repo.selectQuery([]string{`we"ird`})
	require.NoError(t, err)
	assert.Equal(t, `SELECT "we""ird" FROM "obs""; DROP TABLE x; --"`, query)
}

func TestDatasetRepository_BadTable(t *testing.T) {
	for _, table := range []string{"", "a.b.c", "a."} {
		_, repo := setupMockDB(t, TableConfig{Table: table})
		_, err := repo.Load(context.Background(), []string{"x"})
		require.Error(t, err)
		assert.True(t, core.IsConfigurationError(err), "table %q", table)
	}
}
