package ports

import (
	"context"

	"gomediate/domain/mediation"
)

// DatasetSource loads numeric observation columns for a mediation model
type DatasetSource interface {
	// Load reads the named columns; every row must be numeric in every column
	Load(ctx context.Context, columns []string) (*mediation.Dataset, error)
}
