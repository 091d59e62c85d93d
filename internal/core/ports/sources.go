package ports

import (
	"context"

	"github.com/shelterops/adoption-forecast/internal/core/domain"
)

// RecordSource defines the port for loading the adoption record set from an
// external source. A failed load never yields a partial set.
type RecordSource interface {
	Load(ctx context.Context, source string) (*domain.RecordSet, error)
}
