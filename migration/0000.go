package migration

import (
	"context"

	"github.com/kudoshq/backend/internal/entity"
	"github.com/kudoshq/backend/pkg/xcontext"
)

// migrate0000 creates the full schema at its current shape.
func migrate0000(ctx context.Context) error {
	return entity.MigrateTable(xcontext.DB(ctx))
}
