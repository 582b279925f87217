package ports

import (
	"context"

	"github.com/bft-labs/tplmigrate/internal/domain"
)

// TemplateSource reads template records from the source contract.
// Implementations must be safe for concurrent use.
type TemplateSource interface {
	// Template performs the read-only template(index) call.
	Template(ctx context.Context, index uint64) (domain.RawTemplate, error)
}
