package ports

import (
	"context"

	"github.com/varontron/mutation-mapper/internal/domain"
)

// ViewerClient pushes a script to a running viewer process.
type ViewerClient interface {
	Send(ctx context.Context, script domain.Script) error
}
