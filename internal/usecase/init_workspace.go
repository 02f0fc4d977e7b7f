package usecase

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/ports"
)

type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
	locator     ports.WorkspaceLocator
	logger      *slog.Logger
}

type InitOption func(*InitWorkspace)

// WithEnclosingCheck rejects roots that already sit inside another
// workspace unless force is set.
func WithEnclosingCheck(l ports.WorkspaceLocator) InitOption {
	return func(uc *InitWorkspace) { uc.locator = l }
}

func WithInitLogger(l *slog.Logger) InitOption {
	return func(uc *InitWorkspace) {
		if l != nil {
			uc.logger = l
		}
	}
}

func NewInitWorkspace(initializer ports.WorkspaceInitializer, opts ...InitOption) *InitWorkspace {
	uc := &InitWorkspace{initializer: initializer, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *InitWorkspace) Execute(root string, force bool) error {
	const op = "usecase.init_workspace"
	if strings.TrimSpace(root) == "" {
		return domain.InvalidArgument(op, "workspace root is required")
	}
	root = filepath.Clean(root)

	if uc.locator != nil && !force {
		if outer, err := uc.locator.FindRoot(root); err == nil && outer != root {
			return domain.InvalidArgument(op, "%s is inside workspace %s (use --force to nest one)", root, outer)
		}
	}

	if err := uc.initializer.Init(domain.WorkspaceSpec{Root: root}, force); err != nil {
		uc.logger.Error("workspace.init.failed", "root", root, "err", err)
		return err
	}
	uc.logger.Info("workspace.init.done", "root", root, "force", force)
	return nil
}
