package manager

import (
	"context"
	"errors"
	"fmt"

	"github.com/nyoka-pmml/nyoka-cli/internal/domain/resource"
	"github.com/nyoka-pmml/nyoka-cli/internal/domain/workspace"
)

// Remove deletes a resource file and its installed record. A requested
// version is not checked against the record.
func (m *Manager) Remove(ctx context.Context, desc resource.Description) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.store.Remove(desc); err != nil {
		if errors.Is(err, workspace.ErrNotInstalled) {
			return fmt.Errorf("%s resource %s does not exist: %w", desc.Category(), desc.Name(), err)
		}
		return err
	}
	m.reporter.Step(fmt.Sprintf("removed %s resource %s", desc.Category(), desc.Name()))
	return nil
}
