package manager

import (
	"context"
	"fmt"
	"os"

	units "github.com/docker/go-units"

	"github.com/nyoka-pmml/nyoka-cli/internal/domain/resource"
	"github.com/nyoka-pmml/nyoka-cli/internal/domain/workspace"
	"github.com/nyoka-pmml/nyoka-cli/internal/infra/output"
)

// DefaultPublishVersion is used when publish is given no version.
const DefaultPublishVersion = "1.0"

// Publish uploads a local resource file. A dependency given without a
// version takes the version recorded for it locally.
func (m *Manager) Publish(ctx context.Context, desc resource.Description, deps []resource.Description) error {
	if m.publisher == nil {
		return errNoRemote
	}
	exists, err := m.store.Exists(desc)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%s resource %s does not exist: %w", desc.Category(), desc.Name(), workspace.ErrNotInstalled)
	}
	if version, ok := desc.Version(); !ok || version == "" {
		desc = desc.WithVersion(DefaultPublishVersion)
	}

	resolved := make([]resource.Description, 0, len(deps))
	for _, dep := range deps {
		dep, err := m.versionedDependency(dep)
		if err != nil {
			return err
		}
		resolved = append(resolved, dep)
	}

	path, err := m.ws.ResourcePath(desc)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return &workspace.WorkspaceError{Op: "read", Path: path, Err: err}
	}

	m.reporter.Step(fmt.Sprintf("publishing %s resource %s", desc.Category(), desc))
	if err := m.publisher.Publish(ctx, desc, data, resolved); err != nil {
		return err
	}
	output.Logf(m.reporter, "uploaded %s", units.HumanSize(float64(len(data))))
	for _, dep := range resolved {
		output.Logf(m.reporter, "depends on %s resource %s", dep.Category(), dep)
	}
	return nil
}

func (m *Manager) versionedDependency(dep resource.Description) (resource.Description, error) {
	if version, ok := dep.Version(); ok && version != "" {
		return dep, nil
	}
	record, tracked, err := m.store.Installed(dep)
	if err != nil {
		return resource.Description{}, err
	}
	if !tracked || record.Version == "" {
		return resource.Description{}, fmt.Errorf("dependency %s has no version and none is recorded locally; give one as %s@<version>", dep.Name(), dep.Name())
	}
	return dep.WithVersion(record.Version), nil
}
