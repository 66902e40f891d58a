package manager

import (
	"context"
	"fmt"

	units "github.com/docker/go-units"

	"github.com/nyoka-pmml/nyoka-cli/internal/domain/resource"
)

var dependencyHeaders = []string{"Name", "Type", "Version", "Size", "Direct"}

// Dependencies reports the remote dependency tree of a resource. Without a
// requested version the locally recorded one is used, then the remote's
// latest.
func (m *Manager) Dependencies(ctx context.Context, desc resource.Description) error {
	if m.deps == nil {
		return errNoRemote
	}
	if _, ok := desc.Version(); !ok {
		record, tracked, err := m.store.Installed(desc)
		if err != nil {
			return err
		}
		if tracked && record.Version != "" {
			desc = desc.WithVersion(record.Version)
		}
	}

	deps, err := m.deps.Dependencies(ctx, desc)
	if err != nil {
		return err
	}
	m.reporter.Step(fmt.Sprintf("dependencies of %s resource %s", desc.Category(), desc))
	if len(deps) == 0 {
		m.reporter.Log("no dependencies")
		return nil
	}
	rows := make([][]string, 0, len(deps))
	for _, dep := range deps {
		direct := "no"
		if dep.Direct {
			direct = "yes"
		}
		rows = append(rows, []string{dep.Name, dep.Category.String(), displayVersion(dep.Version), units.HumanSize(float64(dep.Size)), direct})
	}
	m.reportRows(dependencyHeaders, rows)
	return nil
}
