package manager

import (
	"context"
	"fmt"

	units "github.com/docker/go-units"

	"github.com/nyoka-pmml/nyoka-cli/internal/domain/resource"
	"github.com/nyoka-pmml/nyoka-cli/internal/infra/output"
)

// Add fetches a resource and stores it in its category directory. A resource
// already present at the requested version is left alone.
func (m *Manager) Add(ctx context.Context, desc resource.Description) error {
	if _, err := m.ws.CreateMissing(); err != nil {
		return err
	}

	skip, err := m.alreadyInstalled(desc)
	if err != nil {
		return err
	}
	if skip {
		m.reporter.Step(fmt.Sprintf("%s resource %s already exists", desc.Category(), desc))
		return nil
	}
	if m.fetcher == nil {
		return errNoRemote
	}

	m.reporter.Step(fmt.Sprintf("adding %s resource %s", desc.Category(), desc))
	artifact, err := m.fetcher.Fetch(ctx, desc)
	if err != nil {
		return err
	}
	output.Logf(m.reporter, "fetched version %s (%s)", displayVersion(artifact.Version), units.HumanSize(float64(len(artifact.Data))))
	if err := m.store.Record(desc, artifact.Data, artifact.Version); err != nil {
		return err
	}
	path, err := m.ws.ResourcePath(desc)
	if err != nil {
		return err
	}
	output.Logf(m.reporter, "saved %s", path)
	return nil
}

// alreadyInstalled is true when the file exists and either no version was
// asked for or the recorded version matches the requested one.
func (m *Manager) alreadyInstalled(desc resource.Description) (bool, error) {
	exists, err := m.store.Exists(desc)
	if err != nil || !exists {
		return false, err
	}
	requested, ok := desc.Version()
	if !ok {
		return true, nil
	}
	record, tracked, err := m.store.Installed(desc)
	if err != nil {
		return false, err
	}
	return tracked && record.Version == requested, nil
}

func displayVersion(version string) string {
	if version == "" {
		return "(none)"
	}
	return version
}
