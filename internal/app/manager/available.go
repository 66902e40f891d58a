package manager

import (
	"context"
	"fmt"

	units "github.com/docker/go-units"

	"github.com/nyoka-pmml/nyoka-cli/internal/domain/resource"
)

var availableHeaders = []string{"Name", "Latest", "Size", "Local"}

// Available reports what the remote holds, next to the locally installed
// version. Without categories every category is listed.
func (m *Manager) Available(ctx context.Context, only ...resource.Category) error {
	if m.catalog == nil {
		return errNoRemote
	}
	categories := only
	if len(categories) == 0 {
		categories = resource.Categories
	}
	for _, category := range categories {
		listings, err := m.catalog.Available(ctx, category)
		if err != nil {
			return err
		}
		m.reporter.Step(fmt.Sprintf("available %s resources", category))
		rows := make([][]string, 0, len(listings))
		for _, listing := range listings {
			local, err := m.localVersion(category, listing.Name)
			if err != nil {
				return err
			}
			rows = append(rows, []string{listing.Name, displayVersion(listing.Version), units.HumanSize(float64(listing.Size)), local})
		}
		m.reportRows(availableHeaders, rows)
	}
	return nil
}

func (m *Manager) localVersion(category resource.Category, name string) (string, error) {
	desc, err := resource.New(category, name)
	if err != nil {
		return "", err
	}
	exists, err := m.store.Exists(desc)
	if err != nil {
		return "", err
	}
	if !exists {
		return "-", nil
	}
	record, tracked, err := m.store.Installed(desc)
	if err != nil {
		return "", err
	}
	if !tracked {
		return "untracked", nil
	}
	return displayVersion(record.Version), nil
}
