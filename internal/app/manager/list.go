package manager

import (
	"context"
	"fmt"

	units "github.com/docker/go-units"

	"github.com/nyoka-pmml/nyoka-cli/internal/domain/workspace"
)

var localHeaders = []string{"Name", "Version", "Size"}

// List reports the resources in each category directory. When required
// directories are missing the user is asked once whether to create them.
func (m *Manager) List(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	exists, err := m.ws.AllExist()
	if err != nil {
		return err
	}
	if !exists && m.prompter != nil {
		create, err := m.prompter.Confirm(CreateDirsQuestion)
		if err != nil {
			return err
		}
		if create {
			statuses, err := m.ws.CreateMissing()
			m.reportStatuses(statuses, false)
			if err != nil {
				return err
			}
		}
	}

	for _, dirs := range m.ws.Layout.Categories() {
		entries, err := m.ws.ListResources(dirs.Category)
		if err != nil {
			return err
		}
		m.reporter.Step(fmt.Sprintf("%s resources (%s)", dirs.Category, dirs.Root))
		rows := make([][]string, 0, len(entries))
		for _, entry := range entries {
			rows = append(rows, localRow(entry))
		}
		m.reportRows(localHeaders, rows)
	}
	return nil
}

func localRow(entry workspace.Entry) []string {
	version := entry.Version
	if !entry.Tracked {
		version = "untracked"
	}
	return []string{entry.Name, displayVersion(version), units.HumanSize(float64(entry.Size))}
}

func (m *Manager) reportRows(headers []string, rows [][]string) {
	if len(rows) == 0 {
		m.reporter.Log("no resources")
		return
	}
	if t, ok := m.reporter.(tabler); ok {
		t.Table(headers, rows)
		return
	}
	for _, row := range rows {
		line := row[0]
		for _, col := range row[1:] {
			line += "  " + col
		}
		m.reporter.Log(line)
	}
}
