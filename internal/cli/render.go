package cli

import (
	"strings"

	"github.com/nyoka-pmml/nyoka-cli/internal/action"
	"github.com/nyoka-pmml/nyoka-cli/internal/ui"
)

func startSteps(renderer *ui.Renderer) {
	if renderer == nil {
		return
	}
	renderer.Section("Steps")
}

func startResult(renderer *ui.Renderer) {
	if renderer == nil {
		return
	}
	renderer.Section("Result")
}

// renderCatalog lists the actions a user can pick from.
func renderCatalog(renderer *ui.Renderer, catalog []action.Descriptor) {
	rows := make([][]string, 0, len(catalog))
	for _, d := range catalog {
		rows = append(rows, []string{d.Name, d.Summary})
	}
	renderer.Section("Actions")
	renderer.Table(nil, rows)
	renderer.Blank()
}

// CompactError flattens an error message onto one line.
func CompactError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "unknown error"
	}
	return strings.Join(strings.Fields(msg), " ")
}
