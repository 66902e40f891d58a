package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/nyoka-pmml/nyoka-cli/internal/action"
	"github.com/nyoka-pmml/nyoka-cli/internal/app/manager"
	"github.com/nyoka-pmml/nyoka-cli/internal/ui"
)

type actionHelp struct {
	usage   string
	details []string
}

var actionHelps = map[string]actionHelp{
	"init": {
		usage: "nyoka init",
		details: []string{
			"creates Code, Models and Data, each with a hidden .nyoka dir",
		},
	},
	"add": {
		usage: "nyoka add <NAME[@VERSION]>",
		details: []string{
			"the type is inferred from the extension (.py .ipynb, .pmml, .json .csv .png .jpg .jpeg .zip)",
			"without a version the latest one on the repository is fetched",
		},
	},
	"list": {
		usage: "nyoka list",
		details: []string{
			"offers to create missing directories first",
		},
	},
	"remove": {
		usage: "nyoka remove <NAME>",
		details: []string{
			"deletes the local file and its installed record",
		},
	},
	"available": {
		usage: "nyoka available [code|model|data]",
		details: []string{
			"lists resources on the repository server (nyoka.yaml or NYOKA_REPOSITORY)",
			"a type limits the listing to that category",
		},
	},
	"dependencies": {
		usage: "nyoka dependencies <NAME[@VERSION]>",
		details: []string{
			"lists direct and indirect dependencies as the repository resolves them",
			"without a version the locally installed one is used, then the latest",
		},
	},
	"publish": {
		usage: "nyoka publish <NAME[@VERSION]> [--deps <NAME[@VERSION]>...]",
		details: []string{
			"uploads a local file; the version defaults to " + manager.DefaultPublishVersion,
			"a dependency without a version takes its locally installed version",
		},
	},
}

func isHelpArg(arg string) bool {
	switch strings.TrimSpace(arg) {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func printGlobalHelp(w io.Writer, useColor bool) {
	theme := ui.DefaultTheme()
	fmt.Fprintln(w, "Usage: nyoka [global flags] <action> [args]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, helpSectionTitle(theme, useColor, "Actions:"))
	for _, d := range action.Catalog() {
		fmt.Fprintln(w, helpCommand(theme, useColor, d.Name, d.Summary))
	}
	fmt.Fprintln(w, helpCommand(theme, useColor, "help [action]", "show help for an action"))
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, helpSectionTitle(theme, useColor, "Global flags:"))
	fmt.Fprintln(w, helpFlag(theme, useColor, "--root <path>", "override nyoka root (env NYOKA_ROOT)"))
	fmt.Fprintln(w, helpFlag(theme, useColor, "--no-prompt", "disable interactive prompt"))
	fmt.Fprintln(w, helpFlag(theme, useColor, "--debug", "write debug logs to file"))
	fmt.Fprintln(w, helpFlag(theme, useColor, "--verbose, -v", "show detailed logs"))
	fmt.Fprintln(w, helpFlag(theme, useColor, "--version", "print version"))
	fmt.Fprintln(w, helpFlag(theme, useColor, "--help, -h", "show help"))
}

func printCommandHelp(name string, w io.Writer, useColor bool) bool {
	if name == "version" {
		printVersion(w)
		return true
	}
	help, ok := actionHelps[name]
	if !ok {
		return false
	}
	theme := ui.DefaultTheme()
	fmt.Fprintf(w, "Usage: %s\n", help.usage)
	for _, d := range action.Catalog() {
		if d.Name == name {
			fmt.Fprintf(w, "  %s\n", d.Summary)
		}
	}
	if len(help.details) > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, helpSectionTitle(theme, useColor, "Notes:"))
		for _, line := range help.details {
			fmt.Fprintf(w, "  - %s\n", line)
		}
	}
	return true
}

func helpSectionTitle(theme ui.Theme, useColor bool, title string) string {
	if !useColor {
		return title
	}
	return theme.SectionTitle.Render(title)
}

func helpCommand(theme ui.Theme, useColor bool, name, description string) string {
	if useColor {
		return fmt.Sprintf("  %s  %s", theme.Accent.Render(name), description)
	}
	return fmt.Sprintf("  %-16s %s", name, description)
}

func helpFlag(theme ui.Theme, useColor bool, flag, description string) string {
	if useColor {
		return fmt.Sprintf("  %s  %s", theme.Accent.Render(flag), description)
	}
	return fmt.Sprintf("  %-16s %s", flag, description)
}
