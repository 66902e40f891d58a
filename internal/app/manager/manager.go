// Package manager runs the nyoka actions against a local workspace.
package manager

import (
	"context"
	"errors"
	"fmt"

	"github.com/nyoka-pmml/nyoka-cli/internal/domain/resource"
	"github.com/nyoka-pmml/nyoka-cli/internal/domain/workspace"
	"github.com/nyoka-pmml/nyoka-cli/internal/infra/output"
)

// CreateDirsQuestion is asked by List when required directories are missing.
const CreateDirsQuestion = "Required local resource directories do not exist. Create them now?"

// Fetcher downloads resource bytes from a remote.
type Fetcher interface {
	Fetch(ctx context.Context, desc resource.Description) (resource.Artifact, error)
}

// Catalog lists what a remote can deliver.
type Catalog interface {
	Available(ctx context.Context, category resource.Category) ([]resource.Listing, error)
}

// Publisher uploads a local resource version to a remote.
type Publisher interface {
	Publish(ctx context.Context, desc resource.Description, data []byte, deps []resource.Description) error
}

// DependencyLister resolves the dependency tree of a remote resource.
type DependencyLister interface {
	Dependencies(ctx context.Context, desc resource.Description) ([]resource.Dependency, error)
}

// Store persists fetched resources and their installed records.
type Store interface {
	Exists(desc resource.Description) (bool, error)
	Installed(desc resource.Description) (workspace.Record, bool, error)
	Record(desc resource.Description, data []byte, version string) error
	Remove(desc resource.Description) error
}

type Prompter interface {
	Confirm(question string) (bool, error)
}

// Reporter receives progress lines. A Reporter that also has a
// Table(headers, rows) method gets listings as tables.
type Reporter = output.StepLogger

type tabler interface {
	Table(headers []string, rows [][]string)
}

type Options struct {
	Workspace    workspace.Workspace
	Fetcher      Fetcher
	Catalog      Catalog
	Publisher    Publisher
	Dependencies DependencyLister
	Store        Store
	Prompter     Prompter
	Reporter     Reporter
}

type Manager struct {
	ws        workspace.Workspace
	fetcher   Fetcher
	catalog   Catalog
	publisher Publisher
	deps      DependencyLister
	store     Store
	prompter  Prompter
	reporter  Reporter
}

var errNoRemote = errors.New("no resource repository configured")

// New builds a Manager. The workspace root and reporter are required; a nil
// Store defaults to one writing into the workspace.
func New(opts Options) (*Manager, error) {
	if opts.Workspace.Root == "" {
		return nil, fmt.Errorf("workspace root is required")
	}
	if opts.Reporter == nil {
		return nil, fmt.Errorf("reporter is required")
	}
	store := opts.Store
	if store == nil {
		store = workspace.NewStore(opts.Workspace)
	}
	return &Manager{
		ws:        opts.Workspace,
		fetcher:   opts.Fetcher,
		catalog:   opts.Catalog,
		publisher: opts.Publisher,
		deps:      opts.Dependencies,
		store:     store,
		prompter:  opts.Prompter,
		reporter:  opts.Reporter,
	}, nil
}

// Init creates any missing workspace directories and reports each one.
func (m *Manager) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	statuses, err := m.ws.CreateMissing()
	m.reportStatuses(statuses, true)
	return err
}

func (m *Manager) reportStatuses(statuses []workspace.Status, includeExisting bool) {
	for _, status := range statuses {
		switch {
		case status.Created:
			m.reporter.Step(fmt.Sprintf("created directory %s", status.Path))
		case includeExisting:
			m.reporter.Step(fmt.Sprintf("directory %s already exists", status.Path))
		}
	}
}
