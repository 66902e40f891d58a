// Package action turns command-line arguments into typed, validated actions.
//
// Every variant validates its arguments when it is built, so holding an
// Action value is proof that its arguments were well formed.
package action

import (
	"fmt"

	"github.com/nyoka-pmml/nyoka-cli/internal/domain/resource"
)

// ProgramName prefixes every action error.
const ProgramName = "nyoka"

// Descriptor is the name an action is invoked by and its one-line summary.
type Descriptor struct {
	Name    string
	Summary string
}

// Action is implemented only by the variants in this package.
type Action interface {
	Descriptor() Descriptor
	sealed()
}

var (
	initDescriptor      = Descriptor{Name: "init", Summary: "Initialize code, data and model folders."}
	addDescriptor       = Descriptor{Name: "add", Summary: "Download and add a resource to local files."}
	listDescriptor      = Descriptor{Name: "list", Summary: "List resources in local files."}
	removeDescriptor    = Descriptor{Name: "remove", Summary: "Remove a resource from local files."}
	availableDescriptor = Descriptor{Name: "available", Summary: "List resources available on the repository server."}
	depsDescriptor      = Descriptor{Name: "dependencies", Summary: "List dependencies of a resource."}
	publishDescriptor   = Descriptor{Name: "publish", Summary: "Publish a resource in local files to the server."}
)

// DepsOption introduces the dependency list of publish.
const DepsOption = "--deps"

type Init struct{}

func (Init) Descriptor() Descriptor { return initDescriptor }
func (Init) sealed() {}

type Add struct {
	resource resource.Description
}

func (Add) Descriptor() Descriptor { return addDescriptor }
func (Add) sealed() {}

// Resource is the parsed identifier to fetch.
func (a Add) Resource() resource.Description { return a.resource }

type List struct{}

func (List) Descriptor() Descriptor { return listDescriptor }
func (List) sealed() {}

type Remove struct {
	resource resource.Description
}

func (Remove) Descriptor() Descriptor { return removeDescriptor }
func (Remove) sealed() {}

// Resource is the parsed identifier to delete.
func (r Remove) Resource() resource.Description { return r.resource }

type Available struct {
	category resource.Category
}

func (Available) Descriptor() Descriptor { return availableDescriptor }
func (Available) sealed() {}

// Category is the category to limit the listing to, if one was given.
func (a Available) Category() (resource.Category, bool) {
	return a.category, a.category.Valid()
}

type Dependencies struct {
	resource resource.Description
}

func (Dependencies) Descriptor() Descriptor { return depsDescriptor }
func (Dependencies) sealed() {}

func (d Dependencies) Resource() resource.Description { return d.resource }

type Publish struct {
	resource resource.Description
	deps     []resource.Description
}

func (Publish) Descriptor() Descriptor { return publishDescriptor }
func (Publish) sealed() {}

// Resource is the local resource to upload.
func (p Publish) Resource() resource.Description { return p.resource }

// Deps returns the dependencies declared after --deps.
func (p Publish) Deps() []resource.Description {
	return append([]resource.Description(nil), p.deps...)
}

func ParseInit(args []string) (Init, error) {
	if err := noArgs(initDescriptor, args); err != nil {
		return Init{}, err
	}
	return Init{}, nil
}

func ParseAdd(args []string) (Add, error) {
	desc, err := oneResource(addDescriptor, args)
	if err != nil {
		return Add{}, err
	}
	return Add{resource: desc}, nil
}

func ParseList(args []string) (List, error) {
	if err := noArgs(listDescriptor, args); err != nil {
		return List{}, err
	}
	return List{}, nil
}

func ParseRemove(args []string) (Remove, error) {
	desc, err := oneResource(removeDescriptor, args)
	if err != nil {
		return Remove{}, err
	}
	return Remove{resource: desc}, nil
}

// ParseAvailable accepts an optional category: code, model or data.
func ParseAvailable(args []string) (Available, error) {
	switch len(args) {
	case 0:
		return Available{}, nil
	case 1:
		category, err := resource.ParseCategory(args[0])
		if err != nil {
			return Available{}, &ParseError{Action: availableDescriptor.Name, Reason: "error parsing resource type", Err: err}
		}
		return Available{category: category}, nil
	default:
		return Available{}, &ParseError{
			Action: availableDescriptor.Name,
			Reason: fmt.Sprintf("takes at most one parameter: resource type (got %d)", len(args)),
		}
	}
}

func ParseDependencies(args []string) (Dependencies, error) {
	desc, err := oneResource(depsDescriptor, args)
	if err != nil {
		return Dependencies{}, err
	}
	return Dependencies{resource: desc}, nil
}

// ParsePublish reads `<resource> [--deps <resource>...]`.
func ParsePublish(args []string) (Publish, error) {
	if len(args) == 0 {
		return Publish{}, &ParseError{
			Action: publishDescriptor.Name,
			Reason: "takes one required parameter: resource name, with an option " + DepsOption + " to add dependencies",
		}
	}
	desc, err := resource.Parse(args[0])
	if err != nil {
		return Publish{}, &ParseError{Action: publishDescriptor.Name, Reason: "error parsing resource name", Err: err}
	}
	p := Publish{resource: desc}
	if len(args) == 1 {
		return p, nil
	}
	if args[1] != DepsOption {
		return Publish{}, &ParseError{
			Action: publishDescriptor.Name,
			Reason: fmt.Sprintf("has one possible option, %s (got %q)", DepsOption, args[1]),
		}
	}
	if len(args) == 2 {
		return Publish{}, &ParseError{Action: publishDescriptor.Name, Reason: DepsOption + " needs at least one resource name"}
	}
	for _, raw := range args[2:] {
		dep, err := resource.Parse(raw)
		if err != nil {
			return Publish{}, &ParseError{Action: publishDescriptor.Name, Reason: "error parsing dependency name", Err: err}
		}
		p.deps = append(p.deps, dep)
	}
	return p, nil
}

func noArgs(d Descriptor, args []string) error {
	if len(args) != 0 {
		return &ParseError{Action: d.Name, Reason: "takes no parameters"}
	}
	return nil
}

func oneResource(d Descriptor, args []string) (resource.Description, error) {
	if len(args) != 1 {
		return resource.Description{}, &ParseError{
			Action: d.Name,
			Reason: fmt.Sprintf("takes one parameter: resource name (got %d)", len(args)),
		}
	}
	desc, err := resource.Parse(args[0])
	if err != nil {
		return resource.Description{}, &ParseError{Action: d.Name, Reason: "error parsing resource name", Err: err}
	}
	return desc, nil
}
