package resource

import (
	"fmt"
	"strings"
)

// Category selects the workspace subtree a resource lives in.
type Category int

const (
	Code Category = iota + 1
	Model
	Data
)

// Categories lists every category in layout order.
var Categories = []Category{Code, Model, Data}

func (c Category) Valid() bool {
	switch c {
	case Code, Model, Data:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	switch c {
	case Code:
		return "code"
	case Model:
		return "model"
	case Data:
		return "data"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParseCategory maps a category name back to its value.
func ParseCategory(name string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "code":
		return Code, nil
	case "model", "models":
		return Model, nil
	case "data":
		return Data, nil
	default:
		return 0, fmt.Errorf("unknown resource category: %q", name)
	}
}

// Description identifies one resource and, optionally, a version of it.
// Values are comparable; two descriptions are equal iff category, name and
// version (including its presence) match.
type Description struct {
	category   Category
	name       string
	version    string
	hasVersion bool
}

// New builds a description with no version.
func New(category Category, name string) (Description, error) {
	if !category.Valid() {
		return Description{}, fmt.Errorf("invalid resource category: %s", category)
	}
	if strings.TrimSpace(name) == "" {
		return Description{}, fmt.Errorf("resource name is required")
	}
	return Description{category: category, name: name}, nil
}

// NewVersioned builds a description pinned to version.
func NewVersioned(category Category, name, version string) (Description, error) {
	desc, err := New(category, name)
	if err != nil {
		return Description{}, err
	}
	desc.version = version
	desc.hasVersion = true
	return desc, nil
}

func (d Description) Category() Category {
	return d.category
}

func (d Description) Name() string {
	return d.name
}

// Version returns the requested version and whether one was given.
func (d Description) Version() (string, bool) {
	return d.version, d.hasVersion
}

// WithVersion returns a copy of d pinned to version.
func (d Description) WithVersion(version string) Description {
	d.version = version
	d.hasVersion = true
	return d
}

func (d Description) String() string {
	if d.hasVersion {
		return fmt.Sprintf("%s@%s", d.name, d.version)
	}
	return d.name
}
