package resource

import (
	"errors"
	"fmt"
	"strings"
)

const VersionSeparator = "@"

// ErrInference matches every ParseError raised while inferring a category
// from the file extension.
var ErrInference = errors.New("cannot infer resource type")

type ParseErrorKind int

const (
	KindMultipleSeparators ParseErrorKind = iota + 1
	KindMissingExtension
	KindEmptyExtension
	KindUnknownExtension
)

// ParseError reports a malformed or untypeable resource identifier.
type ParseError struct {
	Input     string
	Kind      ParseErrorKind
	Extension string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case KindMultipleSeparators:
		return fmt.Sprintf("only one version separator %q allowed in %q", VersionSeparator, e.Input)
	case KindMissingExtension:
		return fmt.Sprintf("cannot infer type of %q: missing extension", e.Input)
	case KindEmptyExtension:
		return fmt.Sprintf("cannot infer type of %q: extension is empty", e.Input)
	case KindUnknownExtension:
		return fmt.Sprintf("cannot infer type of %q from extension '%s'", e.Input, e.Extension)
	default:
		return fmt.Sprintf("invalid resource identifier %q", e.Input)
	}
}

func (e *ParseError) Is(target error) bool {
	if target != ErrInference {
		return false
	}
	switch e.Kind {
	case KindMissingExtension, KindEmptyExtension, KindUnknownExtension:
		return true
	default:
		return false
	}
}

var extensionCategories = map[string]Category{
	"py":    Code,
	"ipynb": Code,
	"pmml":  Model,
	"json":  Data,
	"csv":   Data,
	"png":   Data,
	"jpg":   Data,
	"jpeg":  Data,
	"zip":   Data,
}

// Parse turns "name.ext[@version]" into a Description.
func Parse(raw string) (Description, error) {
	parts := strings.Split(raw, VersionSeparator)
	if len(parts) > 2 {
		return Description{}, &ParseError{Input: raw, Kind: KindMultipleSeparators}
	}

	name := parts[0]
	category, err := InferCategory(name)
	if err != nil {
		return Description{}, err
	}

	desc := Description{category: category, name: name}
	if len(parts) == 2 {
		desc.version = parts[1]
		desc.hasVersion = true
	}
	return desc, nil
}

// InferCategory maps the extension after the last "." of name to a category.
func InferCategory(name string) (Category, error) {
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return 0, &ParseError{Input: name, Kind: KindMissingExtension}
	}
	ext := strings.ToLower(strings.TrimSpace(name[dot+1:]))
	if ext == "" {
		return 0, &ParseError{Input: name, Kind: KindEmptyExtension}
	}
	category, ok := extensionCategories[ext]
	if !ok {
		return 0, &ParseError{Input: name, Kind: KindUnknownExtension, Extension: ext}
	}
	return category, nil
}
