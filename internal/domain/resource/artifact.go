package resource

// Artifact is the content of one resource version as delivered by a remote.
type Artifact struct {
	Data    []byte
	Version string
}

// Listing describes a resource a remote can deliver, at its latest version.
type Listing struct {
	Name    string
	Version string
	Size    int64
}

// Dependency is one resource another resource version depends on, directly or
// through one of its own dependencies.
type Dependency struct {
	Category Category
	Name     string
	Version  string
	Size     int64
	Direct   bool
}
