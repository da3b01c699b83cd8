package topic

import (
	"strings"
)

// Builder encapsulates the logic for constructing MQTT topic strings.
// Every topic follows the pattern {root}/{segment}/{deviceID}.
type Builder struct {
	// root is the base namespace for all topics (e.g., "chirp/v1").
	root string
}

// NewBuilder creates a Builder for the given root namespace.
// Leading and trailing slashes are trimmed.
func NewBuilder(root string) *Builder {
	return &Builder{root: strings.Trim(root, "/")}
}

// Build returns {root}/{segment}/{id}.
func (b *Builder) Build(segment, id string) string {
	if b.root == "" {
		return segment + "/" + id
	}
	return b.root + "/" + segment + "/" + id
}
