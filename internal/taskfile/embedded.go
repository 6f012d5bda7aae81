package taskfile

import (
	_ "embed"
)

//go:embed pyx.yaml
var embeddedDefaultTaskfile []byte

// DefaultContent returns a copy of the embedded default declaration.
func DefaultContent() []byte {
	contentCopy := make([]byte, len(embeddedDefaultTaskfile))
	copy(contentCopy, embeddedDefaultTaskfile)
	return contentCopy
}

// Default parses the embedded default declaration.
func Default() (Taskfile, error) {
	return Parse(embeddedDefaultTaskfile)
}
