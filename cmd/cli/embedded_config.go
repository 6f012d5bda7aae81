package cli

import (
	_ "embed"
)

//go:embed config.yaml
var embeddedDefaultConfiguration []byte

// EmbeddedDefaultConfiguration returns the built-in configuration document and its type.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	configurationCopy := make([]byte, len(embeddedDefaultConfiguration))
	copy(configurationCopy, embeddedDefaultConfiguration)
	return configurationCopy, configurationTypeConstant
}
