// Package logging builds the zap.Logger instances the rest of the module
// injects into components that otherwise default to zap.NewNop(), mirroring
// internal/annotate.Annotator's SetLogger convention.
package logging

import "go.uber.org/zap"

// New builds a production logger, or a development one (human-readable,
// debug level included) when verbose is true.
func New(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
