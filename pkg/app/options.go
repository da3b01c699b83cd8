package app

import (
	cliflag "k8s.io/component-base/cli/flag"
)

// NamedFlagSetOptions is implemented by the options of every command built with App.
type NamedFlagSetOptions interface {
	// Flags returns the flag sets, grouped by concern for --help.
	Flags() cliflag.NamedFlagSets

	// Complete fills in fields derived from other fields.
	Complete() error

	// Validate checks the completed options.
	Validate() error
}
