package utils

import (
	"github.com/spf13/cobra"
)

// Flag declares a string flag generated for a task parameter.
type Flag struct {
	Name     string
	Usage    string
	Default  string
	Required bool
}

// AddStringFlags adds one string flag per entry to the provided Cobra command.
// Required flags are not marked with MarkFlagRequired: a missing parameter is
// reported by the task executor so it maps to its own exit code.
func AddStringFlags(cmd *cobra.Command, flags []Flag) {
	for _, f := range flags {
		usage := f.Usage
		if f.Required {
			usage += " (required)"
		}
		cmd.Flags().String(f.Name, f.Default, usage)
	}
}

// ChangedFlags returns the values of the named flags that were explicitly
// set on the command line. Flags left at their default are omitted.
func ChangedFlags(cmd *cobra.Command, names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		out[name] = f.Value.String()
	}
	return out
}
