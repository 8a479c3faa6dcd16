package globals

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/rollcall/internal/cmd/filter"
	"github.com/agentstation/rollcall/pkg/errors"
	"github.com/agentstation/rollcall/pkg/resolver"
)

// ResourceFlags holds flags for narrowing entity listings.
type ResourceFlags struct {
	Search     string
	Department string
	Layer      string
	MergedOnly bool
	Limit      int
}

// AddResourceFlags adds listing flags to a command.
func AddResourceFlags(cmd *cobra.Command) *ResourceFlags {
	flags := &ResourceFlags{}

	cmd.Flags().StringVar(&flags.Search, "search", "",
		"Only entities whose ref, ID or name contains this text")
	cmd.Flags().StringVar(&flags.Department, "department", "",
		"Only entities in this department")
	cmd.Flags().StringVar(&flags.Layer, "layer", "",
		"Only entities merged at this layer: id+name, id+nickname, name-only")
	cmd.Flags().BoolVar(&flags.MergedOnly, "merged", false,
		"Only entities that absorbed at least one merge")
	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", 0,
		"Limit number of results")

	return flags
}

// ParseResources extracts resource flags from a command.
// The command must have had AddResourceFlags called on it, otherwise this will panic.
func ParseResources(cmd *cobra.Command) *ResourceFlags {
	return &ResourceFlags{
		Search:     mustGetString(cmd, "search"),
		Department: mustGetString(cmd, "department"),
		Layer:      mustGetString(cmd, "layer"),
		MergedOnly: mustGetBool(cmd, "merged"),
		Limit:      mustGetInt(cmd, "limit"),
	}
}

// EntityFilter builds an entity filter from the flags.
func (f *ResourceFlags) EntityFilter() (*filter.EntityFilter, error) {
	ef := &filter.EntityFilter{
		Search:     f.Search,
		Department: f.Department,
		MergedOnly: f.MergedOnly,
	}
	if f.Layer != "" {
		layer, err := resolver.ParseLayer(f.Layer)
		if err != nil {
			return nil, errors.WrapValidation("layer", err)
		}
		ef.Layer = layer
	}
	return ef, nil
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetInt retrieves an integer flag value or panics if the flag doesn't exist.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
