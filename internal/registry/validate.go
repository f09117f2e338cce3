package registry

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/vk/sectiongrid/internal/ctxlog"
	"github.com/vk/sectiongrid/internal/param"
	"github.com/vk/sectiongrid/internal/units"
	"github.com/vk/sectiongrid/internal/variable"
)

// ValidateRegistry checks every registered Function in every mode: the
// Function reports the name it is registered under, its parameter lists are
// stable between queries, names are unique per list, and each parameter
// kind has a codec.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.Names() {
		fn := r.factories[name](units.MetricMillimetre)
		if got := fn.Info().Name; got != name {
			errs = append(errs, fmt.Sprintf("function '%s': reports name '%s'", name, got))
		}

		modes := []string{""}
		vf, hasModes := fn.(variable.Function)
		if hasModes {
			modes = vf.Modes()
		}
		for _, mode := range modes {
			where := fmt.Sprintf("function '%s'", name)
			if hasModes {
				if err := vf.SetMode(mode); err != nil {
					errs = append(errs, fmt.Sprintf("%s: %v", where, err))
					continue
				}
				where += fmt.Sprintf(", mode '%s'", mode)
			}
			errs = append(errs, r.checkList(where, "input", fn.Inputs)...)
			errs = append(errs, r.checkList(where, "output", fn.Outputs)...)
		}
		logger.Debug("Validated function.", "name", name, "modes", len(modes))
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func (r *Registry) checkList(where, side string, list func() []param.Parameter) []string {
	var errs []string
	first, second := param.Attributes(list()), param.Attributes(list())
	if !slices.Equal(names(first), names(second)) {
		errs = append(errs, fmt.Sprintf("%s: %s list is not stable", where, side))
	}
	seen := make(map[string]struct{})
	for _, p := range list() {
		n := p.Attr().Name
		if _, dup := seen[n]; dup {
			errs = append(errs, fmt.Sprintf("%s: duplicate %s '%s'", where, side, n))
		}
		seen[n] = struct{}{}
		if _, err := r.adapters.Lookup(p.Kind()); err != nil {
			errs = append(errs, fmt.Sprintf("%s, %s '%s': %v", where, side, n, err))
		}
	}
	return errs
}

func names(as []param.Attribute) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.Name
	}
	return out
}
