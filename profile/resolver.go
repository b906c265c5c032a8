package profile

import (
	"github.com/c360studio/codegate/constraint"
)

// Resolve produces the constraint set for one function under a named
// profile. The profile's maps are merged with the function's override
// key-by-key (override wins, new keys are added); an override guidance
// list fully replaces the profile's. Inputs are never mutated and each
// call returns a fresh set, so resolving the same pair twice yields
// structurally equal results.
func Resolve(table *Table, profileName, functionName string) (constraint.Set, error) {
	prof, ok := table.Profiles[profileName]
	if !ok {
		return constraint.Set{}, &UnknownProfileError{Name: profileName}
	}

	primary := cloneValues(prof.Primary)
	secondary := cloneValues(prof.Secondary)
	guidance := append([]string(nil), prof.Guidance...)

	// A name declared in both tiers of the profile itself resolves to
	// the blocking tier.
	for name := range primary {
		delete(secondary, name)
	}

	if override, ok := table.Functions[functionName]; ok && functionName != "" {
		for name, value := range override.Secondary {
			secondary[name] = value
			delete(primary, name)
		}
		for name, value := range override.Primary {
			primary[name] = value
			delete(secondary, name)
		}
		if override.Guidance != nil {
			guidance = append([]string(nil), (*override.Guidance)...)
		}
	}

	set := constraint.Set{Guidance: guidance}
	var err error
	if set.Primary, err = specsInOrder(primary); err != nil {
		return constraint.Set{}, err
	}
	if set.Secondary, err = specsInOrder(secondary); err != nil {
		return constraint.Set{}, err
	}
	return set, nil
}

// specsInOrder converts a name-to-value map into specs ordered by the
// catalog's evaluation order, rejecting names the catalog does not
// know.
func specsInOrder(values map[string]any) ([]constraint.Spec, error) {
	for name := range values {
		if _, ok := constraint.Lookup(name); !ok {
			return nil, &constraint.UnknownConstraintError{Name: name}
		}
	}

	var specs []constraint.Spec
	for _, def := range constraint.Catalog {
		value, ok := values[def.Name]
		if !ok {
			continue
		}
		spec, err := constraint.SpecFromValue(def.Name, value)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func cloneValues(values map[string]any) map[string]any {
	clone := make(map[string]any, len(values))
	for name, value := range values {
		clone[name] = value
	}
	return clone
}
