package assets

import (
	"errors"
	"fmt"
)

// Validate reports manifest problems that would make loading misbehave:
// unknown types stall readiness and duplicate names overwrite each other.
// It does not change how New treats the manifest.
func Validate(sources []Source) error {
	var errs []error
	seen := make(map[string]int, len(sources))
	for i, s := range sources {
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("source %d: empty name", i))
		} else if prev, ok := seen[s.Name]; ok {
			errs = append(errs, fmt.Errorf("source %d: name %q already used by source %d", i, s.Name, prev))
		} else {
			seen[s.Name] = i
		}
		if !s.Type.Known() {
			errs = append(errs, fmt.Errorf("source %d (%s): unknown type %q", i, s.Name, s.Type))
		}
		if s.Path == "" {
			errs = append(errs, fmt.Errorf("source %d (%s): empty path", i, s.Name))
		}
	}
	return errors.Join(errs...)
}
