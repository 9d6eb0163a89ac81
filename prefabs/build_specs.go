package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeSpec converts a loosely typed value, such as a map produced by a
// script, into T.
func DecodeSpec[T any](raw any) (T, error) {
	var out T
	if err := DecodeInto(raw, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// DecodeInto overlays raw onto dst. Fields absent from raw keep the value
// dst already holds, so a prefab default can be partially overridden.
func DecodeInto(raw any, dst any) error {
	if raw == nil {
		return nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("prefabs: encode override: %w", err)
	}
	if err := yaml.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("prefabs: decode override: %w", err)
	}
	return nil
}
