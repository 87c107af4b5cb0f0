package config

// WasExplicitlySet checks if a flag was explicitly set by the user
func WasExplicitlySet(flags map[string]bool, flagName string) bool {
	if flags == nil {
		return false
	}
	return flags[flagName]
}

// Merge returns override when flagName was explicitly set, base otherwise
func Merge[T any](base, override T, flagName string, flags map[string]bool) T {
	if WasExplicitlySet(flags, flagName) {
		return override
	}
	return base
}

// MergeString merges a string value, using override only if explicitly set
func MergeString(base, override, flagName string, flags map[string]bool) string {
	return Merge(base, override, flagName, flags)
}

// MergeInt merges an int value, using override only if explicitly set
func MergeInt(base, override int, flagName string, flags map[string]bool) int {
	return Merge(base, override, flagName, flags)
}

// MergeBool merges a bool value, using override only if explicitly set
func MergeBool(base, override bool, flagName string, flags map[string]bool) bool {
	return Merge(base, override, flagName, flags)
}

// MergeStringSlice merges a string slice. An explicitly set but empty
// override keeps base, since repeatable flags cannot express "none".
func MergeStringSlice(base, override []string, flagName string, flags map[string]bool) []string {
	if WasExplicitlySet(flags, flagName) && len(override) > 0 {
		return override
	}
	return base
}
