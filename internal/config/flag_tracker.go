package config

import (
	"sync"

	"github.com/spf13/pflag"
)

// FlagTracker records which command line flags the user set explicitly, so
// that only those override values loaded from a configuration file.
type FlagTracker struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewFlagTracker creates an empty tracker
func NewFlagTracker() *FlagTracker {
	return &FlagTracker{
		flags: make(map[string]bool),
	}
}

// NewFlagTrackerWithFlags creates a tracker from a copy of flags
func NewFlagTrackerWithFlags(flags map[string]bool) *FlagTracker {
	copied := make(map[string]bool, len(flags))
	for k, v := range flags {
		copied[k] = v
	}
	return &FlagTracker{
		flags: copied,
	}
}

// NewFlagTrackerFromFlagSet marks every flag of fs that was changed on the
// command line
func NewFlagTrackerFromFlagSet(fs *pflag.FlagSet) *FlagTracker {
	ft := NewFlagTracker()
	if fs == nil {
		return ft
	}
	fs.Visit(func(f *pflag.Flag) {
		ft.Set(f.Name)
	})
	return ft
}

// Set marks a flag as explicitly set
func (ft *FlagTracker) Set(flagName string) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.flags[flagName] = true
}

// WasSet checks if a flag was explicitly set
func (ft *FlagTracker) WasSet(flagName string) bool {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	return ft.flags[flagName]
}

// GetAll returns a copy of all tracked flags
func (ft *FlagTracker) GetAll() map[string]bool {
	ft.mu.RLock()
	defer ft.mu.RUnlock()

	result := make(map[string]bool, len(ft.flags))
	for k, v := range ft.flags {
		result[k] = v
	}
	return result
}

// Clear removes all flag tracking
func (ft *FlagTracker) Clear() {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.flags = make(map[string]bool)
}

// Count returns the number of explicitly set flags
func (ft *FlagTracker) Count() int {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	return len(ft.flags)
}

// MergeString merges a string value using the tracked flags
func (ft *FlagTracker) MergeString(base, override, flagName string) string {
	return MergeString(base, override, flagName, ft.GetAll())
}

// MergeInt merges an int value using the tracked flags
func (ft *FlagTracker) MergeInt(base, override int, flagName string) int {
	return MergeInt(base, override, flagName, ft.GetAll())
}

// MergeBool merges a bool value using the tracked flags
func (ft *FlagTracker) MergeBool(base, override bool, flagName string) bool {
	return MergeBool(base, override, flagName, ft.GetAll())
}

// MergeStringSlice merges a string slice using the tracked flags
func (ft *FlagTracker) MergeStringSlice(base, override []string, flagName string) []string {
	return MergeStringSlice(base, override, flagName, ft.GetAll())
}
