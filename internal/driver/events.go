package driver

import "tarn/internal/names"

// Event describes one completed definition.
type Event struct {
	Name   names.Name
	Index  int // position in the sorted definition order
	Total  int
	Failed bool
}

// Observer receives an event after each definition completes. Lower
// invokes it from worker goroutines; implementations that aggregate
// must synchronize themselves.
type Observer func(Event)
