package stlog

import "sync/atomic"

// region holds the metadata region passed to Retain.
var region atomic.Pointer[string]

// Retain records the metadata region written by the build step. Generated
// code calls it from init. The region is readable through Region, and keep
// publishes its address so that no compiler can drop the region's data.
func Retain(r string) {
	region.Store(&r)
	keep(r)
}

// Region returns the region passed to Retain, or "" when the program was
// built without an embedded region.
func Region() string {
	if p := region.Load(); p != nil {
		return *p
	}
	return ""
}
