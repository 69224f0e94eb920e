//go:build !tinygo

package stlog

// keep has nothing to do with gc: the linker keeps data referenced from
// package variables, and region is one.
func keep(string) {}
