//go:build tinygo

package stlog

import (
	"runtime/volatile"
	"unsafe"
)

// regionAddr receives the low word of the region's address. LLVM keeps
// volatile stores, and with them the region's data, even when nothing loads
// the variable.
var regionAddr uint32

func keep(r string) {
	volatile.StoreUint32(&regionAddr, uint32(uintptr(unsafe.Pointer(unsafe.StringData(r)))))
}
