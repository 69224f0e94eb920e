package stlog_test

import (
	"bytes"
	"fmt"

	"github.com/tarmac-project/stlog"
	"github.com/tarmac-project/stlog/stream"
)

const (
	DiskFull stlog.ErrorSite = iota // disk-full
	Timeout                         // timeout
)

func Example() {
	var capture bytes.Buffer
	out := stream.NewFramed(&capture)

	if err := stlog.Error(out, Timeout); err != nil {
		fmt.Println(err)
	}
	fmt.Println(capture.Bytes())
	// Output: [1 1]
}
