/*
Package decoder turns captured ordinals back into messages.

A Decoder is built from the tables of the exact artifact that produced the
capture, either the artifact itself or its YAML manifest:

	d, err := decoder.Open("firmware.elf")
	for line, err := range d.Stream(capture) {
	  if err != nil {
	    // one bad event; decoding continues
	    continue
	  }
	  fmt.Println(line)
	}

Each event is decoded on its own. An ordinal past the end of its table, or
a level without a table, yields a *DecodeError for that event only.
*/
package decoder
