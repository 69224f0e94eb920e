/*
Package hostmock provides a pretend waPC host for stlog transports.

It lets tests check exactly what a guest sends to the host without a host
running: which operation each ordinal went to, and which bytes. Accepted
calls are recorded, so the mock doubles as a counting fake transport.

Quick start

	m, _ := hostmock.New(hostmock.Config{
	  ExpectedNamespace:  "tarmac",
	  ExpectedCapability: "stlog",
	  PayloadValidator: func(p []byte) error {
	    if len(p) != 1 {
	      return errors.New("want one byte")
	    }
	    return nil
	  },
	})

	client, _ := hostcall.New(hostcall.Config{HostCall: m.HostCall})
	_ = stlog.Error(client, Timeout)

	m.Count()           // 1
	m.Payloads("error") // []byte{1}

Behavior

  - If Fail is true and Error is set, HostCall returns that error.
  - If Fail is true and Error is nil, HostCall returns ErrOperationFailed.
  - Otherwise HostCall enforces the Expected fields that are set and runs
    PayloadValidator when provided. Accepted calls are recorded and Response
    (when set) provides the return bytes.
  - Leave Expected fields blank for a wildcard.
*/
package hostmock
