/*
Package hostcall sends ordinals from a WebAssembly guest to its host over
waPC.

Every event is one host call to the "stlog" capability whose payload is the
single ordinal byte. The waPC operation name is the level ("error", "warn",
...), so the level never travels in the payload. Zero-value Config options
fall back to DefaultNamespace and the default waPC host call; tests inject
Config.HostCall to exercise failure paths without a real host.

	client, _ := hostcall.New(hostcall.Config{})
	_ = stlog.Warn(client, LowBattery)

	global.MustSet(hostcall.Global(client))
*/
package hostcall
