// Package led owns the LED domain logic: the mapping between logical
// on/off state and the GPIO logic level (including active-low wiring),
// parsing of client-supplied state values, and the board status LED
// that mirrors the controlled LED for headless debugging.
//
// The controller keeps a single current level. Both input forms (raw
// level and logical state) update that one value atomically, so request
// handling never couples across calls.
package led
