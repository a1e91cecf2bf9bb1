// Package bench times the registered mappers against a hand-written mapping
// of the same shapes.
//
// A Runner executes each Case a fixed number of times and reports the
// elapsed time per operation. Time is read from a clockz.Clock so tests can
// drive it with a fake clock.
package bench
