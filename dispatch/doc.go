// Package dispatch implements the runtime substrate of generated object graphs:
// a small open-addressing table from a type identity to a slot index, and the
// ancestor walk that finds the most specific slot for an instance.
//
// A Table is filled once while a generated package initializes and is read
// only afterwards, so Get and Walk are safe for concurrent use without locks.
package dispatch
