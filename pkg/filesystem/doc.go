// Package filesystem provides the afero filesystems used by enzyme and the
// small write primitives built on top of them.
//
// Production code uses NewOS; tests pass NewMemory (or afero.NewBasePathFs
// over a temp dir) wherever a component accepts an afero.Fs. WriteFileAtomic
// and AcquireLock are what the history store relies on to keep the state
// file consistent across crashes and concurrent installers.
package filesystem
