// Package filesystem provides the OS-backed implementation of the
// types.FS seam.
package filesystem
