// Package deploy builds a native plugin with an external toolchain and moves the resulting
// shared library into the project that consumes it.
// Commands run through mvdan.cc/sh so that the move step behaves the same on every platform.
package deploy
