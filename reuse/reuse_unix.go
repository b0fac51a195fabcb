//go:build !plan9 && !windows && !wasm
// +build !plan9,!windows,!wasm

package reuse

import "syscall"

// Control sets SO_REUSEADDR so a restarted server can rebind while old
// sessions linger in TIME_WAIT.
func Control(network, address string, conn syscall.RawConn) error {
	var sErr error
	err := conn.Control(func(fd uintptr) {
		sErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return sErr
}
