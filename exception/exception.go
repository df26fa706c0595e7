package exception

import (
	"os"
	"runtime/debug"

	"starnotary/logx"
)

// SafeGoWithPanic runs fn on its own goroutine; a panic is logged with its
// stack and brings the process down. Used for goroutines the node cannot run
// without, like the RPC listener.
func SafeGoWithPanic(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logx.Error("Panic in: ", name, r, string(debug.Stack()))
				os.Exit(1)
			}
		}()
		fn()
	}()
}
