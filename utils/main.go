// Package utils holds small process-lifecycle helpers shared by the CLI
// entrypoint.
package utils

import (
	"fmt"
	"os"

	mslogger "popshop/logger"
)

// FatalExit logs msg (with err, if non-nil) and terminates the process with
// a non-zero exit code. Used for startup failures the CLI cannot recover
// from, such as a config path that fails to load.
func FatalExit(msg string, err error) {
	if err != nil {
		mslogger.LogError(fmt.Sprintf("%s: %v", msg, err))
	} else {
		mslogger.LogError(msg)
	}
	mslogger.LogInfo("shutting down PopShop due to a critical error. Goodbye!")
	os.Exit(1)
}
