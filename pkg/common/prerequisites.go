package common

import (
	"os/exec"
	"runtime"
)

// CheckExecutableExists checks if a command is available in the system PATH.
func CheckExecutableExists(executableName string) bool {
	_, err := exec.LookPath(executableName)
	return err == nil
}

// CheckOSMatches checks if the current operating system matches the required OS.
// An empty requiredOS always matches.
func CheckOSMatches(requiredOS string) bool {
	if requiredOS == "" {
		return true
	}
	return runtime.GOOS == requiredOS
}

// IsWindows reports whether shellfront is running on Windows
func IsWindows() bool {
	return CheckOSMatches("windows")
}
