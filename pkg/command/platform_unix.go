//go:build !windows

package command

import (
	"strings"
)

// getShellCommandArgs returns the correct arguments for different shell types on Unix systems
func getShellCommandArgs(shell string, command string) (string, []string) {
	shellLower := strings.ToLower(shell)

	// PowerShell Core is available on Unix too
	if strings.HasSuffix(shellLower, "pwsh") || strings.Contains(shellLower, "powershell") {
		return shell, []string{"-Command", command}
	}

	return shell, []string{"-c", command}
}

func defaultShell() string {
	return "/bin/sh"
}
