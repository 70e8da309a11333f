//go:build windows

package command

import (
	"os"
	"strings"
)

// getShellCommandArgs returns the correct arguments for different shell types on Windows
func getShellCommandArgs(shell string, command string) (string, []string) {
	shellLower := strings.ToLower(shell)

	if strings.HasSuffix(shellLower, "cmd") || strings.HasSuffix(shellLower, "cmd.exe") {
		return shell, []string{"/c", command}
	}

	if strings.Contains(shellLower, "powershell") || strings.HasSuffix(shellLower, "pwsh.exe") {
		return shell, []string{"-Command", command}
	}

	// bash and friends from WSL or MSYS
	return shell, []string{"-c", command}
}

func defaultShell() string {
	if comspec := os.Getenv("COMSPEC"); comspec != "" {
		return comspec
	}
	return "cmd.exe"
}
