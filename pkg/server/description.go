package server

import (
	"fmt"
	"os"
	"strings"

	"github.com/inercia/shellfront/pkg/common"
)

// DefaultDescription is the instructions text sent to MCP clients
const DefaultDescription = `This server gives access to a shell session on the local machine.
Use the "shell" tool to run one command line at a time. The working directory
persists between calls: "cd" changes it and "pwd" prints it. Failures are
reported as tool errors whose text starts with "Error:".`

// DescriptionConfig lists where the server instructions come from
type DescriptionConfig struct {
	// Descriptions are given on the command line
	Descriptions []string
	// DescriptionFiles are read and appended in order
	DescriptionFiles []string
	// Override drops DefaultDescription instead of appending to it
	Override bool

	Logger *common.Logger
}

// GetDescription returns the instructions for the MCP server.
// It starts from DefaultDescription (unless overridden) and appends the
// command line descriptions and then the contents of the description files.
func GetDescription(cfg DescriptionConfig) (string, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = common.GetLogger()
	}

	var parts []string
	if !cfg.Override {
		parts = append(parts, DefaultDescription)
	}

	if len(cfg.Descriptions) > 0 {
		logger.Info("Using descriptions from command line flags")
		parts = append(parts, strings.Join(cfg.Descriptions, "\n"))
	}

	for _, file := range cfg.DescriptionFiles {
		logger.Info("Reading description from file: %s", file)
		content, err := os.ReadFile(file)
		if err != nil {
			logger.Error("Failed to read description file: %s - %v", file, err)
			return "", fmt.Errorf("failed to read description file %s: %w", file, err)
		}
		parts = append(parts, strings.TrimRight(string(content), "\n"))
	}

	return strings.Join(parts, "\n"), nil
}
