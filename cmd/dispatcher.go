package root

import (
	"fmt"
	"os"

	"github.com/inercia/shellfront/pkg/command"
	"github.com/inercia/shellfront/pkg/common"
	"github.com/inercia/shellfront/pkg/config"
	"github.com/inercia/shellfront/pkg/shell"
)

// newDispatcher builds a dispatcher from the configuration. The runner,
// guards and shell settings come from cfg; opts carries the palette and the
// terminal streams, which depend on how shellfront was started.
func newDispatcher(cfg *config.Config, logger *common.Logger, opts shell.Options) (*shell.Dispatcher, error) {
	runner, err := command.NewRunner(command.RunnerType(cfg.Run.Runner), command.RunnerOptions(cfg.Run.Options), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}
	if err := runner.CheckImplicitRequirements(); err != nil {
		return nil, fmt.Errorf("runner '%s' cannot be used: %w", cfg.Run.Runner, err)
	}

	guards, err := common.NewCompiledGuards(cfg.Guards, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to compile guards: %w", err)
	}

	opts.Runner = runner
	opts.Guards = guards
	opts.Interpreter = cfg.Shell.Interpreter
	opts.Env = cfg.Run.Env
	opts.Editor = cfg.Shell.Editor
	opts.Separator = cfg.Shell.Separator
	opts.Logger = logger

	return shell.NewDispatcher(opts)
}

// colorEnabled decides whether listings written to out are colored.
// --no-color and NO_COLOR always win; "auto" colors terminals only.
func colorEnabled(mode config.ColorMode, out *os.File) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}

	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return shell.IsTerminal(out)
}
