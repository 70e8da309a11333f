package common

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// Variables visible to guard expressions
const (
	GuardVarCommand = "command"
	GuardVarCwd     = "cwd"
)

// CompiledGuards holds the compiled CEL programs that decide whether a
// command line may be handed to the external interpreter.
type CompiledGuards struct {
	exprs    []string
	programs []cel.Program
	logger   *Logger
}

// NewCompiledGuards compiles a list of CEL guard expressions.
// Every expression sees two string variables, `command` (the full line)
// and `cwd` (the session working directory), and must return a boolean.
func NewCompiledGuards(guards []string, logger *Logger) (*CompiledGuards, error) {
	if logger == nil {
		logger = GetLogger()
	}

	cg := &CompiledGuards{logger: logger}
	if len(guards) == 0 {
		return cg, nil
	}

	env, err := cel.NewEnv(
		cel.Variable(GuardVarCommand, cel.StringType),
		cel.Variable(GuardVarCwd, cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	for _, expr := range guards {
		ast, issues := env.Compile(expr)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("failed to compile guard '%s': %w", expr, issues.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("guard '%s' must evaluate to a boolean, got %s", expr, ast.OutputType())
		}

		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("failed to create program for guard '%s': %w", expr, err)
		}

		cg.exprs = append(cg.exprs, expr)
		cg.programs = append(cg.programs, prg)
	}

	logger.Debug("Compiled %d guards", len(cg.programs))
	return cg, nil
}

// Len returns the number of compiled guards
func (cg *CompiledGuards) Len() int {
	if cg == nil {
		return 0
	}
	return len(cg.programs)
}

// Evaluate runs every guard against the command line.
//
// Returns:
//   - true and "" when all guards pass (or there are none)
//   - false and the first failing expression otherwise
//   - an error if a guard cannot be evaluated
func (cg *CompiledGuards) Evaluate(command string, cwd string) (bool, string, error) {
	if cg.Len() == 0 {
		return true, "", nil
	}

	vars := map[string]interface{}{
		GuardVarCommand: command,
		GuardVarCwd:     cwd,
	}

	for i, prg := range cg.programs {
		val, _, err := prg.Eval(vars)
		if err != nil {
			cg.logger.Error("Guard #%d evaluation error: %v", i+1, err)
			return false, cg.exprs[i], fmt.Errorf("guard evaluation error: %w", err)
		}

		ok, isBool := val.Value().(bool)
		if !isBool {
			return false, cg.exprs[i], fmt.Errorf("guard '%s' did not evaluate to a boolean", cg.exprs[i])
		}
		if !ok {
			cg.logger.Info("Guard #%d rejected command: %s", i+1, command)
			return false, cg.exprs[i], nil
		}
	}

	return true, "", nil
}
