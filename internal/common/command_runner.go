package common

import (
	"context"
	"fmt"
	"io"

	"resumelift/internal/errors"
)

// CreateInputFunc builds the operation input from the text of the input files.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc logs the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// OperationFunc runs the command's operation on its input.
type OperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// Command describes one file-based CLI run.
type Command[Input, Output any] struct {
	Config      CommandConfig
	Files       []string
	MaxFileSize int64
	CreateInput CreateInputFunc[Input]
	Operation   OperationFunc[Input, Output]
	LogDetails  LogDetailsFunc[Input]

	// Stdout replaces os.Stdout when set.
	Stdout io.Writer
}

// RunCommand reads the input files, builds the input, runs the operation and
// writes its formatted result.
func RunCommand[Input, Output any](ctx context.Context, logger *errors.Logger, cmd Command[Input, Output]) error {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	fileProcessor := NewFileProcessor(logger, cmd.MaxFileSize)
	outputHandler := NewOutputHandler(logger)
	if cmd.Stdout != nil {
		outputHandler = NewOutputHandlerWithWriter(logger, cmd.Stdout)
	}

	contents, err := fileProcessor.ValidateAndReadFiles(ctx, cmd.Files...)
	if err != nil {
		return err
	}

	input, err := cmd.CreateInput(contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	if cmd.LogDetails != nil {
		cmd.LogDetails(input, cmd.Config)
	}

	result, err := cmd.Operation(ctx, input)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmd.Config)
}
