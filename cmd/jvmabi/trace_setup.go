package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jvmabi/internal/trace"
)

// setupTracing initializes the tracer from config and attaches it to the
// command context. It returns a cleanup function.
func setupTracing(cmd *cobra.Command, v *viper.Viper) (func(), error) {
	level, err := trace.ParseLevel(v.GetString(keyTraceLevel))
	if err != nil {
		return nil, err
	}
	output := v.GetString(keyTracePath)
	if level == trace.LevelOff {
		if output != "" {
			level = trace.LevelPhase
		} else {
			cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
			return func() {}, nil
		}
	}
	format, err := trace.ParseFormat(v.GetString(keyTraceFormat))
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Format:     format,
		OutputPath: output,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	root := trace.Begin(tracer, trace.ScopeDriver, cmd.CommandPath(), 0)
	ctx := trace.WithTracer(cmd.Context(), tracer)
	ctx = trace.WithSpan(ctx, root)
	cmd.SetContext(ctx)

	cleanup := func() {
		root.End("")
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}
