package main

import (
	"context"
	"fmt"
	"os"

	"gradecheck/cmd/gradecheck/commands"
	"gradecheck/internal/components/telemetry"
	"gradecheck/pkg/osutil"
)

func main() {
	ctx, cancel := osutil.SignalContext(context.Background())

	otel, err := telemetry.SetupFromEnv(ctx, "gradecheck")
	if err != nil {
		fmt.Fprintln(os.Stderr, "setup telemetry:", err)
	}

	code := commands.ExecuteContext(ctx)

	err = otel.Shutdown(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "shutdown telemetry:", err)
	}
	cancel()
	os.Exit(code)
}
