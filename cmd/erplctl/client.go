package main

import (
	"context"
	"fmt"
	"os"

	"github.com/erpl-go/erpl"
	"github.com/erpl-go/erpl/internal/tracing"
)

// withTiming wraps ctx with a server-timing accumulator when --timing is
// set, and returns a finish func that prints the breakdown to stderr.
func withTiming(ctx context.Context) (context.Context, func()) {
	if !flagTiming {
		return ctx, func() {}
	}
	ctx, header := tracing.WithTimingHeader(ctx)
	ctx = tracing.WithHttpTimeAccumulator(ctx)
	started := ctx
	return ctx, func() {
		acc := tracing.HttpTimeAccumulatorFromContext(started)
		fmt.Fprintf(os.Stderr, "timing: %s\n", header.String())
		if acc != nil {
			fmt.Fprintf(os.Stderr, "timing: total transport time %s\n", acc.Duration())
		}
	}
}

func newClient() *erpl.Client {
	return erpl.NewClient()
}
