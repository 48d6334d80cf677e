// Command catalog runs the productos HTTP service and the merchant feed
// sync.
//
//	catalog serve      # default
//	catalog sync       # one merchant push, non-zero exit on failure
//	catalog version
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
