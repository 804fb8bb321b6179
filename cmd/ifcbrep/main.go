// Command ifcbrep converts taxonomy documents into solid models.
//
// Usage:
//
//	ifcbrep convert -o model.obj walls.yaml
//	ifcbrep preview -o plan.png walls.yaml
//	ifcbrep inspect walls.yaml
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
