// Package main is the entry point for the walklog API server.
// Its sole responsibility is wiring dependencies together and starting the
// server or the migration tool. No business logic belongs here.
package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("walklog failed", "error", err)
		os.Exit(1)
	}
}
