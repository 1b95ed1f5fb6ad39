package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/mdtodo/internal/seedtodos"
	"github.com/okian/mdtodo/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumTodos   = 100
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8000", "Base URL of the service")
		numTodos = flag.Int("todos", defaultNumTodos, "Number of todos to generate and submit")
		workers  = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verify   = flag.Bool("verify", true, "Run a full CRUD cycle after seeding")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &seedtodos.Config{
		BaseURL:  *baseURL,
		NumTodos: *numTodos,
		Workers:  *workers,
		Timeout:  *timeout,
		Verify:   *verify,
		Verbose:  *verbose,
	}

	if err := seedtodos.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seeding run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
