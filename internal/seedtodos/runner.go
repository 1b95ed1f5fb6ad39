package seedtodos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/mdtodo/pkg/logger"
)

// Run executes the complete seeding run: health check, generation,
// concurrent submission, and an optional CRUD verification pass.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting todo seeding run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("todos", config.NumTodos),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Bool("verify", config.Verify))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	todos := generateTodos(ctx, config, stats)

	if err := submitTodos(ctx, config, todos, stats); err != nil {
		return fmt.Errorf("todo submission failed: %w", err)
	}

	if err := listTodos(ctx, config, stats); err != nil {
		return fmt.Errorf("todo listing failed: %w", err)
	}

	if config.Verify {
		if err := verifyCRUDCycle(ctx, config); err != nil {
			return fmt.Errorf("CRUD verification failed: %w", err)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/health")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK || string(body) != "OK" {
		return fmt.Errorf("unexpected health response: %d %q", resp.StatusCode, body)
	}
	return nil
}

// submitTodos posts the generated todos concurrently using a worker pool.
func submitTodos(ctx context.Context, config *Config, todos []CreateRequest, stats *Stats) error {
	logger.Get().Info(ctx, "submitting todos",
		logger.Int("count", len(todos)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/api/todos"

	var successful, failed int64

	todoChan := make(chan CreateRequest, config.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range todoChan {
				resp, err := client.Post(ctx, url, req)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					continue
				}
				body, err := readResponseBody(resp)
				if err != nil || resp.StatusCode != http.StatusOK {
					atomic.AddInt64(&failed, 1)
					continue
				}
				var env TodoEnvelope
				if err := json.Unmarshal(body, &env); err != nil || !env.Success {
					atomic.AddInt64(&failed, 1)
					continue
				}
				atomic.AddInt64(&successful, 1)
				if config.Verbose {
					logger.Get().Debug(ctx, "created todo", logger.String("id", env.Data.ID))
				}
			}
		}()
	}

	for _, req := range todos {
		select {
		case <-ctx.Done():
			close(todoChan)
			wg.Wait()
			return ctx.Err()
		case todoChan <- req:
		}
	}
	close(todoChan)
	wg.Wait()

	stats.TodosSubmitted = len(todos)
	stats.TodosSuccessful = int(successful)
	stats.TodosFailed = int(failed)
	return nil
}

// listTodos fetches the collection once to confirm the seeded rows are
// visible.
func listTodos(ctx context.Context, config *Config, stats *Stats) error {
	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/api/todos")
	if err != nil {
		return err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return err
	}
	var env ListEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to decode list response: %w", err)
	}
	if !env.Success {
		return fmt.Errorf("list request was not successful")
	}
	stats.ListedTotal = len(env.Data)
	return nil
}

// verifyCRUDCycle creates, reads, updates and deletes one todo,
// checking each step.
func verifyCRUDCycle(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "verifying full CRUD cycle")

	client := newHTTPClient(config.Timeout)
	base := config.BaseURL + "/api/todos"

	// Create
	resp, err := client.Post(ctx, base, CreateRequest{Title: "seed verification", Content: "**temporary**"})
	if err != nil {
		return err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return err
	}
	var created TodoEnvelope
	if err := json.Unmarshal(body, &created); err != nil || !created.Success {
		return fmt.Errorf("create step failed: %d %q", resp.StatusCode, body)
	}
	itemURL := base + "/" + created.Data.ID

	// Read
	resp, err = client.Get(ctx, itemURL)
	if err != nil {
		return err
	}
	if _, err := readResponseBody(resp); err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("read step failed: %d", resp.StatusCode)
	}

	// Update
	resp, err = client.Patch(ctx, itemURL, map[string]any{"completed": true})
	if err != nil {
		return err
	}
	body, err = readResponseBody(resp)
	if err != nil {
		return err
	}
	var updated TodoEnvelope
	if err := json.Unmarshal(body, &updated); err != nil || !updated.Data.Completed {
		return fmt.Errorf("update step failed: %d %q", resp.StatusCode, body)
	}

	// Delete
	resp, err = client.Delete(ctx, itemURL)
	if err != nil {
		return err
	}
	if _, err := readResponseBody(resp); err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete step failed: %d", resp.StatusCode)
	}

	// Deleted row must be gone
	resp, err = client.Get(ctx, itemURL)
	if err != nil {
		return err
	}
	if _, err := readResponseBody(resp); err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("deleted todo still present: %d", resp.StatusCode)
	}
	return nil
}

// displayFinalStats logs the run summary.
func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "seeding run completed",
		logger.Int("generated", stats.TodosGenerated),
		logger.Int("submitted", stats.TodosSubmitted),
		logger.Int("successful", stats.TodosSuccessful),
		logger.Int("failed", stats.TodosFailed),
		logger.Int("listedTotal", stats.ListedTotal),
		logger.String("duration", stats.Duration.String()))
}
