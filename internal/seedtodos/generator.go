package seedtodos

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/okian/mdtodo/pkg/logger"
)

// Sample material for generated todos. Content is markdown on purpose;
// the service stores it verbatim.
var sampleTitles = []string{
	"Review pull request",
	"Write release notes",
	"Refactor storage layer",
	"Plan sprint backlog",
	"Update onboarding docs",
	"Fix flaky integration test",
	"Prepare demo environment",
	"Audit error handling",
}

var sampleContents = []string{
	"# Notes\n\n- check the edge cases\n- keep it **short**",
	"Remember the [style guide](https://example.com/style).",
	"```go\n// snippet to revisit\n```",
	"1. draft\n2. review\n3. ship",
	"",
	"Needs input from the *platform* team.",
}

// generateTodos creates the requested number of sample create requests.
func generateTodos(ctx context.Context, config *Config, stats *Stats) []CreateRequest {
	logger.Get().Info(ctx, "generating sample todos", logger.Int("numTodos", config.NumTodos))

	todos := make([]CreateRequest, config.NumTodos)
	for i := range todos {
		todos[i] = CreateRequest{
			Title:   fmt.Sprintf("%s #%d", sampleTitles[rand.Intn(len(sampleTitles))], i+1),
			Content: sampleContents[rand.Intn(len(sampleContents))],
		}
	}

	stats.TodosGenerated = len(todos)
	return todos
}
