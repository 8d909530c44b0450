package cli

import (
	"encoding/json"
	"io"

	"github.com/danieljhkim/modcheck/internal/clock"
	"github.com/danieljhkim/modcheck/internal/engine"
	"github.com/danieljhkim/modcheck/internal/fsops"
	"github.com/danieljhkim/modcheck/internal/logging"
	"github.com/danieljhkim/modcheck/internal/runner"
)

// newRunner creates the package-manager runner. Its output goes to out.
// Tests replace it with a fake.
var newRunner = func(out io.Writer) runner.Runner {
	r := runner.NewExecRunner()
	r.Stdout = out
	return r
}

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine(out io.Writer) *engine.Engine {
	return engine.New(fsops.NewRealFS(), newRunner(out), clock.SystemClock{}, logging.Setup())
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
