package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woolly-dev/woolly/internal/codec"
	"github.com/woolly-dev/woolly/internal/paths"
	"github.com/woolly-dev/woolly/internal/sqlite"
	"github.com/woolly-dev/woolly/pkg/types"
)

// run executes the root command in home with args and returns stdout.
func run(t *testing.T, home, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--home", home}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// mustRun runs args and fails the test on error.
func mustRun(t *testing.T, home string, args ...string) string {
	t.Helper()
	out, err := run(t, home, "", args...)
	require.NoError(t, err, "woolly %s: %s", strings.Join(args, " "), out)
	return out
}

// showPlan returns the stored plan of ref as decoded from plan show --json.
func showPlan(t *testing.T, home, ref string) *types.Plan {
	t.Helper()
	out := mustRun(t, home, "--json", "plan", "show", ref)
	plan, err := codec.Unmarshal([]byte(out))
	require.NoError(t, err)
	return plan
}

const importDoc = `{
  "projectName": "Checkout",
  "phases": [
    {
      "phaseNumber": 1,
      "title": "Foundations",
      "status": "in-progress",
      "description": "",
      "checklist": [
        {"id": "t1", "category": "api", "description": "Add endpoint", "status": "to-do", "priority": "high"},
        {"id": "t2", "category": "db", "description": "Migrate", "status": "in-Progress", "priority": "low"}
      ]
    },
    {
      "phaseNumber": 2,
      "title": "Polish",
      "status": "pending",
      "description": "",
      "checklist": []
    }
  ]
}`

func TestInitCreatesConfig(t *testing.T) {
	home := filepath.Join(t.TempDir(), "home")
	out := mustRun(t, home, "init")
	assert.Contains(t, out, "Woolly initialized in "+home)
	assert.Contains(t, out, "backend: file")
	assert.FileExists(t, paths.ConfigFile(home))

	cfg, err := readConfigFile(paths.ConfigFile(home))
	require.NoError(t, err)
	assert.Equal(t, types.BackendFile, cfg.Backend)
	assert.Equal(t, defaultServerAddr, cfg.Server.Addr)
}

func TestInitSQLite(t *testing.T) {
	home := t.TempDir()
	mustRun(t, home, "init", "--backend", "sqlite")
	assert.FileExists(t, filepath.Join(home, sqlite.DatabaseFileName))

	mustRun(t, home, "plan", "init", "feature/checkout", "--phases", "One")
	assert.Equal(t, "feature/checkout\n", mustRun(t, home, "projects", "list"))
}

func TestInitRejectsHTTPBackend(t *testing.T) {
	_, err := run(t, t.TempDir(), "", "init", "--backend", "http")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestVersion(t *testing.T) {
	out := mustRun(t, t.TempDir(), "version")
	assert.Equal(t, "woolly "+Version+"\nmodule: "+modulePath+"\n", out)
}

func TestPlanInitAndShow(t *testing.T) {
	home := t.TempDir()
	out := mustRun(t, home, "plan", "init", "feature/checkout", "--phases", "Foundations,Polish", "--description", "One-page checkout")
	assert.Equal(t, "Created plan feature/checkout with 2 phases\n", out)

	plan := showPlan(t, home, "feature/checkout")
	assert.Equal(t, "checkout", plan.ProjectName)
	assert.Equal(t, "One-page checkout", plan.Description)
	require.Len(t, plan.Phases, 2)
	assert.Equal(t, types.StatusPending, plan.Phases[1].Status)

	_, err := run(t, home, "", "plan", "init", "feature/checkout")
	assert.Error(t, err, "existing plans are kept without --force")
	mustRun(t, home, "plan", "init", "feature/checkout", "--force")
	assert.Empty(t, showPlan(t, home, "feature/checkout").Phases)

	text := mustRun(t, home, "plan", "show", "feature/checkout")
	assert.Contains(t, text, "Project:   checkout (feature/checkout)")
	assert.Contains(t, text, "Revision:  ")
}

func TestPlanImportFromStdin(t *testing.T) {
	home := t.TempDir()
	out, err := run(t, home, importDoc, "plan", "import", "feature/checkout")
	require.NoError(t, err)
	assert.Equal(t, "Imported plan feature/checkout\n", out)

	lanes := mustRun(t, home, "plan", "show", "feature/checkout", "--lanes")
	assert.Contains(t, lanes, "To Do (1)\n  t1  Add endpoint\n")
	assert.Contains(t, lanes, "In Progress (1)\n  t2  Migrate\n")
	assert.Contains(t, lanes, "Blocked (0)\n")

	phases := mustRun(t, home, "plan", "show", "feature/checkout", "--lanes", "--phases")
	assert.Contains(t, phases, "In Progress (1)\n  phase-1  Foundations\n")

	_, err = run(t, home, "{not json", "plan", "import", "feature/other")
	assert.ErrorIs(t, err, types.ErrInvalidPlan)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestTaskAddMoveEdit(t *testing.T) {
	home := t.TempDir()
	_, err := run(t, home, importDoc, "plan", "import", "feature/checkout")
	require.NoError(t, err)

	out := mustRun(t, home, "task", "add", "feature/checkout", "Write docs", "--id", "t3", "--phase", "2", "--priority", "high")
	assert.Equal(t, "Added t3 to phase 2\n", out)

	out = mustRun(t, home, "task", "move", "feature/checkout", "t3", "completed")
	assert.Equal(t, "Moved t3 to Completed\n", out)

	out = mustRun(t, home, "task", "edit", "feature/checkout", "t1", "--description", "Add /pay endpoint", "--category", "backend")
	assert.Equal(t, "Updated t1\n", out)

	plan := showPlan(t, home, "feature/checkout")
	task, phase, ok := plan.FindTask("t3")
	require.True(t, ok)
	assert.Equal(t, 2, phase)
	assert.Equal(t, types.StatusCompleted, task.Status)
	assert.Equal(t, "Write docs", task.Description)

	task, _, ok = plan.FindTask("t1")
	require.True(t, ok)
	assert.Equal(t, "Add /pay endpoint", task.Description)
	assert.Equal(t, "backend", task.Category)
	assert.Equal(t, "high", task.Priority)
}

func TestTaskAddGeneratesID(t *testing.T) {
	home := t.TempDir()
	mustRun(t, home, "plan", "init", "feature/checkout", "--phases", "One")

	out := mustRun(t, home, "--json", "task", "add", "feature/checkout", "Something")
	var task types.Task
	require.NoError(t, json.Unmarshal([]byte(out), &task))
	assert.Len(t, task.ID, 36)
	assert.Equal(t, types.StatusToDo, task.Status)
	assert.Equal(t, types.PriorityMedium, task.Priority)
}

func TestTaskMoveJSON(t *testing.T) {
	home := t.TempDir()
	_, err := run(t, home, importDoc, "plan", "import", "feature/checkout")
	require.NoError(t, err)

	out := mustRun(t, home, "--json", "task", "move", "feature/checkout", "t2", "in-progress")
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "in-progress", got["status"])
	assert.NotEmpty(t, got["revision"])

	task, _, _ := showPlan(t, home, "feature/checkout").FindTask("t2")
	assert.Equal(t, types.StatusInProgress, task.Status, "alias is normalized on write")
}

func TestPhaseMove(t *testing.T) {
	home := t.TempDir()
	_, err := run(t, home, importDoc, "plan", "import", "feature/checkout")
	require.NoError(t, err)

	out := mustRun(t, home, "phase", "move", "feature/checkout", "2", "blocked")
	assert.Equal(t, "Moved phase-2 to Blocked\n", out)
	assert.Equal(t, types.StatusBlocked, showPlan(t, home, "feature/checkout").Phases[1].Status)
}

func TestExitCodes(t *testing.T) {
	home := t.TempDir()
	_, err := run(t, home, importDoc, "plan", "import", "feature/checkout")
	require.NoError(t, err)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  error
	}{
		{name: "missing plan", args: []string{"plan", "show", "feature/nope"}, wantCode: exitUserError, wantErr: types.ErrNotFound},
		{name: "bad mode", args: []string{"plan", "show", "epic/x"}, wantCode: exitUserError, wantErr: types.ErrInvalidMode},
		{name: "bad column", args: []string{"task", "move", "feature/checkout", "t1", "done"}, wantCode: exitUserError, wantErr: types.ErrInvalidColumn},
		{name: "unknown task", args: []string{"task", "move", "feature/checkout", "t9", "blocked"}, wantCode: exitUserError, wantErr: types.ErrCardNotFound},
		{name: "bad priority", args: []string{"task", "add", "feature/checkout", "x", "--priority", "urgent"}, wantCode: exitUserError, wantErr: types.ErrInvalidPriority},
		{name: "duplicate id", args: []string{"task", "add", "feature/checkout", "x", "--id", "t1"}, wantCode: exitUserError, wantErr: types.ErrDuplicateTaskID},
		{name: "bad phase number", args: []string{"phase", "move", "feature/checkout", "two", "blocked"}, wantCode: exitUserError},
		{name: "unknown flag", args: []string{"plan", "show", "--nope"}, wantCode: exitUserError},
		{name: "bad log level", args: []string{"--log-level", "loud", "projects", "list"}, wantCode: exitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, home, "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, exitCode(err))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestProjectsList(t *testing.T) {
	home := t.TempDir()
	assert.Equal(t, "No projects\n", mustRun(t, home, "projects", "list"))

	mustRun(t, home, "plan", "init", "feature/b")
	mustRun(t, home, "plan", "init", "feature/a")
	mustRun(t, home, "plan", "init", "script/backup")

	assert.Equal(t, "feature/a\nfeature/b\nscript/backup\n", mustRun(t, home, "projects", "list"))
	assert.Equal(t, "script/backup\n", mustRun(t, home, "projects", "list", "script"))

	var refs []types.ProjectRef
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, home, "--json", "projects", "list", "feature")), &refs))
	assert.Equal(t, []types.ProjectRef{
		{Mode: types.ModeFeature, Name: "a"},
		{Mode: types.ModeFeature, Name: "b"},
	}, refs)
}

func TestMigrate(t *testing.T) {
	home := t.TempDir()
	_, err := run(t, home, importDoc, "plan", "import", "feature/checkout")
	require.NoError(t, err)
	mustRun(t, home, "plan", "init", "debug/crash")
	before := showPlan(t, home, "feature/checkout")

	out := mustRun(t, home, "migrate", "--to", "sqlite", "--switch")
	assert.Equal(t, "Copied 2 plans from file to sqlite\n", out)

	cfg, err := readConfigFile(paths.ConfigFile(home))
	require.NoError(t, err)
	assert.Equal(t, types.BackendSQLite, cfg.Backend)

	assert.Equal(t, before, showPlan(t, home, "feature/checkout"))
	assert.Equal(t, "feature/checkout\ndebug/crash\n", mustRun(t, home, "projects", "list"))

	_, err = run(t, home, "", "migrate", "--to", "sqlite")
	assert.Equal(t, exitUserError, exitCode(err))
}
