package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/weeklysync/internal/config"
	ferrors "git.home.luguber.info/inful/weeklysync/internal/foundation/errors"
	"git.home.luguber.info/inful/weeklysync/internal/taxonomy"
)

const readme = "# 科技爱好者周刊\n\n- [第 360 期](docs/issue-360.md) 运维的未来\n- [第 359 期](docs/issue-359.md)\n"

type testEnv struct {
	dir        string
	configPath string
	outputPath string
	cachePath  string
	textfile   string
	stdout     *bytes.Buffer
	stderr     *bytes.Buffer
}

func newTestEnv(t *testing.T, handler http.HandlerFunc, extra string) *testEnv {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	env := &testEnv{
		dir:        dir,
		configPath: filepath.Join(dir, "weeklysync.yaml"),
		outputPath: filepath.Join(dir, "web", "data", "ruanyf-weekly.yml"),
		cachePath:  filepath.Join(dir, "tmp", "README.md"),
		textfile:   filepath.Join(dir, "metrics", "weeklysync.prom"),
		stdout:     &bytes.Buffer{},
		stderr:     &bytes.Buffer{},
	}
	content := fmt.Sprintf(`source:
  url: %s/README.md
  cache_path: %s
output:
  path: %s
logging:
  level: error
metrics:
  textfile: %s
%s`, srv.URL, env.cachePath, env.outputPath, env.textfile, extra)
	require.NoError(t, os.WriteFile(env.configPath, []byte(content), 0o600))
	return env
}

func serveReadme(w http.ResponseWriter, _ *http.Request) {
	_, _ = io.WriteString(w, readme)
}

func parse(t *testing.T, args ...string) (*kong.Context, *CLI) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("weeklysync"),
		kong.Vars{"version": "test"},
		kong.Exit(func(int) { t.Fatalf("unexpected exit for %v", args) }),
	)
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return ctx, cli
}

func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	ctx, cli := parse(t, args...)
	return ctx.Run(NewGlobal(context.Background(), e.stdout, e.stderr), cli)
}

func TestParse_DefaultsToSync(t *testing.T) {
	ctx, cli := parse(t)
	assert.Equal(t, "sync", ctx.Command())
	assert.False(t, cli.Sync.Merge)

	path, required := cli.ConfigPath()
	assert.Equal(t, config.DefaultConfigPath, path)
	assert.False(t, required)
}

func TestParse_ExplicitConfigIsRequired(t *testing.T) {
	_, cli := parse(t, "-c", "custom.yaml", "sync", "--merge")
	path, required := cli.ConfigPath()
	assert.Equal(t, "custom.yaml", filepath.Base(path))
	assert.True(t, required)
	assert.True(t, cli.Sync.Merge)
}

func TestSync_WritesDataFileAndReportsPath(t *testing.T) {
	env := newTestEnv(t, serveReadme, "")

	require.NoError(t, env.run(t, "-c", env.configPath))
	assert.Equal(t, "已更新 "+env.outputPath+"\n", env.stdout.String())

	raw, err := os.ReadFile(env.cachePath)
	require.NoError(t, err)
	assert.Equal(t, readme, string(raw))

	data, err := os.ReadFile(env.outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `taxonomy: "2024"`)
	assert.Contains(t, string(data), "term: 12月")
	assert.Contains(t, string(data), "description: 运维的未来")

	prom, err := os.ReadFile(env.textfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "weeklysync_entries 2")
	assert.Contains(t, string(prom), `weeklysync_run_outcomes_total{outcome="success"} 1`)
}

func TestSync_MergeFlagKeepsOldYears(t *testing.T) {
	env := newTestEnv(t, serveReadme, "")
	old := "- taxonomy: \"2019\"\n  icon: fa-lightbulb-o\n  list: []\n"
	require.NoError(t, os.MkdirAll(filepath.Dir(env.outputPath), 0o750))
	require.NoError(t, os.WriteFile(env.outputPath, []byte(old), 0o600))

	require.NoError(t, env.run(t, "-c", env.configPath, "sync", "--merge"))

	cfg, err := config.Load(env.configPath, true)
	require.NoError(t, err)
	assert.Equal(t, taxonomy.PolicyReplace, cfg.Output.Policy, "flag must not rewrite the file")

	data, err := os.ReadFile(env.outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `taxonomy: "2024"`)
	assert.Contains(t, string(data), `taxonomy: "2019"`)
}

func TestSync_FetchFailureIsNetworkError(t *testing.T) {
	env := newTestEnv(t, http.NotFound, "")

	err := env.run(t, "-c", env.configPath)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNetwork))
	assert.Equal(t, 8, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	assert.Empty(t, env.stdout.String())

	_, statErr := os.Stat(env.outputPath)
	assert.True(t, os.IsNotExist(statErr))

	prom, err := os.ReadFile(env.textfile)
	require.NoError(t, err, "metrics are written for failed runs too")
	assert.Contains(t, string(prom), `weeklysync_run_outcomes_total{outcome="failed"} 1`)
}

func TestSync_MissingExplicitConfig(t *testing.T) {
	env := &testEnv{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}

	err := env.run(t, "-c", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, 7, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestRunSync_NoTextfileWithoutConfig(t *testing.T) {
	env := newTestEnv(t, serveReadme, "")
	cfg, err := config.Load(env.configPath, true)
	require.NoError(t, err)
	cfg.Metrics.Textfile = ""

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	report, err := RunSync(context.Background(), cfg, logger)
	require.NoError(t, err)
	assert.True(t, report.Succeeded())
	assert.Equal(t, 2, report.Entries)
	assert.Equal(t, 1, report.Years)

	_, statErr := os.Stat(env.textfile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestInit_WritesConfig(t *testing.T) {
	env := &testEnv{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	path := filepath.Join(t.TempDir(), "weeklysync.yaml")

	require.NoError(t, env.run(t, "-c", path, "init"))
	assert.Contains(t, env.stdout.String(), path)

	cfg, err := config.Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)

	err = env.run(t, "-c", path, "init")
	require.Error(t, err)
	require.NoError(t, env.run(t, "-c", path, "init", "--force"))
}
