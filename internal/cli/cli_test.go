package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aisdk/config"
	"aisdk/internal/core"
	"aisdk/internal/mockapi"
)

const testKey = "sk-cli-test"

// setupMock points the CLI configuration at a fresh mock server.
func setupMock(t *testing.T) {
	t.Helper()
	srv := httptest.NewServer(mockapi.New(&mockapi.Config{MasterKey: testKey}))
	t.Cleanup(srv.Close)

	t.Setenv("AISDK_CONFIG", "")
	t.Setenv("AISDK_BASE_URL", srv.URL+"/v1")
	t.Setenv("AISDK_API_KEY", testKey)
	t.Setenv("AISDK_MAX_RETRIES", "0")
	t.Setenv("CIRCUIT_BREAKER_ENABLED", "false")
	t.Setenv("AISDK_CACHE_TYPE", "none")
	t.Setenv("STORAGE_TYPE", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "jobs.db"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("METRICS_ENABLED", "false")
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

var fileIDPattern = regexp.MustCompile(`file-[0-9a-f]+`)

func uploadFile(t *testing.T, purpose, name, content string) string {
	t.Helper()
	out, err := runCLI(t, "files", "upload", "--purpose", purpose, writeFile(t, name, content))
	require.NoError(t, err)
	id := fileIDPattern.FindString(out)
	require.NotEmpty(t, id, "upload output %q", out)
	return id
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "aisdk "), out)
}

func TestFilesCommands(t *testing.T) {
	setupMock(t)
	id := uploadFile(t, "assistants", "notes.txt", "hello from cli\n")

	out, err := runCLI(t, "files", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "FILENAME")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "notes.txt")

	out, err = runCLI(t, "files", "list", "--purpose", "fine-tune")
	require.NoError(t, err)
	assert.NotContains(t, out, id)

	out, err = runCLI(t, "files", "get", id)
	require.NoError(t, err)
	assert.Contains(t, out, `"filename": "notes.txt"`)

	out, err = runCLI(t, "files", "download", id)
	require.NoError(t, err)
	assert.Equal(t, "hello from cli\n", out)

	dest := filepath.Join(t.TempDir(), "copy.txt")
	_, err = runCLI(t, "files", "download", id, "-o", dest)
	require.NoError(t, err)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "hello from cli\n", string(data))

	out, err = runCLI(t, "files", "delete", id)
	require.NoError(t, err)
	assert.Equal(t, "Deleted "+id+"\n", out)

	_, err = runCLI(t, "files", "get", id)
	var apiErr *core.APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestFilesUploadSeveral(t *testing.T) {
	setupMock(t)
	a := writeFile(t, "a.txt", "a")
	b := writeFile(t, "b.txt", "b")

	out, err := runCLI(t, "files", "upload", a, b, "--parallel", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "\ta.txt"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "\tb.txt"), lines[1])
}

func TestFineTuneCreateAndWatch(t *testing.T) {
	setupMock(t)
	fileID := uploadFile(t, "fine-tune", "train.jsonl", `{"messages":[]}`+"\n")

	out, err := runCLI(t, "finetune", "create", "-t", fileID, "-m", "gpt-4o-mini",
		"--suffix", "cli", "--watch", "--interval", "5ms")
	require.NoError(t, err)
	jobID := regexp.MustCompile(`Created (\S+)`).FindStringSubmatch(out)
	require.Len(t, jobID, 2, out)
	assert.Contains(t, out, jobID[1]+" queued\n")
	assert.Contains(t, out, jobID[1]+" succeeded\n")
	assert.Contains(t, out, "Fine-tuned model: ft:gpt-4o-mini:org-mock:cli:")

	out, err = runCLI(t, "finetune", "history")
	require.NoError(t, err)
	assert.Contains(t, out, jobID[1])
	assert.Contains(t, out, "succeeded")

	out, err = runCLI(t, "finetune", "events", jobID[1])
	require.NoError(t, err)
	assert.Contains(t, out, "The job has successfully completed")

	out, err = runCLI(t, "finetune", "list")
	require.NoError(t, err)
	assert.Contains(t, out, jobID[1])

	_, err = runCLI(t, "finetune", "cancel", jobID[1])
	var apiErr *core.APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, 400, apiErr.StatusCode)
}

func TestFineTuneCancel(t *testing.T) {
	setupMock(t)
	fileID := uploadFile(t, "fine-tune", "train.jsonl", "{}\n")

	out, err := runCLI(t, "ft", "create", "-t", fileID, "-m", "gpt-4o-mini")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: validating_files")
	jobID := regexp.MustCompile(`Created (\S+)`).FindStringSubmatch(out)[1]

	out, err = runCLI(t, "ft", "cancel", jobID)
	require.NoError(t, err)
	assert.Equal(t, jobID+" cancelled\n", out)

	_, err = runCLI(t, "ft", "watch", jobID, "--no-record", "--interval", "5ms")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
}

func TestFineTuneCreateRequiresFlags(t *testing.T) {
	setupMock(t)
	_, err := runCLI(t, "finetune", "create", "-m", "gpt-4o-mini")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "training-file")
}

func TestRunCommand(t *testing.T) {
	setupMock(t)

	out, err := runCLI(t, "run", "hello there", "-m", "gpt-4o-mini", "--poll-interval", "10ms")
	require.NoError(t, err)
	assert.Equal(t, "echo: hello there\n", out)

	out, err = runCLI(t, "run", "stream me", "-m", "gpt-4o-mini", "--stream")
	require.NoError(t, err)
	assert.Equal(t, "echo: stream me\n", out)
}

func TestRunCommandErrors(t *testing.T) {
	setupMock(t)

	_, err := runCLI(t, "run", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--assistant or --model")

	_, err = runCLI(t, "run", "hi", "--assistant", "asst_missing")
	var apiErr *core.APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestChatCommand(t *testing.T) {
	setupMock(t)
	out, err := runCLI(t, "chat", "ping", "--system", "be brief")
	require.NoError(t, err)
	assert.Equal(t, "echo: ping\n", out)
}

func TestWrongAPIKey(t *testing.T) {
	setupMock(t)
	_, err := runCLI(t, "--api-key", "sk-wrong", "files", "list")
	var apiErr *core.APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, core.ErrorTypeAuthentication, apiErr.Type)
}

func TestInvalidLogLevelFlag(t *testing.T) {
	setupMock(t)
	_, err := runCLI(t, "--log-level", "loud", "files", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestMockConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Mock.MasterKey = "sk-mock"
	cfg.Mock.BodySizeLimit = "2M"
	cfg.Metrics.Enabled = true

	got, err := mockConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "sk-mock", got.MasterKey)
	assert.Equal(t, int64(2*1024*1024), got.BodySizeLimit)
	assert.True(t, got.MetricsEnabled)
	assert.Equal(t, "/metrics", got.MetricsEndpoint)

	cfg.Mock.BodySizeLimit = "lots"
	_, err = mockConfig(cfg)
	assert.Error(t, err)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "abcdefgh", shortID("ftjob-abcdefgh"))
	assert.Equal(t, "short", shortID("short"))

	assert.Equal(t, "-", formatTime(0))
	assert.Equal(t, "2023-11-14 22:13:20", formatTime(1700000000))

	msg := core.Message{Content: []core.MessageContent{core.TextPart("one"), {Type: "image_file"}, core.TextPart("two")}}
	assert.Equal(t, "one\ntwo", messageText(msg))

	assert.Equal(t, green, statusColor("succeeded"))
	assert.Equal(t, red, statusColor("failed"))
	assert.Equal(t, yellow, statusColor("cancelled"))
	assert.Equal(t, cyan, statusColor("running"))

	var buf bytes.Buffer
	printError(&buf, errors.New("boom"))
	assert.Equal(t, "error: boom\n", buf.String())
}

func TestRunOutcome(t *testing.T) {
	assert.NoError(t, runOutcome(&core.Run{ID: "run_1", Status: core.RunStatusCompleted}))

	err := runOutcome(&core.Run{ID: "run_1", Status: core.RunStatusRequiresAction})
	assert.ErrorContains(t, err, "requires tool outputs")

	err = runOutcome(&core.Run{ID: "run_1", Status: core.RunStatusFailed, LastError: &core.RunError{Code: "server_error", Message: "exploded"}})
	assert.EqualError(t, err, "run run_1 failed: exploded")
}
