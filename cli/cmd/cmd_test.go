package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/formstate/adapter"
	"github.com/pithecene-io/formstate/cli/config"
	"github.com/pithecene-io/formstate/cli/render"
	"github.com/pithecene-io/formstate/types"
)

// fakeFormio serves one form with one pre-existing submission.
type fakeFormio struct {
	mu     sync.Mutex
	calls  []string
	tokens []string
}

func (f *fakeFormio) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	f.tokens = append(f.tokens, r.Header.Get("x-jwt-token"))
	f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/form/f1/submission/s1":
		writeJSON(w, map[string]any{"_id": "s1", "data": map[string]any{"name": "Ada"}})
	case r.Method == http.MethodPost && r.URL.Path == "/form/f1/submission":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		body["_id"] = "new1"
		writeJSON(w, body)
	case r.Method == http.MethodPut && r.URL.Path == "/form/f1/submission/s1":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, body)
	case r.Method == http.MethodDelete && r.URL.Path == "/form/f1/submission/s1":
		w.WriteHeader(http.StatusOK)
	default:
		http.Error(w, "Could not find submission", http.StatusNotFound)
	}
}

func (f *fakeFormio) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newFakeFormio(t *testing.T) (*fakeFormio, *httptest.Server) {
	t.Helper()
	f := &fakeFormio{}
	ts := httptest.NewServer(f)
	t.Cleanup(ts.Close)
	return f, ts
}

type result struct {
	stdout string
	stderr string
	code   int
	err    error
}

// runCLI runs the app in-process and maps the returned error the way
// main's exit handler does.
func runCLI(t *testing.T, stdin io.Reader, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	app := NewApp("test")
	app.Writer = &out
	app.ErrWriter = &errOut
	app.Reader = stdin
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"formstate"}, args...))

	code := exitSuccess
	var exitCoder cli.ExitCoder
	switch {
	case errors.As(err, &exitCoder):
		code = exitCoder.ExitCode()
	case err != nil:
		code = exitUsage
	}
	return result{stdout: out.String(), stderr: errOut.String(), code: code, err: err}
}

func decodeView(t *testing.T, s string) render.StateView {
	t.Helper()
	var v render.StateView
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("output is not a state view: %v\n%s", err, s)
	}
	return v
}

func TestGet_Success(t *testing.T) {
	f, ts := newFakeFormio(t)

	res := runCLI(t, nil, "get", "--project-url", ts.URL, "--token", "jwt-1", "--format", "json", "--form", "f1", "--id", "s1")
	if res.code != exitSuccess {
		t.Fatalf("exit code = %d, err = %v", res.code, res.err)
	}

	v := decodeView(t, res.stdout)
	if v.Phase != "succeeded" || v.ID != "s1" || v.FormID != "f1" {
		t.Errorf("view = %+v", v)
	}
	if v.URL != ts.URL+"/form/f1/submission/s1" {
		t.Errorf("url = %q", v.URL)
	}
	if v.Action != "SUBMISSION_SUCCESS" {
		t.Errorf("action = %q, want SUBMISSION_SUCCESS", v.Action)
	}
	if calls := f.Calls(); len(calls) != 1 || calls[0] != "GET /form/f1/submission/s1" {
		t.Errorf("calls = %v", calls)
	}
	if f.tokens[0] != "jwt-1" {
		t.Errorf("token header = %q, want jwt-1", f.tokens[0])
	}
}

func TestGet_NotFoundExitsOperationFailed(t *testing.T) {
	_, ts := newFakeFormio(t)

	res := runCLI(t, nil, "get", "--project-url", ts.URL, "--format", "json", "--form", "f1", "--id", "missing")
	if res.code != exitOperationFailed {
		t.Fatalf("exit code = %d, want %d (err %v)", res.code, exitOperationFailed, res.err)
	}

	v := decodeView(t, res.stdout)
	if v.Phase != "failed" || !v.IsInvalid || v.IsActive {
		t.Errorf("view = %+v", v)
	}
	if !strings.Contains(v.Error, "404") {
		t.Errorf("error = %q, should mention the status", v.Error)
	}
}

func TestSave_CreateAndUpdate(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCall string
		wantID   string
	}{
		{
			name:     "create without _id",
			args:     []string{"--data", `{"data":{"name":"Ada"}}`},
			wantCall: "POST /form/f1/submission",
			wantID:   "new1",
		},
		{
			name:     "update with _id",
			args:     []string{"--data", `{"_id":"s1","data":{"name":"Ada"}}`},
			wantCall: "PUT /form/f1/submission/s1",
			wantID:   "s1",
		},
		{
			name:     "update via --id",
			args:     []string{"--data", `{"data":{}}`, "--id", "s1"},
			wantCall: "PUT /form/f1/submission/s1",
			wantID:   "s1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ts := newFakeFormio(t)
			args := append([]string{"save", "--project-url", ts.URL, "--format", "json", "--form", "f1"}, tt.args...)

			res := runCLI(t, nil, args...)
			if res.code != exitSuccess {
				t.Fatalf("exit code = %d, err = %v", res.code, res.err)
			}
			if calls := f.Calls(); len(calls) != 1 || calls[0] != tt.wantCall {
				t.Errorf("calls = %v, want [%s]", calls, tt.wantCall)
			}

			v := decodeView(t, res.stdout)
			if v.ID != tt.wantID {
				t.Errorf("id = %q, want %q", v.ID, tt.wantID)
			}
			if v.URL != ts.URL+"/form/f1/submission/"+tt.wantID {
				t.Errorf("url = %q", v.URL)
			}
		})
	}
}

func TestSave_DataFromFileAndStdin(t *testing.T) {
	_, ts := newFakeFormio(t)

	path := filepath.Join(t.TempDir(), "record.json")
	if err := os.WriteFile(path, []byte(`{"data":{"n":1}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	res := runCLI(t, nil, "save", "--project-url", ts.URL, "--format", "json", "--form", "f1", "--data", "@"+path)
	if res.code != exitSuccess {
		t.Fatalf("file: exit code = %d, err = %v", res.code, res.err)
	}

	res = runCLI(t, strings.NewReader(`{"data":{"n":2}}`), "save", "--project-url", ts.URL, "--format", "json", "--form", "f1", "--data", "-")
	if res.code != exitSuccess {
		t.Fatalf("stdin: exit code = %d, err = %v", res.code, res.err)
	}
	if v := decodeView(t, res.stdout); v.ID != "new1" {
		t.Errorf("id = %q, want new1", v.ID)
	}
}

func TestSave_InvalidDataIsUsageError(t *testing.T) {
	f, ts := newFakeFormio(t)

	for _, data := range []string{"not json", "[1,2]", "null"} {
		res := runCLI(t, nil, "save", "--project-url", ts.URL, "--form", "f1", "--data", data)
		if res.code != exitUsage {
			t.Errorf("data %q: exit code = %d, want %d", data, res.code, exitUsage)
		}
	}
	if calls := f.Calls(); len(calls) != 0 {
		t.Errorf("invalid data should not reach the service, calls = %v", calls)
	}
}

func TestDelete_ResetsState(t *testing.T) {
	f, ts := newFakeFormio(t)

	res := runCLI(t, nil, "delete", "--project-url", ts.URL, "--format", "json", "--form", "f1", "--id", "s1")
	if res.code != exitSuccess {
		t.Fatalf("exit code = %d, err = %v", res.code, res.err)
	}

	v := decodeView(t, res.stdout)
	if v.Action != "SUBMISSION_RESET" || v.Phase != "idle" || v.ID != "" || len(v.Submission) != 0 {
		t.Errorf("view = %+v", v)
	}
	if calls := f.Calls(); len(calls) != 1 || calls[0] != "DELETE /form/f1/submission/s1" {
		t.Errorf("calls = %v", calls)
	}
}

func TestMissingProjectURLIsUsageError(t *testing.T) {
	res := runCLI(t, nil, "get", "--form", "f1", "--id", "s1")
	if res.code != exitUsage {
		t.Fatalf("exit code = %d, want %d", res.code, exitUsage)
	}
	if !strings.Contains(res.err.Error(), "project URL is required") {
		t.Errorf("err = %v", res.err)
	}
}

func TestMissingRequiredFlagIsUsageError(t *testing.T) {
	res := runCLI(t, nil, "get", "--project-url", "https://p.form.io", "--form", "f1")
	if res.code != exitUsage {
		t.Fatalf("exit code = %d, want %d", res.code, exitUsage)
	}
}

func TestInvalidFormatIsUsageError(t *testing.T) {
	res := runCLI(t, nil, "get", "--project-url", "https://p.form.io", "--format", "xml", "--form", "f1", "--id", "s1")
	if res.code != exitUsage {
		t.Fatalf("exit code = %d, want %d", res.code, exitUsage)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.DefaultPath)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigFile_FlagsOverride(t *testing.T) {
	f, ts := newFakeFormio(t)
	t.Setenv("FS_CMD_TEST_TOKEN", "from-env")

	path := writeConfig(t, "project_url: https://unused.example\ntoken: ${FS_CMD_TEST_TOKEN}\n")

	res := runCLI(t, nil, "get", "--config", path, "--project-url", ts.URL, "--format", "json", "--form", "f1", "--id", "s1")
	if res.code != exitSuccess {
		t.Fatalf("exit code = %d, err = %v", res.code, res.err)
	}
	if f.tokens[0] != "from-env" {
		t.Errorf("token from config = %q, want from-env", f.tokens[0])
	}

	res = runCLI(t, nil, "get", "--config", path, "--project-url", ts.URL, "--token", "from-flag", "--format", "json", "--form", "f1", "--id", "s1")
	if res.code != exitSuccess {
		t.Fatalf("exit code = %d, err = %v", res.code, res.err)
	}
	if f.tokens[1] != "from-flag" {
		t.Errorf("token flag should override config, got %q", f.tokens[1])
	}
}

func TestConfigFile_MissingExplicitPath(t *testing.T) {
	res := runCLI(t, nil, "get", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "--form", "f1", "--id", "s1")
	if res.code != exitUsage {
		t.Fatalf("exit code = %d, want %d", res.code, exitUsage)
	}
}

func TestConfigFile_WebhookAdapterReceivesEvents(t *testing.T) {
	_, ts := newFakeFormio(t)

	var (
		mu     sync.Mutex
		events []adapter.SubmissionChangedEvent
	)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var ev adapter.SubmissionChangedEvent
		if err := adapter.Decode(adapter.EncodingMsgpack, body, &ev); err != nil {
			t.Errorf("decode: %v", err)
		}
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	path := writeConfig(t, "project_url: "+ts.URL+"\nadapter:\n  type: webhook\n  url: "+hook.URL+"\n  retries: 0\n  encoding: msgpack\n")

	res := runCLI(t, nil, "get", "--config", path, "--format", "json", "--form", "f1", "--id", "s1")
	if res.code != exitSuccess {
		t.Fatalf("exit code = %d, err = %v", res.code, res.err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Action != "SUBMISSION_REQUEST" || !events[0].IsActive {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Action != "SUBMISSION_SUCCESS" || events[1].SubmissionID != "s1" {
		t.Errorf("second event = %+v", events[1])
	}
	if events[0].StoreID == "" || events[0].StoreID != events[1].StoreID {
		t.Errorf("events should share the store id: %q vs %q", events[0].StoreID, events[1].StoreID)
	}
}

func TestBuildAdapter(t *testing.T) {
	retries := 1
	tests := []struct {
		name    string
		cfg     config.AdapterConfig
		wantErr bool
	}{
		{"webhook", config.AdapterConfig{Type: config.AdapterWebhook, URL: "http://localhost:9"}, false},
		{"redis", config.AdapterConfig{Type: config.AdapterRedis, URL: "redis://localhost:6379/0", Retries: &retries}, false},
		{"redis bad url", config.AdapterConfig{Type: config.AdapterRedis, URL: "::bad"}, true},
		{"bad encoding", config.AdapterConfig{Type: config.AdapterWebhook, URL: "http://x", Encoding: "xml"}, true},
		{"unknown", config.AdapterConfig{Type: "kafka", URL: "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := buildAdapter(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if a != nil {
				_ = a.Close()
			}
		})
	}
}

func TestReadSubmission(t *testing.T) {
	got, err := readSubmission(`{"_id":"x","data":{}}`, nil)
	if err != nil {
		t.Fatalf("readSubmission: %v", err)
	}
	if got.ID() != "x" {
		t.Errorf("id = %q", got.ID())
	}

	if _, err := readSubmission("@"+filepath.Join(t.TempDir(), "missing.json"), nil); err == nil {
		t.Error("missing file should fail")
	}
	if _, err := readSubmission("-", strings.NewReader("{")); err == nil {
		t.Error("truncated stdin should fail")
	}
}

func TestVersion(t *testing.T) {
	res := runCLI(t, nil, "version", "--format", "json")
	if res.code != exitSuccess {
		t.Fatalf("exit code = %d, err = %v", res.code, res.err)
	}

	var v VersionResponse
	if err := json.Unmarshal([]byte(res.stdout), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Version != types.Version || v.Commit != "test" {
		t.Errorf("version = %+v", v)
	}
}

func TestVersion_RejectsTUI(t *testing.T) {
	res := runCLI(t, nil, "version", "--tui")
	if res.code != exitUsage {
		t.Fatalf("exit code = %d, want %d", res.code, exitUsage)
	}
}

func TestOutputFlags_IncludesTUI(t *testing.T) {
	hasTUI := false
	for _, f := range OutputFlags() {
		if f.Names()[0] == "tui" {
			hasTUI = true
			break
		}
	}
	if !hasTUI {
		t.Error("OutputFlags should include --tui flag for explicit error handling")
	}
}

func TestOperationFlags_AppendsExtra(t *testing.T) {
	flags := OperationFlags(formFlag())
	last := flags[len(flags)-1]
	if last.Names()[0] != "form" {
		t.Errorf("extra flags should come last, got %q", last.Names()[0])
	}
}
