package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pithecene-io/formstate/submission"
	"github.com/pithecene-io/formstate/types"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{"json lowercase", "json", FormatJSON, false},
		{"json uppercase", "JSON", FormatJSON, false},
		{"table", "table", FormatTable, false},
		{"yaml", "yaml", FormatYAML, false},
		{"empty", "", "", false},
		{"invalid", "xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat_InvalidErrorMessage(t *testing.T) {
	_, err := ParseFormat("xml")
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
	if !strings.Contains(err.Error(), "json, table, or yaml") {
		t.Errorf("error message should mention valid formats, got: %v", err)
	}
}

func succeededView() StateView {
	s := submission.State{
		FormID:     "f1",
		ID:         "s1",
		URL:        "https://p.form.io/form/f1/submission/s1",
		Submission: types.Submission{"_id": "s1", "data": map[string]any{"name": "Ada"}},
	}
	return NewStateView("store-1", string(submission.TypeSuccess), s)
}

func TestNewStateView(t *testing.T) {
	v := succeededView()
	if v.Phase != "succeeded" {
		t.Errorf("phase: got %q, want succeeded", v.Phase)
	}
	if v.ID != "s1" || v.FormID != "f1" {
		t.Errorf("ids: got %q/%q", v.FormID, v.ID)
	}

	failed := NewStateView("store-1", "", submission.State{Err: errors.New("boom"), Error: "boom", IsInvalid: true})
	if failed.Phase != "failed" || failed.Error != "boom" || !failed.IsInvalid {
		t.Errorf("failed view: %+v", failed)
	}
	if failed.Submission == nil {
		t.Error("submission should never render as null")
	}
}

func TestRenderer_JSON_StateView(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatJSON, false, &buf)

	if err := r.Render(succeededView()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	for _, want := range []string{`"phase": "succeeded"`, `"id": "s1"`, `"_id": "s1"`, `"action": "SUBMISSION_SUCCESS"`} {
		if !strings.Contains(got, want) {
			t.Errorf("JSON output missing %s: %s", want, got)
		}
	}
	if strings.Contains(got, `"error"`) {
		t.Errorf("empty error should be omitted: %s", got)
	}
}

func TestRenderer_YAML_StateView(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatYAML, false, &buf)

	if err := r.Render(succeededView()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "form_id: f1") || !strings.Contains(got, "phase: succeeded") {
		t.Errorf("YAML output missing expected content: %s", got)
	}
}

func TestRenderer_Table_StateView(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, true, &buf)

	if err := r.Render(succeededView()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	for _, want := range []string{"phase:", "succeeded", "form_id:", "submission:", "_id:", `{"name":"Ada"}`} {
		if !strings.Contains(got, want) {
			t.Errorf("table output missing %q: %s", want, got)
		}
	}
	if strings.Index(got, "_id:") > strings.Index(got, "data:") {
		t.Errorf("submission keys should be sorted: %s", got)
	}
}

func TestRenderer_Table_NoColorPlainPhase(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, true, &buf)

	if err := r.Render(succeededView()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("--no-color output should not contain escape codes: %q", buf.String())
	}
}

func TestRenderer_Table_Struct(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, false, &buf)

	type info struct {
		Version string `json:"version"`
		Go      string
	}

	if err := r.Render(info{Version: "1.0.0", Go: "go1.25"}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "version:") || !strings.Contains(got, "1.0.0") {
		t.Errorf("table output missing version field: %s", got)
	}
	if !strings.Contains(got, "go:") {
		t.Errorf("untagged field should use lowercased name: %s", got)
	}
}

func TestRenderer_Table_MapSorted(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, false, &buf)

	if err := r.Render(map[string]int{"b": 2, "a": 1}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if strings.Index(got, "a:") > strings.Index(got, "b:") {
		t.Errorf("map keys should be sorted: %s", got)
	}
}

func TestRenderer_NoColor_DoesNotAffectJSON(t *testing.T) {
	var bufColor, bufNoColor bytes.Buffer

	rColor := NewRendererWithWriter(FormatJSON, false, &bufColor)
	rNoColor := NewRendererWithWriter(FormatJSON, true, &bufNoColor)

	v := succeededView()
	if err := rColor.Render(v); err != nil {
		t.Fatalf("Render with color failed: %v", err)
	}
	if err := rNoColor.Render(v); err != nil {
		t.Fatalf("Render without color failed: %v", err)
	}

	if bufColor.String() != bufNoColor.String() {
		t.Errorf("--no-color should not affect JSON output")
	}
}
