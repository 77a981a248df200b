package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestWriteJSONSuccess(t *testing.T) {
	var buf bytes.Buffer
	writeJSONSuccess(&buf, map[string]string{"file": "Jira_2019_01-2019_03.xlsx"}, "report written")

	var env successEnvelope
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !env.OK {
		t.Error("ok = false, want true")
	}
	if env.Message != "report written" {
		t.Errorf("message = %q, want %q", env.Message, "report written")
	}
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("data type = %T, want map", env.Data)
	}
	if data["file"] != "Jira_2019_01-2019_03.xlsx" {
		t.Errorf("data.file = %v", data["file"])
	}
}

func TestWriteJSONError(t *testing.T) {
	var buf bytes.Buffer
	writeJSONError(&buf, errors.New("credentials rejected"), ErrAuth)

	var env errorEnvelope
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.OK {
		t.Error("ok = true, want false")
	}
	if env.Error != "credentials rejected" {
		t.Errorf("error = %q", env.Error)
	}
	if env.Code != ErrAuth {
		t.Errorf("code = %q, want %q", env.Code, ErrAuth)
	}
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrGeneral, ExitGeneral},
		{ErrNotFound, ExitNotFound},
		{ErrValidation, ExitValidation},
		{ErrConflict, ExitConflict},
		{ErrAuth, ExitAuth},
		{ErrNetwork, ExitNetwork},
		{ErrServer, ExitServer},
		{ErrorCode("SOMETHING_ELSE"), ExitGeneral},
	}

	for _, tt := range tests {
		if got := ExitCodeForError(tt.code); got != tt.want {
			t.Errorf("ExitCodeForError(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestWriterHumanError(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var out, errBuf bytes.Buffer
	w := &Writer{Stdout: &out, Stderr: &errBuf}

	code := w.Error(errors.New("file already exists"), ErrConflict)
	if code != ExitConflict {
		t.Errorf("exit code = %d, want %d", code, ExitConflict)
	}
	if got := errBuf.String(); !strings.Contains(got, "Error: file already exists") {
		t.Errorf("stderr = %q", got)
	}
	if out.Len() != 0 {
		t.Errorf("stdout should be empty in human error mode, got %q", out.String())
	}
}

func TestWriterInfoSuppressed(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var errBuf bytes.Buffer
	w := &Writer{QuietMode: true, Stderr: &errBuf}
	w.Info("querying Jira")
	if errBuf.Len() != 0 {
		t.Errorf("quiet mode should suppress info, got %q", errBuf.String())
	}

	w = &Writer{JSONMode: true, Stderr: &errBuf}
	w.Info("querying Jira")
	if errBuf.Len() != 0 {
		t.Errorf("json mode should suppress info, got %q", errBuf.String())
	}

	w = &Writer{Stderr: &errBuf}
	w.Info("querying Jira")
	if !strings.Contains(errBuf.String(), "querying Jira") {
		t.Errorf("info not written, got %q", errBuf.String())
	}
}
