package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jira-tools/jira-report/internal/jira"
	"github.com/jira-tools/jira-report/internal/model"
	"github.com/jira-tools/jira-report/internal/output"
	"github.com/jira-tools/jira-report/internal/xls"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want output.ErrorCode
	}{
		{fmt.Errorf("parsing: %w", model.ErrInvalidMonth), output.ErrValidation},
		{fmt.Errorf("range: %w", model.ErrInvalidRange), output.ErrValidation},
		{fmt.Errorf("fetch: %w", jira.ErrAuth), output.ErrAuth},
		{fmt.Errorf("fetch: %w", jira.ErrNetwork), output.ErrNetwork},
		{fmt.Errorf("fetch: %w", jira.ErrServer), output.ErrServer},
		{fmt.Errorf("get: %w", jira.ErrNotFound), output.ErrNotFound},
		{fmt.Errorf("write: %w", xls.ErrFileExists), output.ErrConflict},
		{errors.New("anything else"), output.ErrGeneral},
	}

	for _, tt := range tests {
		ce := classify(tt.err)
		if ce.Code != tt.want {
			t.Errorf("classify(%v) code = %q, want %q", tt.err, ce.Code, tt.want)
		}
		if !errors.Is(ce.Err, tt.err) && ce.Err.Error() != tt.err.Error() {
			t.Errorf("classify(%v) lost the underlying error: %v", tt.err, ce.Err)
		}
	}
}

func TestCmdErrorUnwrapsForExecute(t *testing.T) {
	inner := errors.New("boom")
	var err error = cmdErr(inner, output.ErrConflict)

	var ce *CmdError
	if !errors.As(err, &ce) {
		t.Fatal("errors.As failed to find CmdError")
	}
	if ce.Code != output.ErrConflict {
		t.Errorf("code = %q", ce.Code)
	}
	if ce.Error() != "boom" {
		t.Errorf("Error() = %q", ce.Error())
	}
}
