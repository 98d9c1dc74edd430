package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestAgentError_Error(t *testing.T) {
	err := NewInvalidRequest("usage: /page <id>")
	want := "INVALID_REQUEST: usage: /page <id>"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestNewRemoteStatus_CarriesStatus(t *testing.T) {
	err := NewRemoteStatus(403, "Forbidden")

	if !strings.Contains(err.Message, "403") {
		t.Errorf("Message = %q, should contain status code", err.Message)
	}
	if err.Details["status_code"] != 403 {
		t.Errorf("Details[status_code] = %v, want 403", err.Details["status_code"])
	}
	if err.Details["status_text"] != "Forbidden" {
		t.Errorf("Details[status_text] = %v, want Forbidden", err.Details["status_text"])
	}
	if err.Status != 502 {
		t.Errorf("Status = %d, want 502", err.Status)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"matching code", NewAuthRequired(), ErrAuthRequired, true},
		{"different code", NewAuthRequired(), ErrRemoteCall, false},
		{"plain error", stderrors.New("boom"), ErrInternal, false},
		{"nil error", nil, ErrInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewInternal_NilError(t *testing.T) {
	err := NewInternal(nil)
	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
}

func TestNewBadResponse_Prefix(t *testing.T) {
	err := NewBadResponse("missing id")
	if !strings.HasPrefix(err.Message, "malformed remote response") {
		t.Errorf("Message = %q, want malformed remote response prefix", err.Message)
	}
}
