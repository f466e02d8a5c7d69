package aws

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"

	appconfig "github.com/caredash/caredash/internal/config"
)

// mockAPIError implements smithy.APIError for testing
type mockAPIError struct {
	code    string
	message string
}

func (e *mockAPIError) Error() string                 { return e.message }
func (e *mockAPIError) ErrorCode() string             { return e.code }
func (e *mockAPIError) ErrorMessage() string          { return e.message }
func (e *mockAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultServer }

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"NoSuchBucket", &mockAPIError{code: "NoSuchBucket"}, true},
		{"NoSuchKey", &mockAPIError{code: "NoSuchKey"}, true},
		{"NotFound", &mockAPIError{code: "NotFound"}, true},
		{"other error", &mockAPIError{code: "SomeOtherError"}, false},
		{"plain error with NotFound in message", errors.New("NotFound: bucket"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.expected {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsAccessDenied(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"AccessDenied", &mockAPIError{code: "AccessDenied"}, true},
		{"AccessDeniedException", &mockAPIError{code: "AccessDeniedException"}, true},
		{"Forbidden", &mockAPIError{code: "Forbidden"}, true},
		{"wrapped", fmt.Errorf("put object: %w", &mockAPIError{code: "AccessDenied"}), true},
		{"other error", &mockAPIError{code: "SomeOtherError"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAccessDenied(tt.err); got != tt.expected {
				t.Errorf("IsAccessDenied() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"API error", &mockAPIError{code: "TestCode"}, "TestCode"},
		{"plain error", errors.New("plain error"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"API error", &mockAPIError{code: "Code", message: "test message"}, "test message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorMessage(tt.err); got != tt.expected {
				t.Errorf("GetErrorMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"access denied", &mockAPIError{code: "AccessDenied", message: "no s3:PutObject"}, "access denied: no s3:PutObject"},
		{"expired token", &mockAPIError{code: "ExpiredToken", message: "expired"}, "AWS credentials missing or expired"},
		{"no bucket", &mockAPIError{code: "NoSuchBucket", message: "exports"}, "bucket not found: exports"},
		{"other code", &mockAPIError{code: "SlowDown", message: "reduce rate"}, "SlowDown: reduce rate"},
		{"plain", errors.New("dial tcp: timeout"), "dial tcp: timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.err); got != tt.expected {
				t.Errorf("Describe() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestLoadOptions(t *testing.T) {
	if got := len(LoadOptions(appconfig.ExportConfig{})); got != 0 {
		t.Errorf("LoadOptions() with no overrides returned %d options", got)
	}
	got := LoadOptions(appconfig.ExportConfig{AWSProfile: "exports", S3Region: "eu-west-3"})
	if len(got) != 2 {
		t.Errorf("LoadOptions() returned %d options, want 2", len(got))
	}
}
