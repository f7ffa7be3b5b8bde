package service

import (
	"errors"
	"fmt"
	"testing"

	"openrepowiki/internal/storage"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "owner",
			err:  &ValidationError{Field: "owner", Message: "cannot be empty"},
			want: "validation error on field owner: cannot be empty",
		},
		{
			name: "search k",
			err:  &ValidationError{Field: "k", Message: "must be between 1 and 50"},
			want: "validation error on field k: must be between 1 and 50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ValidationError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{value: "acme", wantErr: false},
		{value: "my-repo.js_2", wantErr: false},
		{value: "", wantErr: true},
		{value: "a/b", wantErr: true},
		{value: "../etc", wantErr: true},
		{value: "has space", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := validateName("repo", tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateName(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			var validationErr *ValidationError
			if err != nil && (!errors.As(err, &validationErr) || validationErr.Field != "repo") {
				t.Errorf("validateName() error = %v, want *ValidationError on repo", err)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	if got := WrapError(nil, "failed to list repositories"); got != nil {
		t.Errorf("WrapError(nil) = %v, want nil", got)
	}

	cause := errors.New("database is locked")
	got := WrapError(cause, "failed to list repositories")
	if got.Error() != "failed to list repositories: database is locked" {
		t.Errorf("WrapError() = %v", got)
	}
	if !errors.Is(got, cause) {
		t.Error("WrapError() should wrap original error")
	}
}

func TestStorageError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantIs    error
		wantNotIs error
	}{
		{
			name:      "missing row",
			err:       storage.ErrNotFound,
			wantIs:    ErrNotFound,
			wantNotIs: ErrExternalService,
		},
		{
			name:      "wrapped missing row",
			err:       fmt.Errorf("scan: %w", storage.ErrNotFound),
			wantIs:    ErrNotFound,
			wantNotIs: ErrExternalService,
		},
		{
			name:      "other failure",
			err:       errors.New("disk I/O error"),
			wantNotIs: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := storageError(tt.err, "failed to get repository")
			if tt.wantIs != nil && !errors.Is(got, tt.wantIs) {
				t.Errorf("storageError() = %v, want %v", got, tt.wantIs)
			}
			if errors.Is(got, tt.wantNotIs) {
				t.Errorf("storageError() = %v should not match %v", got, tt.wantNotIs)
			}
			if tt.wantIs == nil && !errors.Is(got, tt.err) {
				t.Errorf("storageError() should wrap %v", tt.err)
			}
		})
	}
}

func TestExternalError(t *testing.T) {
	if got := externalError(nil, "search failed"); got != nil {
		t.Errorf("externalError(nil) = %v, want nil", got)
	}

	cause := errors.New("qdrant: connection refused")
	got := externalError(cause, "search failed")
	if !errors.Is(got, ErrExternalService) {
		t.Error("externalError() should match ErrExternalService")
	}
	if !errors.Is(got, cause) {
		t.Error("externalError() should match the cause")
	}
	if errors.Is(got, ErrUnavailable) {
		t.Error("externalError() should not match ErrUnavailable")
	}
}

func TestErrorSentinelsDistinct(t *testing.T) {
	sentinels := []error{ErrInvalidInput, ErrNotFound, ErrExternalService, ErrUnavailable}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}
