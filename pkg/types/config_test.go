package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty DataDir returns ErrDataDirEmpty",
			config:  Config{DataDir: ""},
			wantErr: ErrDataDirEmpty,
		},
		{
			name:    "absolute DataDir is valid",
			config:  Config{DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "relative DataDir is valid",
			config:  Config{DataDir: "data"},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
