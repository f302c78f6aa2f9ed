package devgenie

import (
	"testing"

	"github.com/AndreyAkinshin/devgenie/internal/errors"
)

func TestExitCodesMatchInternal(t *testing.T) {
	tests := []struct {
		name     string
		public   int
		internal int
	}{
		{"success", ExitSuccess, errors.ExitSuccess},
		{"failure", ExitFailure, errors.ExitRuntimeError},
		{"config", ExitConfigError, errors.ExitConfigError},
		{"environment", ExitEnvError, errors.ExitEnvironmentError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.public != tt.internal {
				t.Errorf("public exit code %d != internal %d", tt.public, tt.internal)
			}
		})
	}
}
