package config

import "testing"

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"defaults", func(*Config) {}, ""},
		{"blank executable", func(c *Config) { c.Toolchain.Executable = "  " }, "toolchain.executable"},
		{"logger with space", func(c *Config) { c.Toolchain.TestLogger = "console; verbosity=normal" }, "toolchain.test_logger"},
		{"env key with equals", func(c *Config) { c.Toolchain.Env = map[string]string{"A=B": "c"} }, "toolchain.env"},
		{"valid env", func(c *Config) { c.Toolchain.Env = map[string]string{"DOTNET_NOLOGO": "1"} }, ""},
		{"bad timeout", func(c *Config) { c.Run.Timeout = "ten minutes" }, "run.timeout"},
		{"negative timeout", func(c *Config) { c.Run.Timeout = "-1s" }, "run.timeout"},
		{"negative parallel", func(c *Config) { c.Run.Parallel = -2 }, "run.parallel"},
		{"valid timeout", func(c *Config) { c.Run.Timeout = "90s" }, ""},
		{"valid parallel", func(c *Config) { c.Run.Parallel = 8 }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}
