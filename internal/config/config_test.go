package config

import "testing"

func TestLoadUsesDefaults(t *testing.T) {
	cfg := Load()

	if cfg.APIPort != "8080" {
		t.Fatalf("expected default api port, got %q", cfg.APIPort)
	}
	if cfg.NATSSubject != "reports.uploaded" {
		t.Fatalf("expected default subject, got %q", cfg.NATSSubject)
	}
	if cfg.AIProvider != "none" {
		t.Fatalf("expected ai disabled by default, got %q", cfg.AIProvider)
	}
	if cfg.NameLookback != 3 {
		t.Fatalf("expected default lookback 3, got %d", cfg.NameLookback)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("API_PORT", "9999")
	t.Setenv("AI_PROVIDER", "chatgpt")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")

	cfg := Load()

	if cfg.APIPort != "9999" {
		t.Fatalf("expected overridden port, got %q", cfg.APIPort)
	}
	if cfg.AIProvider != "chatgpt" {
		t.Fatalf("expected overridden provider, got %q", cfg.AIProvider)
	}
	if cfg.MaxUploadBytes != 1048576 {
		t.Fatalf("expected overridden upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected overridden rps, got %v", cfg.APIRateLimitRPS)
	}
}

func TestLoadFallsBackOnInvalidNumbers(t *testing.T) {
	t.Setenv("NAME_LOOKBACK", "not-a-number")
	t.Setenv("API_RATE_LIMIT_RPS", "fast")

	cfg := Load()

	if cfg.NameLookback != 3 {
		t.Fatalf("expected fallback lookback, got %d", cfg.NameLookback)
	}
	if cfg.APIRateLimitRPS != 20 {
		t.Fatalf("expected fallback rps, got %v", cfg.APIRateLimitRPS)
	}
}
