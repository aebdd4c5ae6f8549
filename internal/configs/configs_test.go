package configs

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Environment != "development" {
		t.Fatalf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.ChatPort != 5555 {
		t.Fatalf("ChatPort = %d, want 5555", cfg.ChatPort)
	}
	if cfg.HTTPPort != 8080 {
		t.Fatalf("HTTPPort = %d, want 8080", cfg.HTTPPort)
	}
	if cfg.DefaultRoom != "commons" {
		t.Fatalf("DefaultRoom = %q, want commons", cfg.DefaultRoom)
	}
	if cfg.StorageBackend != "disk" {
		t.Fatalf("StorageBackend = %q, want disk", cfg.StorageBackend)
	}
	if cfg.StorageDir != "uploads" {
		t.Fatalf("StorageDir = %q, want uploads", cfg.StorageDir)
	}
}

func TestLoadConfigRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("non-numeric PORT should fail")
	}

	t.Setenv("PORT", "80")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("privileged PORT should fail")
	}
}

func TestLoadConfigRejectsEqualPorts(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("HTTP_PORT", "9000")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("equal chat and HTTP ports should fail")
	}
}

func TestLoadConfigS3BackendNeedsSettings(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "s3")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("s3 backend without settings should fail")
	}

	t.Setenv("S3_BUCKET_NAME", "files")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed with full s3 settings: %v", err)
	}
	if cfg.S3BucketName != "files" {
		t.Fatalf("S3BucketName = %q, want files", cfg.S3BucketName)
	}
}

func TestLoadConfigParsesAllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("AllowedOrigins = %v, want 2 entries", cfg.AllowedOrigins)
	}
	if cfg.AllowedOrigins[0] != "https://a.example" || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}
