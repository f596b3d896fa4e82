package support

import "testing"

func TestGetEnv(t *testing.T) {
	t.Setenv("MAILROOM_TEST_ENV", "value")
	if got := GetEnv("MAILROOM_TEST_ENV", "fallback"); got != "value" {
		t.Fatalf("GetEnv returned %q, want %q", got, "value")
	}
	if got := GetEnv("MAILROOM_TEST_ENV_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("GetEnv returned %q, want fallback", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("MAILROOM_TEST_INT", "17")
	if got := GetEnvInt("MAILROOM_TEST_INT", 3); got != 17 {
		t.Fatalf("GetEnvInt returned %d, want 17", got)
	}

	t.Setenv("MAILROOM_TEST_INT_BAD", "seventeen")
	if got := GetEnvInt("MAILROOM_TEST_INT_BAD", 3); got != 3 {
		t.Fatalf("GetEnvInt with invalid value returned %d, want 3", got)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPasswordHash("correct horse battery staple", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPasswordHash("wrong password", hash) {
		t.Fatal("wrong password accepted")
	}
}
