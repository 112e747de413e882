package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteConfig writes a minimal volmigrate config pointing at the given API
// endpoint and returns its path. Receipts land in a fresh temp directory.
func WriteConfig(t testing.TB, apiURL string) string {
	t.Helper()

	base := t.TempDir()
	body := fmt.Sprintf(`[cloudstack]
api_url = %q
api_key = %q
secret_key = %q

[receipts]
dir = %q
prefix = "joblist-"
`, apiURL, APIKey, SecretKey, filepath.Join(base, "receipts"))

	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return path
}
