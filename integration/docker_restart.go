//go:build integration

package integration

import (
	"context"
	"os/exec"
	"testing"
)

func composeCatalog(t *testing.T, ctx context.Context, action string) {
	t.Helper()

	cmd := exec.CommandContext(ctx, "docker", "compose", action, "catalog")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("docker compose %s catalog failed: %v\n%s", action, err, string(out))
	}
}
