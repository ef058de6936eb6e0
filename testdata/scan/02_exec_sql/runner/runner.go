package runner

import (
	"context"
	"os/exec"
)

func Archive(ctx context.Context, name string) error {
	return exec.CommandContext(ctx, "bash", "-c", "tar czf /tmp/out.tgz "+name).Run()
}
