package shellexec

import (
	"context"
	"os/exec"
)

const uptime = "uptime"

func run(ctx context.Context, user string) {
	exec.Command("sh", "-c", "echo "+user)            // want `shell script built at run time is passed to a shell`
	exec.CommandContext(ctx, "/bin/bash", "-c", user) // want `shell script built at run time is passed to a shell`
	exec.Command("cmd.exe", "/C", user)               // want `shell script built at run time is passed to a shell`
	exec.Command("sh", "-c", "echo hello")
	exec.Command("sh", "-c", uptime)
	exec.Command("ls", "-c", user)
	exec.Command("sh", user)
}
