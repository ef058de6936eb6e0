package rules

import (
	"go/ast"
	"go/constant"
	"path"

	"golang.org/x/tools/go/analysis"

	"github.com/olehluchkiv/apishape/internal/gotypes"
	"github.com/olehluchkiv/apishape/internal/knowntype"
	"github.com/olehluchkiv/apishape/internal/member"
	"github.com/olehluchkiv/apishape/internal/shape"
)

// ShellExec reports os/exec commands that run a shell over a script built at
// run time.
var ShellExec = &analysis.Analyzer{
	Name:     "shellexec",
	Doc:      "reports exec.Command running a shell with -c and a script built at run time",
	Requires: requires,
	Run:      runShellExec,
}

var commandName = shape.AnyMethodArgument([]*member.Descriptor{
	member.New(knowntype.OSExec, "Command", member.CaseSensitive),
	member.New(knowntype.OSExec, "CommandContext", member.CaseSensitive),
}, "name", member.CaseSensitive)

var shells = map[string]bool{
	"sh": true, "bash": true, "zsh": true, "dash": true, "ksh": true,
	"cmd": true, "cmd.exe": true, "powershell": true, "pwsh": true,
}

func runShellExec(pass *analysis.Pass) (any, error) {
	eachCall(pass, callNodes, func(c *gotypes.Call) {
		shell := false
		for s := range c.Sites() {
			if !commandName.IsMatch(s) {
				continue
			}
			v, ok := c.Constant(s.Position)
			shell = ok && v.Kind() == constant.String && shells[path.Base(constant.StringVal(v))]
		}
		if !shell {
			return
		}
		args, _ := c.Arguments("arg")
		for i := 0; i+1 < len(args); i++ {
			if !isShellFlag(c, args[i]) {
				continue
			}
			script := args[i+1]
			if tv := c.Info().Types[script]; tv.Value == nil {
				pass.Reportf(script.Pos(), "shell script built at run time is passed to a shell; pass arguments to the program directly")
			}
			return
		}
	})
	return nil, nil
}

// isShellFlag reports whether arg is the constant flag that makes a shell
// run its next argument as a script.
func isShellFlag(c *gotypes.Call, arg ast.Expr) bool {
	tv, ok := c.Info().Types[arg]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return false
	}
	switch constant.StringVal(tv.Value) {
	case "-c", "/c", "/C", "-Command":
		return true
	}
	return false
}
