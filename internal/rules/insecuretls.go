package rules

import (
	"crypto/tls"
	"go/constant"

	"golang.org/x/tools/go/analysis"

	"github.com/olehluchkiv/apishape/internal/binding"
	"github.com/olehluchkiv/apishape/internal/gotypes"
	"github.com/olehluchkiv/apishape/internal/knowntype"
	"github.com/olehluchkiv/apishape/internal/member"
	"github.com/olehluchkiv/apishape/internal/shape"
)

// InsecureTLS reports weakened crypto/tls client and server configurations.
var InsecureTLS = &analysis.Analyzer{
	Name:     "insecuretls",
	Doc:      "reports tls.Config literals that disable certificate verification or allow protocol versions below TLS 1.2",
	Requires: requires,
	Run:      runInsecureTLS,
}

var (
	skipVerifyField = shape.ConstructorArgument(knowntype.TLSConfig, "InsecureSkipVerify", binding.NoPosition, member.CaseSensitive)
	minVersionField = shape.ConstructorArgument(knowntype.TLSConfig, "MinVersion", binding.NoPosition, member.CaseSensitive)
)

func runInsecureTLS(pass *analysis.Pass) (any, error) {
	eachCall(pass, literalNodes, func(c *gotypes.Call) {
		for s := range c.Sites() {
			v, ok := c.Constant(s.Position)
			if !ok {
				continue
			}
			switch {
			case skipVerifyField.IsMatch(s):
				if v.Kind() == constant.Bool && constant.BoolVal(v) {
					pass.Reportf(c.Value(s.Position).Pos(), "TLS certificate verification disabled by InsecureSkipVerify")
				}
			case minVersionField.IsMatch(s):
				if v.Kind() != constant.Int {
					continue
				}
				if n, exact := constant.Uint64Val(v); exact && n < tls.VersionTLS12 {
					pass.Reportf(c.Value(s.Position).Pos(), "TLS MinVersion %#04x allows protocol versions below TLS 1.2", n)
				}
			}
		}
	})
	return nil, nil
}
