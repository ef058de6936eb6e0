package rules

import (
	"golang.org/x/tools/go/analysis"

	"github.com/olehluchkiv/apishape/internal/gotypes"
	"github.com/olehluchkiv/apishape/internal/knowntype"
	"github.com/olehluchkiv/apishape/internal/member"
)

// WeakCrypto reports uses of broken hash functions and ciphers.
var WeakCrypto = &analysis.Analyzer{
	Name:     "weakcrypto",
	Doc:      "reports use of broken hash functions and ciphers (MD5, SHA-1, DES, RC4)",
	Requires: requires,
	Run:      runWeakCrypto,
}

var weakPrimitives = []*member.Descriptor{
	member.New(knowntype.CryptoMD5, "New", member.CaseSensitive),
	member.New(knowntype.CryptoMD5, "Sum", member.CaseSensitive),
	member.New(knowntype.CryptoSHA1, "New", member.CaseSensitive),
	member.New(knowntype.CryptoSHA1, "Sum", member.CaseSensitive),
	member.New(knowntype.CryptoDES, "NewCipher", member.CaseSensitive),
	member.New(knowntype.CryptoDES, "NewTripleDESCipher", member.CaseSensitive),
	member.New(knowntype.CryptoRC4, "NewCipher", member.CaseSensitive),
}

func runWeakCrypto(pass *analysis.Pass) (any, error) {
	eachCall(pass, callNodes, func(c *gotypes.Call) {
		callee := c.Callee()
		if callee == nil || !member.MatchesAny(c.Name, callee, weakPrimitives...) {
			return
		}
		pass.Reportf(c.Node.Pos(), "%s.%s uses a broken cryptographic primitive", callee.Owner().Name(), callee.Name())
	})
	return nil, nil
}
