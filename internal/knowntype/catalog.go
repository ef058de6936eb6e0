package knowntype

import "github.com/olehluchkiv/apishape/internal/symbol"

// Go standard library.
var (
	Bytes          = Package("bytes")
	BytesBuffer    = New("bytes", "Buffer")
	Context        = New("context", "Context")
	CryptoDES      = Package("crypto/des")
	CryptoMD5      = Package("crypto/md5")
	CryptoRC4      = Package("crypto/rc4")
	CryptoSHA1     = Package("crypto/sha1")
	CryptoTLS      = Package("crypto/tls")
	TLSConfig      = New("crypto/tls", "Config")
	SQLConn        = New("database/sql", "Conn")
	SQLDB          = New("database/sql", "DB")
	SQLStmt        = New("database/sql", "Stmt")
	SQLTx          = New("database/sql", "Tx")
	Fmt            = Package("fmt")
	HashHash       = New("hash", "Hash")
	TemplateCSS    = New("html/template", "CSS")
	TemplateHTML   = New("html/template", "HTML")
	TemplateJS     = New("html/template", "JS")
	TemplateURL    = New("html/template", "URL")
	IOReader       = New("io", "Reader")
	IOWriter       = New("io", "Writer")
	IOStringWriter = New("io", "StringWriter")
	IterSeq        = New("iter", "Seq", "V")
	IterSeq2       = New("iter", "Seq2", "K", "V")
	MathRand       = Package("math/rand")
	MathRandRand   = New("math/rand", "Rand")
	HTTPClient     = New("net/http", "Client")
	HTTPHeader     = New("net/http", "Header")
	HTTPRequest    = New("net/http", "Request")
	HTTPResponse   = New("net/http", "ResponseWriter")
	OS             = Package("os")
	OSExec         = Package("os/exec")
	OSExecCmd      = New("os/exec", "Cmd")
	OSFile         = New("os", "File")
	Reflect        = Package("reflect")
	Strings        = Package("strings")
	StringsBuilder = New("strings", "Builder")
	AtomicPointer  = New("sync/atomic", "Pointer", "T")
	TextTemplate   = New("text/template", "Template")
	HTMLTemplate   = New("html/template", "Template")
	TimeDuration   = New("time", "Duration")
	Unsafe         = Package("unsafe")
)

// Builtin primitives.
var (
	BoolType          = Intrinsic(symbol.Bool)
	IntType           = Intrinsic(symbol.Int)
	Int32Type         = Intrinsic(symbol.Int32)
	Int64Type         = Intrinsic(symbol.Int64)
	Uint8Type         = Intrinsic(symbol.Uint8)
	Uint16Type        = Intrinsic(symbol.Uint16)
	StringType        = Intrinsic(symbol.String)
	UnsafePointerType = Intrinsic(symbol.UnsafePointer)

	ByteSlice   = ArrayOf(Uint8Type)
	StringSlice = ArrayOf(StringType)
)

// Python modules and classes.
var (
	PyHashlib         = Module("hashlib")
	PyOS              = Module("os")
	PyPickle          = Module("pickle")
	PySubprocess      = Module("subprocess")
	PySubprocessPopen = NewDotted("subprocess", "Popen")
	PyYAML            = Module("yaml")
)
