package symbol

// Intrinsic tags a compiler-builtin primitive type.
type Intrinsic uint8

const (
	IntrinsicNone Intrinsic = iota
	Bool
	Int
	Int8
	Int16
	Int32
	Int64
	Uint
	Uint8
	Uint16
	Uint32
	Uint64
	Uintptr
	Float32
	Float64
	Complex64
	Complex128
	String
	UnsafePointer
)

var intrinsicNames = [...]string{
	IntrinsicNone: "none",
	Bool:          "bool",
	Int:           "int",
	Int8:          "int8",
	Int16:         "int16",
	Int32:         "int32",
	Int64:         "int64",
	Uint:          "uint",
	Uint8:         "uint8",
	Uint16:        "uint16",
	Uint32:        "uint32",
	Uint64:        "uint64",
	Uintptr:       "uintptr",
	Float32:       "float32",
	Float64:       "float64",
	Complex64:     "complex64",
	Complex128:    "complex128",
	String:        "string",
	UnsafePointer: "unsafe.Pointer",
}

func (i Intrinsic) String() string {
	if int(i) < len(intrinsicNames) {
		return intrinsicNames[i]
	}
	return "unknown"
}

// PathSegment returns the segment of a sep-delimited namespace path at the
// given depth, counting from the innermost (rightmost) segment. It does not
// allocate.
func PathSegment(path string, sep byte, depth int) (string, bool) {
	if path == "" || depth < 0 {
		return "", false
	}
	end := len(path)
	for {
		start := end - 1
		for start >= 0 && path[start] != sep {
			start--
		}
		if depth == 0 {
			return path[start+1 : end], true
		}
		if start < 0 {
			return "", false
		}
		depth--
		end = start
	}
}

// SplitLast splits a path into its parent and its last segment.
func SplitLast(path string, sep byte) (parent, last string) {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == sep {
			return path[:i], path[i+1:]
		}
	}
	return "", path
}
