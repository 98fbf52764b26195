// Package types holds the closed DataType enumeration shared by the AST,
// the type checker, and the IR — so none of those packages need to import
// each other just to talk about "what type is this expression".
package types

// DataType is the closed set of types the checker assigns to expressions
// and declarations, per spec.md §3.
type DataType int

const (
	UNKNOWN DataType = iota
	AUTO
	INT
	FLOAT
	STRING
	BOOL
	ARRAY
	OBJECT
	FUNCTION
	NULL
	VOID
)

func (d DataType) String() string {
	switch d {
	case UNKNOWN:
		return "UNKNOWN"
	case AUTO:
		return "AUTO"
	case INT:
		return "INT"
	case FLOAT:
		return "FLOAT"
	case STRING:
		return "STRING"
	case BOOL:
		return "BOOL"
	case ARRAY:
		return "ARRAY"
	case OBJECT:
		return "OBJECT"
	case FUNCTION:
		return "FUNCTION"
	case NULL:
		return "NULL"
	case VOID:
		return "VOID"
	default:
		return "UNKNOWN"
	}
}

// Numeric reports whether d is INT or FLOAT.
func Numeric(d DataType) bool { return d == INT || d == FLOAT }

// FromAnnotation maps a textual type annotation (captured from `x: T`
// syntax) to a DataType. An unrecognized annotation yields UNKNOWN.
func FromAnnotation(name string) DataType {
	switch name {
	case "int":
		return INT
	case "float":
		return FLOAT
	case "string":
		return STRING
	case "bool":
		return BOOL
	case "array":
		return ARRAY
	case "object":
		return OBJECT
	case "void":
		return VOID
	case "auto", "":
		return AUTO
	default:
		return UNKNOWN
	}
}

// Compatible implements spec.md §4.3's compatibility rule: AUTO is
// compatible with anything, UNKNOWN with nothing, INT/FLOAT are mutually
// compatible, otherwise compatibility is equality.
func Compatible(a, b DataType) bool {
	if a == AUTO || b == AUTO {
		return true
	}
	if a == UNKNOWN || b == UNKNOWN {
		return false
	}
	if Numeric(a) && Numeric(b) {
		return true
	}
	return a == b
}
