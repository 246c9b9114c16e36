package diag

import "fmt"

// ErrorKind classifies a SoulError frame.
type ErrorKind uint16

const (
	// UnknownKind - на первое время, не должен появляться в выводе
	UnknownKind ErrorKind = 0

	// Синтаксические
	UnexpectedEnd        ErrorKind = 1001
	UnexpectedToken      ErrorKind = 1002
	UnmatchedParenthesis ErrorKind = 1003

	// Типы и имена
	WrongType       ErrorKind = 1101
	InvalidType     ErrorKind = 1102
	InvalidName     ErrorKind = 1103
	NotFoundInScope ErrorKind = 1104

	// Контекст и аргументы
	InvalidInContext ErrorKind = 1201
	ArgError         ErrorKind = 1202

	// Внешние
	IOError       ErrorKind = 1901
	InternalError ErrorKind = 1999
)

var kindNames = map[ErrorKind]string{
	UnknownKind:          "Unknown",
	UnexpectedEnd:        "UnexpectedEnd",
	UnexpectedToken:      "UnexpectedToken",
	UnmatchedParenthesis: "UnmatchedParenthesis",
	WrongType:            "WrongType",
	InvalidType:          "InvalidType",
	InvalidName:          "InvalidName",
	NotFoundInScope:      "NotFoundInScope",
	InvalidInContext:     "InvalidInContext",
	ArgError:             "ArgError",
	IOError:              "IOError",
	InternalError:        "InternalError",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", uint16(k))
}

// ID returns the stable code, e.g. SOUL1003.
func (k ErrorKind) ID() string {
	return fmt.Sprintf("SOUL%04d", uint16(k))
}

// Title is a short human readable description of the kind.
func (k ErrorKind) Title() string {
	switch k {
	case UnexpectedEnd:
		return "unexpected end of input"
	case UnexpectedToken:
		return "unexpected token"
	case UnmatchedParenthesis:
		return "unmatched bracket"
	case WrongType:
		return "wrong type"
	case InvalidType:
		return "invalid type"
	case InvalidName:
		return "invalid name"
	case NotFoundInScope:
		return "not found in scope"
	case InvalidInContext:
		return "not allowed here"
	case ArgError:
		return "invalid arguments"
	case IOError:
		return "io error"
	case InternalError:
		return "internal compiler error"
	default:
		return "error"
	}
}
