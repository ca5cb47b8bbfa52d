// Package errs provides structured error handling, derived from the
// patterns in upspin.io/errors and gilcrest/diygoapi.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Op describes an operation, usually as the package and method,
// such as "keboola.ListBuckets".
type Op string

// Parameter represents the parameter related to the error.
type Parameter string

// Kind defines the kind of error this is.
type Kind uint8

// Error is the type that implements the error interface.
// An Error value may leave some values unset.
type Error struct {
	// Op is the operation being performed.
	Op Op
	// Kind is the class of error.
	Kind Kind
	// Param is the parameter related to the error.
	Param Parameter
	// Err is the underlying error that triggered this one, if any.
	Err error
}

// Kinds of errors.
//
// Do not reorder this list or remove any items since that will
// change their values. New items must be added only to the end.
const (
	Other           Kind = iota // Unclassified error
	Invalid                     // Invalid operation for this type of item
	IO                          // External I/O error such as a file write failure
	Exist                       // Item already exists
	NotExist                    // Item does not exist
	Internal                    // Internal error or inconsistency
	Validation                  // Input validation error, including configuration
	Unauthenticated             // Credentials were missing or rejected
	Unauthorized                // Caller is not authorized for the action
	Transient                   // Network or remote 5xx condition, safe to retry
	InvalidRequest              // Invalid request to a remote service
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "other error"
	case Invalid:
		return "invalid operation"
	case IO:
		return "I/O error"
	case Exist:
		return "item already exists"
	case NotExist:
		return "item does not exist"
	case Internal:
		return "internal error"
	case Validation:
		return "input validation error"
	case Unauthenticated:
		return "unauthenticated request"
	case Unauthorized:
		return "unauthorized request"
	case Transient:
		return "transient error"
	case InvalidRequest:
		return "invalid request"
	}

	return "unknown error kind"
}

// E builds an error value from its arguments. There must be at least one
// argument or E panics. The type of each argument determines its meaning.
// If more than one argument of a given type is presented, only the last
// one is recorded.
//
// The types are:
//
//	errs.Op
//		The operation being performed.
//	errs.Kind
//		The class of error.
//	errs.Parameter
//		The parameter related to the error.
//	string
//		Treated as an error message and assigned to the Err field
//		after a call to errs.Str.
//	error
//		The underlying error that triggered this one.
func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("call to errs.E with no arguments")
	}

	e := &Error{}
	for _, arg := range args {
		switch arg := arg.(type) {
		case Op:
			e.Op = arg
		case Kind:
			e.Kind = arg
		case Parameter:
			e.Param = arg
		case string:
			e.Err = Str(arg)
		case *Error:
			copied := *arg
			e.Err = &copied
		case error:
			e.Err = arg
		default:
			return fmt.Errorf("unknown type %T, value %v in error call", arg, arg)
		}
	}

	prev, ok := e.Err.(*Error)
	if !ok {
		return e
	}

	// The previous error was also one of ours. Suppress duplications
	// so the message won't contain the same kind twice.
	if prev.Kind == e.Kind {
		prev.Kind = Other
	}

	if e.Kind == Other {
		e.Kind = prev.Kind
		prev.Kind = Other
	}

	return e
}

func (e *Error) Error() string {
	b := new(strings.Builder)

	if e.Op != "" {
		pad(b, ": ")
		b.WriteString(string(e.Op))
	}

	if e.Kind != 0 {
		pad(b, ": ")
		b.WriteString(e.Kind.String())
	}

	if e.Param != "" {
		pad(b, ": ")
		b.WriteString("parameter " + string(e.Param))
	}

	if e.Err != nil {
		pad(b, ": ")
		b.WriteString(e.Err.Error())
	}

	if b.Len() == 0 {
		return "no error"
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// pad appends s to the builder if the builder already has some data.
func pad(b *strings.Builder, s string) {
	if b.Len() == 0 {
		return
	}

	b.WriteString(s)
}

// Str returns an error that formats as the given text. It is intended
// for use as the error argument to E.
func Str(text string) error {
	return errors.New(text)
}

// KindIs reports whether err, or any error in its chain, carries
// the given Kind.
func KindIs(kind Kind, err error) bool {
	for err != nil {
		e, ok := err.(*Error)
		if !ok {
			return false
		}

		if e.Kind != Other {
			return e.Kind == kind
		}

		err = e.Err
	}

	return false
}

// OpStack returns the chain of operations recorded in err, outermost first.
func OpStack(err error) []string {
	type o struct {
		Op    string
		Order int
	}

	var ops []o

	order := 0
	for err != nil {
		e, ok := err.(*Error)
		if !ok {
			break
		}

		if e.Op != "" {
			ops = append(ops, o{Op: string(e.Op), Order: order})
			order++
		}

		err = e.Err
	}

	stack := make([]string, 0, len(ops))
	for _, op := range ops {
		stack = append(stack, op.Op)
	}

	return stack
}
