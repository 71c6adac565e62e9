package console

import "errors"

var (
	// ErrUnknownCommand indicates that no command claims the requested alias.
	ErrUnknownCommand = errors.New("console: unknown command")
	// ErrArityMismatch indicates that no signature accepts the supplied argument count.
	ErrArityMismatch = errors.New("console: invalid number of parameters")
	// ErrCoercion indicates that an argument could not be converted to its parameter type.
	ErrCoercion = errors.New("console: argument coercion failed")
	// ErrUnsupportedType indicates a parameter type outside the supported set.
	ErrUnsupportedType = errors.New("console: unsupported parameter type")
	// ErrInvalidDeclaration indicates that a command or field declaration is malformed.
	ErrInvalidDeclaration = errors.New("console: invalid declaration")
	// ErrAliasConflict indicates that two commands claim the same alias.
	ErrAliasConflict = errors.New("console: alias conflict")
	// ErrUnrenderable indicates a value without a textual representation.
	ErrUnrenderable = errors.New("console: value has no textual representation")
	// ErrModuleAlreadyRegistered indicates duplicate module registration.
	ErrModuleAlreadyRegistered = errors.New("console: module already registered")
	// ErrEntityNotTracked indicates an entity lookup miss.
	ErrEntityNotTracked = errors.New("console: entity not tracked")
)
