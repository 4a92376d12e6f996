// Package errors defines the error taxonomy shared by the store, the tables and
// the statement compiler. Every failure unwraps to one of the sentinels below so
// callers can branch with Is while still getting context from the typed errors.
package errors

import (
	"errors"
	"fmt"
)

// Schema errors.
var (
	// ErrSchemaNotFound indicates no schema is registered under a name.
	ErrSchemaNotFound = errors.New("schema not found")
	// ErrDuplicateSchema indicates a schema with the same normalized name exists.
	ErrDuplicateSchema = errors.New("schema already exists")
	// ErrInvalidDefinition is the parent of every malformed schema definition.
	ErrInvalidDefinition = errors.New("invalid schema definition")
	// ErrMissingName indicates an empty schema name.
	ErrMissingName = fmt.Errorf("%w: missing name", ErrInvalidDefinition)
	// ErrMissingColumns indicates a schema definition without columns.
	ErrMissingColumns = fmt.Errorf("%w: missing columns", ErrInvalidDefinition)
	// ErrInvalidColumnSpec indicates an empty or repeated column name.
	ErrInvalidColumnSpec = fmt.Errorf("%w: invalid column", ErrInvalidDefinition)
)

// Record errors.
var (
	// ErrMissingRequiredField indicates a non-nullable column had no value.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrRecordNotFound indicates no record has the requested identifier.
	ErrRecordNotFound = errors.New("record not found")
)

// Statement errors.
var (
	// ErrMultipleStatements indicates more than one ";" in a statement.
	ErrMultipleStatements = errors.New("multiple statements")
	// ErrUnrecognizedStatement indicates neither CREATE nor INSERT was found.
	// The store treats it as a no-op rather than a failure.
	ErrUnrecognizedStatement = errors.New("unrecognized statement")
	// ErrColumnValueCountMismatch indicates an INSERT whose column and value
	// lists differ in length.
	ErrColumnValueCountMismatch = errors.New("column and value counts differ")
	// ErrMalformedClause indicates the statement did not match the grammar.
	ErrMalformedClause = errors.New("malformed clause")
)

// ErrInvalidInput indicates an argument of an unsupported shape or kind.
var ErrInvalidInput = errors.New("invalid input")

// SchemaError is a failure to create or find a schema.
type SchemaError struct {
	Schema string // Normalized schema name, may be empty
	Err    error  // One of the schema sentinels
}

func (e *SchemaError) Error() string {
	if e.Schema != "" {
		return fmt.Sprintf("schema %q: %v", e.Schema, e.Err)
	}
	return fmt.Sprintf("schema: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ValidationError is a record rejected by its table.
type ValidationError struct {
	Schema string
	Column string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: %v: %s", e.Schema, e.Unwrap(), e.Column)
	}
	return fmt.Sprintf("%s: %v", e.Schema, e.Unwrap())
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMissingRequiredField
}

// ParseError is statement text that could not be compiled.
type ParseError struct {
	Statement string // Statement text after whitespace normalization
	Message   string // Details, may be empty
	Err       error  // One of the statement sentinels
}

func (e *ParseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("parse %q: %v: %s", e.Statement, e.Unwrap(), e.Message)
	}
	return fmt.Sprintf("parse %q: %v", e.Statement, e.Unwrap())
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMalformedClause
}

// InputError is an argument the operation cannot accept.
type InputError struct {
	Op      string // Operation that rejected the input (e.g., "save", "get")
	Message string
	Err     error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *InputError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// NewSchema creates a SchemaError.
func NewSchema(schema string, err error) *SchemaError {
	return &SchemaError{Schema: schema, Err: err}
}

// NewMissingField creates a ValidationError for an absent non-nullable column.
func NewMissingField(schema, column string) *ValidationError {
	return &ValidationError{Schema: schema, Column: column, Err: ErrMissingRequiredField}
}

// NewParse creates a ParseError.
func NewParse(statement string, err error, message string) *ParseError {
	return &ParseError{Statement: statement, Message: message, Err: err}
}

// NewInput creates an InputError.
func NewInput(op, format string, args ...any) *InputError {
	return &InputError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target any) bool {
	return errors.As(err, target)
}
