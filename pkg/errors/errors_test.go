package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("widgets.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "widgets.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "widgets.yaml:12")
}

func TestSchemeSyntaxErrorNamesPathAndFragment(t *testing.T) {
	t.Parallel()

	err := NewSchemeSyntaxError("body.title", "@h1[class=x", "unterminated '['")

	var syntaxErr *SchemeSyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	require.Contains(t, err.Error(), "body.title")
	require.Contains(t, err.Error(), "@h1[class=x")
}

func TestInvalidDefinitionErrorUnwraps(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("bad scheme")
	err := NewInvalidDefinitionError("Form", "scheme", "cannot parse", cause)

	require.True(t, stdErrors.Is(err, cause))
	require.Equal(t, "invalid definition Form: scheme: cannot parse", err.Error())
}

func TestCyclicInheritanceErrorJoinsCycle(t *testing.T) {
	t.Parallel()

	err := &CyclicInheritanceError{Cycle: []string{"A", "B", "A"}}
	require.Contains(t, err.Error(), "A -> B -> A")
}

func TestMissingReferenceErrorMentionsRole(t *testing.T) {
	t.Parallel()

	err := &MissingReferenceError{From: "Table", Name: "Row", Role: "repeatable"}
	require.Equal(t, `definition "Table": repeatable "Row" is not registered`, err.Error())
}

func TestValidationErrorCarriesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("definitions[1].name", "duplicate definition name", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "definitions[1].name", validationErr.Field)
}
