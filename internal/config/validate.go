package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	tesseraerrors "github.com/alexisbeaulieu97/tessera/pkg/errors"
)

// ValidateDocument checks the document's shape. Scheme syntax and references
// are checked when the definitions are registered.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return tesseraerrors.NewValidationError("document", "document is empty", nil)
	}
	if err := validatorInstance().Struct(doc); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]int, len(doc.Definitions))
	for i, def := range doc.Definitions {
		if first, dup := seen[def.Name]; dup {
			return tesseraerrors.NewValidationError(
				fieldForDefinition(i, "name"),
				fmt.Sprintf("definition %q already declared at definitions[%d]", def.Name, first),
				nil,
			)
		}
		seen[def.Name] = i
		if def.Extends == def.Name {
			return tesseraerrors.NewValidationError(fieldForDefinition(i, "extends"), "a definition cannot extend itself", nil)
		}
	}
	return nil
}

// convertValidationError normalizes validator errors into validation errors.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return tesseraerrors.NewValidationError(field, msg, err)
	}

	return tesseraerrors.NewValidationError("document", err.Error(), err)
}

// yamlishFieldName turns "Document.Definitions[0].Name" into
// "definitions[0].name".
func yamlishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}

func fieldForDefinition(index int, field string) string {
	return fmt.Sprintf("definitions[%d].%s", index, field)
}
