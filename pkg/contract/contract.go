// Package contract describes the sign-up payload as an OpenAPI 3 schema so
// other services can validate the same six fields the form does.
package contract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formguard/pkg/config"
	"github.com/goliatone/go-formguard/pkg/validation"
)

// SchemaName is the component name used in exported documents.
const SchemaName = "SignupForm"

// Vendor extensions carrying the rules JSON Schema cannot express without
// lookahead or cross-field references.
const (
	ExtensionRequire = "x-formguard-require"
	ExtensionEquals  = "x-formguard-equals"
	ExtensionMessage = "x-formguard-message"
)

// Format selects the export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned by Encode for unsupported formats.
var ErrUnknownFormat = errors.New("contract: unknown format")

// Schema builds the payload schema from cfg and checks it with kin-openapi.
func Schema(ctx context.Context, cfg config.Config) (*openapi3.Schema, error) {
	schema := openapi3.NewObjectSchema()
	schema.Title = "Sign-up form"
	schema.Required = []string{
		validation.FieldFullName,
		validation.FieldEmail,
		validation.FieldPassword,
		validation.FieldConfirmPassword,
	}

	for _, fieldID := range []string{validation.FieldFullName, validation.FieldEmail, validation.FieldPassword} {
		rule, ok := cfg.Rules[fieldID]
		if !ok {
			schema.WithProperty(fieldID, openapi3.NewStringSchema().WithMinLength(1))
			continue
		}
		property := openapi3.NewStringSchema().WithPattern(rule.Pattern)
		property.Description = rule.Message
		property.Extensions = map[string]any{ExtensionMessage: rule.Message}
		if len(rule.Require) > 0 {
			property.Extensions[ExtensionRequire] = append([]string(nil), rule.Require...)
		}
		schema.WithProperty(fieldID, property)
	}

	confirm := openapi3.NewStringSchema().WithMinLength(1)
	confirm.Description = validation.MessagePasswordsDiffer
	confirm.Extensions = map[string]any{ExtensionEquals: validation.FieldPassword}
	schema.WithProperty(validation.FieldConfirmPassword, confirm)

	age := openapi3.NewFloat64Schema().
		WithMin(float64(cfg.Age.Min)).
		WithMax(float64(cfg.Age.Max))
	age.Description = fmt.Sprintf("Optional, between %d and %d", cfg.Age.Min, cfg.Age.Max)
	schema.WithProperty(validation.FieldAge, age)

	bio := openapi3.NewStringSchema().WithMaxLength(int64(cfg.Bio.MaxLength))
	bio.Description = fmt.Sprintf("Optional, at most %d characters", cfg.Bio.MaxLength)
	schema.WithProperty(validation.FieldBio, bio)

	if err := schema.Validate(ctx); err != nil {
		return nil, fmt.Errorf("contract: validate schema: %w", err)
	}
	return schema, nil
}

// Document wraps the schema in a minimal OpenAPI 3 document, loads it back
// through the kin-openapi loader, and validates the whole document.
func Document(ctx context.Context, cfg config.Config) (*openapi3.T, error) {
	schema, err := Schema(ctx, cfg)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "formguard",
			"version": "1.0.0",
		},
		"paths": map[string]any{},
		"components": map[string]any{
			"schemas": map[string]any{
				SchemaName: schema,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("contract: marshal document: %w", err)
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("contract: validate document: %w", err)
	}
	return doc, nil
}

// Encode writes v (a schema or document) as JSON or YAML.
func Encode(w io.Writer, v any, format Format) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("contract: marshal: %w", err)
	}

	switch format {
	case "", FormatJSON:
		raw = append(raw, '\n')
		_, err = w.Write(raw)
		return err
	case FormatYAML:
		// JSON is valid YAML; decoding into a node keeps the key order.
		var node yaml.Node
		if err := yaml.Unmarshal(raw, &node); err != nil {
			return fmt.Errorf("contract: convert to yaml: %w", err)
		}
		blockStyle(&node)
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&node); err != nil {
			return fmt.Errorf("contract: encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Payload converts form values into the wire shape the schema describes:
// blank values are omitted, matching the trimmed required check, and age
// becomes a number when it parses as one. Bio is passed through as is since
// its length bound applies to whitespace too.
func Payload(values map[string]string) map[string]any {
	out := make(map[string]any, len(values))
	for key, value := range values {
		if key == validation.FieldBio {
			out[key] = value
			continue
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		if key == validation.FieldAge {
			if n, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				out[key] = n
				continue
			}
		}
		out[key] = value
	}
	return out
}

// ValidatePayload checks payload against schema, including the vendor
// extensions. All failures are joined into the returned error.
func ValidatePayload(schema *openapi3.Schema, payload map[string]any) error {
	if schema == nil {
		return errors.New("contract: schema is nil")
	}

	var errs []error
	if err := schema.VisitJSON(payload, openapi3.MultiErrors()); err != nil {
		errs = append(errs, err)
	}

	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		value, ok := payload[name].(string)
		if !ok {
			continue
		}
		for _, expr := range stringList(ref.Value.Extensions[ExtensionRequire]) {
			re, err := regexp.Compile(expr)
			if err != nil {
				errs = append(errs, fmt.Errorf("contract: %s: compile %q: %w", name, expr, err))
				continue
			}
			if !re.MatchString(value) {
				errs = append(errs, fmt.Errorf("contract: %s: does not match %q", name, expr))
			}
		}
		if other, ok := ref.Value.Extensions[ExtensionEquals].(string); ok {
			if payload[other] != value {
				errs = append(errs, fmt.Errorf("contract: %s: must equal %s", name, other))
			}
		}
	}
	return errors.Join(errs...)
}

// blockStyle drops the flow and quoting styles inherited from JSON.
func blockStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		blockStyle(child)
	}
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
