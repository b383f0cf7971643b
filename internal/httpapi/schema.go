package httpapi

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed translate_request.schema.json
var translateRequestSchemaJSON string

const missingFieldsMessage = "Missing text or target_lang parameter"

var (
	errMalformedBody     = errors.New("request body is not valid JSON")
	errSchemaUnavailable = errors.New("request schema unavailable")
)

type schemaLoader func() (*jsonschema.Schema, error)

type translateRequestBody struct {
	Text       string  `json:"text"`
	TargetLang string  `json:"target_lang"`
	SourceLang *string `json:"source_lang,omitempty"`
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// decodeTranslateRequest parses and validates a POST /translate body.
// Malformed JSON returns errMalformedBody; schema violations return a
// *jsonschema.ValidationError.
func decodeTranslateRequest(raw []byte) (*translateRequestBody, error) {
	return decodeTranslateRequestWith(raw, loadSchema)
}

// decodeTranslateRequestWith validates against the schema returned by load.
// A load failure is wrapped in errSchemaUnavailable.
func decodeTranslateRequestWith(raw []byte, load schemaLoader) (*translateRequestBody, error) {
	value, err := decodeStrictJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
	}

	schema, err := load()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errSchemaUnavailable, err)
	}
	if err := schema.Validate(value); err != nil {
		return nil, err
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize request JSON: %w", err)
	}
	var body translateRequestBody
	if err := json.Unmarshal(normalized, &body); err != nil {
		return nil, fmt.Errorf("unmarshal request: %w", err)
	}
	if strings.TrimSpace(body.Text) == "" || strings.TrimSpace(body.TargetLang) == "" {
		return nil, fmt.Errorf("text and target_lang must not be blank")
	}
	return &body, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource("translate_request.schema.json", strings.NewReader(translateRequestSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("translate_request.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("body is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("body contains trailing content")
	}

	return value, nil
}
