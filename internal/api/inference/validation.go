package inference

import (
	"errors"
	"fmt"

	"SignCoach/pkg/response"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

// checkFieldTypes reports fields whose JSON type does not match
// InferenceRequest. Missing fields are left to the struct validator.
func checkFieldTypes(raw map[string]interface{}) []response.FieldError {
	var fields []response.FieldError

	if v, ok := raw["target_sign_id"]; ok {
		if _, isString := v.(string); !isString {
			fields = append(fields, response.FieldError{Field: "target_sign_id", Reason: "must be a string"})
		}
	}

	if v, ok := raw["features"]; ok && v != nil {
		list, isList := v.([]interface{})
		if !isList {
			fields = append(fields, response.FieldError{Field: "features", Reason: "must be a list of numbers"})
		} else {
			for i, item := range list {
				if _, isNumber := item.(float64); !isNumber {
					fields = append(fields, response.FieldError{
						Field:  fmt.Sprintf("features[%d]", i),
						Reason: "must be a number",
					})
				}
			}
		}
	}

	if v, ok := raw["image"]; ok && v != nil {
		if _, isString := v.(string); !isString {
			fields = append(fields, response.FieldError{Field: "image", Reason: "must be a base64 string"})
		}
	}

	return fields
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// DecodeRequest parses and validates an inference request body. It returns
// ErrInvalidJSON when the body is not a JSON object and a
// *response.ValidationError listing every bad field otherwise.
func DecodeRequest(body []byte, validate *validator.Validate) (*InferenceRequest, error) {
	var raw map[string]interface{}
	if err := jsoniter.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, ErrInvalidJSON
	}

	if fields := checkFieldTypes(raw); len(fields) > 0 {
		return nil, response.NewValidationError(fields...)
	}

	var req InferenceRequest
	if err := jsoniter.Unmarshal(body, &req); err != nil {
		return nil, ErrInvalidJSON
	}

	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		fields := make([]response.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, response.FieldError{Field: fe.Field(), Reason: reasonFor(fe)})
		}
		return nil, response.NewValidationError(fields...)
	}

	return &req, nil
}
