package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string   `json:"name" validate:"required,max=5"`
	Price   *float64 `json:"price" validate:"required"`
	StoreID *uint    `json:"store_id,omitempty" validate:"omitempty,gt=0"`
}

func TestValidate(t *testing.T) {
	price := 1.5
	zero := uint(0)

	tests := []struct {
		name   string
		input  sample
		fields FieldErrors
	}{
		{name: "Valid", input: sample{Name: "ok", Price: &price}},
		{
			name:   "Missing fields",
			input:  sample{},
			fields: FieldErrors{"name": "is required", "price": "is required"},
		},
		{
			name:   "Too long and zero store",
			input:  sample{Name: "toolong", Price: &price, StoreID: &zero},
			fields: FieldErrors{"name": "must not exceed 5 characters", "store_id": "must be greater than 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var fields FieldErrors
			require.True(t, errors.As(err, &fields))
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestDecodeError(t *testing.T) {
	var s sample
	err := json.Unmarshal([]byte(`{"name":"a","price":"cheap"}`), &s)
	require.Error(t, err)
	assert.Equal(t, FieldErrors{"price": "must be a number"}, DecodeError(err))

	err = json.Unmarshal([]byte(`{"name":"a","store_id":"one"}`), &s)
	require.Error(t, err)
	assert.Equal(t, FieldErrors{"store_id": "must be an integer"}, DecodeError(err))

	err = json.NewDecoder(strings.NewReader("")).Decode(&s)
	assert.Equal(t, FieldErrors{"body": "is required"}, DecodeError(err))

	err = json.Unmarshal([]byte(`{`), &s)
	assert.Equal(t, FieldErrors{"body": "must be a valid JSON object"}, DecodeError(err))
}

func TestValidate_MaxBytes(t *testing.T) {
	type secret struct {
		Password string `json:"password" validate:"maxbytes=4"`
	}

	assert.NoError(t, Validate(secret{Password: "abcd"}))

	// three runes, six bytes
	err := Validate(secret{Password: "ééé"})
	var fields FieldErrors
	require.True(t, errors.As(err, &fields))
	assert.Equal(t, FieldErrors{"password": "must not exceed 4 bytes"}, fields)
}

func TestFieldErrors_Error(t *testing.T) {
	err := FieldErrors{"name": "is required"}
	assert.Equal(t, "validation failed: name is required", err.Error())
}
