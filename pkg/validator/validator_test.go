package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title string   `json:"title" validate:"required,max=5"`
	Kind  string   `json:"kind" validate:"omitempty,oneof=remote onsite"`
	Link  string   `json:"link" validate:"omitempty,url"`
	Min   int      `validate:"gte=0"`
	Max   int      `validate:"gtefield=Min"`
	Tags  []string `json:"tags" validate:"omitempty,dive,required"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   sample
		wantErr string
	}{
		{
			name:  "valid",
			input: sample{Title: "ok", Kind: "remote", Link: "https://example.com", Min: 1, Max: 2},
		},
		{
			name:    "missing title uses json name",
			input:   sample{},
			wantErr: "title is required",
		},
		{
			name:    "too long",
			input:   sample{Title: "toolong"},
			wantErr: "title must not exceed 5 characters",
		},
		{
			name:    "bad enum",
			input:   sample{Title: "ok", Kind: "mars"},
			wantErr: "kind must be one of: remote, onsite",
		},
		{
			name:    "bad url",
			input:   sample{Title: "ok", Link: "not a url"},
			wantErr: "link must be a valid URL",
		},
		{
			name:    "field comparison falls back to struct field name",
			input:   sample{Title: "ok", Min: 5, Max: 2},
			wantErr: "Max must be greater than or equal to Min",
		},
		{
			name:    "empty slice element",
			input:   sample{Title: "ok", Tags: []string{"go", ""}},
			wantErr: "tags[1] is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStructJoinsMultipleErrors(t *testing.T) {
	err := Struct(sample{Title: "toolong", Kind: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "; ")
}
