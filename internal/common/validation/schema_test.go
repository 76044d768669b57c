package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleForm struct {
	Title  string   `json:"title"`
	Status string   `json:"status"`
	Emails []string `json:"emails"`
}

var sampleSchema = JSONSchema{
	Type: "object",
	Properties: map[string]Property{
		"title":  {Type: "string", Pattern: NonBlank},
		"status": {Type: "string", Enum: []string{"Open", "Closed", "Paused"}},
		"emails": {Type: "array", MinItems: IntPtr(1), Items: &Property{Type: "string"}},
	},
	Required: []string{"title", "status", "emails"},
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		doc        interface{}
		wantValid  bool
		wantFields []string
	}{
		{"valid", sampleForm{Title: "Dev", Status: "Open", Emails: []string{"a@x.com"}}, true, nil},
		{"blank title", sampleForm{Title: "   ", Status: "Open", Emails: []string{"a"}}, false, []string{"title"}},
		{"bad enum and no emails", sampleForm{Title: "Dev", Status: "Archived", Emails: []string{}}, false, []string{"status", "emails"}},
		{"missing keys", map[string]interface{}{"title": "Dev"}, false, []string{"status", "emails"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Validate(tt.doc, sampleSchema)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, res.Valid)
			assert.ElementsMatch(t, tt.wantFields, res.Fields())
		})
	}
}

func TestFirstMessage(t *testing.T) {
	res, err := Validate(map[string]interface{}{"title": ""}, sampleSchema)
	require.NoError(t, err)

	msg, failed := res.FirstMessage([]string{"title", "status", "emails"}, map[string]string{
		"title":  "Title is required",
		"status": "Status is required",
	})
	assert.True(t, failed)
	assert.Equal(t, "Title is required", msg)

	ok, _ := Validate(sampleForm{Title: "x", Status: "Open", Emails: []string{"a"}}, sampleSchema)
	_, failed = ok.FirstMessage([]string{"title"}, nil)
	assert.False(t, failed)
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("hr@example.com"))
	assert.False(t, ValidateEmail("hr@"))
	assert.False(t, ValidateEmail(""))
}
