package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStruct(t *testing.T) {
	desc := "  <b>bold</b>  "
	req := &CreateWebhookRequest{
		Name:        "  my hook <script>  ",
		Description: &desc,
	}

	SanitizeStruct(req)

	assert.Equal(t, "my hook &lt;script&gt;", req.Name)
	assert.Equal(t, "&lt;b&gt;bold&lt;/b&gt;", *req.Description)
}

func TestSanitizeStruct_NilPointerField(t *testing.T) {
	req := &CreateWebhookRequest{Name: "plain"}

	SanitizeStruct(req)

	assert.Equal(t, "plain", req.Name)
	assert.Nil(t, req.Description)
}

func TestSanitizeStruct_NonStructInput(t *testing.T) {
	s := "unchanged"
	SanitizeStruct(&s)
	SanitizeStruct(42)
	assert.Equal(t, "unchanged", s)
}

func TestValidateHTTPMethod(t *testing.T) {
	assert.True(t, httpMethodRe.MatchString("POST"))
	assert.True(t, httpMethodRe.MatchString("get"))
	assert.False(t, httpMethodRe.MatchString("PO ST"))
	assert.False(t, httpMethodRe.MatchString("GET;DROP"))
	assert.False(t, httpMethodRe.MatchString(""))
}
