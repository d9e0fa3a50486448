package app

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/awaikar-syr/departby/internal/appconf"
)

func TestIsInvalidAPIKey(t *testing.T) {
	application := &Application{Config: appconf.Config{ApiKeys: []string{"key-one", "key-two"}}}

	tests := []struct {
		name    string
		key     string
		invalid bool
	}{
		{"first configured key", "key-one", false},
		{"second configured key", "key-two", false},
		{"unknown key", "key-three", true},
		{"empty key", "", true},
		{"prefix of a valid key", "key-on", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.invalid, application.IsInvalidAPIKey(tt.key))
		})
	}
}

func TestRequestHasInvalidAPIKey(t *testing.T) {
	application := &Application{Config: appconf.Config{ApiKeys: []string{"valid"}}}

	assert.False(t, application.RequestHasInvalidAPIKey(
		httptest.NewRequest("GET", "/api/departby/predictions.json?key=valid", nil)))
	assert.True(t, application.RequestHasInvalidAPIKey(
		httptest.NewRequest("GET", "/api/departby/predictions.json?key=nope", nil)))
	assert.True(t, application.RequestHasInvalidAPIKey(
		httptest.NewRequest("GET", "/api/departby/predictions.json", nil)))
}
