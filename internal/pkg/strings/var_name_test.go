package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLowerCamel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "BulletApp", want: "bulletApp"},
		{in: "HTTPServer", want: "httpServer"},
		{in: "ID", want: "id"},
		{in: "app", want: "app"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ToLowerCamel(tt.in))
		})
	}
}

func TestToUpperCamel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "App", ToUpperCamel("app"))
	assert.Equal(t, "App", ToUpperCamel("App"))
	assert.Equal(t, "", ToUpperCamel(""))
}
