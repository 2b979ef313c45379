package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Héllo, World!", "hello-world"},
		{"  leading and trailing  ", "leading-and-trailing"},
		{"Go 1.24 release notes", "go-1-24-release-notes"},
		{"already-a-slug", "already-a-slug"},
		{"!!!", ""},
		{"Crème brûlée", "creme-brulee"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}
