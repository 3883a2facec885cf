package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath(t *testing.T) {
	assert.Equal(t, "/admin/products", Path(AdminProducts))
	assert.Equal(t, "/", Path(Page("nope")))
	assert.Equal(t, "/admin/products/edit/42", EditPath(42))
}

func TestRecorder(t *testing.T) {
	var r Recorder
	_, ok := r.Target()
	assert.False(t, ok)

	r.NavigateTo(AdminProducts)
	target, ok := r.Target()
	assert.True(t, ok)
	assert.Equal(t, "/admin/products", target)
}
