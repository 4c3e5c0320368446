package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexAliasing(t *testing.T) {
	// from aliases to the page of the nearest lower multiple of size.
	assert.Equal(t, 0, Page{From: 0, Size: 10}.Index())
	assert.Equal(t, 0, Page{From: 5, Size: 10}.Index())
	assert.Equal(t, 0, Page{From: 9, Size: 10}.Index())
	assert.Equal(t, 1, Page{From: 10, Size: 10}.Index())
	assert.Equal(t, 1, Page{From: 15, Size: 10}.Index())
	assert.Equal(t, 2, Page{From: 20, Size: 10}.Index())
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Page{From: 5, Size: 10}.Offset())
	assert.Equal(t, 10, Page{From: 15, Size: 10}.Offset())
}

func TestBounds(t *testing.T) {
	start, end := Page{From: 0, Size: 2}.Bounds(5)
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)

	start, end = Page{From: 2, Size: 2}.Bounds(5)
	assert.Equal(t, 2, start)
	assert.Equal(t, 4, end)

	// Last partial page.
	start, end = Page{From: 4, Size: 2}.Bounds(5)
	assert.Equal(t, 4, start)
	assert.Equal(t, 5, end)

	// Past the end.
	start, end = Page{From: 10, Size: 2}.Bounds(5)
	assert.Equal(t, start, end)

	// Non-positive size means no paging.
	start, end = Page{From: 3, Size: 0}.Bounds(5)
	assert.Equal(t, 0, start)
	assert.Equal(t, 5, end)
}
