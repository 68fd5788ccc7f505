package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestGetText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<div>hello <b>wide</b> <i>world</i></div>`))
	require.NoError(t, err)
	require.Equal(t, "hello wide world", GetText(doc))
	require.Equal(t, "", GetText(nil))
}
