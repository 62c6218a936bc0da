package demostore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/saucecheck/demostore"
)

func TestParsePopupMode(t *testing.T) {
	for _, mode := range demostore.PopupModes {
		got, err := demostore.ParsePopupMode(string(mode))
		require.NoError(t, err)
		assert.Equal(t, mode, got)
	}

	for _, value := range []string{"", "sometimes", "Always"} {
		_, err := demostore.ParsePopupMode(value)
		assert.EqualError(t, err, `unknown popup mode "`+value+`"`)
	}
}
