package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductID(t *testing.T) {
	id, err := parseProductID("42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	for _, bad := range []string{"0", "-3", "abc", ""} {
		_, err := parseProductID(bad)
		assert.Error(t, err, bad)
	}
}

func TestInitConfig_FlagsOverrideDefaults(t *testing.T) {
	t.Setenv("STOREFRONT_ITEMS_PER_PAGE", "30")
	require.NoError(t, rootCmd.PersistentFlags().Set("base-url", "http://localhost:9999"))
	t.Cleanup(func() {
		rootCmd.PersistentFlags().Set("base-url", "")
		rootCmd.PersistentFlags().Lookup("base-url").Changed = false
	})
	listCmd.InheritedFlags() // merges the root's persistent flags into listCmd.Flags()

	require.NoError(t, initConfig(listCmd, nil))

	assert.Equal(t, "http://localhost:9999", cfg.BaseURL)
	assert.Equal(t, 30, cfg.ItemsPerPage)
}
