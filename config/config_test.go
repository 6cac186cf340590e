package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	assert := require.New(t)
	t.Setenv("ENV", "test")

	cfg, err := Load()
	assert.NoError(err)
	assert.Equal("8181", cfg.GetPort())
	assert.Equal("debug", cfg.GetLogLevel())
	assert.Equal("./.catalogsearch_test/documents.db", cfg.GetKVDBPath())
	assert.Equal("catalog.bleve", cfg.GetCatalogIndexPath())
	assert.Equal(SearchDefaults{FuzzyThreshold: 2, PrefixBoost: 1.5}, cfg.GetSearchDefaults())
	assert.Equal(0.5, cfg.GetFuzzyIncrement())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	assert := require.New(t)
	t.Setenv("ENV", "test")
	t.Setenv("PORT", "9999")
	t.Setenv("KVDB_PATH", "/tmp/override.db")
	t.Setenv("SEARCH_FUZZY_THRESHOLD", "1")
	t.Setenv("SEARCH_PREFIX_BOOST", "3.25")
	t.Setenv("SEARCH_FUZZY_INCREMENT", "0.75")

	cfg, err := Load()
	assert.NoError(err)
	assert.Equal("9999", cfg.GetPort())
	assert.Equal("/tmp/override.db", cfg.GetKVDBPath())
	assert.Equal(SearchDefaults{FuzzyThreshold: 1, PrefixBoost: 3.25}, cfg.GetSearchDefaults())
	assert.Equal(0.75, cfg.GetFuzzyIncrement())
}

func TestLoadWithoutConfigFileUsesDefaults(t *testing.T) {
	assert := require.New(t)
	t.Setenv("ENV", "doesnotexist")

	cfg, err := Load()
	assert.NoError(err)
	assert.Equal(defaultPort, cfg.GetPort())
	assert.Equal(SearchDefaults{FuzzyThreshold: defaultFuzzyThreshold, PrefixBoost: defaultPrefixBoost}, cfg.GetSearchDefaults())
	assert.Equal(defaultFuzzyIncrement, cfg.GetFuzzyIncrement())
}

func TestLoadRejectsNegativeSearchDefaults(t *testing.T) {
	assert := require.New(t)
	t.Setenv("ENV", "test")
	t.Setenv("SEARCH_FUZZY_THRESHOLD", "-1")

	_, err := Load()
	assert.Error(err)
}

func TestLoadRejectsNonFiniteSearchSettings(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "NaNPrefixBoost", key: "SEARCH_PREFIX_BOOST", value: "NaN"},
		{name: "InfinitePrefixBoost", key: "SEARCH_PREFIX_BOOST", value: "+Inf"},
		{name: "NaNFuzzyIncrement", key: "SEARCH_FUZZY_INCREMENT", value: "NaN"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := require.New(t)
			t.Setenv("ENV", "test")
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			assert.Error(err)
		})
	}
}
