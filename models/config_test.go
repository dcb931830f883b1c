package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseStartDate(t *testing.T) {
	epoch := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

	d, err := ParseStartDate(nil)
	require.NoError(t, err)
	assert.Equal(t, epoch, d)

	d, err = ParseStartDate("2020-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01", d.Format("2006-01-02"))

	d, err = ParseStartDate("2021-06-15T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2021-06-15", d.Format("2006-01-02"))

	given := time.Date(2019, 3, 4, 0, 0, 0, 0, time.UTC)
	d, err = ParseStartDate(given)
	require.NoError(t, err)
	assert.Equal(t, given, d)

	_, err = ParseStartDate("2020/01/01")
	assert.Error(t, err)

	_, err = ParseStartDate("2020")
	assert.Error(t, err)

	_, err = ParseStartDate(float64(20200101))
	assert.Error(t, err)
}

func TestReadConfigJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"username": "u", "password": "p", "start_date": "2020-01-01"}`)

	cfg, err := ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "u", cfg.Username)
	assert.Equal(t, "p", cfg.Password)
	assert.Equal(t, DefaultAPIURL, cfg.URL())
}

func TestReadConfigTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
base_url = "https://example.atlassian.net"
username = "u"
password = "p"
start_date = 2020-01-01
`)

	cfg, err := ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.atlassian.net", cfg.URL())

	d, err := ParseStartDate(cfg.StartDate)
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01", d.Format("2006-01-02"))
}

func TestReadConfigEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.json", `{"username": "u", "password": "p"}`)
	t.Setenv("TAP_JIRA_PASSWORD", "from-env")
	t.Setenv("TAP_JIRA_API_URL", "https://env.atlassian.net")

	cfg, err := ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Password)
	assert.Equal(t, "https://env.atlassian.net", cfg.URL())
}

func TestReadConfigMissingRequired(t *testing.T) {
	path := writeFile(t, "config.json", `{"password": "p"}`)

	_, err := ReadConfig(path)
	assert.ErrorContains(t, err, "username")
}

func TestConfigURLPrecedence(t *testing.T) {
	assert.Equal(t, "https://a", Config{APIURL: "https://a", BaseURL: "https://b"}.URL())
	assert.Equal(t, "https://b", Config{BaseURL: "https://b"}.URL())
	assert.Equal(t, DefaultAPIURL, Config{}.URL())
}
