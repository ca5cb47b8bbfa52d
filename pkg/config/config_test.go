package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keboola/waii-integration/pkg/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("KEBOOLA_API_TOKEN", "fake-token")
	t.Setenv("KEBOOLA_PROJECT_URL", "https://connection.keboola.com/admin/projects/1234")
	t.Setenv("KEBOOLA_PROJECT_NAME", "demo-project")
	t.Setenv("WAII_API_URL", "https://tweakit.waii.ai/api")
	t.Setenv("WAII_API_KEY", "fake-key")
	t.Setenv("WAII_CONNECTION", "snowflake://demo@account/db")
}

func TestEnvLoader_Load(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.NewEnvLoader().Load(config.NewDefaultEnvBinder())
	require.NoError(t, err)

	require.NoError(t, cfg.Validate())

	assert.Equal(t, "fake-token", cfg.Keboola.APIToken)
	assert.Equal(t, "demo-project", cfg.Keboola.ProjectName)
	assert.Equal(t, "https://tweakit.waii.ai/api", cfg.Waii.APIURL)
	assert.Equal(t, "snowflake://demo@account/db", cfg.Waii.Connection)
	assert.Equal(t, "data/statement_ids", cfg.Output.StatementIDsDir)
	assert.Equal(t, "data/semantic_statements", cfg.Output.StatementsDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestConfig_Validate_MissingRequired(t *testing.T) {
	testCases := []struct {
		name   string
		envVar string
	}{
		{name: "missing keboola token", envVar: "KEBOOLA_API_TOKEN"},
		{name: "missing keboola project url", envVar: "KEBOOLA_PROJECT_URL"},
		{name: "missing keboola project name", envVar: "KEBOOLA_PROJECT_NAME"},
		{name: "missing waii api url", envVar: "WAII_API_URL"},
		{name: "missing waii api key", envVar: "WAII_API_KEY"},
		{name: "missing waii connection", envVar: "WAII_CONNECTION"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.envVar, "")

			cfg, err := config.NewEnvLoader().Load(config.NewDefaultEnvBinder())
			require.NoError(t, err)

			assert.Error(t, cfg.Validate())
		})
	}
}

func TestKeboola_APIBaseURL(t *testing.T) {
	testCases := []struct {
		name       string
		projectURL string
		expect     string
	}{
		{
			name:       "admin url is trimmed",
			projectURL: "https://connection.keboola.com/admin/projects/1234",
			expect:     "https://connection.keboola.com",
		},
		{
			name:       "plain base url is kept",
			projectURL: "https://connection.keboola.com",
			expect:     "https://connection.keboola.com",
		},
		{
			name:       "trailing slash is dropped",
			projectURL: "https://connection.keboola.com/",
			expect:     "https://connection.keboola.com",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			k := config.Keboola{ProjectURL: tc.projectURL}
			assert.Equal(t, tc.expect, k.APIBaseURL())
		})
	}
}
