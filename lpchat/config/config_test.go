package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	internal "github.com/loanworks-dev/lpchat/lpchat"
)

// ConfigTestSuite tests the config package functionality
type ConfigTestSuite struct {
	suite.Suite
	tempDir string
	origDir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	var err error
	suite.origDir, err = os.Getwd()
	require.NoError(suite.T(), err)

	// Run from an empty directory so stray config files are not picked up.
	suite.tempDir = suite.T().TempDir()
	require.NoError(suite.T(), os.Chdir(suite.tempDir))
}

func (suite *ConfigTestSuite) TearDownTest() {
	if suite.origDir != "" {
		os.Chdir(suite.origDir)
	}
}

func (suite *ConfigTestSuite) TestLoadConfigWithDefaults() {
	cfg, err := LoadConfig("")

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), cfg)

	assert.Equal(suite.T(), internal.DefaultAppName, cfg.App.Name)
	assert.Equal(suite.T(), "2024-02-15-preview", cfg.Completion.APIVersion)

	assert.Equal(suite.T(), "http://localhost", cfg.Retrieval.Host)
	assert.Equal(suite.T(), 8000, cfg.Retrieval.Port)
	assert.Equal(suite.T(), "loandocuments", cfg.Retrieval.Collection)
	assert.Equal(suite.T(), 3, cfg.Retrieval.Results)

	assert.Equal(suite.T(), internal.DefaultDatabasePath, cfg.Database.Path)

	assert.Equal(suite.T(), 20, cfg.Chat.HistoryWindow)
	assert.InDelta(suite.T(), 0.7, float64(cfg.Chat.Temperature), 0.0001)
	assert.Equal(suite.T(), 800, cfg.Chat.MaxTokens)

	assert.Equal(suite.T(), 7*24*time.Hour, cfg.Retention.MaxAge)
	assert.Equal(suite.T(), 24*time.Hour, cfg.Retention.Interval)
	assert.Equal(suite.T(), time.Hour, cfg.Retention.ErrorBackoff)

	assert.Equal(suite.T(), internal.DefaultLogPath, cfg.Log.Path)
	assert.Equal(suite.T(), "info", cfg.Log.Level)
}

func (suite *ConfigTestSuite) TestLoadConfigWithFile() {
	configContent := `
app:
  name: "pricing-desk"
retrieval:
  host: "http://chroma.internal"
  port: 9000
chat:
  history_window: 10
  max_tokens: 400
retention:
  max_age: 48h
`
	err := os.WriteFile("config.yaml", []byte(configContent), 0o644)
	require.NoError(suite.T(), err)

	cfg, err := LoadConfig("")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "pricing-desk", cfg.App.Name)
	assert.Equal(suite.T(), "http://chroma.internal", cfg.Retrieval.Host)
	assert.Equal(suite.T(), 9000, cfg.Retrieval.Port)
	assert.Equal(suite.T(), 10, cfg.Chat.HistoryWindow)
	assert.Equal(suite.T(), 400, cfg.Chat.MaxTokens)
	assert.Equal(suite.T(), 48*time.Hour, cfg.Retention.MaxAge)

	// Untouched sections keep their defaults.
	assert.Equal(suite.T(), "loandocuments", cfg.Retrieval.Collection)
	assert.InDelta(suite.T(), 0.7, float64(cfg.Chat.Temperature), 0.0001)
}

func (suite *ConfigTestSuite) TestLoadConfigWithExplicitPath() {
	path := suite.tempDir + "/custom.yaml"
	err := os.WriteFile(path, []byte("chat:\n  history_window: 6\n"), 0o644)
	require.NoError(suite.T(), err)

	cfg, err := LoadConfig(path)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 6, cfg.Chat.HistoryWindow)
}

func (suite *ConfigTestSuite) TestLoadConfigMalformedFileFails() {
	err := os.WriteFile("config.yaml", []byte("chat: [not a map"), 0o644)
	require.NoError(suite.T(), err)

	_, err = LoadConfig("")

	assert.Error(suite.T(), err)
}

func (suite *ConfigTestSuite) TestEnvironmentOverrides() {
	suite.T().Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
	suite.T().Setenv("AZURE_OPENAI_KEY", "secret")
	suite.T().Setenv("AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-4o")
	suite.T().Setenv("CHROMA_SERVICE_HOST", "http://chroma")
	suite.T().Setenv("CHROMA_SERVICE_PORT", "8800")
	suite.T().Setenv("LPCHAT_CHAT_MAX_TOKENS", "512")

	cfg, err := LoadConfig("")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "https://example.openai.azure.com", cfg.Completion.Endpoint)
	assert.Equal(suite.T(), "secret", cfg.Completion.APIKey)
	assert.Equal(suite.T(), "gpt-4o", cfg.Completion.Deployment)
	assert.Equal(suite.T(), "http://chroma", cfg.Retrieval.Host)
	assert.Equal(suite.T(), 8800, cfg.Retrieval.Port)
	assert.Equal(suite.T(), 512, cfg.Chat.MaxTokens)
}
