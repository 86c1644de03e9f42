package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		MongoURI:                "mongodb://localhost:27017",
		MongoDBName:             "aegis",
		RedisHost:               "localhost:6379",
		MinimumTokenMatch:       9,
		MergeBuffer:             2,
		MergeLength:             2,
		JWTSecret:               "secret",
		MaxConcurrentCompute:    5,
		BatchSize:               100,
		StreamRetentionDuration: 24 * time.Hour,
	}
}

func TestValidate_AcceptsAWellFormedConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_RejectsMissingMongoURI(t *testing.T) {
	cfg := validConfig()
	cfg.MongoURI = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsNonPositiveMinimumTokenMatch(t *testing.T) {
	cfg := validConfig()
	cfg.MinimumTokenMatch = 0
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsNegativeMergeBuffer(t *testing.T) {
	cfg := validConfig()
	cfg.MergeBuffer = -1
	assert.Error(t, cfg.Validate())
}

func TestValidate_AllowsZeroMergeBuffer(t *testing.T) {
	cfg := validConfig()
	cfg.MergeBuffer = 0
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RejectsNegativeMergeLength(t *testing.T) {
	cfg := validConfig()
	cfg.MergeLength = -1
	assert.Error(t, cfg.Validate())
}

func TestValidate_AllowsZeroMergeLength(t *testing.T) {
	cfg := validConfig()
	cfg.MergeLength = 0
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RejectsMissingJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsZeroStreamRetention(t *testing.T) {
	cfg := validConfig()
	cfg.StreamRetentionDuration = 0
	assert.Error(t, cfg.Validate())
}
