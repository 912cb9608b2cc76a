package persistence

import "github.com/spec-kit/staff-catalog/internal/config"

func configWithoutDSN() config.PostgresConfig {
	return config.PostgresConfig{}
}

func redisDisabled() config.RedisConfig {
	return config.RedisConfig{}
}
