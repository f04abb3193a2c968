// Copyright (c) 2026 Passport. All rights reserved.
// Author: khoa.tranhoang.vn@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hoangtk/passport/internal/platform/constants"
)

// RedisLoginAttemptRepository implements LoginAttemptRepository using Redis.
//
// Counters expire on their own, so an idle attacker's budget refills without
// any cleanup job.
type RedisLoginAttemptRepository struct {
	client *redis.Client
}

// NewLoginAttemptRepository creates a new Redis-backed LoginAttemptRepository.
func NewLoginAttemptRepository(client *redis.Client) *RedisLoginAttemptRepository {
	return &RedisLoginAttemptRepository{client: client}
}

/*
Failures returns the current failure count for a throttle key.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - int64: failures within the active window, 0 when none recorded
  - error: connectivity errors
*/
func (repository *RedisLoginAttemptRepository) Failures(context context.Context, key string) (int64, error) {
	redisKey := constants.RedisPrefixLoginFailure + key

	count, err := repository.client.Get(context, redisKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis_login_attempt_get_failed: %w", err)
	}

	return count, nil
}

/*
RecordFailure increments the failure count and refreshes its TTL.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - error: connectivity errors
*/
func (repository *RedisLoginAttemptRepository) RecordFailure(context context.Context, key string) error {
	redisKey := constants.RedisPrefixLoginFailure + key

	if err := repository.client.Incr(context, redisKey).Err(); err != nil {
		return fmt.Errorf("redis_login_attempt_incr_failed: %w", err)
	}

	// Refresh the window on every failure so a persistent attacker never
	// sees the counter reset mid-burst.
	if err := repository.client.Expire(context, redisKey, FailedLoginWindow).Err(); err != nil {
		return fmt.Errorf("redis_login_attempt_expire_failed: %w", err)
	}

	return nil
}

/*
Clear removes the failure count after a successful login.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - error: connectivity errors
*/
func (repository *RedisLoginAttemptRepository) Clear(context context.Context, key string) error {
	redisKey := constants.RedisPrefixLoginFailure + key

	if err := repository.client.Del(context, redisKey).Err(); err != nil {
		return fmt.Errorf("redis_login_attempt_del_failed: %w", err)
	}

	return nil
}
