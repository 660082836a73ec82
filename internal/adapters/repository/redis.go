package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/okian/candidates/internal/domain/candidate"
)

// Redis keys used by RedisStore.
const (
	redisSeqKey   = "candidates:seq"
	redisIndexKey = "candidates:index"
)

func redisRecordKey(id int64) string {
	return "candidates:" + strconv.FormatInt(id, 10)
}

// RedisStore keeps one hash per candidate and a sorted set of IDs.
type RedisStore struct {
	client redis.UniversalClient
}

// OpenRedis parses a redis:// URL, connects and pings the server.
func OpenRedis(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping redis: %v", ErrUnavailable, err)
	}
	return NewRedisStore(client), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, c candidate.Candidate) (candidate.Candidate, error) {
	if err := checkIntegrity(c); err != nil {
		return candidate.Candidate{}, err
	}

	id, err := s.client.Incr(ctx, redisSeqKey).Result()
	if err != nil {
		return candidate.Candidate{}, fmt.Errorf("save candidate: next id: %w", err)
	}
	c.ID = id

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, redisRecordKey(id),
			"id", id,
			"first_name", c.FirstName,
			"last_name", c.LastName,
			"age", c.Age,
			"birth_date", candidate.FormatDate(c.BirthDate),
		)
		p.ZAdd(ctx, redisIndexKey, redis.Z{Score: float64(id), Member: id})
		return nil
	})
	if err != nil {
		return candidate.Candidate{}, fmt.Errorf("save candidate %d: %w", id, err)
	}
	return c, nil
}

// FindAll implements Store.
func (s *RedisStore) FindAll(ctx context.Context) ([]candidate.Candidate, error) {
	ids, err := s.client.ZRange(ctx, redisIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	out := make([]candidate.Candidate, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, raw := range ids {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: bad index member %q", ErrIntegrity, raw)
			}
			cmds[i] = p.HGetAll(ctx, redisRecordKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	for i, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil {
			return nil, fmt.Errorf("load candidate %s: %w", ids[i], err)
		}
		c, err := decodeRedisCandidate(fields)
		if err != nil {
			return nil, fmt.Errorf("load candidate %s: %w", ids[i], err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Count implements Store.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.ZCard(ctx, redisIndexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count candidates: %w", err)
	}
	return int(n), nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func decodeRedisCandidate(fields map[string]string) (candidate.Candidate, error) {
	if len(fields) == 0 {
		return candidate.Candidate{}, fmt.Errorf("%w: record missing", ErrIntegrity)
	}
	var (
		c   candidate.Candidate
		err error
	)
	if c.ID, err = strconv.ParseInt(fields["id"], 10, 64); err != nil {
		return candidate.Candidate{}, fmt.Errorf("%w: id: %v", ErrIntegrity, err)
	}
	if c.Age, err = strconv.Atoi(fields["age"]); err != nil {
		return candidate.Candidate{}, fmt.Errorf("%w: age: %v", ErrIntegrity, err)
	}
	if c.BirthDate, err = candidate.ParseDate(fields["birth_date"]); err != nil {
		return candidate.Candidate{}, errors.Join(ErrIntegrity, err)
	}
	c.FirstName = fields["first_name"]
	c.LastName = fields["last_name"]
	return c, nil
}
