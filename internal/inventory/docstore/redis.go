package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/tair/inventory-tracker/internal/inventory/domain"
)

const (
	docKeyPrefix   = "doc:"
	indexKeyPrefix = "index:"
)

// RedisStore keeps each document in a hash whose values are JSON encoded.
// A set per collection indexes the keys so empty documents still exist.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) docKey(collection, key string) string {
	return s.prefix + docKeyPrefix + collection + ":" + key
}

func (s *RedisStore) indexKey(collection string) string {
	return s.prefix + indexKeyPrefix + collection
}

func decodeHash(hash map[string]string) (domain.Fields, error) {
	fields := make(domain.Fields, len(hash))
	for name, raw := range hash {
		var value any
		dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
		dec.UseNumber()
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("failed to decode field %q: %w", name, err)
		}
		fields[name] = value
	}
	return fields, nil
}

func encodeHash(fields domain.Fields) ([]any, error) {
	values := make([]any, 0, len(fields)*2)
	for name, value := range fields {
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode field %q: %w", name, err)
		}
		values = append(values, name, string(data))
	}
	return values, nil
}

func (s *RedisStore) ListAll(ctx context.Context, collection string) ([]domain.Document, error) {
	keys, err := s.client.SMembers(ctx, s.indexKey(collection)).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	cmds := make([]*redis.MapStringStringCmd, len(keys))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, key := range keys {
			cmds[i] = pipe.HGetAll(ctx, s.docKey(collection, key))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(keys))
	for i, key := range keys {
		fields, err := decodeHash(cmds[i].Val())
		if err != nil {
			return nil, err
		}
		docs = append(docs, domain.Document{Key: key, Fields: fields})
	}
	return docs, nil
}

func (s *RedisStore) Get(ctx context.Context, collection, key string) (domain.Fields, error) {
	var member *redis.BoolCmd
	var hash *redis.MapStringStringCmd
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		member = pipe.SIsMember(ctx, s.indexKey(collection), key)
		hash = pipe.HGetAll(ctx, s.docKey(collection, key))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !member.Val() {
		return nil, domain.ErrNotFound
	}
	return decodeHash(hash.Val())
}

func (s *RedisStore) Set(ctx context.Context, collection, key string, fields domain.Fields, merge bool) error {
	values, err := encodeHash(fields)
	if err != nil {
		return err
	}

	docKey := s.docKey(collection, key)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if !merge {
			pipe.Del(ctx, docKey)
		}
		if len(values) > 0 {
			pipe.HSet(ctx, docKey, values...)
		}
		pipe.SAdd(ctx, s.indexKey(collection), key)
		return nil
	})
	return err
}

func (s *RedisStore) Delete(ctx context.Context, collection, key string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.docKey(collection, key))
		pipe.SRem(ctx, s.indexKey(collection), key)
		return nil
	})
	return err
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
