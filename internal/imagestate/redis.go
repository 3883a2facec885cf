package imagestate

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/01moynul/taptosell-admin/internal/models"
)

const keyPrefix = "productform:images:"

// RedisStore keeps each form's lists in one hash: field = variant index,
// value = JSON array of images. The hash expires after ttl of inactivity so
// abandoned forms do not leak.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func formKey(formID string) string {
	return keyPrefix + formID
}

func (s *RedisStore) Append(ctx context.Context, formID string, index int, img models.Image) error {
	current, err := s.List(ctx, formID, index)
	if err != nil {
		return err
	}
	return s.Replace(ctx, formID, index, append(current, img))
}

func (s *RedisStore) Replace(ctx context.Context, formID string, index int, imgs []models.Image) error {
	if imgs == nil {
		imgs = []models.Image{}
	}
	payload, err := json.Marshal(imgs)
	if err != nil {
		return fmt.Errorf("encode images: %w", err)
	}

	key := formKey(formID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, strconv.Itoa(index), payload)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store images for %s[%d]: %w", formID, index, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, formID string, index int) ([]models.Image, error) {
	raw, err := s.client.HGet(ctx, formKey(formID), strconv.Itoa(index)).Result()
	if err == redis.Nil {
		return []models.Image{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load images for %s[%d]: %w", formID, index, err)
	}

	imgs := []models.Image{}
	if err := json.Unmarshal([]byte(raw), &imgs); err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}
	return imgs, nil
}

func (s *RedisStore) Snapshot(ctx context.Context, formID string) (map[int][]models.Image, error) {
	fields, err := s.client.HGetAll(ctx, formKey(formID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load images for %s: %w", formID, err)
	}

	out := make(map[int][]models.Image, len(fields))
	for field, raw := range fields {
		idx, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		imgs := []models.Image{}
		if err := json.Unmarshal([]byte(raw), &imgs); err != nil {
			return nil, fmt.Errorf("decode images: %w", err)
		}
		out[idx] = imgs
	}
	return out, nil
}

func (s *RedisStore) Clear(ctx context.Context, formID string) error {
	if err := s.client.Del(ctx, formKey(formID)).Err(); err != nil {
		return fmt.Errorf("clear images for %s: %w", formID, err)
	}
	return nil
}
