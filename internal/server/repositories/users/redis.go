package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/redis/go-redis/v9"
)

// createScript claims the email key and writes the record in one step, so a
// reader never sees an email that points at a missing record.
var createScript = redis.NewScript(`
if redis.call("SETNX", KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call("SET", KEYS[2], ARGV[2])
return 1
`)

// RedisRepository keeps each user as JSON under <prefix>id:<id> and an email
// index under <prefix>email:<email>.
type RedisRepository struct {
	rdb    redis.Cmdable
	prefix string
}

func NewRedisRepository(rdb redis.Cmdable, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "users:"
	}
	return &RedisRepository{rdb: rdb, prefix: prefix}
}

func (r *RedisRepository) emailKey(email string) string { return r.prefix + "email:" + email }
func (r *RedisRepository) idKey(id string) string       { return r.prefix + "id:" + id }

func (r *RedisRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}

	created, err := createScript.Run(ctx, r.rdb,
		[]string{r.emailKey(user.Email), r.idKey(user.ID)},
		user.ID, data,
	).Int()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if created == 0 {
		return nil, common.ErrAlreadyExists
	}

	return user, nil
}

func (r *RedisRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	id, err := r.rdb.Get(ctx, r.emailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}
	return r.GetUserByID(ctx, id)
}

func (r *RedisRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	data, err := r.rdb.Get(ctx, r.idKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	user := &models.User{}
	if err := json.Unmarshal(data, user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", id, err)
	}
	return user, nil
}
