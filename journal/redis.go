package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ConnPool hands out connections; *redis.Pool satisfies it.
type ConnPool interface {
	GetContext(ctx context.Context) (redis.Conn, error)
	Close() error
}

// RedisJournal stores each operation as JSON under op:<id> and indexes it
// in a status:<status> set.
type RedisJournal struct {
	pool   ConnPool
	prefix string
}

var _ Journal = &RedisJournal{}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Key namespace, e.g. "xcbridge:".
	Prefix string
}

func timeoutDialOptions() []redis.DialOption {
	return []redis.DialOption{
		redis.DialConnectTimeout(5 * time.Second),
		redis.DialReadTimeout(5 * time.Second),
		redis.DialWriteTimeout(5 * time.Second),
	}
}

// NewRedisPool dials lazily; nothing touches the network until first use.
func NewRedisPool(opts RedisOptions) *redis.Pool {
	dialOpts := timeoutDialOptions()
	if opts.Password != "" {
		dialOpts = append(dialOpts, redis.DialPassword(opts.Password))
	}
	if opts.DB != 0 {
		dialOpts = append(dialOpts, redis.DialDatabase(opts.DB))
	}
	return &redis.Pool{
		MaxIdle:     5,
		IdleTimeout: 240 * time.Second,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", opts.Addr, dialOpts...)
		},
	}
}

func NewRedisJournal(pool ConnPool, prefix string) *RedisJournal {
	return &RedisJournal{pool: pool, prefix: prefix}
}

func (j *RedisJournal) opKey(id string) string {
	return j.prefix + "op:" + id
}

func (j *RedisJournal) statusKey(status Status) string {
	return j.prefix + "status:" + string(status)
}

func (j *RedisJournal) conn(ctx context.Context) (redis.Conn, error) {
	conn, err := j.pool.GetContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "redis connection")
	}
	return conn, nil
}

// Save writes the record and moves its id into the set of its status. All
// writes run in one MULTI/EXEC so an id is never left in two sets.
func (j *RedisJournal) Save(ctx context.Context, op *Operation) error {
	if op == nil || op.ID == "" {
		return fmt.Errorf("operation id required")
	}
	if !op.Status.Valid() {
		return fmt.Errorf("operation %s has invalid status %q", op.ID, op.Status)
	}
	conn, err := j.conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	bz, err := json.Marshal(op)
	if err != nil {
		return errors.Wrap(err, "marshal operation")
	}

	if err := conn.Send("MULTI"); err != nil {
		return errors.Wrap(err, "redis MULTI")
	}
	if err := conn.Send("SET", j.opKey(op.ID), bz); err != nil {
		return errors.Wrap(err, "redis SET")
	}
	for _, status := range Statuses {
		if status == op.Status {
			continue
		}
		if err := conn.Send("SREM", j.statusKey(status), op.ID); err != nil {
			return errors.Wrap(err, "redis SREM")
		}
	}
	if err := conn.Send("SADD", j.statusKey(op.Status), op.ID); err != nil {
		return errors.Wrap(err, "redis SADD")
	}
	if _, err := conn.Do("EXEC"); err != nil {
		return errors.Wrap(err, "redis EXEC")
	}
	return nil
}

// Close releases the connection pool.
func (j *RedisJournal) Close() error {
	return j.pool.Close()
}

func (j *RedisJournal) load(conn redis.Conn, id string) (*Operation, error) {
	bz, err := redis.Bytes(conn.Do("GET", j.opKey(id)))
	if errors.Is(err, redis.ErrNil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis GET")
	}
	var op Operation
	if err := json.Unmarshal(bz, &op); err != nil {
		return nil, errors.Wrapf(err, "decode operation %s", id)
	}
	return &op, nil
}

func (j *RedisJournal) Get(ctx context.Context, id string) (*Operation, error) {
	conn, err := j.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return j.load(conn, id)
}

func (j *RedisJournal) ListByStatus(ctx context.Context, status Status) ([]*Operation, error) {
	conn, err := j.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	ids, err := redis.Strings(conn.Do("SMEMBERS", j.statusKey(status)))
	if err != nil {
		return nil, errors.Wrap(err, "redis SMEMBERS")
	}
	out := make([]*Operation, 0, len(ids))
	for _, id := range ids {
		op, err := j.load(conn, id)
		if errors.Is(err, ErrNotFound) {
			zap.S().Warnf("status set %s references missing operation %s", status, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].CreatedAt.Before(out[b].CreatedAt)
	})
	return out, nil
}
