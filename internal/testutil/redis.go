// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// TestingTB is the subset of testing.TB used by the helpers.
type TestingTB interface {
	Helper()
	Skip(args ...any)
	Skipf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
}

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

// GetTestRedisAddr returns the first reachable Redis address. REDIS_ADDR wins
// when set; otherwise the usual local addresses are tried.
func GetTestRedisAddr(t TestingTB) (string, bool) {
	t.Helper()

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr, testRedisConnection(t, addr)
	}
	for _, addr := range []string{"redis:6379", "localhost:6379", "localhost:56379"} {
		if testRedisConnection(t, addr) {
			return addr, true
		}
	}
	return "", false
}

func testRedisConnection(t TestingTB, addr string) bool {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr, DialTimeout: time.Second})
	defer func() {
		if err := client.Close(); err != nil {
			t.Logf("warning: failed to close redis ping client: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Logf("Redis not available at %s: %v", addr, err)
		return false
	}
	return true
}

const dbLockPrefix = "parts:testutil:db_lock:"

// selectTestRedisDB returns TEST_REDIS_DB when set, otherwise claims a free
// DB in 1..15 through a SETNX lock kept in DB 0 so parallel packages do not
// flush each other.
func selectTestRedisDB(t TestingTB, addr string) (int, func()) {
	t.Helper()

	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil || db < 0 || db > 15 {
			t.Fatalf("invalid TEST_REDIS_DB %q", v)
		}
		return db, func() {}
	}

	locker := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for db := 1; db <= 15; db++ {
		key := fmt.Sprintf("%s%d", dbLockPrefix, db)
		ok, err := locker.SetNX(ctx, key, os.Getpid(), 5*time.Minute).Result()
		if err != nil {
			_ = locker.Close()
			t.Fatalf("lock test redis db: %v", err)
		}
		if ok {
			return db, func() {
				releaseCtx, releaseCancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer releaseCancel()
				if err := locker.Del(releaseCtx, key).Err(); err != nil {
					t.Logf("warning: failed to release redis db lock %s: %v", key, err)
				}
				if err := locker.Close(); err != nil {
					t.Logf("warning: failed to close redis lock client: %v", err)
				}
			}
		}
	}

	_ = locker.Close()
	t.Skip("no free Redis test database")
	return 0, func() {}
}

// SetupTestRedis connects to a flushed test database. The test is skipped
// when Redis is unreachable, unless TEST_REQUIRE_REDIS or TEST_REQUIRE_INFRA
// is set. The returned cleanup closes the client and releases the database.
func SetupTestRedis(t TestingTB) (*redis.Client, func()) {
	t.Helper()

	addr, ok := GetTestRedisAddr(t)
	if !ok {
		if requireRedis() {
			t.Fatal("Redis required but not available (TEST_REQUIRE_REDIS)")
		}
		t.Skip("Redis not available for testing")
		return nil, func() {}
	}

	db, release := selectTestRedisDB(t, addr)
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		_ = client.Close()
		release()
		t.Fatalf("flush test redis db %d: %v", db, err)
	}

	return client, func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer flushCancel()
		if err := client.FlushDB(flushCtx).Err(); err != nil {
			t.Logf("warning: failed to flush redis db %d: %v", db, err)
		}
		if err := client.Close(); err != nil {
			t.Logf("warning: failed to close redis client: %v", err)
		}
		release()
	}
}
