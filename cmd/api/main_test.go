package main

import (
	"context"
	"testing"

	"gemini-chat/internal/config"
	"gemini-chat/internal/service"
)

func TestNewUserLocker_WithoutRedis(t *testing.T) {
	locker, closeFn, err := newUserLocker(context.Background(), &config.Config{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer closeFn()
	if _, ok := locker.(service.NoopUserLocker); !ok {
		t.Fatalf("expected NoopUserLocker, got %T", locker)
	}
}

func TestNewUserLocker_UnreachableRedisFails(t *testing.T) {
	cfg := &config.Config{RedisAddr: "127.0.0.1:1"}
	locker, _, err := newUserLocker(context.Background(), cfg)
	if err == nil {
		t.Fatalf("expected error for unreachable redis, got locker %T", locker)
	}
}
