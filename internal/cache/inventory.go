package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	SneakerKeyPrefix = "sneaker:%d"
	RevokedKeyPrefix = "session:revoked:%s"
)

const (
	UserTTL    = 5 * time.Minute
	SneakerTTL = 30 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func SneakerKey(sneakerID uint) string {
	return fmt.Sprintf(SneakerKeyPrefix, sneakerID)
}

func RevokedKey(jti string) string {
	return fmt.Sprintf(RevokedKeyPrefix, jti)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateSneaker(ctx context.Context, sneakerID uint) {
	Invalidate(ctx, SneakerKey(sneakerID))
}
