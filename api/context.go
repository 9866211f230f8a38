package api

import (
	"context"
	"errors"
	"time"
)

type keyType string

const (
	userIDKey         keyType = "userID"
	requestTimeoutKey keyType = "requestTimeout"
)

// ctxWithUserID adds a user ID to the context
func ctxWithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ctxGetUserID retrieves a user ID from the context
func ctxGetUserID(ctx context.Context) (uint, error) {
	if ctxValue := ctx.Value(userIDKey); ctxValue == nil {
		return 0, errors.New("key not found in context")
	} else if userID, ok := ctxValue.(uint); !ok {
		return 0, errors.New("value is not of type `uint`")
	} else {
		return userID, nil
	}
}

// ctxWithRequestTimeout records the deadline budget applied to the request
func ctxWithRequestTimeout(ctx context.Context, timeout time.Duration) context.Context {
	return context.WithValue(ctx, requestTimeoutKey, timeout)
}

// ctxGetRequestTimeout returns the recorded budget, or zero when none was applied
func ctxGetRequestTimeout(ctx context.Context) time.Duration {
	timeout, _ := ctx.Value(requestTimeoutKey).(time.Duration)
	return timeout
}
