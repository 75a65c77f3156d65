package ports

import (
	"context"
)

// SettingsRepository is a durable key-value store. Get returns "" and a nil error for missing keys.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
