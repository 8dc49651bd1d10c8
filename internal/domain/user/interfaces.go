package user

import "context"

// ProfileRepository provides persistence operations for user profiles.
type ProfileRepository interface {
	Get(ctx context.Context, id string) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
}

// KeyRepository maps hashed API tokens to user ids.
type KeyRepository interface {
	LookupUser(ctx context.Context, keyHash string) (string, error)
	Touch(ctx context.Context, keyHash string) error
}
