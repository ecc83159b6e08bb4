package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tictactoe/internal/domain"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	scoreCollection = "tictactoe"
	scoreKey        = "scores_v1"
)

// storageAPI is the subset of runtime.NakamaModule used for score records.
type storageAPI interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
}

// NakamaScoreAdapter implements ports.ScorePort on Nakama storage.
type NakamaScoreAdapter struct {
	nk storageAPI
}

func NewNakamaScoreAdapter(nk storageAPI) *NakamaScoreAdapter {
	return &NakamaScoreAdapter{nk: nk}
}

// CreateOnce writes an empty scoreboard unless one already exists.
func (a *NakamaScoreAdapter) CreateOnce(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("user id is required")
	}
	err := a.write(ctx, userID, domain.Scoreboard{}, "*")
	if errors.Is(err, runtime.ErrStorageRejectedVersion) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Load returns the stored scoreboard, or a zero one when the user has none.
func (a *NakamaScoreAdapter) Load(ctx context.Context, userID string) (domain.Scoreboard, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: scoreCollection,
		Key:        scoreKey,
		UserID:     userID,
	}})
	if err != nil {
		return domain.Scoreboard{}, fmt.Errorf("read scores for %s: %w", userID, err)
	}
	if len(objects) == 0 {
		return domain.Scoreboard{}, nil
	}

	var scores domain.Scoreboard
	if err := json.Unmarshal([]byte(objects[0].GetValue()), &scores); err != nil {
		return domain.Scoreboard{}, fmt.Errorf("decode scores for %s: %w", userID, err)
	}
	return scores, nil
}

// Save overwrites the stored scoreboard.
func (a *NakamaScoreAdapter) Save(ctx context.Context, userID string, scores domain.Scoreboard) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	return a.write(ctx, userID, scores, "")
}

func (a *NakamaScoreAdapter) write(ctx context.Context, userID string, scores domain.Scoreboard, version string) error {
	value, err := json.Marshal(scores)
	if err != nil {
		return err
	}
	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      scoreCollection,
		Key:             scoreKey,
		UserID:          userID,
		Value:           string(value),
		Version:         version,
		PermissionRead:  1, // owner read
		PermissionWrite: 0, // server only
	}})
	if err != nil && !errors.Is(err, runtime.ErrStorageRejectedVersion) {
		return fmt.Errorf("write scores for %s: %w", userID, err)
	}
	return err
}
