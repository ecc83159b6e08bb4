package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"tictactoe/internal/bot"
	"tictactoe/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchRequest optionally preselects the settings of the match's games.
type QuickMatchRequest struct {
	BoardSize  int    `json:"board_size,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// QuickMatchResponse is the payload returned to clients when requesting a match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	params, err := quickMatchParams(payload)
	if err != nil {
		return "", runtime.NewError(err.Error(), codeInvalidArgument)
	}

	// Every match has exactly one human seat, so a new one is always created.
	matchID, err := nk.MatchCreate(ctx, MatchNameTicTacToe, params)
	if err != nil {
		logger.Error("rpcQuickMatch [User:%s]: MatchCreate error: %v", userID, err)
		return "", err
	}
	logger.Info("rpcQuickMatch [User:%s]: Created match %s", userID, matchID)

	b, _ := json.Marshal(QuickMatchResponse{MatchID: matchID, IsNew: true})
	return string(b), nil
}

// quickMatchParams turns the optional request into MatchCreate params.
func quickMatchParams(payload string) (map[string]interface{}, error) {
	params := map[string]interface{}{}
	if payload == "" {
		return params, nil
	}

	var req QuickMatchRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	if req.BoardSize != 0 {
		if err := domain.ValidateSize(req.BoardSize); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidRequest, err)
		}
		params["board_size"] = req.BoardSize
	}
	if req.Difficulty != "" {
		d, err := bot.ParseDifficulty(req.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidRequest, err)
		}
		params["difficulty"] = string(d)
	}
	return params, nil
}
