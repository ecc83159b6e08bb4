package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"tictactoe/internal/bot"
	"tictactoe/internal/config"
	"tictactoe/internal/domain"
	"tictactoe/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// gRPC status codes returned through runtime.NewError.
const (
	codeInvalidArgument = 3
	codeInternal        = 13
	codeUnauthenticated = 16
)

var errInvalidRequest = errors.New("invalid request")

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcChooseMove, rpcChooseMove); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcScoreHistory, rpcScoreHistory)
}

// ChooseMoveRequest is the payload of RpcChooseMove.
type ChooseMoveRequest struct {
	Board      []string `json:"board"`
	Mark       string   `json:"mark"`
	Difficulty string   `json:"difficulty"`
}

// ChooseMoveResponse reports the bot's move and its search diagnostics.
type ChooseMoveResponse struct {
	HasMove   bool   `json:"has_move"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Score     int    `json:"score"`
	Nodes     int    `json:"nodes"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Strategy  string `json:"strategy"`
	Aborted   bool   `json:"aborted"`
}

func rpcChooseMove(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req ChooseMoveRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError(fmt.Sprintf("%v: %v", errInvalidRequest, err), codeInvalidArgument)
	}

	resp, err := chooseMove(req, config.GetGameConfig())
	if err != nil {
		logger.Warn("rpcChooseMove: rejected request: %v", err)
		return "", runtime.NewError(err.Error(), codeInvalidArgument)
	}
	logger.Debug("rpcChooseMove: %d-board %s -> (%d,%d) %s nodes=%d", len(req.Board), req.Difficulty, resp.Row, resp.Col, resp.Strategy, resp.Nodes)

	b, err := json.Marshal(resp)
	if err != nil {
		return "", runtime.NewError(err.Error(), codeInternal)
	}
	return string(b), nil
}

// chooseMove validates req and runs the bot on it.
func chooseMove(req ChooseMoveRequest, cfg *config.GameConfig, opts ...bot.Option) (ChooseMoveResponse, error) {
	if err := domain.ValidateSize(len(req.Board)); err != nil {
		return ChooseMoveResponse{}, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	board, err := domain.ParseBoard(req.Board)
	if err != nil {
		return ChooseMoveResponse{}, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	mark, err := domain.ParseMark(req.Mark)
	if err != nil || !mark.IsPlayer() {
		return ChooseMoveResponse{}, fmt.Errorf("%w: mark must be X or O, got %q", errInvalidRequest, req.Mark)
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = cfg.DefaultDifficulty
	}
	d, err := bot.ParseDifficulty(difficulty)
	if err != nil {
		return ChooseMoveResponse{}, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}

	all := append([]bot.Option{
		bot.WithTimeBudget(cfg.SearchTimeBudget()),
		bot.WithEasyRandomRate(cfg.EasyRandomRate),
	}, opts...)
	res, err := bot.ChooseMove(board, mark, d, all...)
	if err != nil {
		return ChooseMoveResponse{}, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}

	resp := ChooseMoveResponse{
		HasMove:   res.HasMove,
		Score:     res.Score,
		Nodes:     res.Nodes,
		ElapsedMs: res.Elapsed.Milliseconds(),
		Strategy:  string(res.Strategy),
		Aborted:   res.Aborted,
	}
	if res.HasMove {
		resp.Row, resp.Col = res.Move.Row, res.Move.Col
	}
	return resp, nil
}

// ScoreHistoryResponse is the payload returned by RpcScoreHistory.
type ScoreHistoryResponse struct {
	domain.Scoreboard
	Played int `json:"played"`
}

func rpcScoreHistory(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	resp, err := scoreHistory(ctx, NewNakamaScoreAdapter(nk), userID)
	if err != nil {
		logger.Error("rpcScoreHistory [User:%s]: %v", userID, err)
		return "", err
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return "", runtime.NewError(err.Error(), codeInternal)
	}
	return string(b), nil
}

func scoreHistory(ctx context.Context, scores ports.ScorePort, userID string) (ScoreHistoryResponse, error) {
	if userID == "" {
		return ScoreHistoryResponse{}, runtime.NewError("no user id in context", codeUnauthenticated)
	}
	sb, err := scores.Load(ctx, userID)
	if err != nil {
		return ScoreHistoryResponse{}, runtime.NewError(err.Error(), codeInternal)
	}
	return ScoreHistoryResponse{Scoreboard: sb, Played: sb.Played()}, nil
}
