package nakama

import (
	"context"
	"database/sql"
	"math/rand"
	"strconv"
	"time"

	"tictactoe/internal/app"
	"tictactoe/internal/bot"
	"tictactoe/internal/config"
	"tictactoe/internal/domain"
	"tictactoe/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for one human against one bot.
type MatchState struct {
	HumanID      string              `json:"human_id"`      // Empty until the human joins
	Presence     runtime.Presence    `json:"-"`             // Human presence for targeted messaging
	Tick         int64               `json:"tick"`          // Current tick of the match
	Settings     domain.GameSettings `json:"settings"`      // Defaults for the next OpStartGame
	App          *app.Service        `json:"-"`             // Game use-cases
	Game         *domain.GameState   `json:"-"`             // Current or last finished game, nil before the first
	Scores       domain.Scoreboard   `json:"scores"`        // Human's running tally
	Bot          bot.BotIdentity     `json:"bot"`           // Profile of the seated bot
	BotMinDelay  int                 `json:"bot_min_delay"` // Min ticks the bot waits
	BotMaxDelay  int                 `json:"bot_max_delay"` // Max ticks the bot waits
	BotWaitUntil int64               `json:"bot_wait_until"`
	ScoreStore   ports.ScorePort     `json:"-"`
	rng          *rand.Rand
}

// newMatchState builds an empty match from cfg.
func newMatchState(cfg *config.GameConfig, scores ports.ScorePort, rng *rand.Rand) *MatchState {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	settings := domain.GameSettings{
		BoardSize:   cfg.DefaultBoardSize,
		Difficulty:  cfg.DefaultDifficulty,
		HumanMark:   domain.X,
		HumanStarts: cfg.HumanStarts,
	}
	service := app.NewService(
		rand.New(rand.NewSource(rng.Int63())),
		bot.WithTimeBudget(cfg.SearchTimeBudget()),
		bot.WithEasyRandomRate(cfg.EasyRandomRate),
	)
	d, err := bot.ParseDifficulty(settings.Difficulty)
	if err != nil {
		d = bot.DifficultyHard
	}
	return &MatchState{
		Settings:    settings,
		App:         service,
		Bot:         bot.IdentityFor(d),
		BotMinDelay: cfg.BotMinDelayTicks,
		BotMaxDelay: cfg.BotMaxDelayTicks,
		ScoreStore:  scores,
		rng:         rng,
	}
}

// applyParams copies MatchCreate params onto the default settings.
func (ms *MatchState) applyParams(params map[string]interface{}) {
	switch v := params["board_size"].(type) {
	case int:
		ms.Settings.BoardSize = v
	case int64:
		ms.Settings.BoardSize = int(v)
	case float64:
		ms.Settings.BoardSize = int(v)
	}
	if v, ok := params["difficulty"].(string); ok && v != "" {
		ms.Settings.Difficulty = v
	}
}

// applyEnv overrides the bot delay from the runtime environment.
func (ms *MatchState) applyEnv(env map[string]string) {
	if val, ok := env[envBotMinDelayTicks]; ok {
		if i, err := strconv.Atoi(val); err == nil && i >= 0 {
			ms.BotMinDelay = i
		}
	}
	if val, ok := env[envBotMaxDelayTicks]; ok {
		if i, err := strconv.Atoi(val); err == nil && i >= 0 {
			ms.BotMaxDelay = i
		}
	}
	if ms.BotMaxDelay < ms.BotMinDelay {
		ms.BotMaxDelay = ms.BotMinDelay
	}
}

// botDelay draws the number of ticks the bot waits before moving.
func (ms *MatchState) botDelay() int {
	spread := ms.BotMaxDelay - ms.BotMinDelay
	if spread <= 0 {
		return ms.BotMinDelay
	}
	return ms.BotMinDelay + ms.rng.Intn(spread+1)
}

// phase reports the match phase used in labels and snapshots.
func (ms *MatchState) phase() domain.Phase {
	if ms.Game == nil {
		return domain.PhaseLobby
	}
	return ms.Game.Phase
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	var scores ports.ScorePort
	if nk != nil {
		scores = NewNakamaScoreAdapter(nk)
	}
	state := newMatchState(config.GetGameConfig(), scores, nil)
	state.applyParams(params)

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	state.applyEnv(env)

	label, err := labelFor(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1 // bot delays are counted in ticks
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if matchState.HumanID != "" && matchState.HumanID != presence.GetUserId() {
		return state, false, "Match full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		if matchState.HumanID != "" && matchState.HumanID != userID {
			logger.Warn("MatchJoin: User %s joined but the seat belongs to %s.", userID, matchState.HumanID)
			continue
		}

		firstJoin := matchState.HumanID == ""
		matchState.HumanID = userID
		matchState.Presence = p

		if firstJoin && matchState.ScoreStore != nil {
			scores, err := matchState.ScoreStore.Load(ctx, userID)
			if err != nil {
				logger.Warn("MatchJoin: Could not load scores for %s: %v", userID, err)
			} else {
				matchState.Scores = scores
			}
		}
		logger.Debug("MatchJoin: User %s seated against %s.", userID, matchState.Bot.DisplayName)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		if p.GetUserId() == matchState.HumanID {
			logger.Info("MatchLeave: Human %s left, terminating match.", matchState.HumanID)
			return nil
		}
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		mh.handleMessage(ctx, matchState, dispatcher, logger, msg.GetUserId(), msg.GetOpCode(), msg.GetData())
	}

	mh.processBot(ctx, matchState, dispatcher, logger)

	return matchState
}

// handleMessage routes one client message by op code.
func (mh *matchHandler) handleMessage(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, opCode int64, data []byte) {
	if userID != state.HumanID {
		logger.Warn("MatchLoop: Ignoring opcode %d from %s, not the seated human.", opCode, userID)
		return
	}

	switch opCode {
	case OpStartGame:
		mh.handleStartGame(ctx, state, dispatcher, logger, data)
	case OpPlayMove:
		mh.handlePlayMove(ctx, state, dispatcher, logger, data)
	default:
		logger.Warn("MatchLoop: Unknown opcode received: %d", opCode)
	}
}

func (mh *matchHandler) processBot(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if !state.App.NextToMoveIsBot(state.Game) {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		state.BotWaitUntil = state.Tick + int64(state.botDelay())
		logger.Debug("processBot: %s will act at tick %d (current %d)", state.Bot.UserID, state.BotWaitUntil, state.Tick)
		mh.send(state, dispatcher, logger, OpBotThinking, map[string]interface{}{
			"bot_id":      state.Bot.UserID,
			"act_at_tick": state.BotWaitUntil,
		})
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	events, err := state.App.PlayBotMove(state.Game)
	if err != nil {
		logger.Error("processBot: Bot %s failed to move, ending game: %v", state.Bot.UserID, err)
		// Ended without a winner or a score so the loop stops retrying.
		state.Game.Phase = domain.PhaseEnded
		mh.sendError(state, dispatcher, logger, 500, err.Error())
		mh.updateLabel(state, dispatcher, logger)
		return
	}
	last := state.Game.LastSearch
	logger.Debug("processBot: %s %s nodes=%d score=%d elapsed=%s aborted=%t", state.Bot.UserID, last.Strategy, last.Nodes, last.Score, last.Elapsed, last.Aborted)

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	fields := map[string]interface{}{
		"human_id": state.HumanID,
		"bot": map[string]interface{}{
			"user_id":      state.Bot.UserID,
			"display_name": state.Bot.DisplayName,
			"avatar_index": state.Bot.AvatarIndex,
		},
		"phase":  string(state.phase()),
		"tick":   state.Tick,
		"scores": scoresField(state.Scores),
	}
	if state.Game != nil {
		fields["board"] = rowsField(state.Game.Board)
		fields["to_move"] = markField(state.Game.ToMove)
		fields["human_mark"] = markField(state.Game.Settings.HumanMark)
	}
	mh.send(state, dispatcher, logger, OpMatchState, fields)
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, data []byte) {
	if state.phase() == domain.PhasePlaying {
		mh.sendError(state, dispatcher, logger, 409, "game already in progress")
		return
	}

	request, err := unmarshalStruct(data)
	if err != nil {
		logger.Warn("StartGame: Invalid request from %s: %v", state.HumanID, err)
		mh.sendError(state, dispatcher, logger, 400, err.Error())
		return
	}
	settings, err := startSettings(request, state.Settings)
	if err != nil {
		mh.sendError(state, dispatcher, logger, 400, err.Error())
		return
	}

	game, events, err := state.App.StartGame(settings, &state.Scores)
	if err != nil {
		logger.Warn("StartGame: Failed to start game for %s: %v", state.HumanID, err)
		mh.sendError(state, dispatcher, logger, 400, err.Error())
		return
	}

	state.Game = game
	state.BotWaitUntil = 0
	state.Bot = bot.IdentityFor(bot.Difficulty(game.Settings.Difficulty))

	mh.updateLabel(state, dispatcher, logger)

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}

	logger.Info("StartGame: %dx%d %s game started for %s (human=%s).", settings.BoardSize, settings.BoardSize, game.Settings.Difficulty, state.HumanID, game.Settings.HumanMark)
}

func (mh *matchHandler) handlePlayMove(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, data []byte) {
	if state.Game == nil {
		logger.Warn("handlePlayMove: Game not started.")
		mh.sendError(state, dispatcher, logger, 400, "game not started")
		return
	}

	request, err := unmarshalStruct(data)
	if err != nil {
		mh.sendError(state, dispatcher, logger, 400, err.Error())
		return
	}
	row, col, err := playMove(request)
	if err != nil {
		mh.sendError(state, dispatcher, logger, 400, err.Error())
		return
	}

	events, err := state.App.PlayHumanMove(state.Game, row, col)
	if err != nil {
		logger.Warn("handlePlayMove: User %s failed to play (%d,%d): %v. Board: %s", state.HumanID, row, col, err, state.Game.Board)
		mh.sendError(state, dispatcher, logger, 400, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, fields, err := eventMessage(ev)
	if err != nil {
		logger.Warn("broadcastEvent: %v", err)
		return
	}

	if ended, ok := ev.Payload.(app.GameEndedPayload); ok {
		state.Scores = ended.Scores
		mh.saveScores(ctx, state, logger)
		defer mh.updateLabel(state, dispatcher, logger)
	}

	mh.send(state, dispatcher, logger, opCode, fields)
}

func (mh *matchHandler) saveScores(ctx context.Context, state *MatchState, logger runtime.Logger) {
	if state.ScoreStore == nil || state.HumanID == "" {
		return
	}
	if err := state.ScoreStore.Save(ctx, state.HumanID, state.Scores); err != nil {
		logger.Error("saveScores: Failed to persist scores for %s: %v", state.HumanID, err)
	}
}

// send delivers a payload to the human. Before anyone joined it is a broadcast to nobody.
func (mh *matchHandler) send(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, fields map[string]interface{}) {
	data, err := marshalStruct(fields)
	if err != nil {
		logger.Error("Failed to marshal op %d: %v", opCode, err)
		return
	}

	var recipients []runtime.Presence
	if state.Presence != nil {
		recipients = []runtime.Presence{state.Presence}
	}
	if err := dispatcher.BroadcastMessage(opCode, data, recipients, nil, true); err != nil {
		logger.Error("Failed to send op %d: %v", opCode, err)
	}
}

// sendError reports a rejected request to the human.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, code int, message string) {
	mh.send(state, dispatcher, logger, OpGameError, map[string]interface{}{
		"code":    code,
		"message": message,
	})
}

// labelFor renders the JSON match label used by match listings.
func labelFor(state *MatchState) (string, error) {
	settings := state.Settings
	if state.Game != nil {
		settings = state.Game.Settings
	}
	b, err := marshalStruct(map[string]interface{}{
		"game":       labelGameTicTacToe,
		"open":       state.HumanID == "",
		"phase":      string(state.phase()),
		"board_size": settings.BoardSize,
		"difficulty": settings.Difficulty,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := labelFor(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
