package nakama

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"tictactoe/internal/config"
	"tictactoe/internal/domain"
	"tictactoe/internal/ports"

	"github.com/google/go-cmp/cmp"
	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	broadcastCount int
	labelUpdates   int
	lastOpCode     int64
	lastData       []byte
	lastLabel      string
	opCodes        []int64
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.broadcastCount++
	md.lastOpCode = opCode
	md.lastData = append([]byte(nil), data...)
	md.opCodes = append(md.opCodes, opCode)
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	md.lastLabel = label
	return nil
}

func (md *mockDispatcher) sent(opCode int64) bool {
	for _, op := range md.opCodes {
		if op == opCode {
			return true
		}
	}
	return false
}

// fakeScoreStore implements ports.ScorePort in memory.
type fakeScoreStore struct {
	stored map[string]domain.Scoreboard
	saves  int
}

func (f *fakeScoreStore) CreateOnce(ctx context.Context, userID string) (bool, error) {
	if _, ok := f.stored[userID]; ok {
		return false, nil
	}
	f.stored[userID] = domain.Scoreboard{}
	return true, nil
}

func (f *fakeScoreStore) Load(ctx context.Context, userID string) (domain.Scoreboard, error) {
	return f.stored[userID], nil
}

func (f *fakeScoreStore) Save(ctx context.Context, userID string, scores domain.Scoreboard) error {
	f.saves++
	f.stored[userID] = scores
	return nil
}

func newTestMatch(store ports.ScorePort) *MatchState {
	cfg := config.Defaults()
	cfg.BotMinDelayTicks, cfg.BotMaxDelayTicks = 0, 0
	state := newMatchState(&cfg, store, rand.New(rand.NewSource(7)))
	state.HumanID = "user-1"
	return state
}

func decodePayload(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("payload %q is not JSON: %v", data, err)
	}
	return out
}

func TestHandleStartGame(t *testing.T) {
	mh := &matchHandler{}
	d := &mockDispatcher{}
	state := newTestMatch(nil)

	mh.handleMessage(context.Background(), state, d, noopLogger{}, "user-1", OpStartGame,
		[]byte(`{"board_size":4,"difficulty":"Easy","human_starts":true}`))

	if state.Game == nil {
		t.Fatal("expected a game to be started")
	}
	if state.Game.Board.Size() != 4 || state.Game.Settings.Difficulty != "easy" {
		t.Fatalf("unexpected settings %+v", state.Game.Settings)
	}
	if state.Bot.UserID != "bot-easy" {
		t.Fatalf("bot = %+v, want the easy identity", state.Bot)
	}
	if d.labelUpdates != 1 || d.lastOpCode != OpGameStarted {
		t.Fatalf("labelUpdates=%d lastOpCode=%d", d.labelUpdates, d.lastOpCode)
	}
	got := decodePayload(t, d.lastData)
	want := map[string]interface{}{
		"board_size":   float64(4),
		"difficulty":   "easy",
		"human_mark":   "X",
		"human_starts": true,
		"bot_mark":     "O",
		"to_move":      "X",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("game started payload mismatch (-want +got):\n%s", diff)
	}

	mh.handleMessage(context.Background(), state, d, noopLogger{}, "user-1", OpStartGame, nil)
	if d.lastOpCode != OpGameError {
		t.Fatalf("restart during play: lastOpCode=%d, want OpGameError", d.lastOpCode)
	}
	if code := decodePayload(t, d.lastData)["code"]; code != float64(409) {
		t.Fatalf("error code = %v, want 409", code)
	}
}

func TestHandleStartGame_RejectsBadSettings(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "size too large", data: `{"board_size":11}`},
		{name: "fractional size", data: `{"board_size":3.5}`},
		{name: "unknown difficulty", data: `{"difficulty":"medium"}`},
		{name: "bad mark", data: `{"human_mark":"Z"}`},
		{name: "not json", data: `board`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mh := &matchHandler{}
			d := &mockDispatcher{}
			state := newTestMatch(nil)

			mh.handleMessage(context.Background(), state, d, noopLogger{}, "user-1", OpStartGame, []byte(tt.data))
			if state.Game != nil {
				t.Fatalf("game started with %s", tt.data)
			}
			if d.lastOpCode != OpGameError {
				t.Fatalf("lastOpCode=%d, want OpGameError", d.lastOpCode)
			}
		})
	}
}

func TestHandleMessage_IgnoresOtherUsers(t *testing.T) {
	mh := &matchHandler{}
	d := &mockDispatcher{}
	state := newTestMatch(nil)

	mh.handleMessage(context.Background(), state, d, noopLogger{}, "user-2", OpStartGame, nil)
	if state.Game != nil || d.broadcastCount != 0 {
		t.Fatalf("stranger changed the match: game=%v broadcasts=%d", state.Game, d.broadcastCount)
	}
}

func TestHandlePlayMove(t *testing.T) {
	mh := &matchHandler{}
	d := &mockDispatcher{}
	state := newTestMatch(nil)
	ctx := context.Background()

	mh.handleMessage(ctx, state, d, noopLogger{}, "user-1", OpPlayMove, []byte(`{"row":0,"col":0}`))
	if d.lastOpCode != OpGameError || decodePayload(t, d.lastData)["message"] != "game not started" {
		t.Fatalf("move before start: op=%d data=%s", d.lastOpCode, d.lastData)
	}

	mh.handleMessage(ctx, state, d, noopLogger{}, "user-1", OpStartGame, []byte(`{"human_starts":true}`))

	mh.handleMessage(ctx, state, d, noopLogger{}, "user-1", OpPlayMove, []byte(`{"row":1}`))
	if d.lastOpCode != OpGameError || decodePayload(t, d.lastData)["message"] != "col is required" {
		t.Fatalf("missing col: op=%d data=%s", d.lastOpCode, d.lastData)
	}

	mh.handleMessage(ctx, state, d, noopLogger{}, "user-1", OpPlayMove, []byte(`{"row":5,"col":0}`))
	if d.lastOpCode != OpGameError {
		t.Fatalf("off-board move: op=%d", d.lastOpCode)
	}
	if msg, _ := decodePayload(t, d.lastData)["message"].(string); !strings.Contains(msg, "out of bounds") {
		t.Fatalf("off-board message = %q", msg)
	}

	mh.handleMessage(ctx, state, d, noopLogger{}, "user-1", OpPlayMove, []byte(`{"row":0,"col":0}`))
	if d.lastOpCode != OpMovePlayed || state.Game.MoveCount != 1 {
		t.Fatalf("legal move: op=%d moves=%d", d.lastOpCode, state.Game.MoveCount)
	}
	got := decodePayload(t, d.lastData)
	if got["mark"] != "X" || got["by_bot"] != false || got["next_to_move"] != "O" {
		t.Fatalf("move played payload = %v", got)
	}
}

func TestProcessBot_WaitsForDelay(t *testing.T) {
	mh := &matchHandler{}
	d := &mockDispatcher{}
	state := newTestMatch(nil)
	state.BotMinDelay, state.BotMaxDelay = 2, 2
	ctx := context.Background()

	mh.handleMessage(ctx, state, d, noopLogger{}, "user-1", OpStartGame, []byte(`{"human_starts":false}`))

	state.Tick = 10
	mh.processBot(ctx, state, d, noopLogger{})
	if d.lastOpCode != OpBotThinking || state.BotWaitUntil != 12 {
		t.Fatalf("op=%d waitUntil=%d, want thinking until 12", d.lastOpCode, state.BotWaitUntil)
	}

	count := d.broadcastCount
	state.Tick = 11
	mh.processBot(ctx, state, d, noopLogger{})
	if d.broadcastCount != count || state.Game.MoveCount != 0 {
		t.Fatalf("bot acted early at tick 11")
	}

	state.Tick = 12
	mh.processBot(ctx, state, d, noopLogger{})
	if d.lastOpCode != OpMovePlayed || state.Game.Board.At(1, 1) != domain.O {
		t.Fatalf("op=%d board=%s, want bot O in the center", d.lastOpCode, state.Game.Board)
	}
	got := decodePayload(t, d.lastData)
	search, ok := got["search"].(map[string]interface{})
	if got["by_bot"] != true || !ok || search["strategy"] != "opening" {
		t.Fatalf("bot move payload = %v", got)
	}
	if state.BotWaitUntil != 0 {
		t.Fatalf("waitUntil = %d, want reset", state.BotWaitUntil)
	}
}

func TestFullMatch_PersistsScores(t *testing.T) {
	mh := &matchHandler{}
	d := &mockDispatcher{}
	store := &fakeScoreStore{stored: map[string]domain.Scoreboard{"user-1": {Wins: 1}}}
	state := newTestMatch(store)
	state.Scores = domain.Scoreboard{Wins: 1}
	ctx := context.Background()

	mh.handleMessage(ctx, state, d, noopLogger{}, "user-1", OpStartGame, []byte(`{"board_size":3,"difficulty":"hard","human_starts":true}`))

	for state.Game.Phase == domain.PhasePlaying {
		if state.Game.IsHumanTurn() {
			// The human always takes the first free cell.
			var m domain.Move
			for m = range domain.AvailableMoves(state.Game.Board) {
				break
			}
			data := []byte(fmt.Sprintf(`{"row":%d,"col":%d}`, m.Row, m.Col))
			mh.handleMessage(ctx, state, d, noopLogger{}, "user-1", OpPlayMove, data)
			continue
		}
		state.Tick++
		mh.processBot(ctx, state, d, noopLogger{})
	}

	if state.Game.Winner != domain.O {
		t.Fatalf("winner = %v, board %s", state.Game.Winner, state.Game.Board)
	}
	want := domain.Scoreboard{Wins: 1, Losses: 1}
	if state.Scores != want || store.stored["user-1"] != want || store.saves != 1 {
		t.Fatalf("scores=%+v stored=%+v saves=%d, want %+v saved once", state.Scores, store.stored["user-1"], store.saves, want)
	}
	if !d.sent(OpGameEnded) {
		t.Fatal("expected a game ended event")
	}
	if phase := decodePayload(t, []byte(d.lastLabel))["phase"]; phase != "ended" {
		t.Fatalf("label phase = %v, want ended", phase)
	}

	mh.handleMessage(ctx, state, d, noopLogger{}, "user-1", OpStartGame, nil)
	if state.Game.Phase != domain.PhasePlaying || state.Game.Scores != want {
		t.Fatalf("rematch state = %s scores %+v", state.Game.Phase, state.Game.Scores)
	}
}

func TestMatchLabel(t *testing.T) {
	state := newTestMatch(nil)
	state.HumanID = ""

	label, err := labelFor(state)
	if err != nil {
		t.Fatalf("labelFor: %v", err)
	}
	want := map[string]interface{}{
		"game":       "tictactoe",
		"open":       true,
		"phase":      "lobby",
		"board_size": float64(3),
		"difficulty": "hard",
	}
	if diff := cmp.Diff(want, decodePayload(t, []byte(label))); diff != "" {
		t.Fatalf("label mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchInit_ParamsAndEnv(t *testing.T) {
	mh := &matchHandler{}
	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_ENV, map[string]string{
		envBotMinDelayTicks: "3",
		envBotMaxDelayTicks: "1",
	})

	raw, tickRate, label := mh.MatchInit(ctx, noopLogger{}, nil, nil, map[string]interface{}{
		"board_size": 5,
		"difficulty": "easy",
	})
	state := raw.(*MatchState)

	if tickRate != 1 {
		t.Fatalf("tickRate = %d, want 1", tickRate)
	}
	if state.Settings.BoardSize != 5 || state.Settings.Difficulty != "easy" {
		t.Fatalf("settings = %+v", state.Settings)
	}
	if state.BotMinDelay != 3 || state.BotMaxDelay != 3 {
		t.Fatalf("delay = [%d,%d], want [3,3]", state.BotMinDelay, state.BotMaxDelay)
	}
	if state.ScoreStore != nil {
		t.Fatal("expected no score store without a Nakama module")
	}
	got := decodePayload(t, []byte(label))
	if got["open"] != true || got["board_size"] != float64(5) {
		t.Fatalf("label = %v", got)
	}
}

func TestProcessBot_EndsGameWhenBotCannotMove(t *testing.T) {
	mh := &matchHandler{}
	d := &mockDispatcher{}
	state := newTestMatch(nil)
	ctx := context.Background()

	// A drawn, full board left in the playing phase with the bot to move.
	board, err := domain.ParseBoard([]string{"XOX", "XOO", "OXX"})
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	state.Game = &domain.GameState{
		Settings: domain.GameSettings{BoardSize: 3, Difficulty: "hard", HumanMark: domain.X},
		Phase:    domain.PhasePlaying,
		Board:    board,
		ToMove:   domain.O,
	}

	state.Tick = 1
	mh.processBot(ctx, state, d, noopLogger{})
	if d.lastOpCode != OpGameError || state.Game.Phase != domain.PhaseEnded {
		t.Fatalf("op=%d phase=%s, want OpGameError and ended", d.lastOpCode, state.Game.Phase)
	}
	if state.Scores != (domain.Scoreboard{}) {
		t.Fatalf("scores = %+v, want untouched", state.Scores)
	}

	count := d.broadcastCount
	for state.Tick = 2; state.Tick < 5; state.Tick++ {
		mh.processBot(ctx, state, d, noopLogger{})
	}
	if d.broadcastCount != count {
		t.Fatalf("bot kept retrying: %d extra messages", d.broadcastCount-count)
	}
}

func TestBotDelay_StaysInRange(t *testing.T) {
	state := newTestMatch(nil)
	state.BotMinDelay, state.BotMaxDelay = 1, 3

	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		delay := state.botDelay()
		if delay < 1 || delay > 3 {
			t.Fatalf("delay %d outside [1,3]", delay)
		}
		seen[delay] = true
	}
	if len(seen) != 3 {
		t.Fatalf("saw delays %v, want all of 1..3", seen)
	}
}
