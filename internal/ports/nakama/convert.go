package nakama

import (
	"fmt"
	"math"

	"tictactoe/internal/app"
	"tictactoe/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// marshalStruct encodes fields as a protojson Struct.
func marshalStruct(fields map[string]interface{}) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build payload: %w", err)
	}
	return protojson.Marshal(s)
}

// unmarshalStruct decodes a client payload. An empty payload is an empty Struct.
func unmarshalStruct(data []byte) (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if len(data) == 0 {
		return s, nil
	}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return s, nil
}

func markField(m domain.Mark) string {
	if !m.IsPlayer() {
		return ""
	}
	return m.String()
}

func rowsField(b domain.Board) []interface{} {
	rows := b.Rows()
	out := make([]interface{}, len(rows))
	for i, row := range rows {
		out[i] = row
	}
	return out
}

func lineField(line domain.Line) []interface{} {
	out := make([]interface{}, len(line))
	for i, c := range line {
		out[i] = map[string]interface{}{"row": c.Row, "col": c.Col}
	}
	return out
}

func scoresField(sb domain.Scoreboard) map[string]interface{} {
	return map[string]interface{}{
		"wins":   sb.Wins,
		"losses": sb.Losses,
		"draws":  sb.Draws,
		"played": sb.Played(),
	}
}

func searchField(s domain.SearchSummary) map[string]interface{} {
	return map[string]interface{}{
		"nodes":      s.Nodes,
		"score":      s.Score,
		"elapsed_ms": s.Elapsed.Milliseconds(),
		"strategy":   s.Strategy,
		"aborted":    s.Aborted,
	}
}

// eventMessage maps an app event to its op code and payload fields.
func eventMessage(ev app.Event) (int64, map[string]interface{}, error) {
	switch p := ev.Payload.(type) {
	case app.GameStartedPayload:
		return OpGameStarted, map[string]interface{}{
			"board_size":   p.Settings.BoardSize,
			"difficulty":   p.Settings.Difficulty,
			"human_mark":   markField(p.Settings.HumanMark),
			"human_starts": p.Settings.HumanStarts,
			"bot_mark":     markField(p.BotMark),
			"to_move":      markField(p.ToMove),
		}, nil
	case app.MovePlayedPayload:
		fields := map[string]interface{}{
			"mark":         markField(p.Mark),
			"row":          p.Move.Row,
			"col":          p.Move.Col,
			"by_bot":       p.ByBot,
			"next_to_move": markField(p.NextToMove),
		}
		if p.Search != nil {
			fields["search"] = searchField(*p.Search)
		}
		return OpMovePlayed, fields, nil
	case app.GameEndedPayload:
		return OpGameEnded, map[string]interface{}{
			"winner":       markField(p.Winner),
			"winning_line": lineField(p.WinningLine),
			"scores":       scoresField(p.Scores),
		}, nil
	default:
		return 0, nil, fmt.Errorf("unknown event %s with payload %T", ev.Kind, ev.Payload)
	}
}

// startSettings reads an OpStartGame request. Missing fields keep the values in defaults.
func startSettings(req *structpb.Struct, defaults domain.GameSettings) (domain.GameSettings, error) {
	settings := defaults
	fields := req.GetFields()

	if size, ok, err := intField(fields, "board_size"); err != nil {
		return settings, err
	} else if ok {
		settings.BoardSize = size
	}
	if v, ok := fields["difficulty"]; ok {
		settings.Difficulty = v.GetStringValue()
	}
	if v, ok := fields["human_mark"]; ok {
		mark, err := domain.ParseMark(v.GetStringValue())
		if err != nil {
			return settings, err
		}
		settings.HumanMark = mark
	}
	if v, ok := fields["human_starts"]; ok {
		if _, isBool := v.GetKind().(*structpb.Value_BoolValue); !isBool {
			return settings, fmt.Errorf("human_starts must be a bool")
		}
		settings.HumanStarts = v.GetBoolValue()
	}
	return settings, nil
}

// playMove reads an OpPlayMove request.
func playMove(req *structpb.Struct) (int, int, error) {
	fields := req.GetFields()
	row, ok, err := intField(fields, "row")
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return 0, 0, fmt.Errorf("row is required")
	}
	col, ok, err := intField(fields, "col")
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return 0, 0, fmt.Errorf("col is required")
	}
	return row, col, nil
}

func intField(fields map[string]*structpb.Value, key string) (int, bool, error) {
	v, ok := fields[key]
	if !ok {
		return 0, false, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, false, fmt.Errorf("%s must be an integer", key)
	}
	return int(n.NumberValue), true, nil
}
