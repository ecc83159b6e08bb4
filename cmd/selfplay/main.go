// Command selfplay pits two bots against each other and reports the tally.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"tictactoe/internal/bot"
	"tictactoe/internal/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type matchup struct {
	size   int
	x, o   bot.Difficulty
	seed   int64
	budget time.Duration
}

type gameResult struct {
	winner domain.Mark
	moves  int
	nodes  int
	abort  int
}

type tally struct {
	games, xWins, oWins, draws int
	nodes, aborted             int
}

func (t *tally) add(r gameResult) {
	t.games++
	t.nodes += r.nodes
	t.aborted += r.abort
	switch r.winner {
	case domain.X:
		t.xWins++
	case domain.O:
		t.oWins++
	default:
		t.draws++
	}
}

// playGame runs game index of m to completion, X moving first.
func playGame(ctx context.Context, m matchup, index int) (gameResult, error) {
	seed := m.seed + int64(index)
	agents := map[domain.Mark]*bot.Agent{}
	for _, seat := range []struct {
		mark domain.Mark
		d    bot.Difficulty
	}{{domain.X, m.x}, {domain.O, m.o}} {
		agent, err := bot.NewAgent(seat.d, seat.mark,
			bot.WithRand(rand.New(rand.NewSource(seed*2+int64(seat.mark)))),
			bot.WithTimeBudget(m.budget),
		)
		if err != nil {
			return gameResult{}, err
		}
		agents[seat.mark] = agent
	}

	board, err := domain.NewBoard(m.size)
	if err != nil {
		return gameResult{}, err
	}

	var res gameResult
	mover := domain.X
	for !domain.IsGameOver(board) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		agent := agents[mover]
		choice := agent.Play(board)
		if !choice.HasMove {
			return res, fmt.Errorf("game %d: %s found no move on %s", index, agent.Name, board)
		}
		board, err = domain.ApplyMove(board, choice.Move.Row, choice.Move.Col, mover)
		if err != nil {
			return res, fmt.Errorf("game %d: %w", index, err)
		}
		res.moves++
		res.nodes += choice.Nodes
		if choice.Aborted {
			res.abort++
		}
		log.Debug().Int("game", index).Str("mark", mover.String()).Str("result", choice.String()).Msg("move")
		mover = mover.Opponent()
	}

	res.winner = domain.CheckWinner(board).Mark
	log.Debug().Int("game", index).Str("winner", res.winner.String()).Str("board", board.String()).Msg("game-over")
	return res, nil
}

// run plays games across at most workers goroutines.
func run(ctx context.Context, m matchup, games, workers int) (tally, error) {
	results := make([]gameResult, games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < games; i++ {
		g.Go(func() error {
			r, err := playGame(ctx, m, i)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return tally{}, err
	}

	var t tally
	for _, r := range results {
		t.add(r)
	}
	return t, nil
}

func main() {
	games := flag.Int("games", 20, "number of games to play")
	size := flag.Int("size", 3, "board size (3-10)")
	x := flag.String("x", "hard", "difficulty of the X bot")
	o := flag.String("o", "easy", "difficulty of the O bot")
	workers := flag.Int("workers", 4, "games played concurrently")
	seed := flag.Int64("seed", 1, "base random seed")
	budget := flag.Duration("budget", bot.DefaultTuning.TimeBudget, "hard-mode search budget per move")
	verbose := flag.Bool("v", false, "log every move")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := domain.ValidateSize(*size); err != nil {
		log.Fatal().Err(err).Msg("bad -size")
	}
	xd, err := bot.ParseDifficulty(*x)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -x")
	}
	od, err := bot.ParseDifficulty(*o)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -o")
	}
	if *games < 1 || *workers < 1 {
		log.Fatal().Int("games", *games).Int("workers", *workers).Msg("games and workers must be positive")
	}

	m := matchup{size: *size, x: xd, o: od, seed: *seed, budget: *budget}
	log.Info().Int("games", *games).Int("size", m.size).Str("x", string(xd)).Str("o", string(od)).Int("workers", *workers).Msg("selfplay-start")

	start := time.Now()
	t, err := run(context.Background(), m, *games, *workers)
	if err != nil {
		log.Error().Err(err).Msg("selfplay failed")
		os.Exit(1)
	}
	log.Info().
		Int("games", t.games).
		Int("x_wins", t.xWins).
		Int("o_wins", t.oWins).
		Int("draws", t.draws).
		Int("nodes", t.nodes).
		Int("aborted_searches", t.aborted).
		Dur("elapsed", time.Since(start)).
		Msg("selfplay-summary")
}
