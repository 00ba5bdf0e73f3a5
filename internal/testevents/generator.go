package testevents

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/malcolmgaynor/MLB-ELO/internal/domain/event"
	"github.com/malcolmgaynor/MLB-ELO/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	skewSpread         = 0.15
	gamesPerDay        = 8
)

// outcomeWeight is one row of the synthetic outcome distribution. The
// weights approximate league-wide plate appearance frequencies and the
// metric values follow the linear-weight scale of the real data.
type outcomeWeight struct {
	label  string
	metric float64
	weight int
}

// Cumulative weights sum to 1000.
var outcomeTable = []outcomeWeight{
	{label: "field_out", metric: 0.0, weight: 420},
	{label: "strikeout", metric: 0.0, weight: 220},
	{label: "single", metric: 0.88, weight: 140},
	{label: "walk", metric: 0.69, weight: 85},
	{label: "double", metric: 1.25, weight: 45},
	{label: "home_run", metric: 2.0, weight: 40},
	{label: "force_out", metric: 0.0, weight: 30},
	{label: "hit_by_pitch", metric: 0.72, weight: 10},
	{label: "triple", metric: 1.58, weight: 5},
	{label: "sac_fly", metric: 0.0, weight: 5},
}

// ParkTable lists the synthetic home parks with factors spanning
// pitcher-friendly to hitter-friendly.
var ParkTable = map[string]float64{
	"AAA": 94,
	"BBB": 97,
	"CCC": 99,
	"DDD": 100,
	"EEE": 101,
	"FFF": 103,
	"GGG": 106,
	"HHH": 98,
	"III": 102,
	"JJJ": 100,
}

// player is one synthetic roster entry. Skew biases the outcome draw so
// some players genuinely hit (or pitch) better than others.
type player struct {
	id   string
	skew float64
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randomIndex returns a random int in [0, n).
func randomIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

func newRoster(n int) []player {
	roster := make([]player, n)
	for i := range roster {
		roster[i] = player{
			id:   uuid.New().String(),
			skew: (getRandomFloat() - 0.5) * 2 * skewSpread,
		}
	}
	return roster
}

// generateSeason creates NumGames games of plate appearances across the
// synthetic parks, generated concurrently per game.
func generateSeason(ctx context.Context, config *Config, stats *Stats) ([]event.Event, error) {
	logger.Get().Info(ctx, "generating synthetic season",
		logger.Int("games", config.NumGames),
		logger.Int("atBatsPerGame", config.AtBatsPerGame),
		logger.Int("batters", config.NumBatters),
		logger.Int("pitchers", config.NumPitchers),
	)

	batters := newRoster(config.NumBatters)
	pitchers := newRoster(config.NumPitchers)
	teams := make([]string, 0, len(ParkTable))
	for team := range ParkTable {
		teams = append(teams, team)
	}

	type gameResult struct {
		index  int
		events []event.Event
		err    error
	}

	resultChan := make(chan gameResult, config.NumGames)

	workerCount := minInt(config.Workers, config.NumGames)
	gamesPerWorker := config.NumGames / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * gamesPerWorker
		end := start + gamesPerWorker
		if worker == workerCount-1 {
			end = config.NumGames
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- gameResult{index: i, err: ctx.Err()}
					return
				default:
					day := i / gamesPerDay
					date := config.StartDate.AddDate(0, 0, day)
					home := teams[randomIndex(len(teams))]
					resultChan <- gameResult{
						index:  i,
						events: generateGame(config, date, i, home, batters, pitchers),
					}
				}
			}
		}(start, end)
	}

	var events []event.Event
	for i := 0; i < config.NumGames; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during season generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate game %d: %w", result.index, result.err)
			}
			events = append(events, result.events...)
		}
	}

	event.SortChronological(events)
	stats.EventsGenerated = len(events)
	logger.Get().Info(ctx, "generated season successfully", logger.Int("events", len(events)))

	return events, nil
}

// generateGame produces one game's plate appearances. The at-bat number
// encodes the game index so two same-day games never collide on the
// dedupe key.
func generateGame(config *Config, date time.Time, gameIndex int, home string, batters, pitchers []player) []event.Event {
	events := make([]event.Event, 0, config.AtBatsPerGame)
	startingPitcher := pitchers[randomIndex(len(pitchers))]
	relief := pitchers[randomIndex(len(pitchers))]

	for ab := 0; ab < config.AtBatsPerGame; ab++ {
		batter := batters[randomIndex(len(batters))]
		pitcher := startingPitcher
		if ab > config.AtBatsPerGame*2/3 {
			pitcher = relief
		}

		label, metric := drawOutcome(batter.skew - pitcher.skew)
		events = append(events, event.Event{
			GameDate:    date,
			AtBatNumber: (gameIndex%gamesPerDay)*config.AtBatsPerGame + ab + 1,
			Batter:      batter.id,
			Pitcher:     pitcher.id,
			Outcome:     label,
			WOBA:        metric,
			HomeTeam:    home,
		})
	}
	return events
}

// drawOutcome samples the outcome table. A positive skew shifts draws
// toward the hit outcomes, a negative one toward the outs.
func drawOutcome(skew float64) (string, float64) {
	draw := getRandomFloat() - skew
	if draw < 0 {
		draw = 0
	}
	if draw > 1 {
		draw = 1
	}

	target := int(draw * 1000)
	cumulative := 0
	// The table is ordered outs first, so small draws mean hits for
	// positive-skew batters.
	for i := len(outcomeTable) - 1; i >= 0; i-- {
		cumulative += outcomeTable[i].weight
		if target < cumulative {
			return outcomeTable[i].label, outcomeTable[i].metric
		}
	}
	first := outcomeTable[0]
	return first.label, first.metric
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
