// Package livefeed optionally publishes per-bar portfolio snapshots to a
// Redis channel so an external process can follow a running backtest. It is
// a pure side effect hung off the strategy's OnDataEvent callback — the
// strategy loop never blocks waiting on a subscriber.
package livefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nyxquant/latticebt/internal/ids"
	"github.com/nyxquant/latticebt/internal/strategy"
)

// Publisher publishes snapshots to a single Redis channel.
type Publisher struct {
	client  *redis.Client
	channel string
	log     zerolog.Logger
}

// New parses redisURL (redis://host:port/db) and returns a Publisher bound
// to channel.
func New(redisURL, channel string, log zerolog.Logger) (*Publisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("livefeed: invalid redis url: %w", err)
	}
	return &Publisher{client: redis.NewClient(opt), channel: channel, log: log}, nil
}

// Snapshot is the JSON payload published for each bar.
type Snapshot struct {
	Time        time.Time               `json:"time"`
	BarIndex    int                     `json:"bar_index"`
	BuyingPower float64                 `json:"buying_power"`
	TotalValue  float64                 `json:"total_value"`
	Equity      map[ids.AssetId]float64 `json:"equity"`
}

// Publish encodes and publishes snap, with a two-second timeout, so a slow
// or absent Redis stalls the backtest loop for at most that long per call.
func (p *Publisher) Publish(ctx context.Context, snap Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("livefeed: encode snapshot: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("livefeed: publish: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}

// OnDataEventHook returns a strategy.Config.OnDataEvent callback that
// publishes a Snapshot after every bar, logging (not failing) publish
// errors — a down livefeed subscriber must never abort a backtest.
func (p *Publisher) OnDataEventHook() func(*strategy.Strategy, strategy.DataEvent) {
	return func(s *strategy.Strategy, e strategy.DataEvent) {
		snap := Snapshot{
			Time:        e.Time,
			BarIndex:    s.BarIndex(),
			BuyingPower: s.Portfolio.BuyingPower,
			TotalValue:  s.Portfolio.TotalValue,
			Equity:      s.Portfolio.Equity,
		}
		if err := p.Publish(context.Background(), snap); err != nil {
			p.log.Warn().Err(err).Msg("livefeed: publish failed")
		}
	}
}
