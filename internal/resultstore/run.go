package resultstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nyxquant/latticebt/internal/ids"
)

// FillRecord is one persisted order fill, denormalized for easy querying
// of a run's blotter.
type FillRecord struct {
	OrderID     ids.OrderId `bson:"order_id"`
	Time        time.Time   `bson:"time"`
	DeltaCash   float64     `bson:"delta_cash"`
	DeltaEquity float64     `bson:"delta_equity"`
}

// RunRecord is the full persisted record of one completed backtest.
type RunRecord struct {
	RunID       string                  `bson:"run_id"`
	StartedAt   time.Time               `bson:"started_at"`
	FinishedAt  time.Time               `bson:"finished_at"`
	Seed        int64                   `bson:"seed"`
	Principal   float64                 `bson:"principal"`
	BuyingPower float64                 `bson:"buying_power"`
	TotalValue  float64                 `bson:"total_value"`
	Equity      map[ids.AssetId]float64 `bson:"equity"`
	Fills       []FillRecord            `bson:"fills"`
	Failed      bool                    `bson:"failed"`
	Error       string                  `bson:"error,omitempty"`
}

// SaveRun inserts a completed run's record. Runs are immutable once saved —
// there is no update path, only new records per run_id.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord) error {
	if _, err := s.db.Collection("runs").InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("resultstore: save run %s: %w", rec.RunID, err)
	}
	if len(rec.Fills) == 0 {
		return nil
	}

	docs := make([]any, 0, len(rec.Fills))
	for _, f := range rec.Fills {
		docs = append(docs, bson.M{
			"run_id":       rec.RunID,
			"order_id":     f.OrderID,
			"time":         f.Time,
			"delta_cash":   f.DeltaCash,
			"delta_equity": f.DeltaEquity,
		})
	}
	if _, err := s.db.Collection("fills").InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("resultstore: save fills for run %s: %w", rec.RunID, err)
	}
	return nil
}

// LoadRun fetches a run by id.
func (s *Store) LoadRun(ctx context.Context, runID string) (RunRecord, error) {
	var rec RunRecord
	err := s.db.Collection("runs").FindOne(ctx, bson.M{"run_id": runID}).Decode(&rec)
	if err != nil {
		return RunRecord{}, fmt.Errorf("resultstore: load run %s: %w", runID, err)
	}
	return rec, nil
}

// Recorder accumulates fills during a run so a single RunRecord can be
// assembled and saved once the strategy loop finishes.
type Recorder struct {
	Fills []FillRecord
}

// NewRecorder returns an empty fill recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordFill appends one fill to the blotter.
func (r *Recorder) RecordFill(orderID ids.OrderId, at time.Time, deltaCash, deltaEquity float64) {
	r.Fills = append(r.Fills, FillRecord{OrderID: orderID, Time: at, DeltaCash: deltaCash, DeltaEquity: deltaEquity})
}
