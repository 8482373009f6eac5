package monitor

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nyxquant/latticebt/internal/ids"
	"github.com/nyxquant/latticebt/internal/strategy"
)

// BarSnapshot is the message broadcast after each bar finishes propagating.
type BarSnapshot struct {
	Time        time.Time               `json:"time"`
	BarIndex    int                     `json:"bar_index"`
	BuyingPower float64                 `json:"buying_power"`
	TotalValue  float64                 `json:"total_value"`
	Equity      map[ids.AssetId]float64 `json:"equity"`
}

// Manager fans BarSnapshots out to every connected viewer. The strategy
// loop that owns it runs single-threaded; Manager itself is safe for
// concurrent registration/broadcast because viewers connect and disconnect
// from an HTTP server goroutine independent of the simulation loop.
type Manager struct {
	mu      sync.RWMutex
	clients map[uint64]*Client

	bufferSize int
	log        zerolog.Logger
}

// NewManager creates an empty manager with the given per-client buffer size.
func NewManager(bufferSize int, log zerolog.Logger) *Manager {
	return &Manager{
		clients:    make(map[uint64]*Client),
		bufferSize: bufferSize,
		log:        log,
	}
}

// RegisterClient admits an already-constructed Client.
func (m *Manager) RegisterClient(c *Client) {
	m.mu.Lock()
	m.clients[c.ID] = c
	m.mu.Unlock()
	m.log.Info().Uint64("client_id", c.ID).Msg("monitor client connected")
}

// Unregister removes and closes a client.
func (m *Manager) Unregister(c *Client) {
	m.mu.Lock()
	delete(m.clients, c.ID)
	m.mu.Unlock()
	c.Close()
	m.log.Info().Uint64("client_id", c.ID).Msg("monitor client disconnected")
}

// ClientCount reports the number of connected viewers.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Broadcast encodes snap once and fans it out to every connected client.
func (m *Manager) Broadcast(snap BarSnapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		m.log.Warn().Err(err).Msg("monitor: failed to encode snapshot")
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.clients {
		if !c.Send(data) {
			m.log.Debug().Uint64("client_id", c.ID).Msg("monitor: send buffer full, snapshot dropped")
		}
	}
}

// OnDataEventHook returns a strategy.Config.OnDataEvent callback that
// broadcasts a BarSnapshot after every bar's field-completed event.
func (m *Manager) OnDataEventHook() func(*strategy.Strategy, strategy.DataEvent) {
	return func(s *strategy.Strategy, e strategy.DataEvent) {
		m.Broadcast(BarSnapshot{
			Time:        e.Time,
			BarIndex:    s.BarIndex(),
			BuyingPower: s.Portfolio.BuyingPower,
			TotalValue:  s.Portfolio.TotalValue,
			Equity:      s.Portfolio.Equity,
		})
	}
}
