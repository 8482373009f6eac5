package strategy

import (
	"fmt"

	"github.com/nyxquant/latticebt/internal/verbosity"
)

// logf emits a verbosity-gated log line timestamped with the simulated
// current_time, per spec §6's "<yyyy-mm-dd HH:MM:SS.sss> ~~~~ <message>"
// format, routed through the configured zerolog logger.
func (s *Strategy) logf(level verbosity.Level, format string, args ...any) {
	if !verbosity.Enabled(s.cfg.Verbosity, level) {
		return
	}
	ts := s.currentTime.Format("2006-01-02 15:04:05.000")
	line := fmt.Sprintf("%s ~~~~ %s", ts, fmt.Sprintf(format, args...))

	switch level {
	case verbosity.WARNING:
		s.cfg.Logger.Warn().Msg(line)
	case verbosity.TRANSACTIONS:
		s.cfg.Logger.Info().Msg(line)
	default:
		s.cfg.Logger.Debug().Msg(line)
	}
}
