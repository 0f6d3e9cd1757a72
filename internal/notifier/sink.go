package notifier

import (
	"github.com/julianstephens/questlog/internal/logger"
	"github.com/julianstephens/questlog/internal/models"
)

// Event is emitted after an XP transaction has been persisted.
type Event struct {
	UserID        string
	TransactionID string
	SourceType    models.SourceType
	SourceID      string
	Amount        int
	// Total is the user's ledger sum including this transaction.
	Total int
	Note  string
}

// Sink receives feedback signals. Calls happen only after the underlying
// write succeeded and are fire-and-forget: implementations handle their own
// failures.
type Sink interface {
	XPAwarded(Event)
	InsightsReady(userID string, insights []models.Insight)
}

// Discard drops every signal.
var Discard Sink = discard{}

type discard struct{}

func (discard) XPAwarded(Event)                        {}
func (discard) InsightsReady(string, []models.Insight) {}

// LogSink writes signals to the application log.
type LogSink struct{}

func (LogSink) XPAwarded(e Event) {
	logger.Info("XP awarded", "user", e.UserID, "amount", e.Amount, "total", e.Total, "source", e.SourceType, "source_id", e.SourceID)
}

func (LogSink) InsightsReady(userID string, insights []models.Insight) {
	logger.Info("Insights ready", "user", userID, "count", len(insights))
}

// MultiSink fans a signal out to every sink in order.
type MultiSink []Sink

func (m MultiSink) XPAwarded(e Event) {
	for _, s := range m {
		s.XPAwarded(e)
	}
}

func (m MultiSink) InsightsReady(userID string, insights []models.Insight) {
	for _, s := range m {
		s.InsightsReady(userID, insights)
	}
}

// Recorder keeps every signal it receives. Tests use it to check ordering.
type Recorder struct {
	Events   []Event
	Insights [][]models.Insight
}

func (r *Recorder) XPAwarded(e Event) {
	r.Events = append(r.Events, e)
}

func (r *Recorder) InsightsReady(_ string, insights []models.Insight) {
	r.Insights = append(r.Insights, insights)
}
