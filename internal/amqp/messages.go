package amqp

import (
	"encoding/json"
	"time"

	"payoutrecon/internal/core"
)

// ReportCompletedMessage announces a finished run. It carries totals only;
// consumers that need the rows read them from the archive by run id.
type ReportCompletedMessage struct {
	RunID       string    `json:"run_id"`
	Period      string    `json:"period"`
	TotalCents  int64     `json:"total_cents"`
	Total       string    `json:"total"`
	Products    int       `json:"products"`
	Payouts     int       `json:"payouts"`
	Unbalanced  []string  `json:"unbalanced_payouts,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewReportCompletedMessage(r *core.Report) *ReportCompletedMessage {
	msg := &ReportCompletedMessage{
		RunID:       r.RunID,
		Period:      r.Period.String(),
		TotalCents:  r.Total.Cents,
		Total:       r.Total.String(),
		Products:    len(r.Rows),
		Payouts:     len(r.Payouts),
		GeneratedAt: r.GeneratedAt,
		Timestamp:   time.Now(),
	}
	for _, p := range r.Payouts {
		if !p.Balanced() {
			msg.Unbalanced = append(msg.Unbalanced, p.PayoutID)
		}
	}
	return msg
}

func (m *ReportCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportCompletedMessageFromJSON(data []byte) (*ReportCompletedMessage, error) {
	var msg ReportCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
