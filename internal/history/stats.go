package history

import (
	"fmt"
)

// Stats aggregates the recorded requests to one endpoint
type Stats struct {
	Method        string  `json:"method" yaml:"method"`
	URL           string  `json:"url" yaml:"url"`
	TotalCalls    int     `json:"totalCalls" yaml:"totalCalls"`
	SuccessCount  int     `json:"successCount" yaml:"successCount"`
	ErrorCount    int     `json:"errorCount" yaml:"errorCount"`
	NetworkErrors int     `json:"networkErrors" yaml:"networkErrors"`
	AvgDuration   float64 `json:"avgDurationMs" yaml:"avgDurationMs"`
	MinDuration   int64   `json:"minDurationMs" yaml:"minDurationMs"`
	MaxDuration   int64   `json:"maxDurationMs" yaml:"maxDurationMs"`
	LastCalled    string  `json:"lastCalled" yaml:"lastCalled"`
}

// SuccessRate returns the share of 2xx responses, 0 when nothing was called
func (s Stats) SuccessRate() float64 {
	if s.TotalCalls == 0 {
		return 0
	}
	return float64(s.SuccessCount) / float64(s.TotalCalls)
}

// Stats returns per-endpoint totals, most recently called first
func (m *Manager) Stats() ([]Stats, error) {
	query := `
		SELECT
			method,
			url,
			COUNT(*) as total_calls,
			SUM(CASE WHEN status >= 200 AND status < 300 THEN 1 ELSE 0 END) as success_count,
			SUM(CASE WHEN status >= 400 THEN 1 ELSE 0 END) as error_count,
			SUM(CASE WHEN status = 0 THEN 1 ELSE 0 END) as network_errors,
			AVG(duration_ms) as avg_duration,
			MIN(duration_ms) as min_duration,
			MAX(duration_ms) as max_duration,
			MAX(timestamp) as last_called
		FROM history
		GROUP BY method, url
		ORDER BY last_called DESC, url
	`

	rows, err := m.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get history stats: %w", err)
	}
	defer rows.Close()

	var statsList []Stats
	for rows.Next() {
		var s Stats
		if err := rows.Scan(&s.Method, &s.URL, &s.TotalCalls, &s.SuccessCount, &s.ErrorCount,
			&s.NetworkErrors, &s.AvgDuration, &s.MinDuration, &s.MaxDuration, &s.LastCalled); err != nil {
			return nil, fmt.Errorf("failed to scan history stats: %w", err)
		}
		statsList = append(statsList, s)
	}

	return statsList, rows.Err()
}
