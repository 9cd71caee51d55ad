package store

import (
	"fmt"

	"github.com/ajaysvasan/neurolearn/internal/model"
)

// ExportAllSessions builds export-ready results from all stored sessions.
func (s *Store) ExportAllSessions() ([]model.SessionExport, error) {
	sessions, err := s.ListSessions()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var results []model.SessionExport
	for _, sess := range sessions {
		attempts, err := s.GetAttempts(sess.ID)
		if err != nil {
			return nil, fmt.Errorf("get attempts for session %d: %w", sess.ID, err)
		}
		report, err := s.GetReport(sess.ID)
		if err != nil {
			return nil, fmt.Errorf("get report for session %d: %w", sess.ID, err)
		}
		results = append(results, model.SessionExport{
			Session:  sess,
			Attempts: attempts,
			Report:   report,
		})
	}

	return results, nil
}
