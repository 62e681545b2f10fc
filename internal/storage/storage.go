package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// Key layout: one record per completed game under gamePrefix, plus a
// monotonic sequence counter.
const (
	gamePrefix = "game:"
	keyGameSeq = "game_seq"
)

// Outcome values recorded for completed games.
const (
	OutcomeCheckmate = "checkmate"
	OutcomeStalemate = "stalemate"
)

// GameRecord is one appended row of the game log.
type GameRecord struct {
	ID               uint64        `json:"id"`
	Outcome          string        `json:"outcome"`
	Winner           string        `json:"winner"` // "Human", "Computer", or "" for draws
	MoveCount        int           `json:"move_count"`
	AvgDecisionTime  time.Duration `json:"avg_decision_time"`
	StartingPosition string        `json:"starting_position"`
	Timestamp        time.Time     `json:"timestamp"`
}

// Report aggregates the game log for the analytics consumer.
type Report struct {
	TotalGames      int
	ComputerWins    int
	WinRate         float64 // computer win percentage, 0-100
	AvgDecisionTime time.Duration
	Outcomes        map[string]int
}

// Store wraps BadgerDB for the append-only game log.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the database in the given directory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open game database at %s", dir)
	}
	return &Store{db: db}, nil
}

// OpenDefault opens the database in the platform data directory.
func OpenDefault() (*Store, error) {
	dir, err := DatabaseDir()
	if err != nil {
		return nil, errors.Wrap(err, "resolve database directory")
	}
	return Open(dir)
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordGame appends one completed game to the log and returns the assigned
// game id. The record's ID and Timestamp fields are filled in here.
func (s *Store) RecordGame(rec GameRecord) (uint64, error) {
	var id uint64
	err := s.db.Update(func(txn *badger.Txn) error {
		next, err := nextSequence(txn)
		if err != nil {
			return err
		}
		id = next
		rec.ID = id
		if rec.Timestamp.IsZero() {
			rec.Timestamp = time.Now()
		}

		data, err := json.Marshal(&rec)
		if err != nil {
			return errors.Wrap(err, "encode game record")
		}
		return txn.Set(gameKey(id), data)
	})
	if err != nil {
		return 0, errors.Wrap(err, "record game")
	}
	return id, nil
}

// Games returns every logged record in id order.
func (s *Store) Games() ([]GameRecord, error) {
	var records []GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec GameRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return errors.Wrap(err, "decode game record")
				}
				records = append(records, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "list games")
	}
	return records, nil
}

// Stats aggregates the log into a performance report.
func (s *Store) Stats() (*Report, error) {
	records, err := s.Games()
	if err != nil {
		return nil, err
	}

	report := &Report{Outcomes: make(map[string]int)}
	var totalDecision time.Duration
	for _, rec := range records {
		report.TotalGames++
		report.Outcomes[rec.Outcome]++
		if rec.Winner == "Computer" {
			report.ComputerWins++
		}
		totalDecision += rec.AvgDecisionTime
	}
	if report.TotalGames > 0 {
		report.WinRate = float64(report.ComputerWins) / float64(report.TotalGames) * 100
		report.AvgDecisionTime = totalDecision / time.Duration(report.TotalGames)
	}
	return report, nil
}

// String renders the report in a human-readable form.
func (r *Report) String() string {
	s := "=== Chess960 AI Performance Report ===\n"
	s += fmt.Sprintf("Total Games: %d\n", r.TotalGames)
	s += fmt.Sprintf("Computer Win Rate: %.2f%% (%d/%d)\n", r.WinRate, r.ComputerWins, r.TotalGames)
	s += fmt.Sprintf("Average Decision Time: %v\n", r.AvgDecisionTime)
	s += "Outcomes:\n"
	for outcome, count := range r.Outcomes {
		s += fmt.Sprintf("  %s: %d\n", outcome, count)
	}
	return s
}

// nextSequence increments and returns the stored game counter.
func nextSequence(txn *badger.Txn) (uint64, error) {
	var next uint64 = 1
	item, err := txn.Get([]byte(keyGameSeq))
	if err == nil {
		err = item.Value(func(val []byte) error {
			if len(val) == 8 {
				next = binary.BigEndian.Uint64(val) + 1
			}
			return nil
		})
		if err != nil {
			return 0, err
		}
	} else if err != badger.ErrKeyNotFound {
		return 0, err
	}

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, next)
	if err := txn.Set([]byte(keyGameSeq), buf); err != nil {
		return 0, err
	}
	return next, nil
}

// gameKey builds a fixed-width, lexically sortable key for a game id.
func gameKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%012d", gamePrefix, id))
}
