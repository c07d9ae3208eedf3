// Package storage keeps finished self-play games and aggregate results in
// BadgerDB.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyStats      = "stats"
	gamePrefix    = "game/"
	resultWhite   = "1-0"
	resultBlack   = "0-1"
	resultDraw    = "1/2-1/2"
	resultUnknown = "*"
)

// ErrGameNotFound is returned by LoadGame for an unknown id.
var ErrGameNotFound = errors.New("storage: game not found")

// GameRecord is one finished game.
type GameRecord struct {
	ID        string        `json:"id"`
	White     string        `json:"white"`
	Black     string        `json:"black"`
	Result    string        `json:"result"` // PGN result: 1-0, 0-1, 1/2-1/2 or *
	Method    string        `json:"method"`
	Plies     int           `json:"plies"`
	StartFEN  string        `json:"start_fen"`
	PGN       string        `json:"pgn"`
	MoveTimes []int64       `json:"move_times_ms"`
	Duration  time.Duration `json:"duration"`
	PlayedAt  time.Time     `json:"played_at"`
}

// Stats aggregates every recorded game.
type Stats struct {
	Games       int `json:"games"`
	WhiteWins   int `json:"white_wins"`
	BlackWins   int `json:"black_wins"`
	Draws       int `json:"draws"`
	Unfinished  int `json:"unfinished"`
	TotalPlies  int `json:"total_plies"`
	LongestGame int `json:"longest_game"`
}

// WhiteScore returns White's score as a percentage (0-100), draws counting half.
func (s *Stats) WhiteScore() float64 {
	decided := s.WhiteWins + s.BlackWins + s.Draws
	if decided == 0 {
		return 0
	}
	return (float64(s.WhiteWins) + float64(s.Draws)/2) / float64(decided) * 100
}

func (s *Stats) add(rec *GameRecord) {
	s.Games++
	s.TotalPlies += rec.Plies
	s.LongestGame = max(s.LongestGame, rec.Plies)
	switch rec.Result {
	case resultWhite:
		s.WhiteWins++
	case resultBlack:
		s.BlackWins++
	case resultDraw:
		s.Draws++
	default:
		s.Unfinished++
	}
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) the database in dir. An empty dir uses the
// platform data directory.
func Open(dir string) (*Storage, error) {
	if dir == "" {
		var err error
		if dir, err = GetDatabaseDir(); err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open game database %s: %w", dir, err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GameID derives a record id from the game's PGN and start time.
func GameID(rec *GameRecord) string {
	h := xxhash.New()
	_, _ = h.WriteString(rec.PGN)
	_, _ = h.WriteString(rec.PlayedAt.UTC().Format(time.RFC3339Nano))
	return strconv.FormatUint(h.Sum64(), 16)
}

// RecordGame stores rec and folds it into the stats in one transaction.
// It fills in rec.ID. Recording the same game twice is a no-op.
func (s *Storage) RecordGame(rec *GameRecord) error {
	if rec.Result == "" {
		rec.Result = resultUnknown
	}
	rec.ID = GameID(rec)
	key := []byte(gamePrefix + rec.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}

		stats, err := loadStats(txn)
		if err != nil {
			return err
		}
		stats.add(rec)
		data, err = json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), data)
	})
}

// LoadGame loads a game by id.
func (s *Storage) LoadGame(id string) (*GameRecord, error) {
	var rec GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(gamePrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrGameNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListGames returns every stored game, oldest first.
func (s *Storage) ListGames() ([]*GameRecord, error) {
	var games []*GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(gamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			games = append(games, &rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(games, func(a, b *GameRecord) int {
		return a.PlayedAt.Compare(b.PlayedAt)
	})
	return games, nil
}

// LoadStats loads the aggregate stats, zero if nothing was recorded yet.
func (s *Storage) LoadStats() (*Stats, error) {
	var stats *Stats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = loadStats(txn)
		return err
	})
	return stats, err
}

func loadStats(txn *badger.Txn) (*Stats, error) {
	stats := &Stats{}
	item, err := txn.Get([]byte(keyStats))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil
	}
	if err != nil {
		return nil, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	return stats, err
}
