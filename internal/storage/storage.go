// Package storage persists bot state in a JSON-backed datastore: the hash of
// the last deployed command set per scope, and per-guild command history and
// permission levels.
package storage

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/keshon/datastore"
)

const commandHistoryLimit = 20

type Storage struct {
	ds *datastore.DataStore
	// mu serializes read-modify-write of guild records.
	mu sync.Mutex
}

type CommandHistoryRecord struct {
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Command   string    `json:"command"`
	Outcome   string    `json:"outcome"`
	Datetime  time.Time `json:"datetime"`
}

// GuildRecord is everything stored for one guild.
type GuildRecord struct {
	CommandsHistory []CommandHistoryRecord `json:"cmd_history"`
	PermLevels      map[string]int64       `json:"perm_levels"`
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, fmt.Errorf("open datastore %s: %w", filePath, err)
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

func guildKey(guildID string) string { return "guild:" + guildID }

// deployKey names the hash slot of a deploy scope; an empty guild ID is the
// global scope.
func deployKey(guildID string) string {
	if guildID == "" {
		return "deploy:global"
	}
	return "deploy:" + guildID
}

// CommandHash returns the hash of the command set last deployed to the scope.
func (s *Storage) CommandHash(guildID string) (string, bool) {
	v, ok := s.ds.Get(deployKey(guildID))
	if !ok {
		return "", false
	}
	hash, ok := v.(string)
	return hash, ok
}

func (s *Storage) SetCommandHash(guildID, hash string) {
	s.ds.Add(deployKey(guildID), hash)
}

// guildRecord loads the record of a guild. Values read back from disk are
// generic maps, so they take a JSON round trip into the typed record.
func (s *Storage) guildRecord(guildID string) (*GuildRecord, error) {
	record := &GuildRecord{}
	if data, ok := s.ds.Get(guildKey(guildID)); ok {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("marshal guild %s: %w", guildID, err)
		}
		if err := json.Unmarshal(raw, record); err != nil {
			return nil, fmt.Errorf("unmarshal guild %s: %w", guildID, err)
		}
	}
	if record.PermLevels == nil {
		record.PermLevels = map[string]int64{}
	}
	return record, nil
}

func (s *Storage) AppendCommandHistory(guildID string, rec CommandHistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.guildRecord(guildID)
	if err != nil {
		return err
	}
	record.CommandsHistory = append(record.CommandsHistory, rec)
	if n := len(record.CommandsHistory); n > commandHistoryLimit {
		record.CommandsHistory = record.CommandsHistory[n-commandHistoryLimit:]
	}
	s.ds.Add(guildKey(guildID), record)
	return nil
}

// CommandHistory returns the most recent commands of a guild, oldest first.
func (s *Storage) CommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	record, err := s.guildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandsHistory, nil
}

func (s *Storage) SetPermLevel(guildID, userID string, level int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.guildRecord(guildID)
	if err != nil {
		return err
	}
	record.PermLevels[userID] = level
	s.ds.Add(guildKey(guildID), record)
	return nil
}

func (s *Storage) PermLevel(guildID, userID string) (int64, bool, error) {
	record, err := s.guildRecord(guildID)
	if err != nil {
		return 0, false, err
	}
	level, ok := record.PermLevels[userID]
	return level, ok, nil
}
