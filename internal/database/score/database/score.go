package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bloops-games/imposter/internal/byteutil"
	"github.com/bloops-games/imposter/internal/cache"
	"github.com/bloops-games/imposter/internal/database"
	"github.com/bloops-games/imposter/internal/database/score/model"
	"github.com/bloops-games/imposter/internal/logging"
	bolt "go.etcd.io/bbolt"
)

const prefix = "score"

var ErrNotFound = fmt.Errorf("not found")

func New(db *database.DB, cache cache.Cache) *DB {
	return &DB{sDB: db, cache: cache}
}

// DB keeps points per chat, one bucket per chat keyed by user id.
type DB struct {
	sDB *database.DB

	cache cache.Cache
}

func (db *DB) bucket(chatID int64) []byte {
	return byteutil.PrefixedKey(prefix, chatID)
}

func (db *DB) cacheKey(chatID int64) string {
	return fmt.Sprintf("%s%d", prefix, chatID)
}

// AddPoints increments the user's points and wins in the chat scope. Only winners are awarded.
func (db *DB) AddPoints(ctx context.Context, chatID, userID int64, amount int) error {
	logger := logging.FromContext(ctx).Named("score.AddPoints")

	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(db.bucket(chatID))
		if err != nil {
			return fmt.Errorf("create bucket %d: %w", chatID, err)
		}

		pk := byteutil.EncodeInt64ToBytes(userID)
		score := model.Score{ChatID: chatID, UserID: userID}
		if v := b.Get(pk); v != nil {
			if err := json.Unmarshal(v, &score); err != nil {
				return fmt.Errorf("json unmarshal: %w", err)
			}
		}

		score.Points += amount
		score.Wins++
		score.UpdatedAt = time.Now()

		bytes, err := json.Marshal(score)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}

		if err := b.Put(pk, bytes); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}

		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}

	if db.cache != nil {
		db.cache.Delete(db.cacheKey(chatID))
	}

	logger.Debugf("chat %d user %d +%d points", chatID, userID, amount)

	return nil
}

// FetchByChat returns all scores of the chat ordered by points, highest first.
func (db *DB) FetchByChat(chatID int64) ([]model.Score, error) {
	key := db.cacheKey(chatID)
	if db.cache != nil {
		if v, ok := db.cache.Get(key); ok {
			return v.([]model.Score), nil
		}
	}

	var list []model.Score
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(db.bucket(chatID))
		if b == nil {
			return ErrNotFound
		}

		return b.ForEach(func(k, v []byte) error {
			var score model.Score
			if err := json.Unmarshal(v, &score); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			list = append(list, score)
			return nil
		})
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Points > list[j].Points
	})

	if db.cache != nil {
		db.cache.Add(key, list)
	}

	return list, nil
}

func (db *DB) Top(chatID int64, limit int) ([]model.Score, error) {
	list, err := db.FetchByChat(chatID)
	if err != nil {
		return nil, fmt.Errorf("fetch by chat: %w", err)
	}

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	return list, nil
}

func (db *DB) Fetch(chatID, userID int64) (model.Score, error) {
	list, err := db.FetchByChat(chatID)
	if err != nil {
		return model.Score{}, fmt.Errorf("fetch by chat: %w", err)
	}

	for _, score := range list {
		if score.UserID == userID {
			return score, nil
		}
	}

	return model.Score{}, ErrNotFound
}

// Reset drops every score of the chat.
func (db *DB) Reset(chatID int64) error {
	tx, err := db.sDB.DB.Begin(true)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	defer tx.Rollback() // nolint

	if err := tx.DeleteBucket(db.bucket(chatID)); err != nil {
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete bucket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	if db.cache != nil {
		db.cache.Delete(db.cacheKey(chatID))
	}

	return nil
}
