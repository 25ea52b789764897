package database

import (
	"encoding/json"
	"fmt"

	"github.com/bloops-games/imposter/internal/byteutil"
	"github.com/bloops-games/imposter/internal/cache"
	"github.com/bloops-games/imposter/internal/database"
	"github.com/bloops-games/imposter/internal/database/stat/model"
	bolt "go.etcd.io/bbolt"
)

const prefix = "stat"

var ErrNotFound = fmt.Errorf("not found")

func New(db *database.DB, cache cache.Cache) *DB {
	return &DB{sDB: db, cache: cache}
}

type DB struct {
	sDB *database.DB

	cache cache.Cache
}

func (db *DB) BytesBucket(userID int64) []byte {
	return byteutil.PrefixedKey(prefix, userID)
}

func (db *DB) SerialBucket(userID int64) string {
	return fmt.Sprintf("%s%d", prefix, userID)
}

func (db *DB) FetchProfileStat(userID int64) (model.AggregationStat, error) {
	var aggregationStat model.AggregationStat

	stats, err := db.FetchByUserID(userID)
	if err != nil {
		return aggregationStat, fmt.Errorf("fetch by userID: %w", err)
	}

	for _, stat := range stats {
		aggregationStat.Count++
		aggregationStat.Points += stat.Points

		if stat.Role == model.RoleImposter {
			aggregationStat.ImposterGames++
		}

		if stat.Won {
			aggregationStat.Wins++
			if stat.Role == model.RoleImposter {
				aggregationStat.ImposterWins++
			} else {
				aggregationStat.CrewWins++
			}
		}

		if stat.Kicked {
			aggregationStat.Kicks++
		}

		if stat.CreatedAt.After(aggregationStat.LastPlayedAt) {
			aggregationStat.LastPlayedAt = stat.CreatedAt
		}
	}

	return aggregationStat, nil
}

func (db *DB) FetchByUserID(userID int64) ([]model.Stat, error) {
	var list []model.Stat
	bBucket := db.BytesBucket(userID)
	sBucket := db.SerialBucket(userID)
	if db.cache != nil {
		v, ok := db.cache.Get(sBucket)
		if ok {
			return v.([]model.Stat), nil
		}
	}

	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bBucket)
		if b == nil {
			return ErrNotFound
		}

		if err := b.ForEach(func(k, v []byte) error {
			var metric model.Stat
			if err := json.Unmarshal(v, &metric); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			list = append(list, metric)
			return nil
		}); err != nil {
			return fmt.Errorf("bucket for each: %w", err)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}

	if db.cache != nil {
		db.cache.Add(sBucket, list)
	}

	return list, nil
}

func (db *DB) Add(m model.Stat) error {
	tx, err := db.sDB.DB.Begin(true)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	defer tx.Rollback() //nolint

	b, err := tx.CreateBucketIfNotExists(db.BytesBucket(m.UserID))
	if err != nil {
		return fmt.Errorf("can not create bucket %d: %w", m.UserID, err)
	}

	binaryID, err := m.ID.MarshalBinary()
	if err != nil {
		return fmt.Errorf("uuid binary: %w", err)
	}

	bytes, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := b.Put(binaryID, bytes); err != nil {
		return fmt.Errorf("put to bucket error: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	if db.cache != nil {
		db.cache.Delete(db.SerialBucket(m.UserID))
	}

	return nil
}
