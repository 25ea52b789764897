package database

import (
	"encoding/json"
	"fmt"

	"github.com/bloops-games/imposter/internal/byteutil"
	"github.com/bloops-games/imposter/internal/cache"
	"github.com/bloops-games/imposter/internal/database"
	"github.com/bloops-games/imposter/internal/database/chat/model"
	bolt "go.etcd.io/bbolt"
)

const bucket = "chats"

var ErrNotFound = fmt.Errorf("not found")

func New(db *database.DB, cache cache.Cache) *DB {
	return &DB{sDB: db, cache: cache}
}

type DB struct {
	sDB *database.DB

	cache cache.Cache
}

func (db *DB) Fetch(chatID int64) (model.Chat, error) {
	var chat model.Chat
	if db.cache != nil {
		if v, ok := db.cache.Get(chatID); ok {
			return v.(model.Chat), nil
		}
	}

	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrNotFound
		}

		v := b.Get(byteutil.EncodeInt64ToBytes(chatID))
		if v == nil {
			return ErrNotFound
		}

		if err := json.Unmarshal(v, &chat); err != nil {
			return fmt.Errorf("json unmarshal error, %w", err)
		}

		return nil
	}); err != nil {
		return chat, fmt.Errorf("view transaction error: %w", err)
	}

	if db.cache != nil {
		db.cache.Add(chatID, chat)
	}

	return chat, nil
}

func (db *DB) Store(chat model.Chat) error {
	bytes, err := json.Marshal(chat)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}

		if err := b.Put(byteutil.EncodeInt64ToBytes(chat.ID), bytes); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}

		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}

	if db.cache != nil {
		db.cache.Add(chat.ID, chat)
	}

	return nil
}
