// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package storage keeps ingested documents in memory, redacted form only.
// Raw document text is never stored: callers redact before handing text
// in, and nothing here can resurrect the original.
package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a stored batch stays retrievable.
const DefaultTTL = 24 * time.Hour

// StoredDocument is one redacted document at rest.
type StoredDocument struct {
	ID             string    `json:"id"`
	RequestID      string    `json:"request_id"`
	Name           string    `json:"name"`
	TypeHint       string    `json:"type_hint,omitempty"`
	RedactedText   string    `json:"-"`
	OriginalLength int       `json:"original_length"`
	RedactedLength int       `json:"redacted_length"`
	StoredAt       time.Time `json:"stored_at"`
}

// Stats summarizes what the store currently holds.
type Stats struct {
	TotalDocuments   int `json:"total_documents"`
	TotalRequests    int `json:"total_requests"`
	TotalRedactedLen int `json:"total_redacted_size"`
}

// Store is a TTL-bounded in-memory document store. Safe for concurrent
// use. The most recent ingest is tracked so analyze calls without an
// explicit request id operate on the latest batch.
type Store struct {
	mu            sync.RWMutex
	docs          map[string]StoredDocument
	byRequest     map[string][]string
	requestOrder  []string
	lastRequestID string
	ttl           time.Duration
	log           *slog.Logger

	now func() time.Time // replaced in tests
}

// New returns a store with the given retention. ttl <= 0 uses DefaultTTL.
func New(ttl time.Duration, log *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		docs:      make(map[string]StoredDocument),
		byRequest: make(map[string][]string),
		ttl:       ttl,
		log:       log,
		now:       time.Now,
	}
}

// NewRequestID mints the id under which one ingest batch is stored.
func (s *Store) NewRequestID() string {
	return uuid.NewString()
}

// Put stores one redacted document under a request id and returns the
// document id. originalLength is recorded for stats; the original text
// itself must not be passed in.
func (s *Store) Put(requestID, name, typeHint, redactedText string, originalLength int) string {
	doc := StoredDocument{
		ID:             uuid.NewString(),
		RequestID:      requestID,
		Name:           name,
		TypeHint:       typeHint,
		RedactedText:   redactedText,
		OriginalLength: originalLength,
		RedactedLength: len(redactedText),
		StoredAt:       s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
	if _, seen := s.byRequest[requestID]; !seen {
		s.requestOrder = append(s.requestOrder, requestID)
	}
	s.byRequest[requestID] = append(s.byRequest[requestID], doc.ID)
	s.lastRequestID = requestID
	return doc.ID
}

// Get returns one document by id.
func (s *Store) Get(docID string) (StoredDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[docID]
	return doc, ok
}

// ByRequest returns a request's documents in storage order.
func (s *Store) ByRequest(requestID string) []StoredDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byRequest[requestID]
	docs := make([]StoredDocument, 0, len(ids))
	for _, id := range ids {
		if doc, ok := s.docs[id]; ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

// LatestRequestID reports the id of the most recent ingest, false when
// nothing has been stored yet (or everything expired).
func (s *Store) LatestRequestID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRequestID, s.lastRequestID != ""
}

// Stats counts what the store holds right now.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := Stats{
		TotalDocuments: len(s.docs),
		TotalRequests:  len(s.byRequest),
	}
	for _, doc := range s.docs {
		stats.TotalRedactedLen += doc.RedactedLength
	}
	return stats
}

// PurgeExpired drops every document older than the TTL and returns how
// many were removed. Requests whose documents all expired are forgotten,
// including the most-recent pointer.
func (s *Store) PurgeExpired() int {
	cutoff := s.now().UTC().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, doc := range s.docs {
		if doc.StoredAt.Before(cutoff) {
			delete(s.docs, id)
			removed++
		}
	}
	if removed == 0 {
		return 0
	}

	liveOrder := s.requestOrder[:0]
	for _, reqID := range s.requestOrder {
		liveIDs := s.byRequest[reqID][:0]
		for _, docID := range s.byRequest[reqID] {
			if _, ok := s.docs[docID]; ok {
				liveIDs = append(liveIDs, docID)
			}
		}
		if len(liveIDs) == 0 {
			delete(s.byRequest, reqID)
			continue
		}
		s.byRequest[reqID] = liveIDs
		liveOrder = append(liveOrder, reqID)
	}
	s.requestOrder = liveOrder

	s.lastRequestID = ""
	if len(s.requestOrder) > 0 {
		s.lastRequestID = s.requestOrder[len(s.requestOrder)-1]
	}
	return removed
}

// Janitor purges expired documents on the given interval until the
// context is canceled. Run it in its own goroutine.
func (s *Store) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.PurgeExpired(); removed > 0 {
				s.log.Info("purged expired documents", "count", removed)
			}
		}
	}
}
