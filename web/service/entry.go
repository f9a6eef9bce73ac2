package service

import (
	"context"

	"github.com/vocabnest/vocabnest/database"
	"github.com/vocabnest/vocabnest/database/model"
)

// EntryService manages the vocabulary entries of a single owner per call.
type EntryService struct {
	store database.Storage
}

func NewEntryService(store database.Storage) *EntryService {
	return &EntryService{store: store}
}

// List returns the owner's entries, newest first.
func (s *EntryService) List(ctx context.Context, userID string) ([]model.VocabularyEntry, error) {
	return s.store.ListEntriesForUser(ctx, userID)
}

func (s *EntryService) Create(ctx context.Context, userID string, fields model.EntryFields) (*model.VocabularyEntry, error) {
	return s.store.CreateEntry(ctx, userID, fields)
}

// Update replaces the entry's fields when userID owns it.
func (s *EntryService) Update(ctx context.Context, id, userID string, fields model.EntryFields) (*model.VocabularyEntry, error) {
	entry, err := s.store.UpdateEntry(ctx, id, userID, fields)
	if database.IsNotFound(err) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes the entry when userID owns it.
func (s *EntryService) Delete(ctx context.Context, id, userID string) error {
	deleted, err := s.store.DeleteEntry(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrEntryNotFound
	}
	return nil
}
