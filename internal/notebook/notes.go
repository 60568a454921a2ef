package notebook

import (
	"context"
	"errors"
	"fmt"

	"github.com/stolasapp/inotebook/internal/pagination"
	"github.com/stolasapp/inotebook/internal/storage"
	"github.com/stolasapp/inotebook/internal/storage/db"
)

// Page selects a slice of a listing. A zero Page requests the first page at
// the default size.
type Page struct {
	Size  int32
	Token string
}

// NotePage is one page of the principal's notes. NextPageToken is empty on the
// last page.
type NotePage struct {
	Notes         []db.Note
	NextPageToken string
}

// ListNotes returns the principal's notes in creation order. An invalid page
// token yields a [pagination.TokenError].
func (s *Service) ListNotes(ctx context.Context, principal uint64, page Page) (NotePage, error) {
	var cursor pagination.NotesToken
	if page.Token != "" {
		if err := pagination.FromToken(page.Token, &cursor); err != nil {
			return NotePage{}, err
		}
	}

	size := pagination.PageSize(page.Size)
	notes, err := s.notes.ListNotes(ctx, principal, cursor.AfterID, size+1)
	if err != nil {
		return NotePage{}, fmt.Errorf("failed to list notes: %w", err)
	}

	out := NotePage{Notes: notes}
	if len(notes) > int(size) {
		out.Notes = notes[:size]
		out.NextPageToken, err = pagination.ToToken(pagination.NotesToken{
			AfterID: out.Notes[len(out.Notes)-1].ID,
		})
		if err != nil {
			return NotePage{}, err
		}
	}
	return out, nil
}

// GetNote returns a single note owned by the principal.
func (s *Service) GetNote(ctx context.Context, principal, noteID uint64) (db.Note, error) {
	return s.ownNote(ctx, principal, noteID, "view")
}

// CreateNote stores a new note owned by the principal. Tokens outlive deleted
// accounts, so the principal's account is loaded first.
func (s *Service) CreateNote(ctx context.Context, principal uint64, body string) (db.Note, error) {
	if _, err := s.ownAccount(ctx, principal); err != nil {
		return db.Note{}, err
	}

	note, err := s.notes.CreateNote(ctx, db.Note{
		AccountID: principal,
		Body:      body,
	})
	if errors.Is(err, storage.ErrNotFound) {
		return db.Note{}, fail(ErrNotFound, "account does not exist")
	} else if err != nil {
		return db.Note{}, fmt.Errorf("failed to create note: %w", err)
	}
	return note, nil
}

// UpdateNote replaces the body of a note owned by the principal.
func (s *Service) UpdateNote(ctx context.Context, principal, noteID uint64, body string) (db.Note, error) {
	if _, err := s.ownNote(ctx, principal, noteID, "update"); err != nil {
		return db.Note{}, err
	}

	note, err := s.notes.UpdateNote(ctx, principal, noteID, body)
	if errors.Is(err, storage.ErrNotFound) {
		return db.Note{}, fail(ErrNotFound, "no note found with id")
	} else if err != nil {
		return db.Note{}, fmt.Errorf("failed to update note: %w", err)
	}
	return note, nil
}

// DeleteNote removes a note owned by the principal.
func (s *Service) DeleteNote(ctx context.Context, principal, noteID uint64) error {
	if _, err := s.ownNote(ctx, principal, noteID, "delete"); err != nil {
		return err
	}

	if err := s.notes.DeleteNote(ctx, principal, noteID); errors.Is(err, storage.ErrNotFound) {
		return fail(ErrNotFound, "no note found with id")
	} else if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

func (s *Service) ownNote(ctx context.Context, principal, noteID uint64, action string) (db.Note, error) {
	note, err := s.notes.GetNote(ctx, noteID)
	if errors.Is(err, storage.ErrNotFound) {
		return db.Note{}, fail(ErrNotFound, "no note found with id")
	} else if err != nil {
		return db.Note{}, fmt.Errorf("failed to get note: %w", err)
	}
	if !note.OwnedBy(principal) {
		return db.Note{}, fail(ErrUnauthorized, "cannot "+action+" notes of other account")
	}
	return note, nil
}
