// Package memberservice is the membership authority: it answers who may act on a book.
package memberservice

import (
	"context"
	"errors"
	"strings"

	"github.com/go-petr/pet-budget/internal/domain"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by membership service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package memberservice
type Repo interface {
	GetRole(ctx context.Context, bookID int64, uid string) (domain.Role, error)
	Add(ctx context.Context, bookID int64, uid string, role domain.Role) error
	Remove(ctx context.Context, bookID int64, uid string) error
	List(ctx context.Context, bookID int64) ([]domain.Membership, error)
}

// BookGetter resolves the owner of a book.
type BookGetter interface {
	Get(ctx context.Context, id int64) (domain.Book, error)
}

// Service facilitates membership service layer logic.
type Service struct {
	repo  Repo
	books BookGetter
}

// New returns membership service struct to manage access decisions.
func New(mr Repo, bg BookGetter) *Service {
	return &Service{
		repo:  mr,
		books: bg,
	}
}

// RoleOf returns the role of uid in the book.
//
// A book owner whose membership row is missing gets the row re-inserted.
func (s *Service) RoleOf(ctx context.Context, bookID int64, uid string) (domain.Role, error) {
	l := zerolog.Ctx(ctx)

	role, err := s.repo.GetRole(ctx, bookID, uid)
	if err == nil {
		return role, nil
	}

	if !errors.Is(err, domain.ErrMembershipNotFound) {
		return "", err
	}

	book, err := s.books.Get(ctx, bookID)
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return "", domain.ErrMembershipNotFound
		}

		return "", err
	}

	if book.OwnerUID != uid {
		return "", domain.ErrMembershipNotFound
	}

	err = s.repo.Add(ctx, bookID, uid, domain.RoleOwner)
	if err != nil && !errors.Is(err, domain.ErrMembershipExists) {
		l.Warn().Err(err).Int64("book_id", bookID).Msg("cannot restore owner membership")
	} else {
		l.Info().Int64("book_id", bookID).Str("uid", uid).Msg("restored owner membership")
	}

	return domain.RoleOwner, nil
}

// IsMember reports whether uid holds any role in the book.
func (s *Service) IsMember(ctx context.Context, bookID int64, uid string) (bool, error) {
	_, err := s.RoleOf(ctx, bookID, uid)
	if err != nil {
		if errors.Is(err, domain.ErrMembershipNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// IsOwner reports whether uid owns the book.
func (s *Service) IsOwner(ctx context.Context, bookID int64, uid string) (bool, error) {
	role, err := s.RoleOf(ctx, bookID, uid)
	if err != nil {
		if errors.Is(err, domain.ErrMembershipNotFound) {
			return false, nil
		}

		return false, err
	}

	return role == domain.RoleOwner, nil
}

// RequireMember returns the role of uid or domain.ErrForbidden for non members.
func (s *Service) RequireMember(ctx context.Context, bookID int64, uid string) (domain.Role, error) {
	role, err := s.RoleOf(ctx, bookID, uid)
	if err != nil {
		if errors.Is(err, domain.ErrMembershipNotFound) {
			return "", domain.ErrForbidden
		}

		return "", err
	}

	return role, nil
}

// RequireOwner returns domain.ErrForbidden unless uid owns the book.
func (s *Service) RequireOwner(ctx context.Context, bookID int64, uid string) error {
	role, err := s.RequireMember(ctx, bookID, uid)
	if err != nil {
		return err
	}

	if role != domain.RoleOwner {
		return domain.ErrForbidden
	}

	return nil
}

// Invite adds invitee as a member of the book. Inviting an existing member succeeds.
func (s *Service) Invite(ctx context.Context, bookID int64, inviterUID, inviteeUID string) error {
	if _, err := s.RequireMember(ctx, bookID, inviterUID); err != nil {
		return err
	}

	inviteeUID = strings.TrimSpace(inviteeUID)
	if inviteeUID == "" {
		return domain.ErrEmptyInvitee
	}

	err := s.repo.Add(ctx, bookID, inviteeUID, domain.RoleMember)
	if err != nil && !errors.Is(err, domain.ErrMembershipExists) {
		return err
	}

	return nil
}

// RemoveMember deletes the membership of target. Only the owner may remove
// members and nobody may remove the owner.
func (s *Service) RemoveMember(ctx context.Context, bookID int64, callerUID, targetUID string) error {
	targetUID = strings.TrimSpace(targetUID)

	role, err := s.RequireMember(ctx, bookID, callerUID)
	if err != nil {
		return err
	}

	book, err := s.books.Get(ctx, bookID)
	if err != nil {
		return err
	}

	if targetUID == book.OwnerUID {
		return domain.ErrCannotRemoveOwner
	}

	if role != domain.RoleOwner {
		return domain.ErrForbidden
	}

	return s.repo.Remove(ctx, bookID, targetUID)
}

// Memberships returns the membership rows of the book ordered by join time.
func (s *Service) Memberships(ctx context.Context, bookID int64) ([]domain.Membership, error) {
	return s.repo.List(ctx, bookID)
}
