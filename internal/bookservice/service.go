// Package bookservice manages business logic layer of books.
package bookservice

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/go-petr/pet-budget/internal/domain"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by book service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package bookservice
type Repo interface {
	Create(ctx context.Context, ownerUID, name string) (domain.Book, error)
	Get(ctx context.Context, id int64) (domain.Book, error)
	ListByMember(ctx context.Context, uid string) ([]domain.BookWithRole, error)
	ListByOwner(ctx context.Context, uid string) ([]domain.BookWithRole, error)
	Rename(ctx context.Context, ownerUID string, id int64, name string) (domain.Book, error)
	Delete(ctx context.Context, ownerUID string, id int64) error
}

// Authority provides access decisions over books.
type Authority interface {
	RequireMember(ctx context.Context, bookID int64, uid string) (domain.Role, error)
	RequireOwner(ctx context.Context, bookID int64, uid string) error
	Invite(ctx context.Context, bookID int64, inviterUID, inviteeUID string) error
	RemoveMember(ctx context.Context, bookID int64, callerUID, targetUID string) error
	Memberships(ctx context.Context, bookID int64) ([]domain.Membership, error)
}

// Directory resolves user display names.
type Directory interface {
	DisplayName(ctx context.Context, uid string) (string, error)
}

// Service facilitates book service layer logic.
type Service struct {
	repo      Repo
	authority Authority
	directory Directory
}

// New returns book service struct to manage book business logic.
func New(br Repo, a Authority, d Directory) *Service {
	return &Service{
		repo:      br,
		authority: a,
		directory: d,
	}
}

// List returns the books the user can see. Store failures degrade to the
// books the user owns and are never returned to the caller.
func (s *Service) List(ctx context.Context, uid string) ([]domain.BookWithRole, error) {
	l := zerolog.Ctx(ctx)

	books, err := s.repo.ListByMember(ctx, uid)
	if err != nil {
		l.Warn().Err(err).Str("uid", uid).Msg("list books by membership failed, using owned books")
	}

	if err == nil && len(books) > 0 {
		return books, nil
	}

	owned, err := s.repo.ListByOwner(ctx, uid)
	if err != nil {
		l.Error().Err(err).Str("uid", uid).Msg("list owned books failed")
		return []domain.BookWithRole{}, nil
	}

	if owned == nil {
		owned = []domain.BookWithRole{}
	}

	return owned, nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return "", domain.ErrEmptyBookName
	}

	if utf8.RuneCountInString(name) > domain.MaxBookNameLen {
		return "", domain.ErrBookNameTooLong
	}

	return name, nil
}

// Create creates a book owned by uid.
func (s *Service) Create(ctx context.Context, uid, name string) (domain.Book, error) {
	name, err := validateName(name)
	if err != nil {
		return domain.Book{}, err
	}

	return s.repo.Create(ctx, uid, name)
}

// Rename changes the book name. Only the owner may rename.
func (s *Service) Rename(ctx context.Context, uid string, bookID int64, name string) (domain.Book, error) {
	if err := s.authority.RequireOwner(ctx, bookID, uid); err != nil {
		return domain.Book{}, err
	}

	name, err := validateName(name)
	if err != nil {
		return domain.Book{}, err
	}

	return s.repo.Rename(ctx, uid, bookID, name)
}

// Delete removes the book with all its memberships and expenses. Only the owner may delete.
func (s *Service) Delete(ctx context.Context, uid string, bookID int64) error {
	if err := s.authority.RequireOwner(ctx, bookID, uid); err != nil {
		return err
	}

	return s.repo.Delete(ctx, uid, bookID)
}

// Members lists the members of the book with their display names.
func (s *Service) Members(ctx context.Context, uid string, bookID int64) ([]domain.Member, error) {
	l := zerolog.Ctx(ctx)

	if _, err := s.authority.RequireMember(ctx, bookID, uid); err != nil {
		return nil, err
	}

	memberships, err := s.authority.Memberships(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if len(memberships) == 0 {
		book, err := s.repo.Get(ctx, bookID)
		if err != nil {
			return nil, err
		}

		memberships = []domain.Membership{{BookID: bookID, UserUID: book.OwnerUID, Role: domain.RoleOwner}}
	}

	members := make([]domain.Member, 0, len(memberships))

	for _, m := range memberships {
		name, err := s.directory.DisplayName(ctx, m.UserUID)
		if err != nil || name == "" {
			l.Debug().Err(err).Str("uid", m.UserUID).Msg("display name falls back to uid")
			name = m.UserUID
		}

		members = append(members, domain.Member{
			UserUID:     m.UserUID,
			Role:        m.Role,
			CreatedAt:   m.CreatedAt,
			DisplayName: name,
		})
	}

	return members, nil
}

// Invite adds invitee to the book on behalf of uid.
func (s *Service) Invite(ctx context.Context, uid string, bookID int64, invitee string) error {
	return s.authority.Invite(ctx, bookID, uid, invitee)
}

// RemoveMember removes target from the book on behalf of uid.
func (s *Service) RemoveMember(ctx context.Context, uid string, bookID int64, target string) error {
	return s.authority.RemoveMember(ctx, bookID, uid, target)
}
