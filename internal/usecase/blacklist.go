// Package usecase hosts application services that sit outside the CQRS
// split: the blacklist gate consulted from both sides, and the partner
// integration facade.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"questbook/internal/domain/blacklist"
	"questbook/internal/infra"
	"questbook/internal/pkg/config"
	"questbook/internal/pkg/contact"
	"questbook/internal/pkg/errs"
	"questbook/internal/usecase/queries"
)

var (
	ErrBlacklistEntryNotFound = errs.New("blacklist entry not found")
	ErrBlacklistInvalid       = errs.New("invalid blacklist entry")
)

type BlacklistRepository interface {
	ListAll(ctx context.Context) ([]*blacklist.Entry, error)
	FindByID(ctx context.Context, id uuid.UUID) (*blacklist.Entry, error)
	Create(ctx context.Context, e *blacklist.Entry) error
	Update(ctx context.Context, e *blacklist.Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type BlacklistEntryInput struct {
	Name    string
	Phones  []string
	Emails  []string
	Comment string
}

type BlacklistService interface {
	queries.BlacklistGate
	List(ctx context.Context) ([]*blacklist.Entry, error)
	Get(ctx context.Context, id uuid.UUID) (*blacklist.Entry, error)
	Create(ctx context.Context, in BlacklistEntryInput) (*blacklist.Entry, error)
	Update(ctx context.Context, id uuid.UUID, in BlacklistEntryInput) (*blacklist.Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type blacklistServiceImpl struct {
	repo BlacklistRepository
	cfg  config.BookingConfig
}

func NewBlacklistService(repo BlacklistRepository, cfg config.BookingConfig) BlacklistService {
	return &blacklistServiceImpl{repo: repo, cfg: cfg}
}

// FindMatches extracts every phone and email hiding in the two free-text
// fields, normalizes them, and intersects with each stored entry. Entry
// contacts are already normalized at write time.
func (s *blacklistServiceImpl) FindMatches(ctx context.Context, phone, email string) ([]queries.BlacklistMatchView, error) {
	phones := contact.ExtractPhones(phone)
	emails := contact.ExtractEmails(email)
	if len(phones) == 0 && len(emails) == 0 {
		return nil, nil
	}

	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var out []queries.BlacklistMatchView
	for _, e := range entries {
		m := e.MatchAgainst(phones, emails)
		if m == nil {
			continue
		}
		out = append(out, queries.BlacklistMatchView{
			EntryID:       m.EntryID,
			Name:          m.Name,
			Comment:       m.Comment,
			MatchedPhones: m.MatchedPhones,
			MatchedEmails: m.MatchedEmails,
		})
	}
	return out, nil
}

// IsBookingBlocked decides whether a matching contact actually stops the
// booking. Each channel has its own toggle; partner traffic is typically let
// through because the partner already charged the customer.
func (s *blacklistServiceImpl) IsBookingBlocked(ctx context.Context, phone, email string, fromAggregator bool) (bool, error) {
	if fromAggregator && !s.cfg.BlockAggregator {
		return false, nil
	}
	if !fromAggregator && !s.cfg.BlockDirect {
		return false, nil
	}
	matches, err := s.FindMatches(ctx, phone, email)
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}

func (s *blacklistServiceImpl) List(ctx context.Context) ([]*blacklist.Entry, error) {
	return s.repo.ListAll(ctx)
}

func (s *blacklistServiceImpl) Get(ctx context.Context, id uuid.UUID) (*blacklist.Entry, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBlacklistEntryNotFound)
		}
		return nil, err
	}
	return e, nil
}

func (s *blacklistServiceImpl) Create(ctx context.Context, in BlacklistEntryInput) (*blacklist.Entry, error) {
	e, err := blacklist.NewEntry(uuid.New(), in.Name, in.Phones, in.Emails, in.Comment)
	if err != nil {
		return nil, errs.Mark(err, ErrBlacklistInvalid)
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *blacklistServiceImpl) Update(ctx context.Context, id uuid.UUID, in BlacklistEntryInput) (*blacklist.Entry, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	e, err := blacklist.NewEntry(id, in.Name, in.Phones, in.Emails, in.Comment)
	if err != nil {
		return nil, errs.Mark(err, ErrBlacklistInvalid)
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *blacklistServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
