package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "churchbooks/internal/errors"
	"churchbooks/internal/models"
	"churchbooks/internal/statement"
)

// matchService suggests members for bank transactions. It never writes
// except through LearnMatch.
type matchService struct {
	db                 *gorm.DB
	memberService      MemberServicer
	transactionService TransactionServicer
}

// NewMatchService creates a new MatchServicer.
func NewMatchService(db *gorm.DB, memberService MemberServicer, transactionService TransactionServicer) MatchServicer {
	return &matchService{
		db:                 db,
		memberService:      memberService,
		transactionService: transactionService,
	}
}

// memoKey is the case-insensitive lookup key for learned matches.
func memoKey(cleanMemo string) string {
	return strings.ToLower(strings.TrimSpace(cleanMemo))
}

// SuggestMember tries a learned memo match first, then name tokens from the
// extracted payer name, then name tokens from the clean memo. A token search
// is actionable only when exactly one member matches every token; ties are
// reported as ambiguous with the tied members ordered by name similarity.
func (s *matchService) SuggestMember(ctx context.Context, query MatchQuery) (*MemberMatch, error) {
	clean := statement.CleanMemo(query.Description, query.Type)
	match := &MemberMatch{Source: MatchSourceNone, CleanMemo: clean}

	if member, err := s.learnedMember(ctx, clean); err != nil {
		return nil, err
	} else if member != nil {
		match.Source = MatchSourceLearned
		match.Member = member
		return match, nil
	}

	var ambiguous []models.Member
	var ambiguousText string
	tried := make(map[string]bool)
	for _, text := range []string{query.PayerName, clean} {
		tokens := statement.NameTokens(text)
		key := strings.Join(tokens, " ")
		if len(tokens) == 0 || tried[key] {
			continue
		}
		tried[key] = true

		members, err := s.memberService.SearchByNameTokens(ctx, tokens)
		if err != nil {
			return nil, err
		}
		switch {
		case len(members) == 1:
			match.Source = MatchSourceFuzzy
			match.Member = &members[0]
			return match, nil
		case len(members) > 1 && ambiguous == nil:
			ambiguous = members
			ambiguousText = key
		}
	}

	if ambiguous != nil {
		match.Ambiguous = true
		match.Candidates = orderByNameDistance(ambiguous, ambiguousText)
	}
	return match, nil
}

func (s *matchService) learnedMember(ctx context.Context, cleanMemo string) (*models.Member, error) {
	key := memoKey(cleanMemo)
	if key == "" {
		return nil, nil
	}

	var learned models.MemoMatch
	err := s.db.WithContext(ctx).Where("memo_key = ?", key).First(&learned).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	member, err := s.memberService.GetMemberByID(ctx, learned.MemberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrMemberNotFound) {
			// The member was removed from the directory; fall back to fuzzy.
			return nil, nil
		}
		return nil, err
	}
	return member, nil
}

// orderByNameDistance sorts members by edit distance between their full
// name and the searched text, closest first.
func orderByNameDistance(members []models.Member, text string) []models.Member {
	target := []rune(strings.ToLower(text))
	distance := make(map[string]int, len(members))
	for _, m := range members {
		name := []rune(strings.ToLower(m.FullName()))
		distance[m.ID] = levenshtein.DistanceForStrings(name, target, levenshtein.DefaultOptions)
	}

	ordered := append([]models.Member(nil), members...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return distance[ordered[i].ID] < distance[ordered[j].ID]
	})
	return ordered
}

// Suggest builds the operator's view of a bank transaction: a member
// suggestion plus ledger transactions that may already record it.
func (s *matchService) Suggest(ctx context.Context, bankTxnID string) (*Suggestion, error) {
	var bankTxn models.BankTransaction
	if err := s.db.WithContext(ctx).Where("id = ?", bankTxnID).First(&bankTxn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBankTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	query := MatchQuery{Description: bankTxn.Description, Type: bankTxn.Type}
	if bankTxn.PayerName != nil {
		query.PayerName = *bankTxn.PayerName
	}

	match, err := s.SuggestMember(ctx, query)
	if err != nil {
		return nil, err
	}

	found, err := s.transactionService.FindPotentialDuplicates(ctx, &bankTxn)
	if err != nil {
		return nil, err
	}
	duplicates := make([]DuplicateCandidate, 0, len(found))
	for _, txn := range found {
		duplicates = append(duplicates, DuplicateCandidate{Transaction: txn, Linkable: txn.LinkableTo(bankTxn.Hash)})
	}

	return &Suggestion{
		BankTransactionID:   bankTxn.ID,
		MemberMatch:         *match,
		PotentialDuplicates: duplicates,
	}, nil
}

// LearnMatch remembers that cleanMemo belongs to member. The first mapping
// for a memo wins; later calls for the same memo are no-ops.
func (s *matchService) LearnMatch(ctx context.Context, cleanMemo string, member *models.Member) error {
	key := memoKey(cleanMemo)
	if key == "" || member == nil {
		return nil
	}

	learned := &models.MemoMatch{
		Memo:       strings.TrimSpace(cleanMemo),
		MemoKey:    key,
		MemberID:   member.ID,
		MemberName: member.FullName(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "memo_key"}},
		DoNothing: true,
	}).Create(learned).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
