package categorizer

import (
	"context"
	"strings"
	"sync"

	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/models"
	"fjacquet/budget-csv/internal/parsererror"
	"fjacquet/budget-csv/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RuleStore holds the user's category rules and classifies with them before falling
// back to another Classifier. Rules are scanned in storage order; when one pattern is
// a substring of another, the earlier rule wins.
type RuleStore struct {
	mu       sync.RWMutex
	rules    []models.CategoryRule
	repo     store.RuleRepository
	fallback Classifier
	logger   logging.Logger
	idGen    func() string
}

// NewRuleStore creates an empty rule store. Call Load to read persisted rules.
func NewRuleStore(repo store.RuleRepository, fallback Classifier, logger logging.Logger) *RuleStore {
	if fallback == nil {
		fallback = NewKeywordClassifier()
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &RuleStore{
		repo:     repo,
		fallback: fallback,
		logger:   logger,
		idGen:    uuid.NewString,
	}
}

// Load replaces the in-memory rules with the persisted ones.
func (s *RuleStore) Load(ctx context.Context) error {
	rules, err := s.repo.LoadRules(ctx)
	if err != nil {
		return err
	}

	loaded := make([]models.CategoryRule, 0, len(rules))
	for _, r := range rules {
		if strings.TrimSpace(r.TextPattern) == "" {
			s.logger.Warn("Ignoring stored rule with empty pattern", logging.F(logging.FieldCategory, r.Category))
			continue
		}
		loaded = append(loaded, r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = loaded
	s.logger.Debug("Loaded category rules", logging.F(logging.FieldCount, len(loaded)))
	return nil
}

// Rules returns a copy of the rules in storage order.
func (s *RuleStore) Rules() []models.CategoryRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CategoryRule(nil), s.rules...)
}

// AddRule stores a rule for the lower-cased pattern, replacing any rule with the same
// pattern, and persists the full set. If persisting fails the previous set is kept.
func (s *RuleStore) AddRule(ctx context.Context, pattern, category string) (models.CategoryRule, error) {
	pattern = strings.ToLower(pattern)
	if strings.TrimSpace(pattern) == "" {
		return models.CategoryRule{}, parsererror.ErrEmptyPattern
	}
	if strings.TrimSpace(category) == "" {
		return models.CategoryRule{}, &parsererror.ValidationError{Reason: "category cannot be empty"}
	}

	rule := models.CategoryRule{ID: s.idGen(), TextPattern: pattern, Category: category}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]models.CategoryRule, 0, len(s.rules)+1)
	for _, r := range s.rules {
		if r.TextPattern != pattern {
			updated = append(updated, r)
		}
	}
	updated = append(updated, rule)

	if err := s.repo.SaveRules(ctx, updated); err != nil {
		s.logger.WithError(err).Error("Failed to persist category rule",
			logging.F(logging.FieldPattern, pattern),
			logging.F(logging.FieldCategory, category))
		return models.CategoryRule{}, err
	}
	s.rules = updated

	s.logger.Info("Added category rule",
		logging.F(logging.FieldPattern, pattern),
		logging.F(logging.FieldCategory, category))
	return rule, nil
}

// RemoveRule deletes the rule for pattern. It reports false when no such rule exists.
func (s *RuleStore) RemoveRule(ctx context.Context, pattern string) (bool, error) {
	pattern = strings.ToLower(pattern)

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]models.CategoryRule, 0, len(s.rules))
	for _, r := range s.rules {
		if r.TextPattern != pattern {
			updated = append(updated, r)
		}
	}
	if len(updated) == len(s.rules) {
		return false, nil
	}

	if err := s.repo.SaveRules(ctx, updated); err != nil {
		return false, err
	}
	s.rules = updated

	s.logger.Info("Removed category rule", logging.F(logging.FieldPattern, pattern))
	return true, nil
}

// Match returns the first rule whose pattern occurs in the lower-cased text.
func (s *RuleStore) Match(text string) (models.CategoryRule, bool) {
	lowerText := strings.ToLower(text)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rules {
		if strings.Contains(lowerText, r.TextPattern) {
			return r, true
		}
	}
	return models.CategoryRule{}, false
}

// Classify implements Classifier. A matching rule wins over the fallback, including
// the fallback's positive-amount Income rule.
func (s *RuleStore) Classify(text string, amount decimal.Decimal) string {
	if rule, ok := s.Match(text); ok {
		s.logger.Debug("Transaction categorized by user rule",
			logging.F(logging.FieldStrategy, "rule"),
			logging.F(logging.FieldPattern, rule.TextPattern),
			logging.F(logging.FieldCategory, rule.Category))
		return rule.Category
	}
	return s.fallback.Classify(text, amount)
}
