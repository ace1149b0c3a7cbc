// Package repotest provides an in-memory repository.Repository for service and
// handler tests.
package repotest

import (
	"context"
	"fmt"
	"moneywise-server/src/models"
	"moneywise-server/src/repository"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type state struct {
	profiles     map[uuid.UUID]models.Profile
	onboarding   []models.OnboardingRecord
	plans        []models.SavingsPlan
	items        []models.SavingsPlanItem
	ratings      []models.TemplateRating
	purchases    []models.TemplatePurchase
	goals        []models.FinancialGoal
	bills        []models.Bill
	accounts     []models.Account
	plaidItems   []models.PlaidItem
	categories   []models.Category
	transactions []models.Transaction
	budgets      []models.Budget
}

func (s *state) clone() *state {
	c := &state{
		profiles:     make(map[uuid.UUID]models.Profile, len(s.profiles)),
		onboarding:   append([]models.OnboardingRecord(nil), s.onboarding...),
		plans:        append([]models.SavingsPlan(nil), s.plans...),
		items:        append([]models.SavingsPlanItem(nil), s.items...),
		ratings:      append([]models.TemplateRating(nil), s.ratings...),
		purchases:    append([]models.TemplatePurchase(nil), s.purchases...),
		goals:        append([]models.FinancialGoal(nil), s.goals...),
		bills:        append([]models.Bill(nil), s.bills...),
		accounts:     append([]models.Account(nil), s.accounts...),
		plaidItems:   append([]models.PlaidItem(nil), s.plaidItems...),
		categories:   append([]models.Category(nil), s.categories...),
		transactions: append([]models.Transaction(nil), s.transactions...),
		budgets:      append([]models.Budget(nil), s.budgets...),
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	return c
}

// Memory keeps every table in slices. Writes made inside InTx are discarded
// when the callback fails. Transactions are not isolated from each other.
type Memory struct {
	mu       sync.Mutex
	st       *state
	clock    time.Time
	failures map[string]error
}

var _ repository.Repository = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		st:       (&state{}).clone(),
		clock:    time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		failures: make(map[string]error),
	}
}

// Fail makes every later call to the named method return err.
func (m *Memory) Fail(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[method] = err
}

func (m *Memory) failure(method string) error {
	return m.failures[method]
}

// tick hands out strictly increasing creation times so "newest first" orders
// are deterministic.
func (m *Memory) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *Memory) InTx(ctx context.Context, fn func(repository.Repository) error) error {
	m.mu.Lock()
	if err := m.failure("InTx"); err != nil {
		m.mu.Unlock()
		return err
	}
	snapshot := m.st.clone()
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.st = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

// SeedCategories adds categories, assigning ids to those that have none.
func (m *Memory) SeedCategories(categories ...models.Category) []models.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if c.ID == 0 {
			c.ID = int64(len(m.st.categories) + 1)
		}
		m.st.categories = append(m.st.categories, c)
		out = append(out, c)
	}
	return out
}

func (m *Memory) SeedBills(bills ...models.Bill) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range bills {
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		m.st.bills = append(m.st.bills, b)
	}
}

// Purchases returns every stored purchase row.
func (m *Memory) Purchases() []models.TemplatePurchase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.TemplatePurchase(nil), m.st.purchases...)
}

// Plans returns every stored savings plan, templates included.
func (m *Memory) Plans() []models.SavingsPlan {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.SavingsPlan(nil), m.st.plans...)
}

func (m *Memory) Items() []models.SavingsPlanItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.SavingsPlanItem(nil), m.st.items...)
}

func (m *Memory) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("GetProfile"); err != nil {
		return nil, err
	}
	p, ok := m.st.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *Memory) UpsertProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("UpsertProfile"); err != nil {
		return nil, err
	}
	p := *profile
	if existing, ok := m.st.profiles[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = m.tick()
	}
	m.st.profiles[p.ID] = p
	return &p, nil
}

func (m *Memory) GetOnboarding(ctx context.Context, userID uuid.UUID) (*models.OnboardingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("GetOnboarding"); err != nil {
		return nil, err
	}
	var latest *models.OnboardingRecord
	for i := range m.st.onboarding {
		rec := m.st.onboarding[i]
		if rec.UserID == userID && (latest == nil || rec.CreatedAt.After(latest.CreatedAt)) {
			latest = &rec
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (m *Memory) CreateOnboarding(ctx context.Context, rec *models.OnboardingRecord) (*models.OnboardingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CreateOnboarding"); err != nil {
		return nil, err
	}
	r := *rec
	r.ID = uuid.New()
	r.CreatedAt = m.tick()
	m.st.onboarding = append(m.st.onboarding, r)
	return &r, nil
}

func (m *Memory) CreateSavingsPlan(ctx context.Context, plan *models.SavingsPlan) (*models.SavingsPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CreateSavingsPlan"); err != nil {
		return nil, err
	}
	p := *plan
	p.ID = uuid.New()
	p.IsTemplate = false
	p.TemplatePrice = decimal.Zero
	if p.Status == "" {
		p.Status = models.PlanStatusActive
	}
	p.CreatedAt = m.tick()
	m.st.plans = append(m.st.plans, p)
	return &p, nil
}

func (m *Memory) CreateSavingsPlanItems(ctx context.Context, planID uuid.UUID, items []models.SavingsPlanItem) ([]models.SavingsPlanItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CreateSavingsPlanItems"); err != nil {
		return nil, err
	}
	created := make([]models.SavingsPlanItem, 0, len(items))
	for _, item := range items {
		it := item
		it.ID = uuid.New()
		it.PlanID = planID
		it.CreatedAt = m.tick()
		m.st.items = append(m.st.items, it)
		created = append(created, it)
	}
	return created, nil
}

func (m *Memory) findPlan(planID uuid.UUID) int {
	for i, p := range m.st.plans {
		if p.ID == planID {
			return i
		}
	}
	return -1
}

func (m *Memory) GetSavingsPlan(ctx context.Context, userID, planID uuid.UUID) (*models.SavingsPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("GetSavingsPlan"); err != nil {
		return nil, err
	}
	i := m.findPlan(planID)
	if i < 0 || m.st.plans[i].UserID != userID || m.st.plans[i].IsTemplate {
		return nil, repository.ErrNotFound
	}
	p := m.st.plans[i]
	return &p, nil
}

func (m *Memory) ListSavingsPlans(ctx context.Context, userID uuid.UUID, status string) ([]models.SavingsPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("ListSavingsPlans"); err != nil {
		return nil, err
	}
	var plans []models.SavingsPlan
	for _, p := range m.st.plans {
		if p.UserID == userID && !p.IsTemplate && (status == "" || p.Status == status) {
			plans = append(plans, p)
		}
	}
	sort.SliceStable(plans, func(i, j int) bool { return plans[i].CreatedAt.After(plans[j].CreatedAt) })
	return plans, nil
}

func (m *Memory) itemsFor(planID uuid.UUID) []models.SavingsPlanItem {
	var items []models.SavingsPlanItem
	for _, it := range m.st.items {
		if it.PlanID == planID {
			items = append(items, it)
		}
	}
	return items
}

func (m *Memory) ListSavingsPlanItems(ctx context.Context, planID uuid.UUID) ([]models.SavingsPlanItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("ListSavingsPlanItems"); err != nil {
		return nil, err
	}
	return m.itemsFor(planID), nil
}

func (m *Memory) CreateTemplatePlan(ctx context.Context, plan *models.SavingsPlan) (*models.SavingsPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CreateTemplatePlan"); err != nil {
		return nil, err
	}
	p := *plan
	p.ID = uuid.New()
	p.IsTemplate = true
	p.CurrentAmount = decimal.Zero
	if p.Status == "" {
		p.Status = models.PlanStatusActive
	}
	p.CreatedAt = m.tick()
	m.st.plans = append(m.st.plans, p)
	return &p, nil
}

func (m *Memory) ratingsFor(templateID uuid.UUID) []models.TemplateRating {
	var ratings []models.TemplateRating
	for _, r := range m.st.ratings {
		if r.TemplateID == templateID {
			r.ReviewerName = m.st.profiles[r.UserID].FullName
			ratings = append(ratings, r)
		}
	}
	sort.SliceStable(ratings, func(i, j int) bool { return ratings[i].CreatedAt.After(ratings[j].CreatedAt) })
	return ratings
}

func (m *Memory) template(p models.SavingsPlan) models.Template {
	t := models.Template{SavingsPlan: p, Ratings: m.ratingsFor(p.ID)}
	if p.CreatedBy != nil {
		t.CreatorName = m.st.profiles[*p.CreatedBy].FullName
	}
	return t
}

func (m *Memory) ListTemplates(ctx context.Context) ([]models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("ListTemplates"); err != nil {
		return nil, err
	}
	var templates []models.Template
	for _, p := range m.st.plans {
		if p.IsTemplate {
			templates = append(templates, m.template(p))
		}
	}
	sort.SliceStable(templates, func(i, j int) bool { return templates[i].CreatedAt.After(templates[j].CreatedAt) })
	return templates, nil
}

func (m *Memory) GetTemplate(ctx context.Context, templateID uuid.UUID) (*models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("GetTemplate"); err != nil {
		return nil, err
	}
	i := m.findPlan(templateID)
	if i < 0 || !m.st.plans[i].IsTemplate {
		return nil, repository.ErrNotFound
	}
	t := m.template(m.st.plans[i])
	t.Items = m.itemsFor(templateID)
	return &t, nil
}

func (m *Memory) UpsertTemplateRating(ctx context.Context, rating *models.TemplateRating) (*models.TemplateRating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("UpsertTemplateRating"); err != nil {
		return nil, err
	}
	if rating.Rating < 1 || rating.Rating > 5 {
		return nil, fmt.Errorf("rating %d violates check constraint", rating.Rating)
	}
	for i := range m.st.ratings {
		existing := &m.st.ratings[i]
		if existing.TemplateID == rating.TemplateID && existing.UserID == rating.UserID {
			existing.Rating = rating.Rating
			existing.Review = rating.Review
			existing.CreatedAt = m.tick()
			out := *existing
			return &out, nil
		}
	}
	r := *rating
	r.ID = uuid.New()
	r.ReviewerName = ""
	r.CreatedAt = m.tick()
	m.st.ratings = append(m.st.ratings, r)
	return &r, nil
}

func (m *Memory) GetTemplatePurchase(ctx context.Context, buyerID, templateID uuid.UUID) (*models.TemplatePurchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("GetTemplatePurchase"); err != nil {
		return nil, err
	}
	for _, p := range m.st.purchases {
		if p.BuyerID == buyerID && p.TemplateID == templateID {
			out := p
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Memory) CreateTemplatePurchase(ctx context.Context, purchase *models.TemplatePurchase) (*models.TemplatePurchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CreateTemplatePurchase"); err != nil {
		return nil, err
	}
	p := *purchase
	p.ID = uuid.New()
	p.CreatedAt = m.tick()
	m.st.purchases = append(m.st.purchases, p)
	return &p, nil
}

func (m *Memory) ListGoals(ctx context.Context, userID uuid.UUID, status string, limit int) ([]models.FinancialGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("ListGoals"); err != nil {
		return nil, err
	}
	var goals []models.FinancialGoal
	for _, g := range m.st.goals {
		if g.UserID == userID && (status == "" || g.Status == status) {
			goals = append(goals, g)
		}
	}
	sort.SliceStable(goals, func(i, j int) bool { return goals[i].CreatedAt.After(goals[j].CreatedAt) })
	if limit > 0 && len(goals) > limit {
		goals = goals[:limit]
	}
	return goals, nil
}

func (m *Memory) CreateGoal(ctx context.Context, goal *models.FinancialGoal) (*models.FinancialGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CreateGoal"); err != nil {
		return nil, err
	}
	g := *goal
	g.ID = uuid.New()
	if g.Status == "" {
		g.Status = models.GoalStatusActive
	}
	g.CreatedAt = m.tick()
	m.st.goals = append(m.st.goals, g)
	return &g, nil
}

func (m *Memory) ListBills(ctx context.Context, userID uuid.UUID, status string) ([]models.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("ListBills"); err != nil {
		return nil, err
	}
	var bills []models.Bill
	for _, b := range m.st.bills {
		if b.UserID == userID && (status == "" || b.Status == status) {
			bills = append(bills, b)
		}
	}
	return bills, nil
}

func (m *Memory) ListAccounts(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("ListAccounts"); err != nil {
		return nil, err
	}
	var accounts []models.Account
	for _, a := range m.st.accounts {
		if a.UserID == userID && (!activeOnly || a.IsActive) {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

func (m *Memory) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CreateAccount"); err != nil {
		return nil, err
	}
	a := *account
	a.ID = uuid.New()
	a.CreatedAt = m.tick()
	m.st.accounts = append(m.st.accounts, a)
	return &a, nil
}

func (m *Memory) SavePlaidItem(ctx context.Context, userID uuid.UUID, itemID, accessToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("SavePlaidItem"); err != nil {
		return err
	}
	for i := range m.st.plaidItems {
		if m.st.plaidItems[i].ItemID == itemID {
			m.st.plaidItems[i].AccessToken = accessToken
			return nil
		}
	}
	m.st.plaidItems = append(m.st.plaidItems, models.PlaidItem{
		ID:          uuid.New(),
		UserID:      userID,
		AccessToken: accessToken,
		ItemID:      itemID,
		CreatedAt:   m.tick(),
	})
	return nil
}

func (m *Memory) ListPlaidItems(ctx context.Context, userID uuid.UUID) ([]models.PlaidItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("ListPlaidItems"); err != nil {
		return nil, err
	}
	var items []models.PlaidItem
	for _, it := range m.st.plaidItems {
		if it.UserID == userID {
			items = append(items, it)
		}
	}
	return items, nil
}

func (m *Memory) UpsertLinkedAccounts(ctx context.Context, userID uuid.UUID, accounts []models.LinkedAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("UpsertLinkedAccounts"); err != nil {
		return err
	}
	for _, acc := range accounts {
		updated := false
		for i := range m.st.accounts {
			existing := &m.st.accounts[i]
			if existing.PlaidAccountID != nil && *existing.PlaidAccountID == acc.ProviderAccountID {
				existing.Name = acc.Name
				existing.Balance = acc.Balance
				existing.Currency = acc.Currency
				updated = true
			}
		}
		if updated {
			continue
		}
		providerID := acc.ProviderAccountID
		m.st.accounts = append(m.st.accounts, models.Account{
			ID:             uuid.New(),
			UserID:         userID,
			Name:           acc.Name,
			Type:           acc.Type,
			Balance:        acc.Balance,
			Currency:       acc.Currency,
			IsActive:       true,
			PlaidAccountID: &providerID,
			CreatedAt:      m.tick(),
		})
	}
	return nil
}

func (m *Memory) ListCategories(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("ListCategories"); err != nil {
		return nil, err
	}
	categories := append([]models.Category(nil), m.st.categories...)
	sort.SliceStable(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})
	return categories, nil
}

func (m *Memory) category(id *int64) (models.Category, bool) {
	if id == nil {
		return models.Category{}, false
	}
	for _, c := range m.st.categories {
		if c.ID == *id {
			return c, true
		}
	}
	return models.Category{}, false
}

func (m *Memory) ListTransactions(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("ListTransactions"); err != nil {
		return nil, err
	}
	var out []models.Transaction
	for _, t := range m.st.transactions {
		if t.UserID != userID {
			continue
		}
		if !filter.From.IsZero() && t.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !t.Date.Before(filter.To) {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *filter.CategoryID) {
			continue
		}
		if c, ok := m.category(t.CategoryID); ok {
			t.CategoryName = c.Name
			t.CategoryColor = c.Color
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *Memory) CreateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CreateTransaction"); err != nil {
		return nil, err
	}
	t := *txn
	t.ID = uuid.New()
	t.CategoryName = ""
	t.CategoryColor = ""
	t.CreatedAt = m.tick()
	m.st.transactions = append(m.st.transactions, t)
	return &t, nil
}

func (m *Memory) SumExpenses(ctx context.Context, userID uuid.UUID, categoryID int64, from, to time.Time) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("SumExpenses"); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, t := range m.st.transactions {
		if t.UserID != userID || t.Type != models.TransactionTypeExpense {
			continue
		}
		if t.CategoryID == nil || *t.CategoryID != categoryID {
			continue
		}
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		total = total.Add(t.Amount)
	}
	return total, nil
}

func (m *Memory) ListBudgets(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]models.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("ListBudgets"); err != nil {
		return nil, err
	}
	var budgets []models.Budget
	for _, b := range m.st.budgets {
		if b.UserID != userID || (activeOnly && !b.IsActive) {
			continue
		}
		id := b.CategoryID
		if c, ok := m.category(&id); ok {
			b.CategoryName = c.Name
			b.CategoryColor = c.Color
		}
		budgets = append(budgets, b)
	}
	sort.SliceStable(budgets, func(i, j int) bool { return budgets[i].CreatedAt.After(budgets[j].CreatedAt) })
	return budgets, nil
}

func (m *Memory) CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CreateBudget"); err != nil {
		return nil, err
	}
	b := *budget
	b.ID = uuid.New()
	if b.Period == "" {
		b.Period = "monthly"
	}
	b.CreatedAt = m.tick()
	id := b.CategoryID
	if c, ok := m.category(&id); ok {
		b.CategoryName = c.Name
		b.CategoryColor = c.Color
	}
	m.st.budgets = append(m.st.budgets, b)
	return &b, nil
}
