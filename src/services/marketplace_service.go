package services

import (
	"context"
	"errors"
	"fmt"
	"moneywise-server/src/db"
	"moneywise-server/src/models"
	"moneywise-server/src/repository"
	"moneywise-server/src/util"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RatingLabelNew = "New"

	PanelPurchase      = "purchase"
	PanelApplyTemplate = "apply_template"
)

// TemplateCache is the subset of db.Cache the marketplace reads through.
type TemplateCache interface {
	Get(key string) (interface{}, bool)
	Generation() uint64
	SetTemplate(key string, value interface{}, generation uint64) bool
	DelTemplate(keys ...string)
	ClearAllTemplates()
}

type TemplateSummary struct {
	models.SavingsPlan
	CreatorName   string          `json:"creator_name"`
	AverageRating decimal.Decimal `json:"average_rating"`
	RatingLabel   string          `json:"rating_label"`
	ReviewCount   int             `json:"review_count"`
}

type Listing struct {
	Featured   []TemplateSummary `json:"featured"`
	Templates  []TemplateSummary `json:"templates"`
	Categories []string          `json:"categories"`
}

// ListingFilter narrows the template list. Blank fields and the category
// "all" do not filter.
type ListingFilter struct {
	Query    string
	Category string
}

type NumberedItem struct {
	models.SavingsPlanItem
	Position int `json:"position"`
}

type TemplateDetail struct {
	TemplateSummary
	Items     []NumberedItem          `json:"items"`
	Ratings   []models.TemplateRating `json:"ratings"`
	Purchased bool                    `json:"purchased"`
	Panel     string                  `json:"panel"`
}

type PurchaseResult struct {
	Purchase *models.TemplatePurchase
	// Existing is set when a prior purchase was returned instead of a new row.
	Existing bool
}

type MarketplaceService struct {
	repo            repository.Repository
	cache           TemplateCache
	uniquePurchases bool
}

func NewMarketplaceService(repo repository.Repository, cache TemplateCache, uniquePurchases bool) *MarketplaceService {
	return &MarketplaceService{repo: repo, cache: cache, uniquePurchases: uniquePurchases}
}

// AverageRating is the mean of ratings rounded to one decimal place, with the
// label shown next to it. No ratings yields zero and the "New" label.
func AverageRating(ratings []models.TemplateRating) (decimal.Decimal, string) {
	if len(ratings) == 0 {
		return decimal.Zero, RatingLabelNew
	}
	total := 0
	for _, r := range ratings {
		total += r.Rating
	}
	avg := decimal.NewFromInt(int64(total)).Div(decimal.NewFromInt(int64(len(ratings)))).Round(1)
	return avg, avg.StringFixed(1)
}

func summarize(t models.Template) TemplateSummary {
	avg, label := AverageRating(t.Ratings)
	return TemplateSummary{
		SavingsPlan:   t.SavingsPlan,
		CreatorName:   t.CreatorName,
		AverageRating: avg,
		RatingLabel:   label,
		ReviewCount:   len(t.Ratings),
	}
}

func (s *MarketplaceService) allSummaries(ctx context.Context) ([]TemplateSummary, error) {
	key := db.TemplateListingKey()
	if cached, ok := s.cache.Get(key); ok {
		if summaries, ok := cached.([]TemplateSummary); ok {
			return summaries, nil
		}
	}

	gen := s.cache.Generation()
	templates, err := s.repo.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	summaries := make([]TemplateSummary, 0, len(templates))
	for _, t := range templates {
		summaries = append(summaries, summarize(t))
	}
	s.cache.SetTemplate(key, summaries, gen)
	return summaries, nil
}

func (f ListingFilter) matches(t TemplateSummary) bool {
	category := strings.TrimSpace(f.Category)
	if category != "" && !strings.EqualFold(category, "all") && !strings.EqualFold(category, t.Category) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.Description), q)
}

// ListTemplates returns templates newest first. Featured is always the first
// three of the unfiltered list.
func (s *MarketplaceService) ListTemplates(ctx context.Context, filter ListingFilter) (*Listing, error) {
	all, err := s.allSummaries(ctx)
	if err != nil {
		return nil, err
	}

	listing := &Listing{
		Featured:   make([]TemplateSummary, 0, 3),
		Templates:  make([]TemplateSummary, 0, len(all)),
		Categories: []string{},
	}
	seen := make(map[string]struct{})
	for i, t := range all {
		if i < 3 {
			listing.Featured = append(listing.Featured, t)
		}
		if filter.matches(t) {
			listing.Templates = append(listing.Templates, t)
		}
		if t.Category == "" {
			continue
		}
		if _, ok := seen[t.Category]; !ok {
			seen[t.Category] = struct{}{}
			listing.Categories = append(listing.Categories, t.Category)
		}
	}
	sort.Strings(listing.Categories)
	return listing, nil
}

func (s *MarketplaceService) template(ctx context.Context, templateID uuid.UUID) (*models.Template, error) {
	key := db.TemplateDetailKey(templateID.String())
	if cached, ok := s.cache.Get(key); ok {
		if t, ok := cached.(*models.Template); ok {
			return t, nil
		}
	}
	gen := s.cache.Generation()
	t, err := s.repo.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	s.cache.SetTemplate(key, t, gen)
	return t, nil
}

// GetTemplateDetail loads a template for a viewer. The panel tells the client
// whether to offer a purchase or to apply an owned template.
func (s *MarketplaceService) GetTemplateDetail(ctx context.Context, viewerID, templateID uuid.UUID) (*TemplateDetail, error) {
	t, err := s.template(ctx, templateID)
	if err != nil {
		return nil, err
	}

	purchased := true
	if _, err := s.repo.GetTemplatePurchase(ctx, viewerID, templateID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to check purchase: %w", err)
		}
		purchased = false
	}

	detail := &TemplateDetail{
		TemplateSummary: summarize(*t),
		Items:           make([]NumberedItem, len(t.Items)),
		Ratings:         t.Ratings,
		Purchased:       purchased,
		Panel:           PanelPurchase,
	}
	if detail.Ratings == nil {
		detail.Ratings = []models.TemplateRating{}
	}
	for i, item := range t.Items {
		detail.Items[i] = NumberedItem{SavingsPlanItem: item, Position: i + 1}
	}
	if purchased {
		detail.Panel = PanelApplyTemplate
	}
	return detail, nil
}

// Purchase records that buyerID bought the template at its current price.
// quoted, when set, is the price the buyer was shown; a mismatch refuses the
// purchase with a *PriceChangedError.
func (s *MarketplaceService) Purchase(ctx context.Context, buyerID, templateID uuid.UUID, quoted *decimal.Decimal) (*PurchaseResult, error) {
	var result PurchaseResult
	err := s.repo.InTx(ctx, func(tx repository.Repository) error {
		t, err := tx.GetTemplate(ctx, templateID)
		if err != nil {
			return err
		}
		if quoted != nil && !quoted.Equal(t.TemplatePrice) {
			return &PriceChangedError{Current: t.TemplatePrice}
		}

		if s.uniquePurchases {
			existing, err := tx.GetTemplatePurchase(ctx, buyerID, templateID)
			if err == nil {
				result = PurchaseResult{Purchase: existing, Existing: true}
				return nil
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}

		purchase, err := tx.CreateTemplatePurchase(ctx, &models.TemplatePurchase{
			BuyerID:       buyerID,
			TemplateID:    templateID,
			PurchasePrice: t.TemplatePrice,
		})
		if err != nil {
			return fmt.Errorf("failed to record purchase: %w", err)
		}
		result.Purchase = purchase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ApplyTemplate copies a purchased template and its items into a new active
// plan owned by userID.
func (s *MarketplaceService) ApplyTemplate(ctx context.Context, userID, templateID uuid.UUID) (*PlanWithItems, error) {
	var out PlanWithItems
	err := s.repo.InTx(ctx, func(tx repository.Repository) error {
		if _, err := tx.GetTemplatePurchase(ctx, userID, templateID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotPurchased
			}
			return err
		}
		t, err := tx.GetTemplate(ctx, templateID)
		if err != nil {
			return err
		}

		plan, err := tx.CreateSavingsPlan(ctx, &models.SavingsPlan{
			UserID:        userID,
			CreatedBy:     t.CreatedBy,
			Title:         t.Title,
			Description:   t.Description,
			TargetAmount:  t.TargetAmount,
			CurrentAmount: decimal.Zero,
			TargetDate:    t.TargetDate,
			Category:      t.Category,
			Priority:      t.Priority,
			Status:        models.PlanStatusActive,
		})
		if err != nil {
			return err
		}

		items, err := tx.CreateSavingsPlanItems(ctx, plan.ID, copyItems(t.Items))
		if err != nil {
			return err
		}
		out = PlanWithItems{Plan: *plan, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []models.SavingsPlanItem{}
	}
	return &out, nil
}

// Rate records the buyer's rating of a template. A buyer has one rating per
// template; rating again replaces it.
func (s *MarketplaceService) Rate(ctx context.Context, userID, templateID uuid.UUID, rating int, review string) (*models.TemplateRating, error) {
	if !util.ValidateRating(rating) {
		return nil, invalid("rating must be between 1 and 5")
	}
	t, err := s.repo.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if t.CreatedBy != nil && *t.CreatedBy == userID {
		return nil, ErrTemplateOwned
	}
	if _, err := s.repo.GetTemplatePurchase(ctx, userID, templateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotPurchased
		}
		return nil, fmt.Errorf("failed to check purchase: %w", err)
	}

	saved, err := s.repo.UpsertTemplateRating(ctx, &models.TemplateRating{
		TemplateID: templateID,
		UserID:     userID,
		Rating:     rating,
		Review:     strings.TrimSpace(review),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}
	s.cache.DelTemplate(db.TemplateListingKey(), db.TemplateDetailKey(templateID.String()))
	return saved, nil
}

// Publish lists a copy of one of the user's plans in the marketplace at
// price. The user's own plan and its progress are left as they are.
func (s *MarketplaceService) Publish(ctx context.Context, userID, planID uuid.UUID, rawPrice string) (*models.SavingsPlan, error) {
	price, err := parseAmount("price", rawPrice)
	if err != nil {
		return nil, err
	}

	var published *models.SavingsPlan
	err = s.repo.InTx(ctx, func(tx repository.Repository) error {
		src, err := tx.GetSavingsPlan(ctx, userID, planID)
		if err != nil {
			return err
		}
		items, err := tx.ListSavingsPlanItems(ctx, src.ID)
		if err != nil {
			return fmt.Errorf("failed to list plan items: %w", err)
		}

		owner := userID
		tmpl, err := tx.CreateTemplatePlan(ctx, &models.SavingsPlan{
			UserID:        userID,
			CreatedBy:     &owner,
			Title:         src.Title,
			Description:   src.Description,
			TargetAmount:  src.TargetAmount,
			CurrentAmount: decimal.Zero,
			TargetDate:    src.TargetDate,
			Category:      src.Category,
			Priority:      src.Priority,
			Status:        models.PlanStatusActive,
			TemplatePrice: price,
		})
		if err != nil {
			return err
		}
		if _, err := tx.CreateSavingsPlanItems(ctx, tmpl.ID, copyItems(items)); err != nil {
			return err
		}
		published = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.DelTemplate(db.TemplateListingKey())
	return published, nil
}

// copyItems strips identity from items so they can be inserted under
// another plan.
func copyItems(items []models.SavingsPlanItem) []models.SavingsPlanItem {
	copies := make([]models.SavingsPlanItem, len(items))
	for i, item := range items {
		copies[i] = models.SavingsPlanItem{
			Title:   item.Title,
			Amount:  item.Amount,
			Notes:   item.Notes,
			DueDate: item.DueDate,
		}
	}
	return copies
}
