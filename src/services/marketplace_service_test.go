package services

import (
	"context"
	"errors"
	"moneywise-server/src/models"
	"moneywise-server/src/repository"
	"moneywise-server/src/repository/repotest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newMarketplace(t *testing.T, unique bool) (*MarketplaceService, *repotest.Memory) {
	t.Helper()
	mem := repotest.NewMemory()
	return NewMarketplaceService(mem, newCache(t), unique), mem
}

// rate buys the template for user and rates it.
func rate(t *testing.T, svc *MarketplaceService, user, template uuid.UUID, stars int) {
	t.Helper()
	if _, err := svc.Purchase(context.Background(), user, template, nil); err != nil {
		t.Fatalf("Purchase() error = %v", err)
	}
	if _, err := svc.Rate(context.Background(), user, template, stars, ""); err != nil {
		t.Fatalf("Rate(%d) error = %v", stars, err)
	}
}

func TestAverageRatingNoRatings(t *testing.T) {
	avg, label := AverageRating(nil)
	if !avg.IsZero() || label != RatingLabelNew {
		t.Fatalf("AverageRating(nil) = %s, %q; want 0, %q", avg, label, RatingLabelNew)
	}
}

func TestAverageRatingRoundsToOneDecimal(t *testing.T) {
	ratings := []models.TemplateRating{{Rating: 5}, {Rating: 4}, {Rating: 4}}
	avg, label := AverageRating(ratings)
	if !avg.Equal(money("4.3")) || label != "4.3" {
		t.Fatalf("AverageRating = %s, %q; want 4.3", avg, label)
	}
}

func TestListTemplatesComputesRatings(t *testing.T) {
	svc, mem := newMarketplace(t, false)
	ctx := context.Background()
	creator := seedUser(t, mem)
	unrated := seedTemplate(t, mem, creator, "9.99", 2)
	rated := seedTemplate(t, mem, creator, "19.99", 1)

	for _, stars := range []int{5, 4} {
		rate(t, svc, seedUser(t, mem), rated.ID, stars)
	}

	listing, err := svc.ListTemplates(ctx, ListingFilter{})
	if err != nil {
		t.Fatalf("ListTemplates() error = %v", err)
	}
	if len(listing.Templates) != 2 {
		t.Fatalf("got %d templates, want 2", len(listing.Templates))
	}
	byID := map[uuid.UUID]TemplateSummary{}
	for _, tmpl := range listing.Templates {
		byID[tmpl.ID] = tmpl
	}
	if got := byID[unrated.ID]; got.ReviewCount != 0 || got.RatingLabel != RatingLabelNew || !got.AverageRating.IsZero() {
		t.Errorf("unrated template = %+v", got)
	}
	if got := byID[rated.ID]; got.ReviewCount != 2 || !got.AverageRating.Equal(money("4.5")) {
		t.Errorf("rated template average = %s count = %d, want 4.5 and 2", got.AverageRating, got.ReviewCount)
	}
	if listing.Templates[0].ID != rated.ID {
		t.Errorf("templates not ordered newest first")
	}
}

func TestListTemplatesFeaturedIgnoresFilter(t *testing.T) {
	svc, mem := newMarketplace(t, false)
	creator := seedUser(t, mem)
	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		ids = append(ids, seedTemplate(t, mem, creator, "5", 1).ID)
	}

	listing, err := svc.ListTemplates(context.Background(), ListingFilter{Query: "no template has this text"})
	if err != nil {
		t.Fatalf("ListTemplates() error = %v", err)
	}
	if len(listing.Templates) != 0 {
		t.Errorf("filtered templates = %d, want 0", len(listing.Templates))
	}
	if len(listing.Featured) != 3 {
		t.Fatalf("featured = %d, want 3", len(listing.Featured))
	}
	for i, f := range listing.Featured {
		if want := ids[len(ids)-1-i]; f.ID != want {
			t.Errorf("featured[%d] = %s, want %s", i, f.ID, want)
		}
	}
}

func TestListTemplatesFilters(t *testing.T) {
	svc, mem := newMarketplace(t, false)
	ctx := context.Background()
	creator := seedUser(t, mem)
	for _, p := range []models.SavingsPlan{
		{Title: "Emergency Fund Starter", Category: "Emergency"},
		{Title: "Beach Trip", Description: "Save for a holiday", Category: "Travel"},
		{Title: "Down Payment", Category: "Home"},
	} {
		p.UserID = creator
		p.CreatedBy = &creator
		p.TargetAmount = money("1000")
		p.TemplatePrice = money("3")
		if _, err := mem.CreateTemplatePlan(ctx, &p); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name   string
		filter ListingFilter
		want   int
	}{
		{"no filter", ListingFilter{}, 3},
		{"all category", ListingFilter{Category: "all"}, 3},
		{"category case-insensitive", ListingFilter{Category: "travel"}, 1},
		{"query in title", ListingFilter{Query: "emergency"}, 1},
		{"query in description", ListingFilter{Query: "HOLIDAY"}, 1},
		{"query and category", ListingFilter{Query: "trip", Category: "Home"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing, err := svc.ListTemplates(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListTemplates() error = %v", err)
			}
			if len(listing.Templates) != tt.want {
				t.Errorf("got %d templates, want %d", len(listing.Templates), tt.want)
			}
			if len(listing.Categories) != 3 {
				t.Errorf("categories = %v", listing.Categories)
			}
		})
	}
}

func TestGetTemplateDetailPanels(t *testing.T) {
	svc, mem := newMarketplace(t, false)
	ctx := context.Background()
	creator := seedUser(t, mem)
	buyer := seedUser(t, mem)
	tmpl := seedTemplate(t, mem, creator, "12.50", 3)

	detail, err := svc.GetTemplateDetail(ctx, buyer, tmpl.ID)
	if err != nil {
		t.Fatalf("GetTemplateDetail() error = %v", err)
	}
	if detail.Purchased || detail.Panel != PanelPurchase {
		t.Errorf("before purchase: purchased=%v panel=%q", detail.Purchased, detail.Panel)
	}
	if len(detail.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(detail.Items))
	}
	for i, it := range detail.Items {
		if it.Position != i+1 {
			t.Errorf("item %d position = %d", i, it.Position)
		}
	}
	if detail.CreatorName == "" {
		t.Error("creator name missing")
	}

	if _, err := svc.Purchase(ctx, buyer, tmpl.ID, nil); err != nil {
		t.Fatalf("Purchase() error = %v", err)
	}
	detail, err = svc.GetTemplateDetail(ctx, buyer, tmpl.ID)
	if err != nil {
		t.Fatalf("GetTemplateDetail() error = %v", err)
	}
	if !detail.Purchased || detail.Panel != PanelApplyTemplate {
		t.Errorf("after purchase: purchased=%v panel=%q", detail.Purchased, detail.Panel)
	}
}

func TestGetTemplateDetailNotFound(t *testing.T) {
	svc, mem := newMarketplace(t, false)
	user := seedUser(t, mem)
	_, err := svc.GetTemplateDetail(context.Background(), user, uuid.New())
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}

	// a plan that was never published is not a template
	plan, _ := mem.CreateSavingsPlan(context.Background(), &models.SavingsPlan{UserID: user, Title: "private"})
	_, err = svc.GetTemplateDetail(context.Background(), user, plan.ID)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("unpublished plan error = %v, want ErrNotFound", err)
	}
}

func TestPurchaseCreatesOneRowPerCall(t *testing.T) {
	svc, mem := newMarketplace(t, false)
	ctx := context.Background()
	buyer := seedUser(t, mem)
	tmpl := seedTemplate(t, mem, seedUser(t, mem), "25.00", 1)

	first, err := svc.Purchase(ctx, buyer, tmpl.ID, nil)
	if err != nil {
		t.Fatalf("Purchase() error = %v", err)
	}
	if first.Existing || first.Purchase.BuyerID != buyer {
		t.Fatalf("first purchase = %+v", first)
	}
	if n := len(mem.Purchases()); n != 1 {
		t.Fatalf("after one purchase: %d rows, want 1", n)
	}

	if _, err := svc.Purchase(ctx, buyer, tmpl.ID, nil); err != nil {
		t.Fatalf("second Purchase() error = %v", err)
	}
	if n := len(mem.Purchases()); n != 2 {
		t.Fatalf("after two purchases: %d rows, want 2", n)
	}
}

func TestPurchaseUniqueModeReturnsExisting(t *testing.T) {
	svc, mem := newMarketplace(t, true)
	ctx := context.Background()
	buyer := seedUser(t, mem)
	tmpl := seedTemplate(t, mem, seedUser(t, mem), "25.00", 1)

	first, err := svc.Purchase(ctx, buyer, tmpl.ID, nil)
	if err != nil {
		t.Fatalf("Purchase() error = %v", err)
	}
	second, err := svc.Purchase(ctx, buyer, tmpl.ID, nil)
	if err != nil {
		t.Fatalf("second Purchase() error = %v", err)
	}
	if !second.Existing || second.Purchase.ID != first.Purchase.ID {
		t.Errorf("second purchase = %+v, want existing %s", second, first.Purchase.ID)
	}
	if n := len(mem.Purchases()); n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
}

func TestPurchaseUsesAuthoritativePrice(t *testing.T) {
	svc, mem := newMarketplace(t, false)
	ctx := context.Background()
	buyer := seedUser(t, mem)
	tmpl := seedTemplate(t, mem, seedUser(t, mem), "30.00", 1)

	quoted := money("30")
	res, err := svc.Purchase(ctx, buyer, tmpl.ID, &quoted)
	if err != nil {
		t.Fatalf("Purchase() error = %v", err)
	}
	if !res.Purchase.PurchasePrice.Equal(money("30")) {
		t.Errorf("price = %s, want 30", res.Purchase.PurchasePrice)
	}

	stale := money("1.00")
	_, err = svc.Purchase(ctx, buyer, tmpl.ID, &stale)
	var changed *PriceChangedError
	if !errors.As(err, &changed) || !errors.Is(err, ErrPriceChanged) {
		t.Fatalf("error = %v, want PriceChangedError", err)
	}
	if !changed.Current.Equal(money("30")) {
		t.Errorf("current = %s, want 30", changed.Current)
	}
	if n := len(mem.Purchases()); n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
}

func TestPurchaseFailureWritesNothing(t *testing.T) {
	svc, mem := newMarketplace(t, false)
	buyer := seedUser(t, mem)
	tmpl := seedTemplate(t, mem, seedUser(t, mem), "5", 1)
	boom := errors.New("insert rejected")
	mem.Fail("CreateTemplatePurchase", boom)

	if _, err := svc.Purchase(context.Background(), buyer, tmpl.ID, nil); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
	if n := len(mem.Purchases()); n != 0 {
		t.Errorf("rows = %d, want 0", n)
	}
}

func TestApplyTemplate(t *testing.T) {
	svc, mem := newMarketplace(t, false)
	ctx := context.Background()
	buyer := seedUser(t, mem)
	tmpl := seedTemplate(t, mem, seedUser(t, mem), "5", 4)

	if _, err := svc.ApplyTemplate(ctx, buyer, tmpl.ID); !errors.Is(err, ErrNotPurchased) {
		t.Fatalf("apply before purchase error = %v, want ErrNotPurchased", err)
	}
	if _, err := svc.Purchase(ctx, buyer, tmpl.ID, nil); err != nil {
		t.Fatal(err)
	}

	applied, err := svc.ApplyTemplate(ctx, buyer, tmpl.ID)
	if err != nil {
		t.Fatalf("ApplyTemplate() error = %v", err)
	}
	if applied.Plan.UserID != buyer || applied.Plan.IsTemplate || applied.Plan.Title != tmpl.Title {
		t.Errorf("applied plan = %+v", applied.Plan)
	}
	if !applied.Plan.CurrentAmount.IsZero() {
		t.Errorf("current amount = %s, want 0", applied.Plan.CurrentAmount)
	}
	if len(applied.Items) != 4 {
		t.Errorf("items = %d, want 4", len(applied.Items))
	}
	for _, it := range applied.Items {
		if it.PlanID != applied.Plan.ID {
			t.Errorf("item %s linked to %s", it.ID, it.PlanID)
		}
	}
}

func TestRateValidatesAndInvalidatesListing(t *testing.T) {
	svc, mem := newMarketplace(t, false)
	ctx := context.Background()
	creator := seedUser(t, mem)
	tmpl := seedTemplate(t, mem, creator, "5", 1)

	if _, err := svc.ListTemplates(ctx, ListingFilter{}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Rate(ctx, seedUser(t, mem), tmpl.ID, 6, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("rating 6 error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Rate(ctx, creator, tmpl.ID, 5, ""); !errors.Is(err, ErrTemplateOwned) {
		t.Errorf("own template error = %v, want ErrTemplateOwned", err)
	}
	rate(t, svc, seedUser(t, mem), tmpl.ID, 3)

	listing, err := svc.ListTemplates(ctx, ListingFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if got := listing.Templates[0]; got.ReviewCount != 1 || !got.AverageRating.Equal(decimal.NewFromInt(3)) {
		t.Errorf("after rating: count=%d avg=%s", got.ReviewCount, got.AverageRating)
	}
}

func TestRateRequiresPurchaseAndKeepsOneRatingPerBuyer(t *testing.T) {
	svc, mem := newMarketplace(t, false)
	ctx := context.Background()
	tmpl := seedTemplate(t, mem, seedUser(t, mem), "5", 1)
	buyer := seedUser(t, mem)

	if _, err := svc.Rate(ctx, buyer, tmpl.ID, 5, ""); !errors.Is(err, ErrNotPurchased) {
		t.Fatalf("rating before purchase error = %v, want ErrNotPurchased", err)
	}

	rate(t, svc, buyer, tmpl.ID, 1)
	rate(t, svc, buyer, tmpl.ID, 1)
	if _, err := svc.Rate(ctx, buyer, tmpl.ID, 4, "changed my mind"); err != nil {
		t.Fatalf("Rate() error = %v", err)
	}

	detail, err := svc.GetTemplateDetail(ctx, buyer, tmpl.ID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.ReviewCount != 1 || !detail.AverageRating.Equal(decimal.NewFromInt(4)) {
		t.Errorf("count=%d avg=%s, want 1 and 4", detail.ReviewCount, detail.AverageRating)
	}
	if detail.Ratings[0].Review != "changed my mind" {
		t.Errorf("review = %q", detail.Ratings[0].Review)
	}
}

func TestCreatorRenameShowsInMarketplace(t *testing.T) {
	svc, mem := newMarketplace(t, false)
	ctx := context.Background()
	creator := seedUser(t, mem)
	tmpl := seedTemplate(t, mem, creator, "5", 1)
	profiles := NewProfileService(mem, svc.cache)

	listing, err := svc.ListTemplates(ctx, ListingFilter{})
	if err != nil {
		t.Fatal(err)
	}
	before := listing.Templates[0].CreatorName
	if _, err := svc.GetTemplateDetail(ctx, creator, tmpl.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := profiles.Update(ctx, creator, "creator@example.com", ProfileInput{FullName: "Renamed Creator"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	listing, err = svc.ListTemplates(ctx, ListingFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if got := listing.Templates[0].CreatorName; got != "Renamed Creator" {
		t.Errorf("listing creator = %q (was %q), want the new name", got, before)
	}
	detail, err := svc.GetTemplateDetail(ctx, creator, tmpl.ID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.CreatorName != "Renamed Creator" {
		t.Errorf("detail creator = %q, want the new name", detail.CreatorName)
	}
}

func TestPublishCopiesPlan(t *testing.T) {
	svc, mem := newMarketplace(t, false)
	ctx := context.Background()
	owner := seedUser(t, mem)
	plan, _ := mem.CreateSavingsPlan(ctx, &models.SavingsPlan{
		UserID:        owner,
		Title:         "Car",
		TargetAmount:  money("1000"),
		CurrentAmount: money("400"),
	})
	if _, err := mem.CreateSavingsPlanItems(ctx, plan.ID, []models.SavingsPlanItem{
		{Title: "Deposit", Amount: money("600")},
		{Title: "Insurance", Amount: money("400")},
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Publish(ctx, uuid.New(), plan.ID, "10"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("publish by stranger error = %v, want ErrNotFound", err)
	}
	if _, err := svc.Publish(ctx, owner, plan.ID, "-1"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative price error = %v, want ErrInvalidInput", err)
	}
	published, err := svc.Publish(ctx, owner, plan.ID, "10")
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if published.ID == plan.ID || !published.IsTemplate || !published.TemplatePrice.Equal(money("10")) {
		t.Errorf("published = %+v", published)
	}
	if published.CreatedBy == nil || *published.CreatedBy != owner || !published.CurrentAmount.IsZero() {
		t.Errorf("published owner/progress = %v %s", published.CreatedBy, published.CurrentAmount)
	}

	own, err := NewSavingsService(mem).GetPlan(ctx, owner, plan.ID)
	if err != nil {
		t.Fatalf("GetPlan() error = %v", err)
	}
	if own.IsTemplate || !own.CurrentAmount.Equal(money("400")) || own.Progress != 40 {
		t.Errorf("owner's plan after publish: current=%s progress=%d template=%v", own.CurrentAmount, own.Progress, own.IsTemplate)
	}
	plans, err := NewSavingsService(mem).ListPlans(ctx, owner)
	if err != nil || len(plans) != 1 || plans[0].ID != plan.ID {
		t.Errorf("owner's plans = %+v, %v", plans, err)
	}

	detail, err := svc.GetTemplateDetail(ctx, uuid.New(), published.ID)
	if err != nil {
		t.Fatalf("GetTemplateDetail() error = %v", err)
	}
	if len(detail.Items) != 2 {
		t.Errorf("template items = %d, want 2", len(detail.Items))
	}
	listing, err := svc.ListTemplates(ctx, ListingFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(listing.Templates) != 1 {
		t.Errorf("templates = %d, want 1", len(listing.Templates))
	}
}

func TestPublishRollsBackOnItemFailure(t *testing.T) {
	svc, mem := newMarketplace(t, false)
	ctx := context.Background()
	owner := seedUser(t, mem)
	plan, _ := mem.CreateSavingsPlan(ctx, &models.SavingsPlan{UserID: owner, Title: "Bike", TargetAmount: money("300")})
	mem.Fail("CreateSavingsPlanItems", errors.New("disk full"))

	if _, err := svc.Publish(ctx, owner, plan.ID, "2"); err == nil {
		t.Fatal("expected an error")
	}
	if n := len(mem.Plans()); n != 1 {
		t.Errorf("plans = %d, want only the original", n)
	}
}
