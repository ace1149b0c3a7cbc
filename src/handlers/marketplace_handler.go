package handlers

import (
	"errors"
	"moneywise-server/src/logger"
	"moneywise-server/src/repository"
	"moneywise-server/src/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	MarketplacePath = "/dashboard/marketplace"

	statePurchased    = "purchased"
	stateNotPurchased = "not_purchased"
)

func ListTemplates(svc *services.MarketplaceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		filter := services.ListingFilter{
			Query:    r.URL.Query().Get("q"),
			Category: r.URL.Query().Get("category"),
		}
		listing, err := svc.ListTemplates(r.Context(), filter)
		if err != nil {
			logger.Get().Error("failed to list templates", userField(p), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load marketplace")
			return
		}
		writeJSON(w, http.StatusOK, listing)
	}
}

// GetTemplate sends the viewer back to the marketplace when the template
// does not exist.
func GetTemplate(svc *services.MarketplaceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		templateID, err := uuid.Parse(chi.URLParam(r, "template_id"))
		if err != nil {
			http.Redirect(w, r, MarketplacePath, http.StatusSeeOther)
			return
		}
		detail, err := svc.GetTemplateDetail(r.Context(), p.UserID, templateID)
		if errors.Is(err, repository.ErrNotFound) {
			http.Redirect(w, r, MarketplacePath, http.StatusSeeOther)
			return
		}
		if err != nil {
			logger.Get().Error("failed to load template", userField(p), zap.Stringer("template_id", templateID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load template")
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}

// PurchaseTemplate never tells the buyer why a write failed; the reason is
// only logged.
func PurchaseTemplate(svc *services.MarketplaceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		notPurchased := map[string]interface{}{"state": stateNotPurchased}

		templateID, err := uuid.Parse(chi.URLParam(r, "template_id"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, notPurchased)
			return
		}
		var req struct {
			Price *formValue `json:"price"`
		}
		if err := decodeBody(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, notPurchased)
			return
		}
		var quoted *decimal.Decimal
		if req.Price != nil && req.Price.String() != "" {
			price, err := decimal.NewFromString(req.Price.String())
			if err != nil {
				writeJSON(w, http.StatusBadRequest, notPurchased)
				return
			}
			quoted = &price
		}

		result, err := svc.Purchase(r.Context(), p.UserID, templateID, quoted)
		if err != nil {
			var changed *services.PriceChangedError
			switch {
			case errors.As(err, &changed):
				writeJSON(w, http.StatusConflict, map[string]interface{}{
					"state":         stateNotPurchased,
					"current_price": changed.Current,
				})
			case errors.Is(err, repository.ErrNotFound):
				writeJSON(w, http.StatusNotFound, notPurchased)
			default:
				logger.Get().Error("failed to purchase template", userField(p), zap.Stringer("template_id", templateID), zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, notPurchased)
			}
			return
		}

		status := http.StatusCreated
		if result.Existing {
			status = http.StatusOK
		} else {
			logger.Get().Info("template purchased", userField(p),
				zap.Stringer("template_id", templateID),
				zap.Stringer("purchase_id", result.Purchase.ID),
				zap.String("price", result.Purchase.PurchasePrice.StringFixed(2)))
		}
		writeJSON(w, status, map[string]interface{}{
			"state":    statePurchased,
			"purchase": result.Purchase,
			"next":     "/dashboard/savings/new?template=" + templateID.String(),
		})
	}
}

func ApplyTemplate(svc *services.MarketplaceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		templateID, err := uuid.Parse(chi.URLParam(r, "template_id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "template not found")
			return
		}
		applied, err := svc.ApplyTemplate(r.Context(), p.UserID, templateID)
		if err != nil {
			fail(w, "failed to apply template", err, userField(p), zap.Stringer("template_id", templateID))
			return
		}
		logger.Get().Info("template applied", userField(p), zap.Stringer("template_id", templateID), zap.Stringer("plan_id", applied.Plan.ID))
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"plan":  applied.Plan,
			"items": applied.Items,
			"next":  "/dashboard/savings/" + applied.Plan.ID.String(),
		})
	}
}

func RateTemplate(svc *services.MarketplaceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		templateID, err := uuid.Parse(chi.URLParam(r, "template_id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "template not found")
			return
		}
		var req struct {
			Rating int    `json:"rating"`
			Review string `json:"review"`
		}
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		rating, err := svc.Rate(r.Context(), p.UserID, templateID, req.Rating, req.Review)
		if err != nil {
			fail(w, "failed to rate template", err, userField(p), zap.Stringer("template_id", templateID))
			return
		}
		logger.Get().Info("template rated", userField(p), zap.Stringer("template_id", templateID), zap.Int("rating", rating.Rating))
		writeJSON(w, http.StatusCreated, rating)
	}
}

func PublishSavingsPlan(svc *services.MarketplaceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		planID, err := uuid.Parse(chi.URLParam(r, "plan_id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "savings plan not found")
			return
		}
		var req struct {
			Price formValue `json:"price"`
		}
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		plan, err := svc.Publish(r.Context(), p.UserID, planID, req.Price.String())
		if err != nil {
			fail(w, "failed to publish savings plan", err, userField(p), zap.Stringer("plan_id", planID))
			return
		}
		logger.Get().Info("savings plan published", userField(p), zap.Stringer("plan_id", planID))
		writeJSON(w, http.StatusOK, plan)
	}
}
