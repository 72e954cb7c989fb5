package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/sweet-shop/internal/core/domain"
	"github.com/sweetshop/sweet-shop/internal/core/ports"
)

func toCreateInput(req createSweetRequest) ports.CreateSweetInput {
	return ports.CreateSweetInput{
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
		Price:    req.Price,
		Quantity: req.Quantity,
		ImageURL: req.ImageURL,
	}
}

func toPatch(req updateSweetRequest) domain.SweetPatch {
	return domain.SweetPatch{
		Name:     trimmed(req.Name),
		Category: trimmed(req.Category),
		Price:    req.Price,
		Quantity: req.Quantity,
		ImageURL: trimmed(req.ImageURL),
	}
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

// parseFilter reads the search query string. Blank parameters are ignored.
func parseFilter(c echo.Context) (domain.SweetFilter, error) {
	f := domain.SweetFilter{
		Name:     strings.TrimSpace(c.QueryParam("name")),
		Category: strings.TrimSpace(c.QueryParam("category")),
	}

	var err error
	if f.MinPrice, err = parsePrice(c.QueryParam("min_price")); err != nil {
		return f, echo.NewHTTPError(http.StatusBadRequest, "invalid min_price")
	}
	if f.MaxPrice, err = parsePrice(c.QueryParam("max_price")); err != nil {
		return f, echo.NewHTTPError(http.StatusBadRequest, "invalid max_price")
	}
	return f, nil
}

func parsePrice(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func toSweetResponse(s *domain.Sweet) sweetResponse {
	return sweetResponse{
		ID:        s.ID,
		Name:      s.Name,
		Category:  s.Category,
		Price:     s.Price,
		Quantity:  s.Quantity,
		ImageURL:  s.ImageURL,
		CreatedAt: formatTime(s.CreatedAt),
		UpdatedAt: formatTime(s.UpdatedAt),
	}
}

func toSweetResponses(sweets []*domain.Sweet) []sweetResponse {
	out := make([]sweetResponse, 0, len(sweets))
	for _, s := range sweets {
		out = append(out, toSweetResponse(s))
	}
	return out
}

func toStockEventResponses(events []*domain.StockEvent) []stockEventResponse {
	out := make([]stockEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, stockEventResponse{
			SweetID:  e.SweetID,
			Kind:     string(e.Kind),
			Delta:    e.Delta,
			Quantity: e.Quantity,
			Actor:    e.Actor,
			At:       formatTime(e.At),
		})
	}
	return out
}
