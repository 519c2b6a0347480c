// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/taptodine/internal/logging"
	"github.com/tomtom215/taptodine/internal/metrics"
	"github.com/tomtom215/taptodine/internal/models"
)

// PlaceholderImage is an inline SVG shown for items without a usable image.
const PlaceholderImage = "data:image/svg+xml;base64,PHN2ZyB3aWR0aD0iNDAwIiBoZWlnaHQ9IjMwMCIgeG1sbnM9Imh0dHA6Ly93d3cudzMub3JnLzIwMDAvc3ZnIj48cmVjdCB3aWR0aD0iNDAwIiBoZWlnaHQ9IjMwMCIgZmlsbD0iI2YwZjBmMCIvPjx0ZXh0IHg9IjUwJSIgeT0iNTAlIiBmb250LWZhbWlseT0iQXJpYWwiIGZvbnQtc2l6ZT0iMjQiIGZpbGw9IiNjMGMwYzAiIHRleHQtYW5jaG9yPSJtaWRkbGUiIGR5PSIuM2VtIj5ObyBJbWFnZTwvdGV4dD48L3N2Zz4="

// imagePrefixes are the image references the storefront can render.
var imagePrefixes = []string{"http://", "https://", "data:", "/"}

// normalizeMenu flattens a sectioned upstream menu.
func normalizeMenu(ctx context.Context, up *upstreamMenu) (*models.Menu, error) {
	if up.Sections == nil {
		return nil, fmt.Errorf("%w: menu has no sections", ErrMalformedResponse)
	}

	menu := &models.Menu{Items: make([]models.MenuItem, 0, countItems(up.Sections))}
	if up.Restaurant != nil {
		menu.RestaurantName = up.Restaurant.Name
	}

	for _, section := range up.Sections {
		for i := range section.Items {
			menu.Items = append(menu.Items, normalizeItem(ctx, section, i))
		}
	}
	return menu, nil
}

func countItems(sections []upstreamSection) int {
	n := 0
	for i := range sections {
		n += len(sections[i].Items)
	}
	return n
}

func normalizeItem(ctx context.Context, section upstreamSection, index int) models.MenuItem {
	up := section.Items[index]

	id := string(up.ID)
	if id == "" {
		id = fmt.Sprintf("%s-%d", section.ID, index)
	}
	description := ""
	if up.Description != nil {
		description = *up.Description
	}

	return models.MenuItem{
		ID:                  id,
		Name:                up.Name,
		Description:         description,
		Price:               float64(up.Price),
		Image:               normalizeImage(ctx, id, up.Image),
		Category:            section.Title,
		Size:                up.Size,
		Extras:              up.Extras,
		SpecialInstructions: up.SpecialInstructions,
		Labels:              up.Labels,
		Ingredients:         up.Ingredients,
	}
}

// normalizeImage returns the trimmed image reference, or PlaceholderImage
// when it is empty or not something the storefront can load.
func normalizeImage(ctx context.Context, itemID, image string) string {
	image = strings.TrimSpace(image)
	if image == "" {
		metrics.GatewayPlaceholderImages.Inc()
		return PlaceholderImage
	}
	for _, prefix := range imagePrefixes {
		if strings.HasPrefix(image, prefix) && image != "/" {
			return image
		}
	}

	logging.Ctx(ctx).Warn().
		Str("item_id", itemID).
		Str("image", truncate(image, 120)).
		Msg("Menu item image is not a URL; using placeholder")
	metrics.GatewayPlaceholderImages.Inc()
	return PlaceholderImage
}

func normalizeOrders(up *upstreamOrders) []models.Order {
	orders := make([]models.Order, 0, len(up.Orders))
	for i := range up.Orders {
		orders = append(orders, normalizeOrder(&up.Orders[i]))
	}
	return orders
}

// normalizeOrder keeps the backend's values as sent. Only the total is
// filled in, from the items, when the backend omits it.
func normalizeOrder(up *upstreamOrder) models.Order {
	items := make([]models.CartItem, 0, len(up.Items))
	for _, it := range up.Items {
		items = append(items, models.CartItem{
			MenuItem: models.MenuItem{
				ID:                  string(it.ID),
				Name:                it.Name,
				Description:         it.Description,
				Price:               float64(it.Price),
				Image:               it.Image,
				Category:            it.Category,
				Size:                it.Size,
				Extras:              it.Extras,
				SpecialInstructions: it.SpecialInstructions,
				Labels:              it.Labels,
				Ingredients:         it.Ingredients,
			},
			Quantity: it.Quantity,
			Options:  it.Options,
		})
	}

	total := models.CartTotal(items)
	if up.Total != nil {
		total = float64(*up.Total)
	}

	return models.Order{
		ID:             string(up.ID),
		RestaurantName: up.RestaurantName,
		Items:          items,
		Total:          total,
		Status:         models.OrderStatus(up.Status),
		CreatedAt:      up.CreatedAt,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
