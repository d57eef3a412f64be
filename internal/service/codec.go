package service

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/rs/zerolog/log"
)

// storedLineItem mirrors the persisted line item loosely so that one bad
// field does not make the whole slot unreadable.
type storedLineItem struct {
	ID       model.ProductID `json:"id"`
	Name     string          `json:"name"`
	Price    json.RawMessage `json:"price"`
	Quantity json.RawMessage `json:"quantity"`
}

// decodeCart reads the cart slot and repairs it. Records with no id or an
// unusable price are dropped, quantities are clamped and duplicate ids are
// merged into the first occurrence. Anything that is not a JSON array
// yields an empty cart.
func decodeCart(session, raw string, maxQuantity int) model.Cart {
	records, ok := decodeArray(session, "cart", raw)
	if !ok {
		return model.Cart{}
	}

	items := make([]model.LineItem, 0, len(records))
	positions := make(map[model.ProductID]int, len(records))
	for i, rec := range records {
		var stored storedLineItem
		if err := json.Unmarshal(rec, &stored); err != nil {
			warnRepair(session, "cart", i, "undecodable record")
			continue
		}
		if stored.ID == "" {
			warnRepair(session, "cart", i, "missing id")
			continue
		}
		price, err := decodePrice(stored.Price)
		if err != nil {
			warnRepair(session, "cart", i, "invalid price")
			continue
		}
		qty := decodeQuantity(stored.Quantity, maxQuantity)

		if pos, dup := positions[stored.ID]; dup {
			warnRepair(session, "cart", i, "duplicate id merged")
			items[pos].Quantity = model.ClampQuantity(items[pos].Quantity+qty, maxQuantity)
			continue
		}
		positions[stored.ID] = len(items)
		items = append(items, model.LineItem{
			ID:       stored.ID,
			Name:     stored.Name,
			Price:    price,
			Quantity: qty,
		})
	}
	return model.Cart{Items: items}
}

// decodeOrders reads the orders slot. Orders that cannot be decoded or
// have no id are dropped; order is preserved.
func decodeOrders(session, raw string) []model.Order {
	records, ok := decodeArray(session, "orders", raw)
	if !ok {
		return nil
	}

	orders := make([]model.Order, 0, len(records))
	for i, rec := range records {
		var order model.Order
		if err := json.Unmarshal(rec, &order); err != nil {
			warnRepair(session, "orders", i, "undecodable record")
			continue
		}
		if order.ID == "" {
			warnRepair(session, "orders", i, "missing id")
			continue
		}
		if order.Items == nil {
			order.Items = []string{}
		}
		orders = append(orders, order)
	}
	return orders
}

func encodeCart(cart model.Cart) (string, error) {
	items := cart.Items
	if items == nil {
		items = []model.LineItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func encodeOrders(orders []model.Order) (string, error) {
	if orders == nil {
		orders = []model.Order{}
	}
	b, err := json.Marshal(orders)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeArray(session, slot, raw string) ([]json.RawMessage, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	var records []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		log.Warn().
			Str("session_id", session).
			Str("slot", slot).
			Err(err).
			Msg("Slot is not a JSON array, treating as empty")
		return nil, false
	}
	return records, true
}

// decodePrice accepts a JSON number or a currency-formatted string.
func decodePrice(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, model.ErrInvalidPrice
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return model.ParsePrice(text)
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, model.ErrInvalidPrice
	}
	if err := model.ValidatePrice(v); err != nil {
		return 0, err
	}
	return v, nil
}

// decodeQuantity accepts a JSON number or numeric text. Missing or
// unreadable values become MinQuantity.
func decodeQuantity(raw json.RawMessage, maxQuantity int) int {
	if len(raw) == 0 || string(raw) == "null" {
		return model.MinQuantity
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return model.ParseQuantity(text, maxQuantity)
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return model.MinQuantity
	}
	return model.ParseQuantity(strconv.FormatFloat(v, 'f', -1, 64), maxQuantity)
}

func warnRepair(session, slot string, index int, reason string) {
	log.Warn().
		Str("session_id", session).
		Str("slot", slot).
		Int("index", index).
		Str("reason", reason).
		Msg("Repaired persisted record")
}
