package model

import (
	"fmt"
	"time"
)

const (
	// OrderStatusProcessing is the status every order starts with.
	OrderStatusProcessing = "processing"
	// OrderDateLayout renders dates like "October 19, 2026".
	OrderDateLayout = "January 2, 2006"
)

// Order is the immutable snapshot recorded at checkout. Line prices are
// not retained; Items holds "name × quantity" descriptions only.
type Order struct {
	ID     string   `json:"id" bson:"id"`
	Date   string   `json:"date" bson:"date"`
	Items  []string `json:"items" bson:"items"`
	Total  string   `json:"total" bson:"total"`
	Status string   `json:"status" bson:"status"`
}

// DescribeLineItem returns the order history description of a line item.
func DescribeLineItem(item LineItem) string {
	return fmt.Sprintf("%s × %d", item.Name, item.Quantity)
}

// NewOrder snapshots cart into an order with the given id and formatted total.
func NewOrder(id string, createdAt time.Time, cart Cart, formattedTotal string) Order {
	items := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, DescribeLineItem(item))
	}
	return Order{
		ID:     id,
		Date:   createdAt.Format(OrderDateLayout),
		Items:  items,
		Total:  formattedTotal,
		Status: OrderStatusProcessing,
	}
}
