package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/guttosm/cart-service/internal/domain/model"
)

var (
	// ErrUnknownCommand is returned by Dispatch for unsupported commands.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidCommand is returned when a command is missing a required field.
	ErrInvalidCommand = errors.New("invalid command")
)

// Command is a cart action requested by a shopper.
type Command interface {
	CommandName() string
}

// AddItem adds one unit of a product. Price is the catalog price text.
type AddItem struct {
	ID    model.ProductID
	Name  string
	Price string
}

// UpdateQuantity sets the quantity of the line at Index from raw input.
type UpdateQuantity struct {
	Index    int
	Quantity string
}

// AdjustQuantity changes the quantity of the line at Index by Delta.
type AdjustQuantity struct {
	Index int
	Delta int
}

// RemoveItem deletes the line at Index.
type RemoveItem struct {
	Index int
}

// Checkout places an order for the whole cart.
type Checkout struct{}

// CommandName implements Command.
func (AddItem) CommandName() string { return "add_item" }

// CommandName implements Command.
func (UpdateQuantity) CommandName() string { return "update_quantity" }

// CommandName implements Command.
func (AdjustQuantity) CommandName() string { return "adjust_quantity" }

// CommandName implements Command.
func (RemoveItem) CommandName() string { return "remove_item" }

// CommandName implements Command.
func (Checkout) CommandName() string { return "checkout" }

// Result is the state after a command ran.
type Result struct {
	Cart         model.Cart
	Summary      model.Summary
	Order        *model.Order
	Removed      string
	Notification model.Notification
}

// Dispatcher routes commands to a CartStore.
type Dispatcher struct {
	store *CartStore
}

// NewDispatcher creates a Dispatcher for store.
func NewDispatcher(store *CartStore) *Dispatcher {
	return &Dispatcher{store: store}
}

// Dispatch runs cmd against session. On ErrEmptyCart the returned Result
// still carries the notification to show.
func (d *Dispatcher) Dispatch(ctx context.Context, session string, cmd Command) (Result, error) {
	var (
		res Result
		err error
	)

	switch c := cmd.(type) {
	case AddItem:
		res.Cart, res.Notification, err = d.store.AddItem(ctx, session, c.ID, c.Name, c.Price)
	case UpdateQuantity:
		res.Cart, res.Notification, err = d.store.UpdateQuantity(ctx, session, c.Index, c.Quantity)
	case AdjustQuantity:
		res.Cart, res.Notification, err = d.store.AdjustQuantity(ctx, session, c.Index, c.Delta)
	case RemoveItem:
		res.Removed, res.Cart, res.Notification, err = d.store.RemoveItem(ctx, session, c.Index)
	case Checkout:
		var order model.Order
		order, res.Notification, err = d.store.Checkout(ctx, session)
		if err == nil {
			res.Order = &order
		}
	default:
		return Result{}, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}

	if err != nil {
		return res, err
	}
	res.Summary = d.store.Summary(res.Cart)
	return res, nil
}
