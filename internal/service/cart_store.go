package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/cart-service/config"
	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/events"
	"github.com/guttosm/cart-service/internal/i18n"
	"github.com/guttosm/cart-service/internal/metrics"
	"github.com/guttosm/cart-service/internal/repository"
	"github.com/rs/zerolog/log"
)

// ErrInvalidSession is returned for session ids that cannot name a slot namespace.
var ErrInvalidSession = errors.New("invalid session id")

var sessionPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// ValidateSession checks that session is 1-128 characters of [A-Za-z0-9_-].
func ValidateSession(session string) error {
	if !sessionPattern.MatchString(session) {
		return fmt.Errorf("%w: %q", ErrInvalidSession, session)
	}
	return nil
}

// DefaultCartConfig returns the storefront's pricing rules.
func DefaultCartConfig() config.CartConfig {
	return config.CartConfig{
		MaxQuantity:           model.DefaultMaxQuantity,
		FreeShippingThreshold: 5000,
		FlatShipping:          500,
		TaxRate:               0.18,
		CurrencySymbol:        "₹",
	}
}

// CartStore owns the cart and order history of every session. All reads
// and writes of a session go through it, one at a time.
type CartStore struct {
	store      repository.SlotStore
	cfg        config.CartConfig
	pricer     *Pricer
	translator *i18n.Translator
	publisher  events.OrderPublisher
	now        func() time.Time
	newID      func() (string, error)
	timeout    time.Duration
	locks      sessionLocks
}

// CartStoreOption configures a CartStore.
type CartStoreOption func(*CartStore)

// WithCartConfig sets the pricing and quantity rules.
func WithCartConfig(cfg config.CartConfig) CartStoreOption {
	return func(s *CartStore) {
		if cfg.MaxQuantity < model.MinQuantity {
			cfg.MaxQuantity = model.DefaultMaxQuantity
		}
		s.cfg = cfg
	}
}

// WithClock overrides the time source used for order dates.
func WithClock(now func() time.Time) CartStoreOption {
	return func(s *CartStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides order id generation.
func WithIDGenerator(gen func() (string, error)) CartStoreOption {
	return func(s *CartStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithPublisher sets where order.placed events go after checkout.
func WithPublisher(p events.OrderPublisher) CartStoreOption {
	return func(s *CartStore) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithStoreTimeout bounds every slot store call.
func WithStoreTimeout(d time.Duration) CartStoreOption {
	return func(s *CartStore) {
		s.timeout = d
	}
}

// WithTranslator sets the notification translator.
func WithTranslator(t *i18n.Translator) CartStoreOption {
	return func(s *CartStore) {
		if t != nil {
			s.translator = t
		}
	}
}

// NewCartStore creates a CartStore over store.
func NewCartStore(store repository.SlotStore, opts ...CartStoreOption) *CartStore {
	s := &CartStore{
		store:      store,
		cfg:        DefaultCartConfig(),
		translator: i18n.GetTranslator(),
		publisher:  events.NoopPublisher{},
		now:        time.Now,
		newID:      newOrderID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.pricer = NewPricer(s.cfg)
	return s
}

func newOrderID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// MaxQuantity returns the configured per-line cap.
func (s *CartStore) MaxQuantity() int {
	return s.cfg.MaxQuantity
}

// Summary computes the totals of cart.
func (s *CartStore) Summary(cart model.Cart) model.Summary {
	return s.pricer.Compute(cart)
}

// FormatMoney renders v in the configured currency.
func (s *CartStore) FormatMoney(v float64) string {
	return s.pricer.Format(v)
}

// Cart returns the current cart of session.
func (s *CartStore) Cart(ctx context.Context, session string) (model.Cart, error) {
	if err := ValidateSession(session); err != nil {
		return model.Cart{}, err
	}
	unlock := s.locks.lock(session)
	defer unlock()

	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	return s.loadCart(ctx, session)
}

// Orders returns the order history of session, newest first.
func (s *CartStore) Orders(ctx context.Context, session string) ([]model.Order, error) {
	if err := ValidateSession(session); err != nil {
		return nil, err
	}
	unlock := s.locks.lock(session)
	defer unlock()

	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	orders, err := s.loadOrders(ctx, session)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

// AddItem parses priceText and adds one unit of the product. An existing
// line with the same id gains one unit, up to the quantity cap; otherwise
// a new line with quantity 1 is appended. A malformed price fails with
// model.ErrInvalidPrice and nothing is written.
func (s *CartStore) AddItem(ctx context.Context, session string, id model.ProductID, name, priceText string) (model.Cart, model.Notification, error) {
	if id == "" {
		err := fmt.Errorf("%w: missing product id", ErrInvalidCommand)
		s.record("add_item", time.Now(), err)
		return model.Cart{}, model.Notification{}, err
	}
	price, err := model.ParsePrice(priceText)
	if err != nil {
		s.record("add_item", time.Now(), err)
		return model.Cart{}, model.Notification{}, err
	}

	cart, err := s.mutate(ctx, "add_item", session, func(cart *model.Cart) error {
		if i := cart.IndexOf(id); i >= 0 {
			cart.Items[i].Quantity = model.ClampQuantity(cart.Items[i].Quantity+1, s.cfg.MaxQuantity)
			return nil
		}
		cart.Items = append(cart.Items, model.LineItem{
			ID:       id,
			Name:     name,
			Price:    price,
			Quantity: model.MinQuantity,
		})
		return nil
	})
	if err != nil {
		return model.Cart{}, model.Notification{}, err
	}
	return cart, s.success(ctx, i18n.NoticeKeyItemAdded, name), nil
}

// UpdateQuantity sets the quantity at index from user-entered text.
// Non-numeric input becomes 1 and the result is clamped to the cap.
func (s *CartStore) UpdateQuantity(ctx context.Context, session string, index int, rawQuantity string) (model.Cart, model.Notification, error) {
	qty := model.ParseQuantity(rawQuantity, s.cfg.MaxQuantity)
	cart, err := s.mutate(ctx, "update_quantity", session, func(cart *model.Cart) error {
		if !cart.ValidIndex(index) {
			return fmt.Errorf("%w: %d", model.ErrInvalidIndex, index)
		}
		cart.Items[index].Quantity = qty
		return nil
	})
	if err != nil {
		return model.Cart{}, model.Notification{}, err
	}
	return cart, s.success(ctx, i18n.NoticeKeyCartUpdated), nil
}

// AdjustQuantity adds delta to the quantity at index, clamped to the cap.
func (s *CartStore) AdjustQuantity(ctx context.Context, session string, index, delta int) (model.Cart, model.Notification, error) {
	cart, err := s.mutate(ctx, "adjust_quantity", session, func(cart *model.Cart) error {
		if !cart.ValidIndex(index) {
			return fmt.Errorf("%w: %d", model.ErrInvalidIndex, index)
		}
		cart.Items[index].Quantity = model.ClampQuantity(cart.Items[index].Quantity+delta, s.cfg.MaxQuantity)
		return nil
	})
	if err != nil {
		return model.Cart{}, model.Notification{}, err
	}
	return cart, s.success(ctx, i18n.NoticeKeyCartUpdated), nil
}

// RemoveItem deletes the line at index and returns its name.
func (s *CartStore) RemoveItem(ctx context.Context, session string, index int) (string, model.Cart, model.Notification, error) {
	var removed string
	cart, err := s.mutate(ctx, "remove_item", session, func(cart *model.Cart) error {
		if !cart.ValidIndex(index) {
			return fmt.Errorf("%w: %d", model.ErrInvalidIndex, index)
		}
		removed = cart.Items[index].Name
		cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
		return nil
	})
	if err != nil {
		return "", model.Cart{}, model.Notification{}, err
	}
	return removed, cart, s.success(ctx, i18n.NoticeKeyItemRemoved, removed), nil
}

// Checkout turns the cart into an order. The order is prepended to the
// history and the cart slot is removed in a single Commit, so a failed
// write leaves both slots as they were. An empty cart fails with
// model.ErrEmptyCart and an error notification.
func (s *CartStore) Checkout(ctx context.Context, session string) (model.Order, model.Notification, error) {
	start := time.Now()
	if err := ValidateSession(session); err != nil {
		s.record("checkout", start, err)
		return model.Order{}, model.Notification{}, err
	}

	unlock := s.locks.lock(session)
	defer unlock()

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	cart, err := s.loadCart(storeCtx, session)
	if err != nil {
		s.record("checkout", start, err)
		return model.Order{}, model.Notification{}, err
	}
	if cart.IsEmpty() {
		s.record("checkout", start, model.ErrEmptyCart)
		return model.Order{}, s.failure(ctx, i18n.NoticeKeyCartEmpty), model.ErrEmptyCart
	}

	orders, err := s.loadOrders(storeCtx, session)
	if err != nil {
		s.record("checkout", start, err)
		return model.Order{}, model.Notification{}, err
	}

	summary := s.pricer.Compute(cart)
	id, err := s.newID()
	if err != nil {
		err = fmt.Errorf("failed to generate order id: %w", err)
		s.record("checkout", start, err)
		return model.Order{}, model.Notification{}, err
	}
	placedAt := s.now()
	order := model.NewOrder(id, placedAt, cart, s.pricer.Format(summary.Total))

	history := make([]model.Order, 0, len(orders)+1)
	history = append(history, order)
	history = append(history, orders...)
	encoded, err := encodeOrders(history)
	if err != nil {
		s.record("checkout", start, err)
		return model.Order{}, model.Notification{}, err
	}

	err = s.store.Commit(storeCtx, session,
		repository.Set(repository.SlotOrders, encoded),
		repository.Delete(repository.SlotCart),
	)
	if err != nil {
		err = fmt.Errorf("failed to commit checkout: %w", storageError(storeCtx, err))
		s.record("checkout", start, err)
		return model.Order{}, model.Notification{}, err
	}

	s.record("checkout", start, nil)
	metrics.RecordCheckout(summary.Total)
	log.Info().
		Str("session_id", session).
		Str("order_id", order.ID).
		Str("total", order.Total).
		Int("items", summary.ItemCount).
		Msg("Order placed")

	s.publish(ctx, events.OrderPlaced{SessionID: session, Order: order, OccurredAt: placedAt})

	return order, s.success(ctx, i18n.NoticeKeyCheckoutSuccess), nil
}

// mutate runs fn on a copy of the session's cart and persists the result.
// If fn fails nothing is written.
func (s *CartStore) mutate(ctx context.Context, op, session string, fn func(*model.Cart) error) (model.Cart, error) {
	start := time.Now()
	if err := ValidateSession(session); err != nil {
		s.record(op, start, err)
		return model.Cart{}, err
	}

	unlock := s.locks.lock(session)
	defer unlock()

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	current, err := s.loadCart(ctx, session)
	if err != nil {
		s.record(op, start, err)
		return model.Cart{}, err
	}

	next := current.Clone()
	if err := fn(&next); err != nil {
		s.record(op, start, err)
		return model.Cart{}, err
	}

	encoded, err := encodeCart(next)
	if err != nil {
		s.record(op, start, err)
		return model.Cart{}, err
	}
	if err := s.store.Commit(ctx, session, repository.Set(repository.SlotCart, encoded)); err != nil {
		err = fmt.Errorf("failed to save cart: %w", storageError(ctx, err))
		s.record(op, start, err)
		return model.Cart{}, err
	}

	s.record(op, start, nil)
	return next, nil
}

func (s *CartStore) loadCart(ctx context.Context, session string) (model.Cart, error) {
	raw, found, err := s.store.Get(ctx, session, repository.SlotCart)
	if err != nil {
		return model.Cart{}, fmt.Errorf("failed to load cart: %w", storageError(ctx, err))
	}
	if !found {
		return model.Cart{}, nil
	}
	return decodeCart(session, raw, s.cfg.MaxQuantity), nil
}

func (s *CartStore) loadOrders(ctx context.Context, session string) ([]model.Order, error) {
	raw, found, err := s.store.Get(ctx, session, repository.SlotOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", storageError(ctx, err))
	}
	if !found {
		return nil, nil
	}
	return decodeOrders(session, raw), nil
}

// storageError marks backend failures as ErrStoreUnavailable. A backend
// that outlived the store timeout is one of them. Caller cancellation,
// the caller's own deadline and bad keys are passed through unchanged.
func storageError(ctx context.Context, err error) error {
	if repository.TimedOut(ctx) && isContextError(err) {
		return fmt.Errorf("%w: %w", repository.ErrStoreUnavailable, repository.ErrStoreTimeout)
	}
	if errors.Is(err, repository.ErrStoreUnavailable) ||
		errors.Is(err, repository.ErrInvalidSlotKey) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", repository.ErrStoreUnavailable, err)
}

func isContextError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

func (s *CartStore) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return repository.WithStoreTimeout(ctx, s.timeout)
}

func (s *CartStore) publish(ctx context.Context, event events.OrderPlaced) {
	// The request context may be cancelled as soon as the response is written.
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		log.Warn().
			Err(err).
			Str("session_id", event.SessionID).
			Str("order_id", event.Order.ID).
			Msg("Order event not published")
	}
}

func (s *CartStore) success(ctx context.Context, key string, args ...interface{}) model.Notification {
	return model.Notification{
		Message:  s.translator.Translatef(key, i18n.LocaleFromContext(ctx), args...),
		Severity: model.SeveritySuccess,
	}
}

func (s *CartStore) failure(ctx context.Context, key string, args ...interface{}) model.Notification {
	return model.Notification{
		Message:  s.translator.Translatef(key, i18n.LocaleFromContext(ctx), args...),
		Severity: model.SeverityError,
	}
}

func (s *CartStore) record(op string, start time.Time, err error) {
	metrics.RecordCartOperation(op, operationResult(err), time.Since(start))
}

func operationResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case IsClientError(err):
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}

// IsClientError reports whether err was caused by the request rather
// than by storage.
func IsClientError(err error) bool {
	return errors.Is(err, model.ErrInvalidPrice) ||
		errors.Is(err, model.ErrInvalidIndex) ||
		errors.Is(err, model.ErrEmptyCart) ||
		errors.Is(err, ErrInvalidSession) ||
		errors.Is(err, ErrInvalidCommand) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, repository.ErrInvalidSlotKey)
}
