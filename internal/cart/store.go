// Package cart holds the shopping cart: line identity and merging, price
// composition with add-on options, and persistence of every mutation.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/storage"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StorageKey is where the cart snapshot lives.
const StorageKey = "storefront_cart"

var (
	ErrLineNotFound    = errors.New("cart line not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Notifier receives the confirmation signal emitted after each add.
type Notifier interface {
	ItemAdded(ctx context.Context, line models.CartLine)
}

type NotifierFunc func(ctx context.Context, line models.CartLine)

func (f NotifierFunc) ItemAdded(ctx context.Context, line models.CartLine) {
	f(ctx, line)
}

type AddItemInput struct {
	Product         models.Product
	Size            string
	Color           string
	Quantity        int
	SelectedOptions []models.Option
	CustomText      string
}

// Store is the cart engine. Mutations are serialised and each one writes
// the whole snapshot before the lock is released, so persisted state
// always follows mutation order.
type Store struct {
	mu       sync.Mutex
	lines    []models.CartLine
	store    storage.Store
	key      string
	logger   *slog.Logger
	notifier Notifier
	newID    func() uuid.UUID
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

func WithStorageKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// New returns an empty cart persisting to store.
func New(store storage.Store, opts ...Option) *Store {
	s := &Store{
		lines:  []models.CartLine{},
		store:  store,
		key:    StorageKey,
		logger: slog.Default(),
		newID:  uuid.New,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load restores the cart from store. A missing, unreadable or corrupt
// snapshot yields an empty cart; it never fails.
func Load(ctx context.Context, store storage.Store, opts ...Option) *Store {
	s := New(store, opts...)

	loadCtx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	data, err := store.Load(loadCtx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug("No saved cart, starting empty")
		} else {
			s.logger.Warn("Failed to read saved cart, starting empty", slog.String("error", err.Error()))
		}
		return s
	}

	var lines []models.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		s.logger.Warn("Saved cart is corrupt, starting empty", slog.String("error", err.Error()))
		return s
	}

	s.lines = s.sanitize(lines)
	s.logger.Info("Cart restored", slog.Int("lines", len(s.lines)), slog.Int("count", Count(s.lines)))

	return s
}

func (s *Store) sanitize(lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, 0, len(lines))

	for _, line := range lines {
		if line.ProductID == "" {
			line.ProductID = line.Product.ID
		}

		if line.ProductID == "" || line.Quantity < 1 {
			s.logger.Warn("Dropping malformed cart line", slog.String("product_id", line.ProductID), slog.Int("quantity", line.Quantity))
			continue
		}

		if line.ID == uuid.Nil {
			line.ID = s.newID()
		}

		if line.SelectedOptions == nil {
			line.SelectedOptions = []models.Option{}
		}

		out = append(out, line)
	}

	return out
}

// AddItem merges into the line with the same product, size, color, custom
// text and option names, or appends a new line. Quantities below 1 count as 1.
func (s *Store) AddItem(ctx context.Context, in AddItemInput) models.CartLine {
	quantity := max(in.Quantity, 1)
	options := dedupeOptions(in.SelectedOptions)
	key := lineKey(in.Product.ID, in.Size, in.Color, in.CustomText, options)

	s.mu.Lock()

	var added models.CartLine
	merged := false

	for i := range s.lines {
		line := &s.lines[i]
		if lineKey(line.ProductID, line.Size, line.Color, line.CustomText, line.SelectedOptions) == key {
			line.Quantity += quantity
			added = cloneLine(*line)
			merged = true
			break
		}
	}

	if !merged {
		line := models.CartLine{
			ID:              s.newID(),
			ProductID:       in.Product.ID,
			Product:         cloneProduct(in.Product),
			Size:            in.Size,
			Color:           in.Color,
			SelectedOptions: options,
			CustomText:      in.CustomText,
			Quantity:        quantity,
		}
		s.lines = append(s.lines, line)
		added = cloneLine(line)
	}

	s.persistLocked(ctx)
	s.mu.Unlock()

	metrics.RecordCartMutation("add")
	s.logger.Info("Item added to cart",
		slog.String("product_id", added.ProductID),
		slog.String("line_id", added.ID.String()),
		slog.Int("quantity", added.Quantity),
		slog.Bool("merged", merged),
	)

	if s.notifier != nil {
		s.notifier.ItemAdded(ctx, added)
	}

	return added
}

// RemoveItem deletes the line at index; later lines shift down by one.
func (s *Store) RemoveItem(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.lines) {
		return ErrLineNotFound
	}

	s.removeLocked(ctx, index)
	return nil
}

func (s *Store) RemoveLine(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOfLocked(id)
	if index < 0 {
		return ErrLineNotFound
	}

	s.removeLocked(ctx, index)
	return nil
}

func (s *Store) removeLocked(ctx context.Context, index int) {
	removed := s.lines[index]
	s.lines = append(s.lines[:index:index], s.lines[index+1:]...)
	s.persistLocked(ctx)

	metrics.RecordCartMutation("remove")
	s.logger.Info("Item removed from cart", slog.String("line_id", removed.ID.String()), slog.Int("index", index))
}

// UpdateQuantity overwrites the quantity of the line at index. A quantity
// below 1 leaves the cart untouched and returns ErrInvalidQuantity.
func (s *Store) UpdateQuantity(ctx context.Context, index, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.lines) {
		return ErrLineNotFound
	}

	s.setQuantityLocked(ctx, index, quantity)
	return nil
}

func (s *Store) UpdateLineQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOfLocked(id)
	if index < 0 {
		return ErrLineNotFound
	}

	s.setQuantityLocked(ctx, index, quantity)
	return nil
}

func (s *Store) setQuantityLocked(ctx context.Context, index, quantity int) {
	s.lines[index].Quantity = quantity
	s.persistLocked(ctx)

	metrics.RecordCartMutation("update_quantity")
	s.logger.Info("Cart quantity updated", slog.String("line_id", s.lines[index].ID.String()), slog.Int("quantity", quantity))
}

func (s *Store) indexOfLocked(id uuid.UUID) int {
	for i := range s.lines {
		if s.lines[i].ID == id {
			return i
		}
	}

	return -1
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = []models.CartLine{}
	s.persistLocked(ctx)

	metrics.RecordCartMutation("clear")
	s.logger.Info("Cart cleared")
}

// RemoveOrdered takes the quantities of an ordered snapshot out of the
// cart. Lines added or topped up after the snapshot was taken stay.
func (s *Store) RemoveOrdered(ctx context.Context, ordered []models.CartLine) {
	orderedQty := make(map[uuid.UUID]int, len(ordered))
	for _, line := range ordered {
		orderedQty[line.ID] += line.Quantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]models.CartLine, 0, len(s.lines))
	for _, line := range s.lines {
		if qty, ok := orderedQty[line.ID]; ok {
			if line.Quantity <= qty {
				continue
			}
			line.Quantity -= qty
		}
		kept = append(kept, line)
	}

	s.lines = kept
	s.persistLocked(ctx)

	metrics.RecordCartMutation("clear")
	if len(kept) > 0 {
		s.logger.Info("Ordered lines removed, newer lines kept", slog.Int("remaining", len(kept)))
		return
	}
	s.logger.Info("Cart cleared")
}

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.CartLine, len(s.lines))
	for i, line := range s.lines {
		out[i] = cloneLine(line)
	}

	return out
}

func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Total(s.lines)
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Count(s.lines)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.lines)
}

func (s *Store) View() models.CartView {
	return View(s.Lines())
}

// OrderItems projects the cart onto the order endpoint's item shape.
func (s *Store) OrderItems() []models.OrderItemRequest {
	return OrderItems(s.Lines())
}

// OrderItems projects a snapshot of lines onto the order endpoint's item shape.
func OrderItems(lines []models.CartLine) []models.OrderItemRequest {
	items := make([]models.OrderItemRequest, 0, len(lines))

	for _, line := range lines {
		items = append(items, models.OrderItemRequest{
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			Size:            line.Size,
			Color:           line.Color,
			SelectedOptions: line.SelectedOptions,
			FlocageText:     line.CustomText,
		})
	}

	return items
}

// persistLocked writes the snapshot. Failures are logged and counted, the
// in-memory cart stays authoritative.
func (s *Store) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.lines)
	if err != nil {
		metrics.RecordCartPersistFailure()
		s.logger.Error("Failed to encode cart", slog.String("error", err.Error()))
		return
	}

	saveCtx, cancel := utils.WithStoreTimeout(context.WithoutCancel(ctx))
	defer cancel()

	if err := s.store.Save(saveCtx, s.key, data); err != nil {
		metrics.RecordCartPersistFailure()
		s.logger.Error("Failed to persist cart", slog.String("key", s.key), slog.String("error", err.Error()))
	}
}

func cloneLine(line models.CartLine) models.CartLine {
	line.Product = cloneProduct(line.Product)
	line.SelectedOptions = append([]models.Option{}, line.SelectedOptions...)

	return line
}

func cloneProduct(p models.Product) models.Product {
	p.Images = slices.Clone(p.Images)
	p.Sizes = slices.Clone(p.Sizes)
	p.Colors = slices.Clone(p.Colors)
	p.CustomizationOptions = slices.Clone(p.CustomizationOptions)

	return p
}
