package supplychain

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/luca-patrignani/supply-chain/ledger"
)

// Recorder is the ledger the registry records its events in.
type Recorder interface {
	Append(ctx context.Context, payload ledger.Payload) (ledger.Block, error)
}

// Registry holds the registered products and applies custody transitions.
type Registry struct {
	mu       sync.RWMutex
	cfg      settings
	recorder Recorder
	validate *validator.Validate
	products map[uint64]*Product
	nextID   uint64
}

// NewRegistry creates an empty registry recording its events in recorder.
func NewRegistry(recorder Recorder, opts ...option) *Registry {
	cfg := defaultSettings()
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	return &Registry{
		cfg:      cfg,
		recorder: recorder,
		validate: newValidator(),
		products: make(map[uint64]*Product),
		nextID:   1,
	}
}

// CreateProduct registers a product at its manufacturer and records a
// product_created event.
func (r *Registry) CreateProduct(ctx context.Context, req CreateRequest) (Product, error) {
	req, err := r.validateCreate(req)
	if err != nil {
		return Product{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	_, err = r.recorder.Append(ctx, ledger.ProductCreated{
		ProductID:    id,
		ProductName:  req.Name,
		Manufacturer: req.Manufacturer,
		ProductType:  req.Type,
	})
	if err != nil {
		return Product{}, fmt.Errorf("%w: product %d: %w", ErrNotRecorded, id, err)
	}

	product := &Product{
		ID:           id,
		Name:         req.Name,
		Type:         req.Type,
		CurrentStage: Manufacturer,
		History: []HistoryEntry{{
			Stage:      Manufacturer,
			Entity:     req.Manufacturer,
			Timestamp:  r.cfg.now(),
			Successful: true,
		}},
	}
	r.products[id] = product
	r.nextID++

	r.cfg.log.Info("product created", "id", id, "name", req.Name, "manufacturer", req.Manufacturer)

	return product.copy(), nil
}

// ProcessProduct moves a product to the next stage and records a
// product_processed event. The stage advances even when the step was not
// successful; the outcome is kept in the history.
func (r *Registry) ProcessProduct(ctx context.Context, req ProcessRequest) (Product, error) {
	req, err := r.validateProcess(req)
	if err != nil {
		return Product{}, err
	}
	stage := Stage(req.Stage)

	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[req.ProductID]
	if !ok {
		return Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, req.ProductID)
	}

	err = checkTransition(product.CurrentStage, stage)
	if err != nil {
		return Product{}, err
	}

	_, err = r.recorder.Append(ctx, ledger.ProductProcessed{
		ProductID:  product.ID,
		Stage:      stage.String(),
		Entity:     req.Entity,
		Successful: req.Successful,
	})
	if err != nil {
		return Product{}, fmt.Errorf("%w: product %d: %w", ErrNotRecorded, product.ID, err)
	}

	product.CurrentStage = stage
	product.History = append(product.History, HistoryEntry{
		Stage:      stage,
		Entity:     req.Entity,
		Timestamp:  r.cfg.now(),
		Successful: req.Successful,
	})

	r.cfg.log.Info("product processed",
		"id", product.ID,
		"stage", stage.String(),
		"entity", req.Entity,
		"successful", req.Successful,
	)

	return product.copy(), nil
}

// checkTransition verifies that to is exactly the stage after from.
func checkTransition(from, to Stage) error {
	current := from.Index()
	next := to.Index()
	if next <= current {
		return fmt.Errorf("%w: %s to %s", ErrBackwardTransition, from, to)
	}
	if next != current+1 {
		return fmt.Errorf("%w: %s to %s", ErrSkippedStage, from, to)
	}
	return nil
}

// Product returns the product with the given ID.
func (r *Registry) Product(id uint64) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	return product.copy(), nil
}

// Products returns all products ordered by ID.
func (r *Registry) Products() []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, p.copy())
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})
	return products
}

// Processable returns the products that have not reached the customer yet,
// ordered by ID.
func (r *Registry) Processable() []Product {
	var products []Product
	for _, p := range r.Products() {
		if !p.Completed() {
			products = append(products, p)
		}
	}
	return products
}
