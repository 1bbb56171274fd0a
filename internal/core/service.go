package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/text/language"

	"github.com/JonMunkholm/OrderTrack/internal/config"
	"github.com/JonMunkholm/OrderTrack/internal/events"
	"github.com/JonMunkholm/OrderTrack/internal/storage"
)

// DefaultSlotTimeout bounds a single load or save against the slot.
var DefaultSlotTimeout = 5 * time.Second

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	Location    *time.Location
	Language    language.Tag
	Layout      string
	PageSize    int
	BaseURL     string
	SeedOnEmpty bool

	MaxImportSize        int64
	MaxConcurrentImports int
	ImportWait           time.Duration

	SlotTimeout time.Duration

	Now   func() time.Time
	NewID IDFunc
}

// OptionsFromConfig maps application configuration onto service options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	loc, err := cfg.Dashboard.Location()
	if err != nil {
		return Options{}, fmt.Errorf("dashboard time zone: %w", err)
	}
	lang, err := cfg.Dashboard.LanguageTag()
	if err != nil {
		return Options{}, fmt.Errorf("dashboard language: %w", err)
	}
	return Options{
		Location:             loc,
		Language:             lang,
		Layout:               cfg.Dashboard.DateTimeLayout,
		PageSize:             cfg.Dashboard.PageSize,
		BaseURL:              cfg.Server.BaseURL,
		SeedOnEmpty:          cfg.Dashboard.SeedOnEmpty,
		MaxImportSize:        cfg.Import.MaxFileSize,
		MaxConcurrentImports: cfg.Import.MaxConcurrent,
		ImportWait:           cfg.Import.MaxWaitTime,
		SlotTimeout:          cfg.Storage.Timeout,
	}, nil
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Language == language.Und {
		o.Language = language.English
	}
	if o.Layout == "" {
		o.Layout = DefaultDateTimeLayout
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.MaxImportSize <= 0 {
		o.MaxImportSize = 10 << 20
	}
	if o.SlotTimeout <= 0 {
		o.SlotTimeout = DefaultSlotTimeout
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = NewOrderID
	}
	return o
}

// Service ties the order store to persistence, events and the derived
// dashboard views. Web handlers and the CLI go through it.
type Service struct {
	store   *Store
	slot    storage.Slot
	pub     events.Publisher
	engine  Engine
	bulk    *BulkProcessor
	imports *ImportLimiter
	opts    Options
}

// NewService builds a service over slot. Call Load before serving.
// A nil publisher discards events.
func NewService(slot storage.Slot, pub events.Publisher, opts Options) *Service {
	opts = opts.withDefaults()
	if pub == nil {
		pub = events.Noop{}
	}
	store := NewStore(nil)
	return &Service{
		store:   store,
		slot:    slot,
		pub:     pub,
		engine:  NewEngine(opts.Location, opts.Language),
		bulk:    NewBulkProcessor(store, opts.Now),
		imports: NewImportLimiter(opts.MaxConcurrentImports, opts.ImportWait),
		opts:    opts,
	}
}

// Load reads the slot into the store and starts saving on every commit.
// An empty or undecodable slot is replaced by the seed list (or an empty
// list when seeding is off), which is saved straight away.
func (s *Service) Load(ctx context.Context) error {
	loadCtx, cancel := context.WithTimeout(ctx, s.opts.SlotTimeout)
	data, err := s.slot.Load(loadCtx)
	cancel()

	var orders []Order
	reseed := false
	switch {
	case errors.Is(err, storage.ErrSlotEmpty):
		reseed = true
	case err != nil:
		return err
	default:
		orders, err = UnmarshalOrders(data)
		if err != nil {
			slog.Warn("stored orders unreadable, starting over", "error", err)
			reseed = true
		}
	}

	if reseed {
		orders = []Order{}
		if s.opts.SeedOnEmpty {
			orders = SeedOrders()
		}
	}

	if err := s.store.Replace(ctx, orders); err != nil {
		return err
	}
	if reseed {
		if err := s.persist(ctx, orders); err != nil {
			return err
		}
	}

	s.store.OnCommit(s.persist)
	slog.Info("orders loaded", "count", len(orders), "seeded", reseed && s.opts.SeedOnEmpty)
	return nil
}

// persist writes the committed list to the slot. It outlives the caller's
// cancellation so a finished request still gets saved.
func (s *Service) persist(ctx context.Context, orders []Order) error {
	data, err := MarshalOrders(orders)
	if err != nil {
		return err
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.SlotTimeout)
	defer cancel()
	if err := s.slot.Save(saveCtx, data); err != nil {
		return err
	}
	return nil
}

// commitErr logs a failed save. The in-memory change already stands, so
// callers carry on.
func commitErr(action string, err error) {
	if err != nil {
		slog.Error("failed to save orders", "action", action, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, typ string, ids []string, status Status) {
	e := events.New(typ, ids, string(status), s.opts.Now())
	e.Actor = ActorFromContext(ctx).SessionID
	if err := s.pub.Publish(context.WithoutCancel(ctx), e); err != nil {
		slog.Warn("failed to publish event", "type", typ, "error", err)
	}
}

// DashboardView is everything the dashboard renders for one criteria value.
type DashboardView struct {
	Criteria   Criteria
	Result     Result
	KPIs       KPIs
	Warehouses []string
	ShareURL   string
}

// NewSession starts a session with the configured page size.
func (s *Service) NewSession(id string) *Session {
	sess := NewSession(id)
	sess.UpdateCriteria(func(cs *CriteriaState) { cs.SetPageSize(s.opts.PageSize) })
	return sess
}

// DefaultCriteria returns the default criteria with the configured page size.
func (s *Service) DefaultCriteria() Criteria {
	c := DefaultCriteria()
	c.PageSize = s.opts.PageSize
	return c
}

// View runs the engine over the current list. KPIs cover the whole
// filtered list, not just the page.
func (s *Service) View(c Criteria) DashboardView {
	all := s.store.All()
	res := s.engine.Run(all, c)
	return DashboardView{
		Criteria:   c,
		Result:     res,
		KPIs:       Aggregate(res.Filtered, s.opts.Now(), s.opts.Location),
		Warehouses: Warehouses(all),
		ShareURL:   s.ShareURL(c),
	}
}

// Order returns one order. The error wraps ErrOrderNotFound.
func (s *Service) Order(id string) (Order, error) {
	return s.store.Get(id)
}

// Orders returns a copy of the whole list in store order.
func (s *Service) Orders() []Order {
	return s.store.All()
}

// Warehouses returns the distinct warehouses across all orders.
func (s *Service) Warehouses() []string {
	return Warehouses(s.store.All())
}

// ShareURL returns the shareable link for c. Links are encoded against
// DefaultCriteria, so they must be read back with DecodeCriteria.
func (s *Service) ShareURL(c Criteria) string {
	return ShareURLFrom(s.opts.BaseURL, c, s.DefaultCriteria())
}

// ShareQuery returns the query string part of ShareURL.
func (s *Service) ShareQuery(c Criteria) string {
	return EncodeCriteriaFrom(c, s.DefaultCriteria()).Encode()
}

// DecodeCriteria reads criteria from link parameters on top of
// DefaultCriteria. See the package function for the error semantics.
func (s *Service) DecodeCriteria(v url.Values) (Criteria, error) {
	return DecodeCriteriaFrom(v, s.DefaultCriteria())
}

// Location returns the calendar location used for dates.
func (s *Service) Location() *time.Location {
	return s.opts.Location
}

// Layout returns the display layout for timestamps.
func (s *Service) Layout() string {
	return s.opts.Layout
}

// Export writes the filtered, sorted list (every page) as CSV.
func (s *Service) Export(w io.Writer, c Criteria) error {
	res := s.engine.Run(s.store.All(), c)
	return ExportCSV(w, res.Filtered, c.Columns, ExportOptions{
		Location: s.opts.Location,
		Layout:   s.opts.Layout,
	})
}

// Import parses CSV text from r and prepends one order per non-empty data
// line. It returns how many orders were added.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	if err := s.imports.Acquire(ctx); err != nil {
		return 0, err
	}
	defer s.imports.Release()

	text, err := ReadImportText(r, s.opts.MaxImportSize)
	if err != nil {
		return 0, err
	}

	orders := ImportCSV(text, ImportOptions{
		Now:      s.opts.Now(),
		NewID:    s.opts.NewID,
		Location: s.opts.Location,
	})
	if len(orders) == 0 {
		return 0, nil
	}

	commitErr("import", s.store.Prepend(ctx, orders...))

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	s.publish(ctx, events.TypeImported, ids, StatusReceived)

	slog.Info("orders imported", "count", len(orders))
	return len(orders), nil
}

// MarkShipped marks the session's checked orders as shipped and clears the
// checked set.
func (s *Service) MarkShipped(ctx context.Context, sess *Session) (int, error) {
	ids := sess.Checked()
	n, err := s.bulk.MarkShippedChecked(ctx, sess)
	commitErr("mark shipped", err)
	if n > 0 {
		s.publish(ctx, events.TypeShipped, ids, StatusShipped)
	}
	return n, nil
}

// DeleteChecked deletes the session's checked orders once confirm agrees.
// Without confirmation it returns ErrConfirmationRequired and keeps both the
// orders and the checked set.
func (s *Service) DeleteChecked(ctx context.Context, sess *Session, confirm Confirmer) (int, error) {
	ids := sess.Checked()
	n, err := s.bulk.DeleteChecked(ctx, sess, confirm)
	if errors.Is(err, ErrConfirmationRequired) {
		return 0, err
	}
	commitErr("delete", err)
	if n > 0 {
		s.publish(ctx, events.TypeDeleted, ids, "")
	}
	return n, nil
}

// ResetToSeed replaces every order with the seed list.
func (s *Service) ResetToSeed(ctx context.Context) error {
	seed := SeedOrders()
	if err := s.store.Replace(ctx, seed); err != nil {
		return err
	}
	ids := make([]string, len(seed))
	for i, o := range seed {
		ids[i] = o.ID
	}
	s.publish(ctx, events.TypeReset, ids, "")
	slog.Warn("orders reset to seed", "count", len(seed))
	return nil
}

// Subscribe signals after every committed change. Call the returned
// function to stop.
func (s *Service) Subscribe() (<-chan struct{}, func()) {
	return s.store.Subscribe()
}

// ImportLimiter exposes the limiter so shutdown can wait for imports.
func (s *Service) ImportLimiter() *ImportLimiter {
	return s.imports
}

// Close releases the slot and the publisher.
func (s *Service) Close() error {
	return errors.Join(s.pub.Close(), s.slot.Close())
}
