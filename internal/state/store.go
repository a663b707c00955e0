package state

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/five82/kart/internal/catalog"
	"github.com/five82/kart/internal/location"
	"github.com/five82/kart/internal/logging"
	"github.com/five82/kart/internal/messages"
	"github.com/five82/kart/internal/netcheck"
	"github.com/five82/kart/internal/share"
)

// ErrClosed is returned by Dispatch after Close.
var ErrClosed = errors.New("state store closed")

// ErrNothingToShare is returned by a share when no product is selected.
// The state is left unchanged.
var ErrNothingToShare = errors.New("no product selected")

// Locator resolves the current position and names it.
type Locator interface {
	Locate(ctx context.Context) location.Result
	Address(ctx context.Context, c location.Coordinates) string
}

// Deps are the collaborators a Store drives. Catalog is required.
type Deps struct {
	Catalog      catalog.Fetcher
	Connectivity netcheck.Checker
	Messages     messages.Lookup
	Locator      Locator
	Sharer       share.Sharer
	Log          *logrus.Entry
}

type loadKind int

const (
	listLoad loadKind = iota
	detailLoad
	loadKinds
)

func (k loadKind) String() string {
	if k == detailLoad {
		return "detail"
	}
	return "list"
}

// Store owns the State and serializes every change to it.
type Store struct {
	catalog catalog.Fetcher
	online  netcheck.Checker
	msgs    messages.Lookup
	locator Locator
	sharer  share.Sharer
	log     *logrus.Entry
	mu      sync.Mutex
	state   State
	closed  bool
	seq     [loadKinds]uint64
	cancels [loadKinds]context.CancelFunc
	subs    map[int]*subscriber
	nextSub int
}

// New builds a Store in the initial state.
func New(deps Deps) (*Store, error) {
	if deps.Catalog == nil {
		return nil, errors.New("state: catalog is required")
	}
	s := &Store{
		catalog: deps.Catalog,
		online:  deps.Connectivity,
		msgs:    deps.Messages,
		locator: deps.Locator,
		sharer:  deps.Sharer,
		log:     deps.Log,
		subs:    make(map[int]*subscriber),
	}
	if s.online == nil {
		s.online = netcheck.Static(true)
	}
	if s.msgs == nil {
		s.msgs = messages.Default
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	s.log = s.log.WithField("component", "store")
	s.state = Initial(s.msgs)
	return s, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe returns a channel that first yields the current state and then
// every later state in order. The cancel func stops delivery and closes the
// channel; it is safe to call more than once.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := newSubscriber()
	if s.closed {
		sub.stop()
		return sub.out, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = sub
	sub.push(s.state.Clone())

	return sub.out, func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
		sub.stop()
	}
}

// Close cancels in-flight loads and ends every subscription.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for i, cancel := range s.cancels {
		if cancel != nil {
			cancel()
			s.cancels[i] = nil
		}
	}
	subs := make([]*subscriber, 0, len(s.subs))
	for id, sub := range s.subs {
		subs = append(subs, sub)
		delete(s.subs, id)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
}

// Dispatch applies ev and blocks until every state it causes has been
// published. Each transition is reduced and published atomically; fetches
// run outside the store lock, so other events and loads of the other kind
// proceed while one is in flight. A load that is superseded by a newer load
// of the same kind is cancelled and its outcome discarded. Fetch failures
// are reported through State.Error; the returned error covers closed
// stores, failed shares and ErrNothingToShare.
func (s *Store) Dispatch(ctx context.Context, ev Event) error {
	if ev == nil {
		return errors.New("state: nil event")
	}

	var ld *load
	switch ev.(type) {
	case LoadProductList:
		ld = s.begin(ctx, listLoad)
	case LoadProductDetail:
		ld = s.begin(ctx, detailLoad)
	}
	if ld != nil {
		defer ld.cancel()
	}

	if s.isClosed() {
		return ErrClosed
	}

	switch e := ev.(type) {
	case LoadProductList:
		s.loadList(ld)
	case LoadProductDetail:
		s.loadDetail(ld, e.ID)
	case ShareProductWithLocation:
		snap := s.Snapshot()
		return s.share(ctx, snap.SelectedProduct, snap.CurrentAddress)
	default:
		s.apply(ev)
	}
	return nil
}

// FetchLocationAndShare looks up the current position once, records it with
// LocationFetched and shares the selected product with the resulting place
// name.
func (s *Store) FetchLocationAndShare(ctx context.Context) error {
	product := s.Snapshot().SelectedProduct

	var res location.Result
	if s.locator != nil {
		res = s.locator.Locate(ctx)
	} else {
		res.Err = location.ErrDisabled
	}

	if res.Found {
		addr := s.locator.Address(ctx, res.Coordinates)
		c := res.Coordinates
		if err := s.Dispatch(ctx, LocationFetched{Location: &c, Address: &addr}); err != nil {
			return err
		}
		return s.share(ctx, product, addr)
	}

	reason := s.msgs(messages.CouldNotGetLocation)
	if errors.Is(res.Err, location.ErrDisabled) {
		reason = s.msgs(messages.LocationServicesOff)
	}
	if err := s.Dispatch(ctx, LocationFetched{Address: &reason}); err != nil {
		return err
	}
	return s.share(ctx, product, s.msgs(messages.LocationUnknown))
}

type load struct {
	kind   loadKind
	seq    uint64
	ctx    context.Context
	cancel context.CancelFunc
}

// begin registers a new load of kind, cancelling the one it supersedes.
func (s *Store) begin(ctx context.Context, kind loadKind) *load {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev := s.cancels[kind]; prev != nil {
		prev()
	}
	s.seq[kind]++
	lctx, cancel := context.WithCancel(ctx)
	s.cancels[kind] = cancel
	return &load{kind: kind, seq: s.seq[kind], ctx: lctx, cancel: cancel}
}

func (s *Store) loadList(ld *load) {
	if s.superseded(ld) {
		return
	}
	if !s.online.IsAvailable(ld.ctx) {
		s.applyLoad(ld, listOffline{})
		return
	}
	s.applyLoad(ld, listStarted{})

	products, err := s.catalog.FetchProducts(ld.ctx)
	if err != nil {
		ce := catalog.Classify(err)
		s.log.WithError(err).WithField("kind", ce.Kind.String()).Warn("product list load failed")
		s.applyLoad(ld, listFailed{err: ce})
		return
	}
	s.log.WithField("count", len(products)).Debug("product list loaded")
	s.applyLoad(ld, listLoaded{products: products})
}

func (s *Store) loadDetail(ld *load, id int) {
	if s.superseded(ld) {
		return
	}
	if !s.online.IsAvailable(ld.ctx) {
		s.applyLoad(ld, detailOffline{})
		return
	}
	s.applyLoad(ld, detailStarted{})

	detail, err := s.catalog.FetchProductDetail(ld.ctx, id)
	if err != nil {
		ce := catalog.Classify(err)
		entry := s.log.WithError(err).WithFields(logrus.Fields{"product_id": id, "kind": ce.Kind.String()})
		if errors.Is(ce, catalog.ErrNotFound) {
			entry.Info("product not in catalog")
		} else {
			entry.Warn("product detail load failed")
		}
		s.applyLoad(ld, detailFailed{err: ce})
		return
	}
	s.applyLoad(ld, detailLoaded{detail: detail})
}

func (s *Store) superseded(ld *load) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ld.seq != s.seq[ld.kind]
}

// applyLoad applies a load result unless a newer load of the same kind has
// been dispatched since.
func (s *Store) applyLoad(ld *load, ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ld.seq != s.seq[ld.kind] {
		s.log.WithFields(logrus.Fields{"load": ld.kind.String(), "seq": ld.seq}).Debug("dropping superseded result")
		return
	}
	s.applyLocked(ev)
}

func (s *Store) apply(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(ev)
}

// applyLocked reduces and publishes while s.mu is held, so every subscriber
// observes the same order.
func (s *Store) applyLocked(ev Event) {
	if s.closed {
		return
	}
	s.state = Reduce(s.state, ev, s.msgs)
	for _, sub := range s.subs {
		sub.push(s.state.Clone())
	}
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Store) share(ctx context.Context, product *catalog.ProductDetail, address string) error {
	if product == nil {
		s.log.Debug("share requested with no product selected")
		return ErrNothingToShare
	}
	if address == "" {
		address = s.msgs(messages.LocationUnknown)
	}
	text := ShareText(s.msgs, *product, address)
	if s.sharer == nil {
		s.log.WithField("text", text).Info("no share target configured")
		return nil
	}
	if err := s.sharer.Share(ctx, text); err != nil {
		s.log.WithError(err).Warn("share failed")
		return err
	}
	s.log.WithField("product_id", product.ID).Info("product shared")
	return nil
}

// ShareText renders the text shared for product at address.
func ShareText(msgs messages.Lookup, product catalog.ProductDetail, address string) string {
	if msgs == nil {
		msgs = messages.Default
	}
	return msgs(messages.ShareText, product.Product().DisplayTitle(), product.Price, address)
}
