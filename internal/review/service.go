package review

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"menumaker/internal/backend"
	"menumaker/internal/layout"
	"menumaker/internal/menu"
	"menumaker/internal/pricing"
	"menumaker/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrForbidden     = errors.New("session belongs to another user")
	ErrUnknownItem   = errors.New("item not found in session")
	ErrNoAnalysisJob = errors.New("session has no analysis job; open it from an analyzed menu")
)

// Backend is the subset of the backend client the review flow drives.
type Backend interface {
	ImportUpload(ctx context.Context, filename string, file io.Reader) (*backend.ImportResult, error)
	GetMenu(ctx context.Context, jobID string) (*backend.AnalyzedMenu, error)
	Analyze(ctx context.Context, jobID string) error
	CompetitorAnalysis(ctx context.Context, jobID string) error
	Approve(ctx context.Context, jobID string, approvals []pricing.Approval) error
	Export(ctx context.Context, jobID, name, format string) (*backend.Export, error)
	CreateMenu(ctx context.Context, title string) (string, error)
	UpdateMenuPages(ctx context.Context, menuID string, pages []backend.MenuPage) error
	GenerateDescription(ctx context.Context, req backend.DescriptionRequest) (string, error)
}

// Archive keeps a copy of uploaded menu files. Optional.
type Archive interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

type Options struct {
	DefaultPageSize string
	DefaultLayout   string
}

type Service struct {
	repo    Repository
	backend Backend
	archive Archive
	opts    Options
	locks   *sessionLocks
	now     func() time.Time
}

// NewService builds the review service. archive may be nil; unknown default
// ids fall back to letter/single.
func NewService(repo Repository, b Backend, archive Archive, opts Options) *Service {
	size, l := layout.ResolveOrDefault(opts.DefaultPageSize, opts.DefaultLayout)
	opts.DefaultPageSize = size.ID
	opts.DefaultLayout = l.ID

	return &Service{
		repo:    repo,
		backend: b,
		archive: archive,
		opts:    opts,
		locks:   newSessionLocks(),
		now:     time.Now,
	}
}

func (s *Service) newSession(ownerID, jobID, name string, items []menu.Item) *Session {
	now := s.now().UTC()
	return &Session{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		JobID:      jobID,
		Name:       name,
		Items:      withIDs(items),
		Decisions:  pricing.Decisions{},
		PageSizeID: s.opts.DefaultPageSize,
		LayoutID:   s.opts.DefaultLayout,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// withIDs gives every id-less item a fresh id so decisions can key on it.
func withIDs(items []menu.Item) []menu.Item {
	out := slices.Clone(items)
	if out == nil {
		out = []menu.Item{}
	}
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.New().String()
		}
	}
	return out
}

// --------------------------------------------------
// Import (upload -> archive -> backend extraction)
// --------------------------------------------------
func (s *Service) Import(
	ctx context.Context,
	ownerID string,
	filename string,
	data []byte,
) (*View, error) {

	if err := menu.ValidateUpload(filename, int64(len(data))); err != nil {
		return nil, err
	}

	archiveURL := ""
	if s.archive != nil {
		key := storage.MenuKey(ownerID, filename)
		url, err := s.archive.Upload(ctx, key, bytes.NewReader(data), menu.ContentType(filename))
		if err != nil {
			log.Printf("[REVIEW] archive of %s failed, continuing: %v", filename, err)
		} else {
			archiveURL = url
		}
	}

	res, err := s.backend.ImportUpload(ctx, filename, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	sess := s.newSession(ownerID, res.JobID, name, res.Items)
	sess.ArchiveURL = archiveURL

	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, err
	}

	log.Printf("[REVIEW] imported %s: %d items (session=%s)", filename, len(sess.Items), sess.ID)
	return BuildView(sess), nil
}

// --------------------------------------------------
// Open a session on an analyzed backend menu
// --------------------------------------------------
func (s *Service) Open(ctx context.Context, ownerID, jobID string) (*View, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, ErrNoAnalysisJob
	}

	m, err := s.backend.GetMenu(ctx, jobID)
	if err != nil {
		return nil, err
	}

	sess := s.newSession(ownerID, jobID, m.Name, m.Items)
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, err
	}

	return BuildView(sess), nil
}

// Get loads a session and checks it belongs to ownerID.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return sess, nil
}

func (s *Service) View(ctx context.Context, ownerID, id string) (*View, error) {
	sess, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return BuildView(sess), nil
}

func (s *Service) save(ctx context.Context, sess *Session) (*View, error) {
	sess.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, err
	}
	return BuildView(sess), nil
}

// update loads, checks ownership, applies fn and saves while holding the
// session lock.
func (s *Service) update(
	ctx context.Context,
	ownerID, id string,
	fn func(*Session) error,
) (*View, error) {

	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	return s.save(ctx, sess)
}

// --------------------------------------------------
// Layout
// --------------------------------------------------
func (s *Service) SetLayout(ctx context.Context, ownerID, id, pageSizeID, layoutID string) (*View, error) {
	size, l, err := layout.Resolve(pageSizeID, layoutID)
	if err != nil {
		return nil, err
	}

	return s.update(ctx, ownerID, id, func(sess *Session) error {
		sess.PageSizeID = size.ID
		sess.LayoutID = l.ID
		return nil
	})
}

// --------------------------------------------------
// Pricing decisions
// --------------------------------------------------

// SetDecision records a decision for one item. An unusable custom amount is
// still recorded; the view then carries a warning and the item keeps its
// current price until the amount is fixed.
func (s *Service) SetDecision(
	ctx context.Context,
	ownerID, id, itemID string,
	kind string,
	customPrice string,
) (*View, error) {

	k, err := pricing.ParseKind(kind)
	if err != nil {
		return nil, err
	}

	d := pricing.Decision{Kind: k}
	if k == pricing.Custom {
		d = pricing.CustomFromInput(customPrice)
	}

	return s.update(ctx, ownerID, id, func(sess *Session) error {
		if menu.Find(sess.Items, itemID) < 0 {
			return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
		}
		sess.Decisions = sess.Decisions.With(itemID, d)
		return nil
	})
}

func (s *Service) ClearDecision(ctx context.Context, ownerID, id, itemID string) (*View, error) {
	return s.update(ctx, ownerID, id, func(sess *Session) error {
		if menu.Find(sess.Items, itemID) < 0 {
			return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
		}
		sess.Decisions = sess.Decisions.Without(itemID)
		return nil
	})
}

// --------------------------------------------------
// Descriptions
// --------------------------------------------------
func (s *Service) EditDescription(ctx context.Context, ownerID, id, itemID, description string) (*View, error) {
	return s.update(ctx, ownerID, id, func(sess *Session) error {
		return setDescription(sess, itemID, strings.TrimSpace(description))
	})
}

func (s *Service) GenerateDescription(ctx context.Context, ownerID, id, itemID, style string) (*View, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	i := menu.Find(sess.Items, itemID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	item := sess.Items[i]

	names := make([]string, 0, len(item.Ingredients))
	for _, ing := range item.Ingredients {
		names = append(names, ing.Name)
	}

	desc, err := s.backend.GenerateDescription(ctx, backend.DescriptionRequest{
		DishName:    item.Name,
		Ingredients: strings.Join(names, ", "),
		Style:       style,
	})
	if err != nil {
		return nil, err
	}

	if err := setDescription(sess, itemID, desc); err != nil {
		return nil, err
	}
	return s.save(ctx, sess)
}

func setDescription(sess *Session, itemID, description string) error {
	i := menu.Find(sess.Items, itemID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	sess.Items = slices.Clone(sess.Items)
	sess.Items[i].Description = description
	return nil
}

// --------------------------------------------------
// Backend analysis round trips
// --------------------------------------------------

// reload replaces the items wholesale with the backend's current job state.
// Session decisions are dropped because they were made against old figures.
func (s *Service) reload(ctx context.Context, sess *Session) error {
	m, err := s.backend.GetMenu(ctx, sess.JobID)
	if err != nil {
		return err
	}
	sess.Items = withIDs(m.Items)
	sess.Decisions = pricing.Decisions{}
	return nil
}

func (s *Service) analysisJob(ctx context.Context, ownerID, id string) (*Session, error) {
	sess, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if sess.JobID == "" {
		return nil, ErrNoAnalysisJob
	}
	return sess, nil
}

func (s *Service) Reanalyze(ctx context.Context, ownerID, id string) (*View, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.analysisJob(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := s.backend.Analyze(ctx, sess.JobID); err != nil {
		return nil, err
	}
	if err := s.reload(ctx, sess); err != nil {
		return nil, err
	}
	return s.save(ctx, sess)
}

func (s *Service) Competitors(ctx context.Context, ownerID, id string) (*View, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.analysisJob(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := s.backend.CompetitorAnalysis(ctx, sess.JobID); err != nil {
		return nil, err
	}
	if err := s.reload(ctx, sess); err != nil {
		return nil, err
	}
	return s.save(ctx, sess)
}

// Approve sends the session decisions to the backend, then reloads the items
// so approved prices come back from the source of truth.
func (s *Service) Approve(ctx context.Context, ownerID, id string) (*View, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.analysisJob(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if len(sess.Decisions) == 0 {
		return nil, pricing.ErrNoDecisions
	}
	if missing := pricing.Incomplete(sess.Decisions); len(missing) > 0 {
		return nil, fmt.Errorf("%w: custom price missing for %s",
			pricing.ErrInvalidNumericInput, strings.Join(missing, ", "))
	}

	if err := s.backend.Approve(ctx, sess.JobID, pricing.Approvals(sess.Decisions)); err != nil {
		return nil, err
	}

	log.Printf("[REVIEW] approved %d decisions (session=%s job=%s)", len(sess.Decisions), sess.ID, sess.JobID)

	if err := s.reload(ctx, sess); err != nil {
		return nil, err
	}
	return s.save(ctx, sess)
}

// --------------------------------------------------
// Menu document + export
// --------------------------------------------------

// CreateMenu creates a menu document on the backend from the paginated items,
// printing each item's effective price.
func (s *Service) CreateMenu(ctx context.Context, ownerID, id, title string) (string, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return "", err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = sess.Name
	}

	size, l := layout.ResolveOrDefault(sess.PageSizeID, sess.LayoutID)
	pages := backend.BuildPages(title, layout.Paginate(sess.Items, size, l), func(it menu.Item) decimal.Decimal {
		price, _ := pricing.EffectivePrice(it, sess.Decisions)
		return price
	})

	menuID, err := s.backend.CreateMenu(ctx, title)
	if err != nil {
		return "", err
	}
	if err := s.backend.UpdateMenuPages(ctx, menuID, pages); err != nil {
		return "", err
	}

	sess.MenuID = menuID
	if _, err := s.save(ctx, sess); err != nil {
		return "", err
	}

	log.Printf("[REVIEW] created menu %s with %d pages (session=%s)", menuID, len(pages), sess.ID)
	return menuID, nil
}

func (s *Service) Export(ctx context.Context, ownerID, id, format string) (*backend.Export, error) {
	sess, err := s.analysisJob(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return s.backend.Export(ctx, sess.JobID, sess.Name, format)
}

// --------------------------------------------------
// Listing
// --------------------------------------------------
func (s *Service) List(ctx context.Context, ownerID string) ([]Summary, error) {
	sessions, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return summaries(sessions), nil
}

func (s *Service) ListAll(ctx context.Context) ([]Summary, error) {
	sessions, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return summaries(sessions), nil
}

func summaries(sessions []*Session) []Summary {
	out := make([]Summary, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sess.Summary())
	}
	return out
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
