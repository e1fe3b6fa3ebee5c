package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"placesync/internal/models/db_models"
	"placesync/internal/models/request_models"
	"placesync/internal/models/response_models"
	"placesync/internal/repositories"
	"placesync/pkg/utils"
)

// fakePlaceRepo is an in-memory PlaceRepository. Reads return copies so the
// service cannot mutate stored state without going through a write method.
type fakePlaceRepo struct {
	mu       sync.Mutex
	places   map[uuid.UUID]*db_models.Place
	order    []uuid.UUID
	txCount  int
	txErr    error
	failOn   map[string]error
	listErr  error
	getCalls int
}

var _ repositories.PlaceRepository = (*fakePlaceRepo)(nil)

func newFakePlaceRepo() *fakePlaceRepo {
	return &fakePlaceRepo{places: make(map[uuid.UUID]*db_models.Place)}
}

func (r *fakePlaceRepo) add(p *db_models.Place) *db_models.Place {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.places[p.ID] = p
	r.order = append(r.order, p.ID)
	return p
}

func (r *fakePlaceRepo) get(id uuid.UUID) *db_models.Place {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.places[id]
}

func clonePlace(p *db_models.Place) *db_models.Place {
	c := *p
	c.Images = append([]db_models.PlaceImage(nil), p.Images...)
	c.Reviews = append([]db_models.PlaceReview(nil), p.Reviews...)
	c.BusinessHours = append([]db_models.BusinessHour(nil), p.BusinessHours...)
	c.Menus = append([]db_models.PlaceMenu(nil), p.Menus...)
	if p.Description != nil {
		d := *p.Description
		c.Description = &d
	}
	return &c
}

func (r *fakePlaceRepo) GetByIDWithChildren(_ context.Context, id uuid.UUID) (*db_models.Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	p, ok := r.places[id]
	if !ok {
		return nil, nil
	}
	return clonePlace(p), nil
}

func (r *fakePlaceRepo) ListAllRefs(_ context.Context) ([]db_models.Place, error) {
	return r.ListRefs(context.Background(), 0, len(r.order))
}

func (r *fakePlaceRepo) ListRefs(_ context.Context, offset, limit int) ([]db_models.Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []db_models.Place{}
	for i := offset; i < len(r.order) && len(out) < limit; i++ {
		p := r.places[r.order[i]]
		out = append(out, db_models.Place{BaseModel: p.BaseModel, Name: p.Name})
	}
	return out, nil
}

// Transaction restores every place to its pre-transaction state when fn fails.
func (r *fakePlaceRepo) Transaction(ctx context.Context, fn func(tx repositories.PlaceRepository) error) error {
	r.mu.Lock()
	r.txCount++
	if r.txErr != nil {
		r.mu.Unlock()
		return r.txErr
	}
	snapshot := make(map[uuid.UUID]*db_models.Place, len(r.places))
	for id, p := range r.places {
		snapshot[id] = clonePlace(p)
	}
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.places = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

// injected returns the configured failure for a write; callers hold r.mu.
func (r *fakePlaceRepo) injected(op string) error {
	return r.failOn[op]
}

func (r *fakePlaceRepo) ReplaceImages(_ context.Context, placeID uuid.UUID, images []db_models.PlaceImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("ReplaceImages"); err != nil {
		return err
	}
	r.places[placeID].Images = append([]db_models.PlaceImage(nil), images...)
	return nil
}

func (r *fakePlaceRepo) AppendReviews(_ context.Context, placeID uuid.UUID, reviews []db_models.PlaceReview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("AppendReviews"); err != nil {
		return err
	}
	for _, rv := range reviews {
		rv.PlaceID = placeID
		r.places[placeID].Reviews = append(r.places[placeID].Reviews, rv)
	}
	return nil
}

func (r *fakePlaceRepo) ReplaceBusinessHours(_ context.Context, placeID uuid.UUID, hours []db_models.BusinessHour) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("ReplaceBusinessHours"); err != nil {
		return err
	}
	r.places[placeID].BusinessHours = append([]db_models.BusinessHour(nil), hours...)
	return nil
}

func (r *fakePlaceRepo) ReplaceMenus(_ context.Context, placeID uuid.UUID, menus []db_models.PlaceMenu) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("ReplaceMenus"); err != nil {
		return err
	}
	r.places[placeID].Menus = append([]db_models.PlaceMenu(nil), menus...)
	return nil
}

func (r *fakePlaceRepo) SaveDescription(_ context.Context, desc *db_models.PlaceDescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("SaveDescription"); err != nil {
		return err
	}
	d := *desc
	r.places[desc.PlaceID].Description = &d
	return nil
}

func (r *fakePlaceRepo) UpdateRefreshFields(_ context.Context, place *db_models.Place) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("UpdateRefreshFields"); err != nil {
		return err
	}
	stored, ok := r.places[place.ID]
	if !ok {
		return errors.New("record not found")
	}
	stored.PetFriendly = place.PetFriendly
	stored.Parking = place.Parking
	stored.SocialLinks = place.SocialLinks
	stored.LastRefreshedAt = place.LastRefreshedAt
	return nil
}

// fakeCrawlClient lets each test decide what every endpoint returns.
type fakeCrawlClient struct {
	crawlFn  func(query, name string) (*response_models.CrawlPlaceResponse, error)
	imagesFn func(name, address string) (*response_models.CrawlImagesResponse, error)
	menusFn  func(name, address string) (*response_models.CrawlMenusResponse, error)

	crawlCalls  int
	imageCalls  int
	menuCalls   int
	lastQuery   string
	lastAddress string
}

func (f *fakeCrawlClient) CrawlPlaceData(_ context.Context, searchQuery, placeName string) (*response_models.CrawlPlaceResponse, error) {
	f.crawlCalls++
	f.lastQuery = searchQuery
	if f.crawlFn == nil {
		return nil, errors.New("crawl not configured")
	}
	return f.crawlFn(searchQuery, placeName)
}

func (f *fakeCrawlClient) FetchPlaceImages(_ context.Context, name, address string) (*response_models.CrawlImagesResponse, error) {
	f.imageCalls++
	f.lastAddress = address
	if f.imagesFn == nil {
		return nil, errors.New("image crawl not configured")
	}
	return f.imagesFn(name, address)
}

func (f *fakeCrawlClient) FetchPlaceMenus(_ context.Context, name, address string) (*response_models.CrawlMenusResponse, error) {
	f.menuCalls++
	f.lastAddress = address
	if f.menusFn == nil {
		return nil, errors.New("menu crawl not configured")
	}
	return f.menusFn(name, address)
}

func okCrawl(data *response_models.CrawlPlaceData) func(string, string) (*response_models.CrawlPlaceResponse, error) {
	return func(string, string) (*response_models.CrawlPlaceResponse, error) {
		return &response_models.CrawlPlaceResponse{Success: true, Message: "ok", Data: data}, nil
	}
}

// fakeImageStorage "stores" every URL except those listed in failing.
type fakeImageStorage struct {
	failing    map[string]bool
	menuCalls  int
	imageCalls int
}

func (s *fakeImageStorage) DownloadAndSaveImages(_ context.Context, placeID uuid.UUID, _ string, urls []string) []response_models.SavedImage {
	s.imageCalls++
	out := []response_models.SavedImage{}
	for i, u := range urls {
		if s.failing[u] {
			continue
		}
		out = append(out, response_models.SavedImage{
			SourceURL: u,
			Path:      fmt.Sprintf("/images/%s/images/%d.jpg", placeID, i),
		})
	}
	return out
}

func (s *fakeImageStorage) SaveMenuImage(_ context.Context, placeID uuid.UUID, menuName, url string) (string, error) {
	s.menuCalls++
	if s.failing[url] {
		return "", errors.New("download failed")
	}
	return fmt.Sprintf("/images/%s/menus/%s.jpg", placeID, menuName), nil
}

type fakeGenerator struct {
	result *utils.GeneratedDescription
	err    error
	last   request_models.DescriptionPrompt
	calls  int
}

func (g *fakeGenerator) GenerateDescription(_ context.Context, prompt request_models.DescriptionPrompt) (*utils.GeneratedDescription, error) {
	g.calls++
	g.last = prompt
	return g.result, g.err
}

// fakeRefresher is a PlaceRefresher driven by a function.
type fakeRefresher struct {
	mu    sync.Mutex
	fn    func(id uuid.UUID) (response_models.RefreshResult, error)
	calls []uuid.UUID
}

func (f *fakeRefresher) RefreshPlace(_ context.Context, id uuid.UUID) (response_models.RefreshResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	f.mu.Unlock()
	return f.fn(id)
}
