// Package screen holds the state of the map screen and the actions a user can take on it.
// Every failure ends up in the error banner, nothing here is fatal.
package screen

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/Ambush3/SkateSpotApp/client"
	"github.com/Ambush3/SkateSpotApp/handlers"
	"github.com/Ambush3/SkateSpotApp/models"
	"github.com/Ambush3/SkateSpotApp/places"
)

var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrNoLocation       = errors.New(handlers.MissingCoordinatesResponse.Error)
	ErrNoSpotSelected   = errors.New("no spot selected")
	ErrNoPendingPoint   = errors.New("long-press the map to pick a location")
)

type Backend interface {
	ListSpots(ctx context.Context) ([]handlers.SpotInfo, error)
	CreateSpot(ctx context.Context, in client.SpotInput) (handlers.SpotCreateResponse, error)
	DeleteSpot(ctx context.Context, id string) error
	SpotDetails(ctx context.Context, id string) (handlers.SpotDetailsResponse, error)
	CreateReview(ctx context.Context, spotID string, rating int, comment string) (handlers.ReviewCreateResponse, error)
}

type PlacesSource interface {
	NearbyPlaces(ctx context.Context, lat, lng, radius float64) ([]places.Place, error)
}

// LocationProvider reads the device position once, after asking for permission
type LocationProvider interface {
	RequestPermission(ctx context.Context) (bool, error)
	CurrentPosition(ctx context.Context) (Position, error)
}

type Position struct {
	Lat float64
	Lng float64
}

type CreateForm struct {
	Name        string
	Description string
	Rating      int
	Point       *Position // set by a long-press
}

type ReviewForm struct {
	Rating  int
	Comment string
}

type Loading struct {
	Spots   bool
	Create  bool
	Details bool
	Review  bool
	Delete  bool
	Locate  bool
	Places  bool
}

// State is a copy of everything the screen renders
type State struct {
	Spots         []handlers.SpotInfo
	Places        []places.Place
	Selected      *handlers.SpotInfo
	Reviews       []models.Review
	Average       float64
	CreateOpen    bool
	DetailsOpen   bool
	ConfirmDelete bool
	Form          CreateForm
	Review        ReviewForm
	Location      *Position
	Error         string
	Loading       Loading
}

type Screen struct {
	mu      sync.Mutex
	state   State
	backend Backend
	places  PlacesSource
	locator LocationProvider
	radius  float64
}

// New creates an empty screen, radius 0 lets the server pick the search radius
func New(backend Backend, placesSource PlacesSource, locator LocationProvider, radius float64) *Screen {
	return &Screen{
		backend: backend,
		places:  placesSource,
		locator: locator,
		radius:  radius,
	}
}

// NewWithClient uses the API client both for spots and places
func NewWithClient(c *client.Client, locator LocationProvider) *Screen {
	return New(c, c, locator, 0)
}

func (s *Screen) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Spots = append([]handlers.SpotInfo(nil), s.state.Spots...)
	st.Places = append([]places.Place(nil), s.state.Places...)
	st.Reviews = append([]models.Review(nil), s.state.Reviews...)
	if s.state.Selected != nil {
		selected := *s.state.Selected
		st.Selected = &selected
	}
	if s.state.Location != nil {
		location := *s.state.Location
		st.Location = &location
	}
	if s.state.Form.Point != nil {
		point := *s.state.Form.Point
		st.Form.Point = &point
	}
	return st
}

func (s *Screen) update(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// fail shows err in the banner, must be called with the lock held
func (s *Screen) fail(st *State, action string, err error) {
	slog.Debug("Screen action failed", "action", action, "error", err)
	st.Error = err.Error()
}

func (s *Screen) DismissError() {
	s.update(func(st *State) { st.Error = "" })
}

// SetForm updates the create form text fields
func (s *Screen) SetForm(name, description string, rating int) {
	s.update(func(st *State) {
		st.Form.Name = name
		st.Form.Description = description
		st.Form.Rating = rating
	})
}

func (s *Screen) SetReview(rating int, comment string) {
	s.update(func(st *State) {
		st.Review = ReviewForm{Rating: rating, Comment: comment}
	})
}

func (s *Screen) LoadSpots(ctx context.Context) {
	s.update(func(st *State) { st.Loading.Spots = true })
	spots, err := s.backend.ListSpots(ctx)
	s.update(func(st *State) {
		st.Loading.Spots = false
		if err != nil {
			s.fail(st, "load spots", err)
			return
		}
		st.Spots = spots
	})
}

// LongPress opens the create form for the pressed point
func (s *Screen) LongPress(lat, lng float64) {
	s.update(func(st *State) {
		st.Form.Point = &Position{Lat: lat, Lng: lng}
		st.CreateOpen = true
	})
}

func (s *Screen) CloseCreate() {
	s.update(func(st *State) {
		st.CreateOpen = false
		st.Form = CreateForm{}
	})
}

// SubmitCreate saves the form. A blank name never reaches the backend.
// If only the initial review fails, the spot is still added and the error is shown.
func (s *Screen) SubmitCreate(ctx context.Context) {
	var in client.SpotInput
	ok := false
	s.update(func(st *State) {
		if strings.TrimSpace(st.Form.Name) == "" {
			s.fail(st, "create spot", models.ErrBlankName)
			return
		}
		if st.Form.Point == nil {
			s.fail(st, "create spot", ErrNoPendingPoint)
			return
		}
		in = client.SpotInput{
			Name:        strings.TrimSpace(st.Form.Name),
			Description: strings.TrimSpace(st.Form.Description),
			Lat:         st.Form.Point.Lat,
			Lng:         st.Form.Point.Lng,
			Rating:      st.Form.Rating,
		}
		st.Loading.Create = true
		ok = true
	})
	if !ok {
		return
	}
	result, err := s.backend.CreateSpot(ctx, in)
	s.update(func(st *State) {
		st.Loading.Create = false
		if err != nil {
			s.fail(st, "create spot", err)
		}
		if result.Spot.ID == "" {
			return
		}
		st.Spots = insertSpot(st.Spots, result.Spot)
		st.CreateOpen = false
		st.Form = CreateForm{}
	})
}

// MarkerPress selects the spot and loads all of its reviews
func (s *Screen) MarkerPress(ctx context.Context, spot handlers.SpotInfo) {
	s.update(func(st *State) {
		st.Selected = &spot
		st.DetailsOpen = true
		st.ConfirmDelete = false
		st.Reviews = nil
		st.Average = 0
		st.Review = ReviewForm{}
	})
	s.reloadDetails(ctx, spot.ID)
}

func (s *Screen) reloadDetails(ctx context.Context, id string) {
	s.update(func(st *State) { st.Loading.Details = true })
	details, err := s.backend.SpotDetails(ctx, id)
	s.update(func(st *State) {
		st.Loading.Details = false
		if err != nil {
			s.fail(st, "spot details", err)
			return
		}
		if st.Selected == nil || st.Selected.ID != id {
			return
		}
		if details.Spot.ID != "" {
			st.Selected = &details.Spot
		}
		st.Reviews = details.Reviews
		st.Average = details.Average
	})
}

func (s *Screen) CloseDetails() {
	s.update(func(st *State) {
		st.DetailsOpen = false
		st.ConfirmDelete = false
		st.Selected = nil
		st.Reviews = nil
		st.Average = 0
	})
}

// SubmitReview rates the selected spot and refreshes the reviews
func (s *Screen) SubmitReview(ctx context.Context) {
	var (
		spotID string
		form   ReviewForm
		ok     bool
	)
	s.update(func(st *State) {
		if st.Selected == nil {
			s.fail(st, "review", ErrNoSpotSelected)
			return
		}
		if !models.ValidRating(st.Review.Rating) {
			s.fail(st, "review", models.ErrInvalidRating)
			return
		}
		spotID, form, ok = st.Selected.ID, st.Review, true
		st.Loading.Review = true
	})
	if !ok {
		return
	}
	_, err := s.backend.CreateReview(ctx, spotID, form.Rating, strings.TrimSpace(form.Comment))
	s.update(func(st *State) {
		st.Loading.Review = false
		if err != nil {
			s.fail(st, "review", err)
			return
		}
		st.Review = ReviewForm{}
	})
	if err == nil {
		s.reloadDetails(ctx, spotID)
	}
}

func (s *Screen) RequestDelete() {
	s.update(func(st *State) {
		if st.Selected == nil {
			s.fail(st, "delete", ErrNoSpotSelected)
			return
		}
		st.ConfirmDelete = true
	})
}

func (s *Screen) CancelDelete() {
	s.update(func(st *State) { st.ConfirmDelete = false })
}

// ConfirmDelete deletes the selected spot once RequestDelete was confirmed
func (s *Screen) ConfirmDelete(ctx context.Context) {
	var id string
	s.update(func(st *State) {
		if st.Selected == nil || !st.ConfirmDelete {
			return
		}
		id = st.Selected.ID
		st.ConfirmDelete = false
		st.Loading.Delete = true
	})
	if id == "" {
		return
	}
	err := s.backend.DeleteSpot(ctx, id)
	s.update(func(st *State) {
		st.Loading.Delete = false
		if err != nil {
			s.fail(st, "delete", err)
			return
		}
		s.removeSpot(st, id)
	})
}

// removeSpot drops the spot and closes a details view showing it
func (s *Screen) removeSpot(st *State, id string) {
	spots := st.Spots[:0:0]
	for _, spot := range st.Spots {
		if spot.ID != id {
			spots = append(spots, spot)
		}
	}
	st.Spots = spots
	if st.Selected != nil && st.Selected.ID == id {
		st.DetailsOpen = false
		st.ConfirmDelete = false
		st.Selected = nil
		st.Reviews = nil
		st.Average = 0
	}
}

func insertSpot(spots []handlers.SpotInfo, spot handlers.SpotInfo) []handlers.SpotInfo {
	for _, existing := range spots {
		if existing.ID == spot.ID {
			return spots
		}
	}
	return append([]handlers.SpotInfo{spot}, spots...)
}

// LocateDevice asks for permission and reads the position once
func (s *Screen) LocateDevice(ctx context.Context) {
	s.update(func(st *State) { st.Loading.Locate = true })
	position, err := s.locate(ctx)
	s.update(func(st *State) {
		st.Loading.Locate = false
		if err != nil {
			s.fail(st, "locate", err)
			return
		}
		st.Location = &position
	})
}

func (s *Screen) locate(ctx context.Context) (Position, error) {
	if s.locator == nil {
		return Position{}, ErrPermissionDenied
	}
	granted, err := s.locator.RequestPermission(ctx)
	if err != nil {
		return Position{}, err
	}
	if !granted {
		return Position{}, ErrPermissionDenied
	}
	position, err := s.locator.CurrentPosition(ctx)
	if err != nil {
		return Position{}, err
	}
	if !models.ValidCoordinates(position.Lat, position.Lng) {
		return Position{}, models.ErrInvalidCoordinates
	}
	return position, nil
}

// LoadNearbyPlaces replaces the place list with shops and parks around the device
func (s *Screen) LoadNearbyPlaces(ctx context.Context) {
	var (
		location Position
		ok       bool
	)
	s.update(func(st *State) {
		if st.Location == nil {
			s.fail(st, "nearby places", ErrNoLocation)
			return
		}
		location, ok = *st.Location, true
		st.Loading.Places = true
	})
	if !ok {
		return
	}
	result, err := s.places.NearbyPlaces(ctx, location.Lat, location.Lng, s.radius)
	s.update(func(st *State) {
		st.Loading.Places = false
		if err != nil {
			s.fail(st, "nearby places", err)
			return
		}
		st.Places = result
	})
}

// ApplyEvent merges a change made on another device
func (s *Screen) ApplyEvent(event handlers.FeedEvent) {
	s.update(func(st *State) {
		switch event.Type {
		case handlers.FeedEventSpotCreated:
			if event.Spot != nil {
				st.Spots = insertSpot(st.Spots, *event.Spot)
			}
		case handlers.FeedEventSpotDeleted:
			s.removeSpot(st, event.ID)
		}
	})
}
