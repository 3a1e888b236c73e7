package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Ambush3/SkateSpotApp/config"
	"github.com/Ambush3/SkateSpotApp/handlers"
	"github.com/Ambush3/SkateSpotApp/places"
)

// APIError is a non-2xx answer, Message is the server's error string
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// SpotInput holds the create form, Rating 0 means no initial review
type SpotInput struct {
	Name        string
	Description string
	Lat         float64
	Lng         float64
	Rating      int
}

type Client struct {
	BaseURL   string
	UserAgent string
	HTTP      *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: config.USER_AGENT,
		HTTP:      &http.Client{Timeout: time.Duration(config.HTTP_TIMEOUT_SECONDS) * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, out any) error {
	target := c.BaseURL + path
	var body io.Reader
	if method == http.MethodGet {
		if len(params) > 0 {
			target += "?" + params.Encode()
		}
	} else {
		body = strings.NewReader(params.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		failure := handlers.Response{}
		if json.Unmarshal(data, &failure) == nil && failure.Error != "" {
			apiErr.Message = failure.Error
		} else {
			apiErr.Message = fmt.Sprintf("request failed: %s", http.StatusText(resp.StatusCode))
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (c *Client) ListSpots(ctx context.Context) (spots []handlers.SpotInfo, err error) {
	err = c.do(ctx, http.MethodGet, "/spot/list", nil, &spots)
	return
}

// CreateSpot returns the stored spot even when its initial review failed,
// in that case err is an *APIError with StatusCode 200
func (c *Client) CreateSpot(ctx context.Context, in SpotInput) (result handlers.SpotCreateResponse, err error) {
	params := url.Values{
		"name":        {in.Name},
		"description": {in.Description},
		"lat":         {strconv.FormatFloat(in.Lat, 'f', -1, 64)},
		"lng":         {strconv.FormatFloat(in.Lng, 'f', -1, 64)},
	}
	if in.Rating != 0 {
		params.Set("rating", strconv.Itoa(in.Rating))
	}
	if err = c.do(ctx, http.MethodPost, "/spot/create", params, &result); err != nil {
		return
	}
	if result.Error != "" {
		err = &APIError{StatusCode: http.StatusOK, Message: result.Error}
	}
	return
}

func (c *Client) DeleteSpot(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/spot/delete", url.Values{"id": {id}}, nil)
}

func (c *Client) SpotDetails(ctx context.Context, id string) (result handlers.SpotDetailsResponse, err error) {
	err = c.do(ctx, http.MethodGet, "/spot/details", url.Values{"id": {id}}, &result)
	return
}

func (c *Client) CreateReview(ctx context.Context, spotID string, rating int, comment string) (result handlers.ReviewCreateResponse, err error) {
	params := url.Values{
		"spot_id": {spotID},
		"rating":  {strconv.Itoa(rating)},
		"comment": {comment},
	}
	err = c.do(ctx, http.MethodPost, "/review/create", params, &result)
	return
}

// NearbyPlaces asks the server for skate shops and parks, radius 0 uses the server default
func (c *Client) NearbyPlaces(ctx context.Context, lat, lng, radius float64) (result []places.Place, err error) {
	params := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lng": {strconv.FormatFloat(lng, 'f', -1, 64)},
	}
	if radius > 0 {
		params.Set("radius", strconv.FormatFloat(radius, 'f', -1, 64))
	}
	err = c.do(ctx, http.MethodGet, "/places/nearby", params, &result)
	return
}
