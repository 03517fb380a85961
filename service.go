package bustimes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"tidbyt.dev/bustimes/cache"
	"tidbyt.dev/bustimes/downloader"
	"tidbyt.dev/bustimes/model"
	"tidbyt.dev/bustimes/parse"
	"tidbyt.dev/bustimes/ratelimit"
)

const (
	DefaultBaseURL           = "https://bustimes.org"
	DefaultUserAgent         = "bustimes-mcp/1.0 (+https://tidbyt.dev/bustimes)"
	DefaultRateLimitInterval = 2 * time.Second
	DefaultMetadataTTL       = 5 * time.Minute
	DefaultRequestTimeout    = 30 * time.Second
	DefaultMaxSize           = 5 << 20 // 5 MB
)

var validate = validator.New()

// Service fetches departures for UK bus stops from bustimes.org.
//
// All upstream traffic of a Service goes through a single rate
// limiter, and stop metadata is cached for the lifetime of the cache
// entries. Both are shared by concurrent callers.
type Service struct {
	BaseURL        string
	UserAgent      string
	RequestTimeout time.Duration
	MaxSize        int
	Downloader     downloader.Downloader
	Logger         *slog.Logger
	TimeNow        func() time.Time

	limiter  *ratelimit.Limiter
	metadata *cache.Cache[*model.StopMetadata]
}

// Creates a Service on top of the given rate limiter and metadata
// cache. Other settings start out with their defaults and can be
// changed before first use.
func NewService(limiter *ratelimit.Limiter, metadata *cache.Cache[*model.StopMetadata]) *Service {
	return &Service{
		BaseURL:        DefaultBaseURL,
		UserAgent:      DefaultUserAgent,
		RequestTimeout: DefaultRequestTimeout,
		MaxSize:        DefaultMaxSize,
		Downloader:     downloader.NewHTTP(),
		Logger:         slog.Default(),
		TimeNow:        time.Now,

		limiter:  limiter,
		metadata: metadata,
	}
}

// Gets the current departures for a stop.
func (s *Service) GetDepartures(ctx context.Context, stopCode string) (*model.DeparturesResponse, error) {
	return s.GetDeparturesAt(ctx, stopCode, "", "")
}

// Gets departures for a stop, optionally as of a date (YYYY-MM-DD) and
// time (HH:MM). Date and time must be given together or not at all.
//
// Malformed input fails with ErrInvalidStopCode or ErrInvalidQuery
// before anything is fetched. A stop unknown upstream fails with
// ErrStopNotFound, and other upstream statuses with a
// *downloader.StatusError. Missing stop metadata is not an error: the
// response then lacks a location and has an unknown stop name.
func (s *Service) GetDeparturesAt(
	ctx context.Context,
	stopCode string,
	date string,
	clock string,
) (*model.DeparturesResponse, error) {

	if !parse.ValidStopCode(stopCode) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStopCode, stopCode)
	}
	if err := validateQuery(date, clock); err != nil {
		return nil, err
	}

	if err := s.limiter.WaitIfNeeded(ctx); err != nil {
		return nil, s.fail(stopCode, fmt.Errorf("waiting for rate limiter: %w", err))
	}

	var (
		metadata *model.StopMetadata
		html     string
		g        errgroup.Group
	)

	// Metadata never fails the request, so both fetches always
	// complete before Wait returns.
	g.Go(func() error {
		metadata = s.lookupStopMetadata(ctx, stopCode)
		return nil
	})
	g.Go(func() error {
		var err error
		html, err = s.fetchDeparturesHTML(ctx, stopCode, date, clock)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail(stopCode, err)
	}

	departures, err := parse.ParseDepartures(s.Logger, html, stopCode, s.TimeNow())
	if err != nil {
		return nil, s.fail(stopCode, err)
	}

	departures.StopName = metadata.DisplayName()
	if metadata != nil {
		location := metadata.Location
		departures.Location = &location
	}

	return departures, nil
}

// Gets metadata for a stop, from cache if possible.
func (s *Service) StopMetadata(ctx context.Context, stopCode string) (*model.StopMetadata, error) {
	if !parse.ValidStopCode(stopCode) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStopCode, stopCode)
	}

	if metadata, found := s.metadata.Get(metadataCacheKey(stopCode)); found {
		return metadata, nil
	}

	if err := s.limiter.WaitIfNeeded(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	return s.fetchStopMetadata(ctx, stopCode)
}

// Checks a stop code and, if well formed, looks up its metadata.
// Metadata failures are reported in the result rather than as errors.
func (s *Service) ValidateStopCode(ctx context.Context, stopCode string) *model.ValidationResult {
	result := &model.ValidationResult{
		StopCode: stopCode,
		IsValid:  parse.ValidStopCode(stopCode),
	}
	if !result.IsValid {
		return result
	}

	metadata, err := s.StopMetadata(ctx, stopCode)
	if err != nil {
		var statusErr *downloader.StatusError
		if errors.As(err, &statusErr) {
			result.MetadataError = fmt.Sprintf("Stop not found (HTTP %d)", statusErr.StatusCode)
		} else {
			result.MetadataError = fmt.Sprintf("Failed to fetch metadata: %s", err)
		}
		return result
	}

	result.Metadata = metadata.Summary()
	return result
}

// Drops all cached stop metadata.
func (s *Service) ClearCache() {
	s.metadata.Clear()
}

func (s *Service) CacheInfo() cache.Info {
	return s.metadata.Info()
}

func metadataCacheKey(stopCode string) string {
	return "metadata-" + stopCode
}

// Metadata is nice to have. Any failure is logged and yields nil.
func (s *Service) lookupStopMetadata(ctx context.Context, stopCode string) *model.StopMetadata {
	metadata, err := s.fetchStopMetadata(ctx, stopCode)
	if err != nil {
		s.Logger.Warn("stop metadata unavailable", "stop_code", stopCode, "error", err)
		return nil
	}
	return metadata
}

func (s *Service) fetchStopMetadata(ctx context.Context, stopCode string) (*model.StopMetadata, error) {
	key := metadataCacheKey(stopCode)
	if metadata, found := s.metadata.Get(key); found {
		return metadata, nil
	}

	url := StopMetadataURL(s.BaseURL, stopCode)
	s.Logger.Debug("fetching stop metadata", "url", url)

	body, err := s.Downloader.Get(ctx, url, map[string]string{
		"User-Agent": s.UserAgent,
		"Accept":     "application/json",
	}, s.getOptions())
	if err != nil {
		return nil, fmt.Errorf("fetching stop metadata: %w", err)
	}

	metadata, err := decodeStopMetadata(body)
	if err != nil {
		return nil, err
	}

	s.metadata.Set(key, metadata)

	return metadata, nil
}

func (s *Service) fetchDeparturesHTML(ctx context.Context, stopCode string, date string, clock string) (string, error) {
	url := DeparturesURL(s.BaseURL, stopCode, date, clock)
	s.Logger.Debug("fetching departures", "url", url)

	body, err := s.Downloader.Get(ctx, url, map[string]string{
		"User-Agent":      s.UserAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-GB,en;q=0.5",
	}, s.getOptions())
	if err != nil {
		if downloader.IsStatus(err, http.StatusNotFound) {
			return "", fmt.Errorf("%w: %s", ErrStopNotFound, stopCode)
		}
		return "", err
	}

	html, err := parse.SanitizeHTML(string(body))
	if err != nil {
		return "", fmt.Errorf("sanitizing departures page: %w", err)
	}

	return html, nil
}

func (s *Service) getOptions() downloader.GetOptions {
	return downloader.GetOptions{
		Timeout: s.RequestTimeout,
		MaxSize: s.MaxSize,
	}
}

// Logs err and decides what the caller gets to see. Known failures pass
// through; anything else is reported as ErrFetchFailed.
func (s *Service) fail(stopCode string, err error) error {
	s.Logger.Error("error fetching departures", "stop_code", stopCode, "error", err)

	var statusErr *downloader.StatusError
	if errors.Is(err, ErrStopNotFound) || errors.As(err, &statusErr) {
		return err
	}

	return fmt.Errorf("%w: %v", ErrFetchFailed, err)
}

type departuresQuery struct {
	Date string `validate:"required_with=Time,omitempty,datetime=2006-01-02"`
	Time string `validate:"required_with=Date,omitempty,datetime=15:04"`
}

func validateQuery(date string, clock string) error {
	err := validate.Struct(departuresQuery{Date: date, Time: clock})
	if err != nil {
		return fmt.Errorf(
			"%w: date (YYYY-MM-DD) and time (HH:MM) must be provided together, or not at all",
			ErrInvalidQuery,
		)
	}
	return nil
}

// Wire format of the stops API. Pointers distinguish absent fields
// from empty ones; nullable fields carry no validation.
type stopMetadataJSON struct {
	AtcoCode    *string   `json:"atco_code" validate:"required"`
	NaptanCode  *string   `json:"naptan_code" validate:"required"`
	CommonName  *string   `json:"common_name" validate:"required"`
	Name        *string   `json:"name" validate:"required"`
	LongName    *string   `json:"long_name" validate:"required"`
	Location    []float64 `json:"location" validate:"required,len=2"`
	Indicator   *string   `json:"indicator"`
	Bearing     *string   `json:"bearing"`
	StopType    *string   `json:"stop_type" validate:"required"`
	BusStopType *string   `json:"bus_stop_type" validate:"required"`
	Active      *bool     `json:"active" validate:"required"`
}

func decodeStopMetadata(body []byte) (*model.StopMetadata, error) {
	var raw stopMetadataJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}

	if err := validate.Struct(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}

	return &model.StopMetadata{
		AtcoCode:    *raw.AtcoCode,
		NaptanCode:  *raw.NaptanCode,
		CommonName:  *raw.CommonName,
		Name:        *raw.Name,
		LongName:    *raw.LongName,
		Location:    model.Location{raw.Location[0], raw.Location[1]},
		Indicator:   raw.Indicator,
		Bearing:     raw.Bearing,
		StopType:    *raw.StopType,
		BusStopType: *raw.BusStopType,
		Active:      *raw.Active,
	}, nil
}
