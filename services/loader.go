package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/pulseprep/ecg_api/catalog"
	"github.com/pulseprep/ecg_api/dto"
	"github.com/pulseprep/ecg_api/model"
	"github.com/pulseprep/ecg_api/shared"
)

// ContentLoaderService resolves a lesson id to its content, preferring the
// in-memory LRU cache, then the bundled catalog, then the remote content
// endpoint. Concurrent loads of the same id are coalesced; a cache hit
// returns the identical *model.Lesson pointer.
type ContentLoaderService struct {
	appContext.DefaultService

	cache  *lru.Cache[string, cacheEntry]
	flight singleflight.Group
	client *http.Client
	local  map[int]*model.Lesson

	baseURL    string
	batchSize  int
	batchPause time.Duration
}

// cacheEntry pairs a resident lesson with the moment it was fetched.
type cacheEntry struct {
	lesson    *model.Lesson
	fetchedAt time.Time
}

const CONTENT_LOADER_SVC = "content_loader_svc"

const (
	defaultCacheSize    = 256
	defaultFetchTimeout = 5 * time.Second
	defaultBatchSize    = 3
	defaultBatchPause   = 100 * time.Millisecond
)

var lessonNumberPattern = regexp.MustCompile(`lesson-(\d+)`)

var (
	contentCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "content_cache_hits_total",
		Help: "Lesson loads served from the in-memory cache",
	})
	contentCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "content_cache_misses_total",
		Help: "Lesson loads that had to hit a content source",
	})
	contentFetchFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "content_fetch_failures_total",
		Help: "Remote lesson fetches that failed or timed out",
	})
)

func (svc *ContentLoaderService) Id() string {
	return CONTENT_LOADER_SVC
}

func (svc *ContentLoaderService) Configure(ctx *appContext.Context) error {
	if err := svc.init(); err != nil {
		return err
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *ContentLoaderService) init() error {
	svc.baseURL = os.Getenv("CONTENT_API_URL")

	cacheSize := defaultCacheSize
	if sizeStr := os.Getenv("CONTENT_CACHE_SIZE"); sizeStr != "" {
		if size, err := strconv.Atoi(sizeStr); err == nil && size > 0 {
			cacheSize = size
		}
	}

	cache, err := lru.New[string, cacheEntry](cacheSize)
	if err != nil {
		return err
	}
	svc.cache = cache

	timeout := defaultFetchTimeout
	if timeoutStr := os.Getenv("CONTENT_FETCH_TIMEOUT"); timeoutStr != "" {
		if d, err := time.ParseDuration(timeoutStr); err == nil {
			timeout = d
		}
	}
	svc.client = &http.Client{Timeout: timeout}

	svc.batchSize = defaultBatchSize
	svc.batchPause = defaultBatchPause

	svc.local = make(map[int]*model.Lesson)
	for _, lesson := range catalog.Lessons() {
		l := lesson
		if n, ok := lessonNumber(l.ID); ok {
			svc.local[n] = &l
		}
	}

	return nil
}

func (svc *ContentLoaderService) Start() error {
	return nil
}

// lessonNumber extracts the numeric suffix from identifiers of the form
// "...lesson-<n>...".
func lessonNumber(lessonID string) (int, bool) {
	matches := lessonNumberPattern.FindStringSubmatch(lessonID)
	if matches == nil {
		return 0, false
	}
	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Load resolves one lesson. Cache misses for the same id issued concurrently
// share a single resolution.
func (svc *ContentLoaderService) Load(ctx context.Context, lessonID string) (*model.Lesson, error) {
	if entry, ok := svc.cache.Get(lessonID); ok {
		contentCacheHits.Inc()
		return entry.lesson, nil
	}
	contentCacheMisses.Inc()

	result, err, _ := svc.flight.Do(lessonID, func() (interface{}, error) {
		// Re-check: another caller may have populated the cache while this
		// call waited on the flight group.
		if entry, ok := svc.cache.Get(lessonID); ok {
			return entry.lesson, nil
		}

		lesson, err := svc.resolve(ctx, lessonID)
		if err != nil {
			return nil, err
		}

		svc.cache.Add(lessonID, cacheEntry{lesson: lesson, fetchedAt: time.Now()})
		return lesson, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*model.Lesson), nil
}

func (svc *ContentLoaderService) resolve(ctx context.Context, lessonID string) (*model.Lesson, error) {
	if n, ok := lessonNumber(lessonID); ok {
		if lesson, ok := svc.local[n]; ok {
			return lesson, nil
		}
	}

	if svc.baseURL == "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrLessonNotFound, lessonID)
	}

	return svc.fetchRemote(ctx, lessonID)
}

// fetchRemote treats every failure mode (network error, timeout, non-2xx,
// malformed body) uniformly as lesson-unavailable.
func (svc *ContentLoaderService) fetchRemote(ctx context.Context, lessonID string) (*model.Lesson, error) {
	url := fmt.Sprintf("%s/lessons/%s", svc.baseURL, lessonID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrLessonNotFound, lessonID)
	}

	resp, err := svc.client.Do(req)
	if err != nil {
		contentFetchFailures.Inc()
		log.WithFields(log.Fields{"lesson_id": lessonID, "error": err.Error()}).Warn("Remote lesson fetch failed")
		return nil, fmt.Errorf("%w: %s", shared.ErrLessonNotFound, lessonID)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		contentFetchFailures.Inc()
		return nil, fmt.Errorf("%w: %s", shared.ErrLessonNotFound, lessonID)
	}

	var payload dto.RemoteLessonPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		contentFetchFailures.Inc()
		log.WithFields(log.Fields{"lesson_id": lessonID, "error": err.Error()}).Warn("Malformed remote lesson payload")
		return nil, fmt.Errorf("%w: %s", shared.ErrLessonNotFound, lessonID)
	}

	return remoteToLesson(&payload)
}

func remoteToLesson(payload *dto.RemoteLessonPayload) (*model.Lesson, error) {
	items := make([]model.LessonItem, len(payload.Content.Items))
	for i, item := range payload.Content.Items {
		items[i] = model.LessonItem{
			Kind:        item.Kind,
			Title:       item.Title,
			Body:        item.Body,
			Options:     item.Options,
			Answer:      item.Answer,
			Explanation: item.Explanation,
			MediaKey:    item.MediaKey,
			Points:      item.Points,
			Difficulty:  item.Difficulty,
		}
	}

	rawItems, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	return &model.Lesson{
		ID:          payload.ID,
		ModuleID:    payload.Content.ModuleID,
		Title:       payload.Title,
		Order:       payload.Content.Order,
		Description: payload.Content.Description,
		Items:       rawItems,
		Version:     payload.Version,
		IsActive:    true,
	}, nil
}

// Preload warms the cache ahead of navigation. Failures are swallowed.
func (svc *ContentLoaderService) Preload(lessonID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), svc.client.Timeout)
		defer cancel()
		if _, err := svc.Load(ctx, lessonID); err != nil {
			log.WithField("lesson_id", lessonID).Debug("Preload skipped missing lesson")
		}
	}()
}

// LoadBatch resolves multiple lessons in fixed-size groups with a short pause
// between groups. Each id succeeds or fails independently; the result holds
// only the successes.
func (svc *ContentLoaderService) LoadBatch(ctx context.Context, lessonIDs []string) (map[string]*model.Lesson, error) {
	results := make(map[string]*model.Lesson, len(lessonIDs))
	var mu sync.Mutex

	for start := 0; start < len(lessonIDs); start += svc.batchSize {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		end := start + svc.batchSize
		if end > len(lessonIDs) {
			end = len(lessonIDs)
		}

		var wg sync.WaitGroup
		for _, lessonID := range lessonIDs[start:end] {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				lesson, err := svc.Load(ctx, id)
				if err != nil {
					return
				}
				mu.Lock()
				results[id] = lesson
				mu.Unlock()
			}(lessonID)
		}
		wg.Wait()

		if end < len(lessonIDs) {
			time.Sleep(svc.batchPause)
		}
	}

	return results, nil
}

// FetchedAt reports when a resident lesson was fetched, for cache
// inspection. The second return is false when the lesson is not cached.
func (svc *ContentLoaderService) FetchedAt(lessonID string) (time.Time, bool) {
	entry, ok := svc.cache.Peek(lessonID)
	if !ok {
		return time.Time{}, false
	}
	return entry.fetchedAt, true
}

// ClearCache empties the in-memory cache.
func (svc *ContentLoaderService) ClearCache() {
	svc.cache.Purge()
}

// CacheLen reports the number of resident entries.
func (svc *ContentLoaderService) CacheLen() int {
	return svc.cache.Len()
}
