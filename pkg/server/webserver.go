package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/matst80/slask-catalogue/pkg/catalogue"
	"github.com/matst80/slask-catalogue/pkg/common"
	"github.com/matst80/slask-catalogue/pkg/locale"
	"github.com/matst80/slask-catalogue/pkg/tracking"
	"github.com/matst80/slask-catalogue/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	catalogueRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalogue_requests_total",
		Help: "Total catalogue page requests",
	})
	catalogueRedirects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalogue_redirects_total",
		Help: "Requests resolved to a canonical redirect",
	})
	catalogueNotFound = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalogue_not_found_total",
		Help: "Requests for unknown rubrics or empty unfiltered scopes",
	})
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalogue_cache_hits_total",
		Help: "Catalogue pages served from the page cache",
	})
	catalogueFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalogue_failures_total",
		Help: "Requests failed because the store was unavailable",
	})
)

// WebServer exposes the catalogue engine over HTTP. Cache and Tracking are
// optional; a nil value disables that collaborator.
type WebServer struct {
	Engine   *catalogue.Engine
	Cache    PageCache
	Tracking tracking.Tracking
	Locales  *locale.Matcher

	FallbackLocale string
	CacheMaxAge    string
}

func NewWebServer(engine *catalogue.Engine, supported []string) *WebServer {
	return &WebServer{
		Engine:         engine,
		Locales:        locale.NewMatcher(supported),
		FallbackLocale: supported[0],
		CacheMaxAge:    "300",
	}
}

func (ws *WebServer) Handler() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/catalogue/", ws.HandleCatalogue)
	mux.HandleFunc("/search/", ws.HandleCatalogue)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (ws *WebServer) HandleCatalogue(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		common.RespondToOptions(w, r)
		return
	}
	catalogueRequests.Inc()

	loc := ws.Locales.Match(r.Header.Get("Accept-Language"))
	req, err := catalogueRequestFromPath(r, loc, ws.FallbackLocale)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sessionID := common.HandleSessionCookie(ws.Tracking, w, r)

	key := loc + ":" + r.URL.Path + "?" + r.URL.RawQuery
	if ws.Cache != nil {
		if page, ok := ws.Cache.Get(r.Context(), key); ok {
			cacheHits.Inc()
			ws.respond(w, r, sessionID, req, page)
			return
		}
	}

	page, err := ws.Engine.Browse(r.Context(), req)
	if err != nil {
		ws.fail(w, r, err)
		return
	}

	if page.Redirect == "" && ws.Cache != nil {
		ws.Cache.Set(r.Context(), key, page)
	}
	ws.respond(w, r, sessionID, req, page)
}

func (ws *WebServer) respond(w http.ResponseWriter, r *http.Request, sessionID string, req types.CatalogueRequest, page *types.CataloguePage) {
	if page.Redirect != "" {
		catalogueRedirects.Inc()
		target := page.Redirect
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}

	if ws.Tracking != nil {
		go ws.Tracking.TrackCatalogueView(sessionID, tracking.CatalogueViewEvent{
			CompanyID:     req.CompanyID,
			CitySlug:      req.CitySlug,
			RubricSlug:    req.RubricSlug,
			CanonicalPath: r.URL.Path,
			Search:        req.Search,
			Page:          page.Page,
			TotalDocs:     page.TotalDocs,
		}, r)
	}

	common.DefaultHeaders(w, r, ws.CacheMaxAge)
	data, err := sonic.Marshal(page)
	if err != nil {
		http.Error(w, "encoding failed", http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(data); err != nil {
		log.Printf("response write failed: %v", err)
	}
}

func (ws *WebServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Client went away, nothing to render.
	case errors.Is(err, types.ErrScopeNotFound), errors.Is(err, types.ErrNotFound):
		catalogueNotFound.Inc()
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, types.ErrDataUnavailable):
		catalogueFailures.Inc()
		log.Printf("catalogue request %s failed: %v", r.URL.Path, err)
		http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
	default:
		catalogueFailures.Inc()
		log.Printf("catalogue request %s failed: %v", r.URL.Path, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
