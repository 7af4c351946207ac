package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/matst80/slask-catalogue/pkg/catalogue"
	"github.com/matst80/slask-catalogue/pkg/common"
	"github.com/matst80/slask-catalogue/pkg/server"
	"github.com/matst80/slask-catalogue/pkg/store"
	catalogueSync "github.com/matst80/slask-catalogue/pkg/sync"
	"github.com/matst80/slask-catalogue/pkg/tracking"
)

var enableProfiling = flag.Bool("profiling", true, "enable profiling endpoints")
var rabbitUrl = os.Getenv("RABBIT_URL")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")
var catalogueFile = os.Getenv("CATALOGUE_DATA")
var supportedLocales = os.Getenv("LOCALES")
var listenAddress = ":8080"
var debugAddress = ":8081"

func closeHook(close func() error) common.ShutdownHook {
	return func(ctx context.Context) error {
		return close()
	}
}

func locales() []string {
	if supportedLocales == "" {
		return []string{"en"}
	}
	return strings.Split(supportedLocales, ",")
}

func main() {
	flag.Parse()

	memStore := store.NewMemoryStore()
	if catalogueFile != "" {
		if err := memStore.LoadFile(catalogueFile); err != nil {
			log.Fatalf("failed to load catalogue data: %v", err)
		}
		log.Printf("catalogue loaded from %s", catalogueFile)
	} else {
		log.Println("starting with an empty catalogue, waiting for sync messages")
	}

	var settings catalogue.SettingsSource
	var cache server.PageCache
	if redisUrl != "" {
		client := redis.NewClient(&redis.Options{Addr: redisUrl, Password: redisPassword})
		settings = server.NewRedisSettings(client)
		cache = server.NewRedisCache(client, 5*time.Minute)
		log.Printf("redis cache and settings enabled, url: %s", redisUrl)
	}

	engine := catalogue.NewEngine(memStore, settings)
	srv := server.NewWebServer(engine, locales())
	srv.Cache = cache

	hooks := []common.ShutdownHook{}
	if rabbitUrl != "" {
		trk, err := tracking.NewRabbitTracking(rabbitUrl)
		if err != nil {
			log.Fatalf("failed to connect rabbit tracking: %v", err)
		}
		srv.Tracking = trk

		productSync, err := catalogueSync.NewProductSync(rabbitUrl)
		if err != nil {
			log.Fatalf("failed to connect product sync: %v", err)
		}
		if err := productSync.Listen(memStore); err != nil {
			log.Fatalf("failed to start product sync: %v", err)
		}
		log.Println("product sync and tracking enabled")
		hooks = append(hooks, closeHook(trk.Close), closeHook(productSync.Close))
	}

	go func() {
		debugMux := http.NewServeMux()
		debugMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		debugMux.Handle("/metrics", promhttp.Handler())
		if enableProfiling != nil && *enableProfiling {
			debugMux.HandleFunc("/debug/pprof/", pprof.Index)
			debugMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
			debugMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
			debugMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
			debugMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
		}
		log.Printf("starting debug server %v", debugAddress)
		log.Fatal(http.ListenAndServe(debugAddress, debugMux))
	}()

	httpServer := &http.Server{
		Addr:    listenAddress,
		Handler: srv.Handler(),
	}
	common.RunServerWithShutdown(httpServer, "catalogue api", 10*time.Second, hooks...)
}
