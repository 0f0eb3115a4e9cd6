// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	opentracing "github.com/opentracing/opentracing-go"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	jconfig "github.com/uber/jaeger-client-go/config"

	limq "github.com/gaskeo/limq-panel"
	"github.com/gaskeo/limq-panel/logger"
	"github.com/gaskeo/limq-panel/panel"
	"github.com/gaskeo/limq-panel/panel/api"
	httpapi "github.com/gaskeo/limq-panel/panel/api/http"
	"github.com/gaskeo/limq-panel/panel/postgres"
	rediscache "github.com/gaskeo/limq-panel/panel/redis"
	"github.com/gaskeo/limq-panel/panel/standalone"
	"github.com/gaskeo/limq-panel/panel/token"
)

const (
	defLogLevel      = "error"
	defDBHost        = "localhost"
	defDBPort        = "5432"
	defDBUser        = "limq"
	defDBPass        = "limq"
	defDBName        = "panel"
	defDBSSLMode     = "disable"
	defDBSSLCert     = ""
	defDBSSLKey      = ""
	defDBSSLRootCert = ""
	defCacheURL      = "localhost:6379"
	defCachePass     = ""
	defCacheDB       = "0"
	defESURL         = "localhost:6379"
	defESPass        = ""
	defESDB          = "0"
	defHTTPPort      = "8190"
	defServerCert    = ""
	defServerKey     = ""
	defUserID        = "admin"
	defUserToken     = ""
	defJaegerURL     = ""
	defEnvFile       = ""

	envLogLevel      = "LIMQ_PANEL_LOG_LEVEL"
	envDBHost        = "LIMQ_PANEL_DB_HOST"
	envDBPort        = "LIMQ_PANEL_DB_PORT"
	envDBUser        = "LIMQ_PANEL_DB_USER"
	envDBPass        = "LIMQ_PANEL_DB_PASS"
	envDBName        = "LIMQ_PANEL_DB"
	envDBSSLMode     = "LIMQ_PANEL_DB_SSL_MODE"
	envDBSSLCert     = "LIMQ_PANEL_DB_SSL_CERT"
	envDBSSLKey      = "LIMQ_PANEL_DB_SSL_KEY"
	envDBSSLRootCert = "LIMQ_PANEL_DB_SSL_ROOT_CERT"
	envCacheURL      = "LIMQ_PANEL_CACHE_URL"
	envCachePass     = "LIMQ_PANEL_CACHE_PASS"
	envCacheDB       = "LIMQ_PANEL_CACHE_DB"
	envESURL         = "LIMQ_PANEL_ES_URL"
	envESPass        = "LIMQ_PANEL_ES_PASS"
	envESDB          = "LIMQ_PANEL_ES_DB"
	envHTTPPort      = "LIMQ_PANEL_HTTP_PORT"
	envServerCert    = "LIMQ_PANEL_SERVER_CERT"
	envServerKey     = "LIMQ_PANEL_SERVER_KEY"
	envUserID        = "LIMQ_PANEL_USER_ID"
	envUserToken     = "LIMQ_PANEL_USER_TOKEN"
	envJaegerURL     = "LIMQ_JAEGER_URL"
	envEnvFile       = "LIMQ_ENV_FILE"
)

type config struct {
	logLevel   string
	dbConfig   postgres.Config
	cacheURL   string
	cachePass  string
	cacheDB    string
	esURL      string
	esPass     string
	esDB       string
	httpPort   string
	serverCert string
	serverKey  string
	userID     string
	userToken  string
	jaegerURL  string
}

func main() {
	if envFile := limq.Env(envEnvFile, defEnvFile); envFile != "" {
		if err := limq.LoadEnvFile(envFile); err != nil {
			log.Fatalf("Failed to load env file %s: %s", envFile, err)
		}
	}

	cfg := loadConfig()

	logger, err := logger.New(os.Stdout, cfg.logLevel)
	if err != nil {
		log.Fatalf(err.Error())
	}

	panelTracer, panelCloser := initJaeger("panel", cfg.jaegerURL, logger)
	defer panelCloser.Close()

	cacheClient := connectToRedis(cfg.cacheURL, cfg.cachePass, cfg.cacheDB, logger)
	esClient := connectToRedis(cfg.esURL, cfg.esPass, cfg.esDB, logger)

	db := connectToDB(cfg.dbConfig, logger)
	defer db.Close()

	svc := newService(cfg, db, cacheClient, esClient, logger)
	errs := make(chan error, 2)

	go startHTTPServer(httpapi.MakeHandler(panelTracer, svc), cfg, logger, errs)

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT)
		errs <- fmt.Errorf("%s", <-c)
	}()

	err = <-errs
	logger.Error(fmt.Sprintf("Panel service terminated: %s", err))
}

func loadConfig() config {
	dbConfig := postgres.Config{
		Host:        limq.Env(envDBHost, defDBHost),
		Port:        limq.Env(envDBPort, defDBPort),
		User:        limq.Env(envDBUser, defDBUser),
		Pass:        limq.Env(envDBPass, defDBPass),
		Name:        limq.Env(envDBName, defDBName),
		SSLMode:     limq.Env(envDBSSLMode, defDBSSLMode),
		SSLCert:     limq.Env(envDBSSLCert, defDBSSLCert),
		SSLKey:      limq.Env(envDBSSLKey, defDBSSLKey),
		SSLRootCert: limq.Env(envDBSSLRootCert, defDBSSLRootCert),
	}

	return config{
		logLevel:   limq.Env(envLogLevel, defLogLevel),
		dbConfig:   dbConfig,
		cacheURL:   limq.Env(envCacheURL, defCacheURL),
		cachePass:  limq.Env(envCachePass, defCachePass),
		cacheDB:    limq.Env(envCacheDB, defCacheDB),
		esURL:      limq.Env(envESURL, defESURL),
		esPass:     limq.Env(envESPass, defESPass),
		esDB:       limq.Env(envESDB, defESDB),
		httpPort:   limq.Env(envHTTPPort, defHTTPPort),
		serverCert: limq.Env(envServerCert, defServerCert),
		serverKey:  limq.Env(envServerKey, defServerKey),
		userID:     limq.Env(envUserID, defUserID),
		userToken:  limq.Env(envUserToken, defUserToken),
		jaegerURL:  limq.Env(envJaegerURL, defJaegerURL),
	}
}

func initJaeger(svcName, url string, logger logger.Logger) (opentracing.Tracer, io.Closer) {
	if url == "" {
		return opentracing.NoopTracer{}, ioutil.NopCloser(nil)
	}

	tracer, closer, err := jconfig.Configuration{
		ServiceName: svcName,
		Sampler: &jconfig.SamplerConfig{
			Type:  "const",
			Param: 1,
		},
		Reporter: &jconfig.ReporterConfig{
			LocalAgentHostPort: url,
			LogSpans:           true,
		},
	}.NewTracer()
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to init Jaeger client: %s", err))
		os.Exit(1)
	}

	return tracer, closer
}

func connectToRedis(cacheURL, cachePass, cacheDB string, logger logger.Logger) *redis.Client {
	db, err := strconv.Atoi(cacheDB)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to connect to cache: %s", err))
		os.Exit(1)
	}

	return redis.NewClient(&redis.Options{
		Addr:     cacheURL,
		Password: cachePass,
		DB:       db,
	})
}

func connectToDB(dbConfig postgres.Config, logger logger.Logger) *sqlx.DB {
	db, err := postgres.Connect(dbConfig)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to connect to postgres: %s", err))
		os.Exit(1)
	}
	return db
}

func newService(cfg config, db *sqlx.DB, cacheClient, esClient *redis.Client, logger logger.Logger) panel.Service {
	if cfg.userToken == "" {
		logger.Error(fmt.Sprintf("%s must be set", envUserToken))
		os.Exit(1)
	}
	auth := standalone.NewAuthService(cfg.userID, cfg.userToken)

	channelsRepo := postgres.NewChannelRepository(db)
	keysRepo := postgres.NewKeyRepository(db)
	mixinsRepo := postgres.NewMixinRepository(db)
	mixinCache := rediscache.NewMixinCache(cacheClient)
	idp := token.New()

	svc := panel.New(auth, channelsRepo, keysRepo, mixinsRepo, mixinCache, idp)
	svc = rediscache.NewEventStoreMiddleware(svc, esClient)
	svc = api.LoggingMiddleware(svc, logger)
	svc = api.MetricsMiddleware(
		svc,
		kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: "panel",
			Subsystem: "api",
			Name:      "request_count",
			Help:      "Number of requests received.",
		}, []string{"method"}),
		kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
			Namespace: "panel",
			Subsystem: "api",
			Name:      "request_latency_microseconds",
			Help:      "Total duration of requests in microseconds.",
		}, []string{"method"}),
	)
	return svc
}

func startHTTPServer(handler http.Handler, cfg config, logger logger.Logger, errs chan error) {
	p := fmt.Sprintf(":%s", cfg.httpPort)
	if cfg.serverCert != "" || cfg.serverKey != "" {
		logger.Info(fmt.Sprintf("Panel service started using https on port %s with cert %s key %s",
			cfg.httpPort, cfg.serverCert, cfg.serverKey))
		errs <- http.ListenAndServeTLS(p, cfg.serverCert, cfg.serverKey, handler)
		return
	}
	logger.Info(fmt.Sprintf("Panel service started using http on port %s", cfg.httpPort))
	errs <- http.ListenAndServe(p, handler)
}
