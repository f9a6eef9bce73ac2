// Package web provides the vocabnest HTTP server: routing, sessions, the
// client bundle and background maintenance jobs.
package web

import (
	"context"
	"crypto/tls"
	"embed"
	"io"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vocabnest/vocabnest/config"
	"github.com/vocabnest/vocabnest/database"
	"github.com/vocabnest/vocabnest/logger"
	"github.com/vocabnest/vocabnest/util/common"
	"github.com/vocabnest/vocabnest/web/cache"
	"github.com/vocabnest/vocabnest/web/controller"
	"github.com/vocabnest/vocabnest/web/job"
	"github.com/vocabnest/vocabnest/web/locale"
	"github.com/vocabnest/vocabnest/web/middleware"
	"github.com/vocabnest/vocabnest/web/network"
	"github.com/vocabnest/vocabnest/web/session"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/robfig/cron/v3"
)

//go:embed translation/*
var i18nFS embed.FS

// Server is the vocabnest web server with its API controllers and scheduled jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	api *controller.APIController

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

// newSessionStore builds the Redis-backed cookie store. Without a configured
// secret a random key is used and sessions do not survive a restart.
func newSessionStore() sessions.Store {
	secret := []byte(config.GetSessionSecret())
	if len(secret) == 0 {
		logger.Warning("VOCAB_SESSION_SECRET is not set, sessions will be lost on restart")
		secret = securecookie.GenerateRandomKey(64)
	}

	store := cache.NewRedisStore(cache.GetClient(), secret)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   config.GetSessionMaxAge() * 60,
		HttpOnly: true,
		Secure:   config.IsCookieSecure(),
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// initRouter initializes Gin, registers middleware, the API controllers and
// the client bundle, and returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	// X-Forwarded-For is only honoured from configured proxies, the login
	// limiter keys on the client IP
	if err := engine.SetTrustedProxies(config.GetTrustedProxies()); err != nil {
		return nil, err
	}

	if webDomain := config.GetWebDomain(); webDomain != "" {
		engine.Use(middleware.DomainValidatorMiddleware(webDomain))
	}

	// JSON responses are small, compress only the client bundle
	engine.Use(gzip.Gzip(
		gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{controller.APIPrefix + "/"}),
	))

	engine.Use(locale.LocalizerMiddleware())
	engine.Use(session.Middleware(config.GetSessionCookieName(), newSessionStore()))

	s.api = controller.NewAPIController(
		&engine.RouterGroup,
		database.NewStorage(database.GetDB()),
		config.GetLoginRateLimit(),
	)

	engine.NoRoute(spaHandler(config.GetPublicDir()))

	return engine, nil
}

// spaHandler serves files of the built client and falls back to its
// index.html for client-side routes. Unknown API paths get a JSON 404.
func spaHandler(publicDir string) gin.HandlerFunc {
	index := filepath.Join(publicDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		logger.Warning("client bundle not found, static serving disabled:", err)
		index = ""
	}

	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == controller.APIPrefix || strings.HasPrefix(p, controller.APIPrefix+"/") {
			controller.APINotFound(c)
			return
		}
		if index == "" || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		file := filepath.Join(publicDir, filepath.FromSlash(path.Clean("/"+p)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(index)
	}
}

// startTask schedules the background maintenance jobs.
func (s *Server) startTask() {
	if dbConfig, err := config.GetDatabaseConfig(); err == nil && dbConfig.IsSQLite() {
		s.cron.AddJob("@every 10m", job.NewCheckpointJob())
	}
	if !cache.IsEmbedded() {
		s.cron.AddJob("@every 30s", job.NewCheckRedisJob())
	}
}

// Start initializes and starts the web server. The database must already be
// initialized.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	if err = locale.InitLocalizer(i18nFS); err != nil {
		return err
	}

	if err = cache.InitRedis(config.GetRedisAddr(), config.GetRedisPassword()); err != nil {
		return err
	}

	s.cron = cron.New()
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	certFile := config.GetCertFile()
	keyFile := config.GetKeyFile()

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	if certFile != "" || keyFile != "" {
		if cert, err := tls.LoadX509KeyPair(certFile, keyFile); err == nil {
			cfg := &tls.Config{Certificates: []tls.Certificate{cert}}
			listener = network.NewAutoHttpsListener(listener)
			listener = tls.NewListener(listener, cfg)
			logger.Info("Web server running HTTPS on", listener.Addr())
		} else {
			logger.Error("Error loading certificates:", err)
			logger.Info("Web server running HTTP on", listener.Addr())
		}
	} else {
		logger.Info("Web server running HTTP on", listener.Addr())
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:     engine,
		BaseContext: func(net.Listener) context.Context { return s.ctx },
	}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()

	return nil
}

// Stop gracefully shuts down the web server, the cron jobs and the Redis connection.
func (s *Server) Stop() error {
	defer s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		// also closes the listener
		err1 = s.httpServer.Shutdown(context.Background())
	} else if s.listener != nil {
		err2 = s.listener.Close()
	}
	err3 := cache.Close()
	return common.Combine(err1, err2, err3)
}
