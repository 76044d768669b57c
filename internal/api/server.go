// Package api is the console's HTTP surface. Every open page is a session mounted
// in a registry; handlers drive the page and answer with its current view.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"ats-console/internal/common/logger"
	"ats-console/internal/common/observability"
	"ats-console/internal/inbox"
	"ats-console/internal/jobs"
	"ats-console/internal/modal"
	"ats-console/internal/notice"
	"ats-console/internal/pipeline"
	"ats-console/internal/schedule"
	"ats-console/internal/verification"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the services the pages are built from.
type Deps struct {
	Home          jobs.HomeDeps
	Applications  *jobs.Applications
	Pipeline      pipeline.Deps
	Inbox         *inbox.Service
	Schedule      *schedule.Service
	Verification  *verification.Service
	Observability *observability.Observability
	Logger        logger.Logger

	// Ready reports whether the dependencies the console needs are reachable.
	Ready       func(ctx context.Context) error
	AllowOrigin string
	// MaxMultipartMemory caps the in-memory part of multipart bodies.
	MaxMultipartMemory int64
	// SessionIdleTimeout tears down pages nobody has touched for that long.
	// Zero keeps pages until they are deleted.
	SessionIdleTimeout time.Duration
}

type Server struct {
	deps   Deps
	engine *gin.Engine

	home      *pageKind[*jobs.HomePage]
	jobPages  *pageKind[*pipeline.Page]
	inbox     *pageKind[*inbox.Page]
	schedules *pageKind[*schedule.Page]

	stop      chan struct{}
	closeOnce sync.Once
	janitors  sync.WaitGroup
}

func NewServer(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	s := &Server{
		deps: deps,
		home: &pageKind[*jobs.HomePage]{
			name:     "home",
			registry: modal.NewRegistry[*jobs.HomePage]("home"),
			view:     func(p *jobs.HomePage) interface{} { return p.View() },
			notices:  func(p *jobs.HomePage) *notice.Center { return p.Notices },
			close:    (*jobs.HomePage).Close,
		},
		jobPages: &pageKind[*pipeline.Page]{
			name:     "jobs",
			registry: modal.NewRegistry[*pipeline.Page]("jobs"),
			view:     func(p *pipeline.Page) interface{} { return p.View() },
			notices:  func(p *pipeline.Page) *notice.Center { return p.Notices },
			close:    (*pipeline.Page).Close,
		},
		inbox: &pageKind[*inbox.Page]{
			name:     "inbox",
			registry: modal.NewRegistry[*inbox.Page]("inbox"),
			view:     func(p *inbox.Page) interface{} { return p.View() },
			notices:  func(p *inbox.Page) *notice.Center { return p.Notices },
			close:    (*inbox.Page).Close,
		},
		schedules: &pageKind[*schedule.Page]{
			name:     "schedule",
			registry: modal.NewRegistry[*schedule.Page]("schedule"),
			view:     func(p *schedule.Page) interface{} { return p.View() },
			notices:  func(p *schedule.Page) *notice.Center { return p.Notices },
		},
	}
	s.engine = s.routes()
	s.stop = make(chan struct{})
	if deps.SessionIdleTimeout > 0 {
		s.startJanitors(deps.SessionIdleTimeout)
	}
	return s
}

// sweepInterval is how often idle pages are looked for.
func sweepInterval(idle time.Duration) time.Duration {
	return min(max(idle/4, time.Millisecond), time.Minute)
}

func (s *Server) startJanitors(idle time.Duration) {
	interval := sweepInterval(idle)
	onExpire := func(kind string, n int) {
		s.deps.Logger.Info("Expired idle pages", map[string]interface{}{"kind": kind, "count": n})
	}
	for _, run := range []func(){
		func() { s.home.registry.Janitor(idle, interval, s.stop, onExpire) },
		func() { s.jobPages.registry.Janitor(idle, interval, s.stop, onExpire) },
		func() { s.inbox.registry.Janitor(idle, interval, s.stop, onExpire) },
		func() { s.schedules.registry.Janitor(idle, interval, s.stop, onExpire) },
	} {
		s.janitors.Add(1)
		go func(run func()) {
			defer s.janitors.Done()
			run()
		}(run)
	}
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	if s.deps.MaxMultipartMemory > 0 {
		r.MaxMultipartMemory = s.deps.MaxMultipartMemory
	}
	r.Use(recovery(s.deps.Logger), requestLogger(s.deps.Logger), requestMetrics(), corsMiddleware(s.deps.AllowOrigin), forwardCookies())

	r.GET("/health", s.health)
	r.GET("/ready", s.ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	home := r.Group("/pages/home")
	home.POST("", s.createHome)
	s.home.register(home)
	home.POST("/:id/reload", s.reloadHome)
	home.POST("/:id/jobs", s.createJob)
	home.POST("/:id/jobs/:jobId/edit", s.openEditJob)
	home.PUT("/:id/jobs/:jobId", s.updateJob)
	home.DELETE("/:id/jobs/:jobId", s.deleteJob)

	// On creation :id is the job id; on every other route it is the page id.
	jp := r.Group("/pages/jobs")
	jp.POST("/:id", s.createJobPage)
	s.jobPages.register(jp)
	jp.POST("/:id/reload", s.reloadJobPage)
	jp.POST("/:id/verify", s.verify)
	jp.POST("/:id/scheduling", s.openScheduling)
	jp.POST("/:id/interviews", s.scheduleInterview)
	jp.POST("/:id/filter/open", s.openFilter)
	jp.PUT("/:id/filter", s.saveFilter)
	jp.POST("/:id/filter/refine", s.refineFilter)
	jp.POST("/:id/uploads", s.addUploads)
	jp.DELETE("/:id/uploads/:index", s.removeUpload)
	jp.POST("/:id/uploads/submit", s.submitUploads)
	jp.GET("/:id/export", s.exportBoard)

	ib := r.Group("/pages/inbox")
	ib.POST("", s.createInbox)
	s.inbox.register(ib)
	ib.POST("/:id/refresh", s.refreshInbox)
	ib.POST("/:id/senders/select", s.selectSender)
	ib.POST("/:id/threads/:threadId/select", s.selectThread)
	ib.POST("/:id/back", s.back)
	ib.POST("/:id/reply", s.reply)
	ib.POST("/:id/compose", s.compose)
	ib.DELETE("/:id/threads/:threadId", s.deleteThread)

	sc := r.Group("/pages/schedule")
	sc.POST("", s.createSchedule)
	s.schedules.register(sc)
	sc.GET("/:id/events", s.listEvents)
	sc.POST("/:id/events", s.createEvent)

	r.POST("/availability", s.addAvailability)
	r.PUT("/applications/status", s.updateApplicationStatus)
	r.POST("/verification/submit", s.submitVerification)

	return r
}

// Close stops the idle sweeps and tears down every mounted page.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.stop) })
	s.janitors.Wait()
	s.home.registry.Close()
	s.jobPages.registry.Close()
	s.inbox.registry.Close()
	s.schedules.registry.Close()
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) ready(c *gin.Context) {
	if s.deps.Ready != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := s.deps.Ready(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
