package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler 支持 http.Handler 接口（用于 /metrics 等）
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// ServeHTTP 附加 X-Request-ID 并记录访问日志（不记录请求体）
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	reqID := req.Header.Get("X-Request-ID")
	if reqID == "" {
		reqID = uuid.NewString()
	}
	w.Header().Set("X-Request-ID", reqID)

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	start := time.Now()
	r.mux.ServeHTTP(rec, req)

	r.logger.Debug("http request",
		zap.String("request_id", reqID),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", rec.status),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// RegisterSubmitRoutes POST /api/submit
func (r *Router) RegisterSubmitRoutes(h *SubmitHandler) {
	r.Handle("/api/submit", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.Submit(w, req)
	})
}

// RegisterPDFRoutes POST /api/pdf
func (r *Router) RegisterPDFRoutes(h *PDFHandler) {
	r.Handle("/api/pdf", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.Generate(w, req)
	})
}

// RegisterAuthRoutes POST /api/auth/verify-session
func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.Handle("/api/auth/verify-session", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.VerifySession(w, req)
	})
	r.Handle("/api/auth/logout", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.Logout(w, req)
	})
}

// RegisterDevSessionRoutes POST /api/auth/dev-session（仅本地联调）
func (r *Router) RegisterDevSessionRoutes(h *AuthHandler) {
	r.Handle("/api/auth/dev-session", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.IssueDevSession(w, req)
	})
}

// RegisterIntakeSessionRoutes 向导草稿 API
func (r *Router) RegisterIntakeSessionRoutes(h *IntakeSessionHandler) {
	r.Handle("/api/intake/pages", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.Pages(w, req)
	})
	r.Handle("/api/intake/sessions", h.ServeHTTP)
	r.Handle("/api/intake/sessions/", h.ServeHTTP)
}

// RegisterAdminApplicationsRoutes 管理端申请列表/详情/导出
func (r *Router) RegisterAdminApplicationsRoutes(h *AdminApplicationsHandler) {
	r.Handle("/admin/api/v1/applications", h.ServeHTTP)
	r.Handle("/admin/api/v1/applications/", h.ServeHTTP)
}

// RegisterHealthRoutes /healthz 与 /metrics（metrics 可为 nil）
func (r *Router) RegisterHealthRoutes(metrics http.Handler) {
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	if metrics != nil {
		r.HandleHandler("/metrics", metrics)
	}
}
