package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry 创建注册了Collector和进程指标的Registry
func NewRegistry(c *Collector) (*prometheus.Registry, error) {
	r := prometheus.NewRegistry()

	for _, col := range []prometheus.Collector{
		c,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := r.Register(col); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Handler 返回/metrics处理器
func Handler(r *prometheus.Registry, l *slog.Logger) http.Handler {
	opts := promhttp.HandlerOpts{
		ErrorLog:          slog.NewLogLogger(l.Handler(), slog.LevelError),
		ErrorHandling:     promhttp.ContinueOnError,
		Registry:          r,
		EnableOpenMetrics: true,
	}

	return promhttp.InstrumentMetricHandler(r, promhttp.HandlerFor(r, opts))
}

// Server 是指标HTTP服务
type Server struct {
	lis     net.Listener
	handler http.Handler
	l       *slog.Logger
}

// Listen 在addr上监听，addr端口为0时由系统分配
func Listen(addr string, r *prometheus.Registry, l *slog.Logger) (*Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(r, l))
	mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/" {
			http.NotFound(w, req)
			return
		}
		http.Redirect(w, req, "/metrics", http.StatusFound)
	})

	return &Server{
		lis:     lis,
		handler: mux,
		l:       l.With("component", "metrics"),
	}, nil
}

// Addr 返回实际监听地址
func (s *Server) Addr() net.Addr {
	return s.lis.Addr()
}

// Serve 运行服务直到ctx取消
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.l.Handler(), slog.LevelError),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	s.l.Info("指标服务已启动", "addr", "http://"+s.lis.Addr().String()+"/metrics")

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()

		// ctx已取消，使用新的context做关闭
		sctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := srv.Shutdown(sctx); err != nil {
			s.l.Warn("关闭指标服务失败", "error", err)
		}
	}()

	if err := srv.Serve(s.lis); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-stopped

	s.l.Info("指标服务已停止")
	return nil
}
