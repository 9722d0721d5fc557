package rpc

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	xctx "github.com/xuperchain/xcampaign/kernel/common/xcontext"
	ecom "github.com/xuperchain/xcampaign/kernel/engines/xuperos/common"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/def"
	"github.com/xuperchain/xcampaign/lib/logs"
	"github.com/xuperchain/xcampaign/lib/metrics"
	"github.com/xuperchain/xcampaign/lib/utils"
	"github.com/xuperchain/xcampaign/server/common"
	sconf "github.com/xuperchain/xcampaign/server/config"
	sctx "github.com/xuperchain/xcampaign/server/context"
)

type RpcServ struct {
	scfg   *sconf.ServConf
	engine def.Engine
	log    logs.Logger
	router chi.Router
}

func NewRpcServ(scfg *sconf.ServConf, engine def.Engine, log logs.Logger) *RpcServ {
	t := &RpcServ{
		scfg:   scfg,
		engine: engine,
		log:    log,
	}
	t.router = t.newRouter()
	return t
}

func (t *RpcServ) Handler() http.Handler {
	return t.router
}

func (t *RpcServ) newRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP, t.access, middleware.Recoverer)

	r.Get("/healthz", t.CheckAlive)
	if t.scfg.MetricPath != "" {
		r.Handle(t.scfg.MetricPath, promhttp.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/tx", t.SubmitTx)
		r.Get("/tx/{txHash}", t.QueryTx)
		r.Post("/query", t.Query)

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", t.ListCampaigns)
			r.Route("/{campaign}", func(r chi.Router) {
				r.Get("/", t.GetCampaign)
				r.Get("/summary", t.GetSummary)
				r.Get("/requests/{index}", t.GetRequest)
				r.Get("/requests/{index}/approvals/{address}", t.GetApprovalStatus)
				r.Get("/contributors/{address}", t.CheckContributor)
				r.Get("/events", t.ListEvents)
			})
		})

		r.Get("/events", t.RecentEvents)
		r.Get("/accounts/{address}/balance", t.GetBalance)
	})
	return r
}

// access 初始化请求上下文，输出访问日志和接口监控
func (t *RpcServ) access(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqId := r.Header.Get(common.HeaderRequestId)
		if reqId == "" {
			reqId = uuid.NewString()
		}
		w.Header().Set(common.HeaderRequestId, reqId)

		rctx, err := sctx.NewReqCtx(t.engine, reqId, clientIp(r))
		if err != nil {
			t.log.Error("access proc failed because create request context failed", "error", err)
			http.Error(w, "create request context failed", http.StatusInternalServerError)
			return
		}
		rctx.GetLog().Trace("access request", "client_ip", rctx.GetClientIp(),
			"method", r.Method, "path", r.URL.Path)

		begin := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(sctx.WithReqCtx(r.Context(), rctx)))

		pattern := "unknown"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			pattern = r.Method + " " + rc.RoutePattern()
		}
		metrics.CallMethodCounter.WithLabelValues(pattern, strconv.Itoa(ww.Status())).Inc()
		metrics.CallMethodHistogram.WithLabelValues(pattern).Observe(time.Since(begin).Seconds())

		rctx.GetLog().Info("request done", "client_ip", rctx.GetClientIp(), "route", pattern,
			"status", ww.Status(), "cost_time", rctx.GetTimer().Print())
	})
}

func clientIp(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// genXctx 由请求上下文生成引擎调用上下文
func genXctx(rctx sctx.ReqCtx) xctx.XContext {
	return &xctx.BaseCtx{
		XLog:  rctx.GetLog(),
		Timer: rctx.GetTimer(),
	}
}

func (t *RpcServ) defRespHeader(rctx sctx.ReqCtx) *common.RespHeader {
	return &common.RespHeader{
		LogId:   rctx.GetReqId(),
		TraceId: utils.GetHostName(),
	}
}

func (t *RpcServ) reply(w http.ResponseWriter, rctx sctx.ReqCtx, data interface{}) {
	resp := &common.BaseResp{Header: t.defRespHeader(rctx), Data: data}
	writeJSON(w, http.StatusOK, resp)
}

func (t *RpcServ) fail(w http.ResponseWriter, rctx sctx.ReqCtx, err error) {
	cerr := ecom.CastError(err)
	resp := &common.BaseResp{Header: t.defRespHeader(rctx)}
	resp.Header.Error = cerr.Code
	resp.Header.Msg = cerr.Msg
	rctx.GetLog().Info("request failed", "code", cerr.Code, "msg", cerr.Msg)
	writeJSON(w, httpStatus(cerr), resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func httpStatus(err *ecom.Error) int {
	switch {
	case err.Equal(ecom.ErrTxNotExist), err.Equal(ecom.ErrContractNotExist):
		return http.StatusNotFound
	case err.Equal(ecom.ErrTxAlreadyExist):
		return http.StatusConflict
	case err.Equal(ecom.ErrCampaignUnauthorized), err.Equal(ecom.ErrTxVerifyFailed):
		return http.StatusForbidden
	case err.Equal(ecom.ErrEngineStopped):
		return http.StatusServiceUnavailable
	case err.Status == ecom.ErrStatusRefused:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
