// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"camp-map/internal/api"
	"camp-map/internal/curator"
	"camp-map/internal/geo"
	"camp-map/internal/localdb"
	"camp-map/internal/logger"
	"camp-map/internal/metrics"
	"camp-map/internal/middleware"
	"camp-map/internal/migrate"
	"camp-map/internal/store"
	"camp-map/internal/utils"
	"camp-map/internal/version"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	// 日志初始化
	l := logger.Setup()
	l.Debug("log_init_ok")
	apiBase := os.Getenv("API_BASE")
	if apiBase == "" {
		apiBase = "/api"
	}
	l.Debug("config_api_base", "base", apiBase)
	ui := os.Getenv("UI_DIST")
	if ui == "" {
		ui = filepath.Join("ui", "dist")
	}
	l.Debug("config_ui_dir", "dir", ui)

	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	l.Info("db_open_ok")
	if err := db.Ping(); err != nil {
		l.Error("db_ping_error", "err", err)
	} else {
		l.Info("db_ping_ok")
	}
	st := store.AttachDB(db)
	if err := migrate.EnsureSchema(db); err != nil {
		l.Error("schema_error", "err", err)
		os.Exit(1)
	}

	rc := utils.OpenRedisFromEnv()
	if rc == nil {
		l.Info("redis_disabled")
	} else {
		if err := rc.Ping(context.Background()).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
	}

	// 边界数据与标注：启动时一次性加载为只读快照
	outlinePath := os.Getenv("CAMP_OUTLINES")
	if outlinePath == "" {
		outlinePath = filepath.Join("data", "geo", "camp_outlines.json")
	}
	labelPath := os.Getenv("CAMP_LABELS")
	if labelPath == "" {
		labelPath = filepath.Join("data", "geo", "camp_labels.json")
	}
	l.Debug("config_geo_paths", "outlines", outlinePath, "labels", labelPath)
	snap, err := geo.LoadSnapshot(outlinePath, labelPath)
	if err != nil {
		l.Error("snapshot_load_error", "err", err)
		os.Exit(1)
	}
	l.Info("snapshot_ready", "features", len(snap.Features), "labels", len(snap.Labels))

	dict, err := localdb.BuildFromDB(db, snap.Labels)
	if err != nil {
		// 空库也要能跑：字典缺失时定位端点仅返回 FID 与名字
		l.Error("campdict_build_error", "err", err)
		dict = nil
	} else {
		l.Info("campdict_ready", "camps", dict.Len())
	}

	lc := geo.NewLocator(snap)

	candidatesDir := os.Getenv("CANDIDATES_DIR")
	if candidatesDir == "" {
		candidatesDir = filepath.Join("data", "candidates")
	}
	scrapeState := os.Getenv("SCRAPE_STATE")
	if scrapeState == "" {
		scrapeState = filepath.Join("data", "download_state.json")
	}
	var cur *curator.Curator
	if _, err := os.Stat(scrapeState); err == nil {
		cur = curator.New(candidatesDir, scrapeState)
		l.Info("curator_ready", "state", scrapeState)
	} else {
		l.Info("curator_disabled", "reason", "no_scrape_state")
	}

	mux := http.NewServeMux()
	apiMux := api.BuildRoutes(st, rc, lc, dict, cur)
	mux.Handle(apiBase+"/", http.StripPrefix(apiBase, apiMux))
	mux.Handle(apiBase+"/metrics", metrics.Handler())

	fs := http.FileServer(http.Dir(ui))
	mux.Handle("/", fs)

	// NOTE: 向前端暴露 API 基础路径，避免硬编码；生产环境由后端统一提供
	mux.HandleFunc("/config.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write([]byte("window.__API_BASE__='" + apiBase + "'"))
		_, _ = w.Write([]byte("\n"))
		_, _ = w.Write([]byte("window.__APP_VERSION__='" + version.Version + "'"))
	})

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.Wrap(handler)
	s := &http.Server{Addr: addr, Handler: handler}
	if os.Getenv("TLS_ENABLE") == "true" {
		certPath := os.Getenv("TLS_CERT_PATH")
		keyPath := os.Getenv("TLS_KEY_PATH")
		if certPath == "" {
			certPath = filepath.Join("data", "certs", "server.crt")
		}
		if keyPath == "" {
			keyPath = filepath.Join("data", "certs", "server.key")
		}
		_ = utils.EnsureSelfSignedCert(certPath, keyPath, "camp-map.local")
		l.Info("listening_tls", "addr", addr, "cert", certPath)
		_ = s.ListenAndServeTLS(certPath, keyPath)
		return
	}
	l.Info("listening", "addr", addr)
	_ = s.ListenAndServe()
}
