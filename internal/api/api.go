// 包 api：集中注册 HTTP API 路由以解耦主入口，便于后续扩展与替换
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sort"
	"strconv"
	"time"

	"camp-map/internal/curator"
	"camp-map/internal/geo"
	"camp-map/internal/localdb"
	"camp-map/internal/logger"
	"camp-map/internal/metrics"
	"camp-map/internal/store"
	"camp-map/internal/version"

	"github.com/redis/go-redis/v9"
)

// locateResponse：定位查询的对外结构
// 约束：未命中时仅 ok=false，其余字段省略；字段稳定，新增需评估前端依赖
type locateResponse struct {
	OK             bool   `json:"ok"`
	FID            int    `json:"fid,omitempty"`
	Name           string `json:"name,omitempty"`
	Description    string `json:"description,omitempty"`
	LocationString string `json:"location_string,omitempty"`
	URL            string `json:"url,omitempty"`
	Years          []int  `json:"years,omitempty"`
}

// campResponse：营地详情（含逐年历史）
type campResponse struct {
	FID            int               `json:"fid,omitempty"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	LocationString string            `json:"location_string,omitempty"`
	URL            string            `json:"url,omitempty"`
	Years          []int             `json:"years,omitempty"`
	History        []store.YearEntry `json:"history,omitempty"`
}

// envFloat：带默认值的浮点环境变量读取
func envFloat(key string, def float64) float64 {
	if s := os.Getenv(key); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return def
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// enrich：用内存字典补全定位结果的展示字段
func enrich(res geo.LocateResult, dict *localdb.Cache) locateResponse {
	out := locateResponse{OK: res.OK, FID: res.FID, Name: res.Name}
	if !res.OK || dict == nil {
		return out
	}
	c, ok := dict.LookupFID(res.FID)
	if !ok && res.Name != "" {
		c, ok = dict.Lookup(res.Name)
	}
	if ok {
		out.Description = c.Description
		out.LocationString = c.LocationString
		out.URL = c.URL
		out.Years = c.Years
	}
	return out
}

// BuildRoutes：构建并返回 API 路由，独立 ServeMux 便于在主入口挂载到 /api 前缀
// 约束：st/rc/dict/cur 均可为 nil，对应能力降级而非报错；lc 必须非空
func BuildRoutes(st *store.Store, rc *redis.Client, lc *geo.Locator, dict *localdb.Cache, cur *curator.Curator) *http.ServeMux {
	cacheTTL := 600
	if s := os.Getenv("LOCATE_CACHE_TTL_S"); s != "" {
		if n, e := strconv.Atoi(s); e == nil && n > 0 {
			cacheTTL = n
		}
	}

	apiMux := http.NewServeMux()

	apiMux.HandleFunc("/locate", func(w http.ResponseWriter, r *http.Request) {
		metrics.RequestsTotal.Inc()
		metrics.LocateRequestsTotal.Inc()
		t0 := time.Now()
		defer func() {
			metrics.LocateDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
		}()
		ctx := r.Context()
		lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
		lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		if errLon != nil || errLat != nil {
			writeErr(w, http.StatusBadRequest, "lon/lat must be floats")
			return
		}
		countLookup := func() {
			if st == nil {
				return
			}
			ip := getVisitorIP(r)
			go func() {
				bg, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				_ = st.IncrStats(bg, visitorFirstSeen(bg, rc, ip))
			}()
		}
		key := "locate:" + lc.CacheKey(lon, lat)
		if rc != nil {
			if s, _ := rc.Get(ctx, key).Result(); s != "" {
				metrics.RedisHitsTotal.Inc()
				var out locateResponse
				_ = json.Unmarshal([]byte(s), &out)
				countLookup()
				writeJSON(w, http.StatusOK, out)
				return
			}
			metrics.RedisMissesTotal.Inc()
		}
		res := lc.Query(lon, lat)
		if res.OK {
			metrics.LocateHitsTotal.Inc()
		} else {
			metrics.LocateMissesTotal.Inc()
		}
		out := enrich(res, dict)
		if rc != nil {
			if b, err := json.Marshal(out); err == nil {
				rc.Set(ctx, key, string(b), time.Duration(cacheTTL)*time.Second)
			}
		}
		countLookup()
		writeJSON(w, http.StatusOK, out)
	})

	apiMux.HandleFunc("/camps", func(w http.ResponseWriter, r *http.Request) {
		metrics.RequestsTotal.Inc()
		labels := lc.Snapshot().Labels
		type entry struct {
			FID  int    `json:"fid"`
			Name string `json:"name"`
		}
		out := make([]entry, 0, len(labels))
		for fid, name := range labels {
			out = append(out, entry{FID: fid, Name: name})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].FID < out[j].FID })
		writeJSON(w, http.StatusOK, out)
	})

	apiMux.HandleFunc("/camp", func(w http.ResponseWriter, r *http.Request) {
		metrics.RequestsTotal.Inc()
		ctx := r.Context()
		q := r.URL.Query()
		var c localdb.Camp
		var ok bool
		if dict != nil {
			if s := q.Get("fid"); s != "" {
				if fid, err := strconv.Atoi(s); err == nil {
					c, ok = dict.LookupFID(fid)
				}
			} else if name := q.Get("name"); name != "" {
				c, ok = dict.Lookup(name)
			}
		}
		if !ok {
			writeErr(w, http.StatusNotFound, "camp not found")
			return
		}
		out := campResponse{
			FID:            c.FID,
			Name:           c.Name,
			Description:    c.Description,
			LocationString: c.LocationString,
			URL:            c.URL,
			Years:          c.Years,
		}
		if st != nil {
			if hist, err := st.History(ctx, c.ID); err == nil {
				out.History = hist
			} else {
				logger.L().Debug("camp_history_error", "camp", c.Name, "err", err)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})

	apiMux.HandleFunc("/map-config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]float64{
			"center_lon": envFloat("MAP_CENTER_LON", -119.22),
			"center_lat": envFloat("MAP_CENTER_LAT", 40.782),
			"scale":      envFloat("MAP_SCALE", 5000),
			"min_scale":  envFloat("MAP_MIN_SCALE", 500),
			"max_scale":  envFloat("MAP_MAX_SCALE", 500000),
		})
	})

	apiMux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		metrics.RequestsTotal.Inc()
		var t store.Totals
		if st != nil {
			t, _ = st.GetTotals(r.Context())
		}
		writeJSON(w, http.StatusOK, map[string]any{"total": t.Total, "today": t.Today})
	})

	apiMux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": version.Version})
	})

	apiMux.HandleFunc("/next-camp", func(w http.ResponseWriter, r *http.Request) {
		metrics.RequestsTotal.Inc()
		if cur == nil {
			writeErr(w, http.StatusServiceUnavailable, "curation disabled")
			return
		}
		name, pending, err := cur.NextCamp()
		if err != nil {
			logger.L().Error("next_camp_error", "err", err)
			writeErr(w, http.StatusInternalServerError, "curation state unreadable")
			return
		}
		if name == "" {
			writeJSON(w, http.StatusOK, map[string]any{"done": true})
			return
		}
		out := map[string]any{"done": false, "name": name, "images": pending}
		if dict != nil {
			if c, ok := dict.Lookup(name); ok {
				out["description"] = c.Description
			}
		}
		writeJSON(w, http.StatusOK, out)
	})

	apiMux.HandleFunc("/curate", func(w http.ResponseWriter, r *http.Request) {
		metrics.RequestsTotal.Inc()
		if r.Method != http.MethodPost {
			writeErr(w, http.StatusMethodNotAllowed, "POST only")
			return
		}
		if cur == nil {
			writeErr(w, http.StatusServiceUnavailable, "curation disabled")
			return
		}
		var req struct {
			Name     string            `json:"name"`
			Verdicts map[string]string `json:"verdicts"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || len(req.Verdicts) == 0 {
			writeErr(w, http.StatusBadRequest, "name and verdicts required")
			return
		}
		if err := cur.Curate(req.Name, req.Verdicts); err != nil {
			logger.L().Error("curate_error", "camp", req.Name, "err", err)
			writeErr(w, http.StatusInternalServerError, "curation failed")
			return
		}
		for file, v := range req.Verdicts {
			metrics.CurateTotal.WithLabelValues(v).Inc()
			if st != nil {
				if err := st.RecordCuration(r.Context(), req.Name, file, "", v); err != nil {
					logger.L().Debug("curation_record_error", "camp", req.Name, "file", file, "err", err)
				}
			}
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	return apiMux
}
