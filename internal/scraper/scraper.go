// 包 scraper：营地站点的候选图片抓取器
// 背景：遍历营地官网页面收集 <img> 图片构建候选图库；可随时中断，状态文件保证续跑。
// 约束：对同一域名保持礼貌间隔；失败重试带倍增退避；以 Content-Type 与字节数过滤
// 图标类小图；单营地图片数设上限。
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"camp-map/internal/curator"
	"camp-map/internal/logger"
	"camp-map/internal/metrics"

	"golang.org/x/net/html"
)

const userAgent = "camp-map-image-scraper/1.0 (educational project)"

type Scraper struct {
	client     *http.Client
	outDir     string
	statePath  string
	delay      time.Duration
	maxRetries int
	maxImages  int
	minBytes   int64

	mu        sync.Mutex
	lastFetch map[string]time.Time
}

// Option 式参数在此规模下显得铺张，直接用结构体配置
type Config struct {
	OutDir     string
	StatePath  string
	Delay      time.Duration // 同域名请求间隔
	MaxRetries int
	MaxImages  int   // 单营地上限
	MinBytes   int64 // 小于该字节数的图片按图标丢弃
}

func New(cfg Config) *Scraper {
	if cfg.Delay <= 0 {
		cfg.Delay = 2 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.MaxImages <= 0 {
		cfg.MaxImages = 128
	}
	if cfg.MinBytes <= 0 {
		cfg.MinBytes = 4096
	}
	return &Scraper{
		client:     &http.Client{Timeout: 20 * time.Second},
		outDir:     cfg.OutDir,
		statePath:  cfg.StatePath,
		delay:      cfg.Delay,
		maxRetries: cfg.MaxRetries,
		maxImages:  cfg.MaxImages,
		minBytes:   cfg.MinBytes,
		lastFetch:  map[string]time.Time{},
	}
}

// politeWait：保证对同一域名的请求间隔
func (s *Scraper) politeWait(host string) {
	s.mu.Lock()
	last, ok := s.lastFetch[host]
	now := time.Now()
	if ok {
		if wait := s.delay - now.Sub(last); wait > 0 {
			s.mu.Unlock()
			time.Sleep(wait)
			s.mu.Lock()
		}
	}
	s.lastFetch[host] = time.Now()
	s.mu.Unlock()
}

// Fetch：带重试与退避的 GET
// 返回：响应体、Content-Type；重试耗尽后返回最后一次错误
func (s *Scraper) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", err
	}
	backoff := time.Second
	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		s.politeWait(u.Host)
		metrics.ScrapeFetchTotal.Inc()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, "", err
		}
		req.Header.Set("User-Agent", userAgent)
		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("%s: status %d", rawURL, resp.StatusCode)
			// 4xx 重试无意义，直接放弃
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				break
			}
			continue
		}
		b, err := io.ReadAll(resp.Body)
		ct := resp.Header.Get("Content-Type")
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return b, ct, nil
	}
	metrics.ScrapeFetchFailTotal.Inc()
	return nil, "", lastErr
}

// ExtractImageURLs：从页面 HTML 中提取 <img src>，相对地址按页面地址解析
// 约束：仅保留 http/https；去重并保持文档顺序
func ExtractImageURLs(pageURL string, body []byte) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			for _, a := range n.Attr {
				if a.Key != "src" || a.Val == "" {
					continue
				}
				ref, err := url.Parse(a.Val)
				if err != nil {
					continue
				}
				abs := base.ResolveReference(ref)
				if abs.Scheme != "http" && abs.Scheme != "https" {
					continue
				}
				u := abs.String()
				if !seen[u] {
					seen[u] = true
					out = append(out, u)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

// extFromURL：从图片地址推断扩展名，无法判断时回退 .jpg
func extFromURL(u string) string {
	ext := strings.ToLower(path.Ext(u))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	}
	return ".jpg"
}

// ScrapeCamp：抓取单个营地站点并落盘候选图片与元数据
// 返回：实际保存的图片数
func (s *Scraper) ScrapeCamp(ctx context.Context, campName, siteURL string) (int, error) {
	body, _, err := s.Fetch(ctx, siteURL)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", siteURL, err)
	}
	urls := ExtractImageURLs(siteURL, body)
	logger.L().Debug("scrape_page_done", "camp", campName, "candidates", len(urls))

	campDir := filepath.Join(s.outDir, campName)
	if err := os.MkdirAll(campDir, 0o755); err != nil {
		return 0, err
	}
	meta := &curator.Metadata{}
	saved := 0
	for _, imgURL := range urls {
		if saved >= s.maxImages {
			break
		}
		if err := ctx.Err(); err != nil {
			return saved, err
		}
		b, ct, err := s.Fetch(ctx, imgURL)
		if err != nil {
			logger.L().Debug("scrape_image_skip", "url", imgURL, "err", err)
			continue
		}
		if !strings.HasPrefix(ct, "image/") {
			continue
		}
		if int64(len(b)) < s.minBytes {
			continue
		}
		name := fmt.Sprintf("%03d%s", saved+1, extFromURL(imgURL))
		if err := os.WriteFile(filepath.Join(campDir, name), b, 0o644); err != nil {
			return saved, err
		}
		meta.Images = append(meta.Images, curator.ImageMeta{Filename: name, SourceURL: imgURL})
		saved++
	}
	mb, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return saved, err
	}
	if err := os.WriteFile(filepath.Join(campDir, "metadata.json"), mb, 0o644); err != nil {
		return saved, err
	}

	st, err := curator.LoadScrapeState(s.statePath)
	if err != nil {
		return saved, err
	}
	cs, ok := st.Camps[campName]
	if !ok {
		cs = &curator.CampState{}
		st.Camps[campName] = cs
	}
	cs.ImagesDownloaded = saved
	cs.LastProcessed = time.Now().UTC().Format(time.RFC3339)
	if err := curator.SaveScrapeState(s.statePath, st); err != nil {
		return saved, err
	}
	logger.L().Info("scrape_camp_done", "camp", campName, "saved", saved)
	return saved, nil
}

// Processed：该营地是否已在状态文件中有抓取记录
func (s *Scraper) Processed(campName string) bool {
	st, err := curator.LoadScrapeState(s.statePath)
	if err != nil {
		return false
	}
	cs, ok := st.Camps[campName]
	return ok && cs.LastProcessed != ""
}
