// 图片抓取工具：遍历基准年名单抓取各营地官网的候选图片
// 背景：长任务，随时可 Ctrl-C；状态文件记录进度，重跑自动跳过已处理营地。
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"time"

	"camp-map/internal/ingest"
	"camp-map/internal/scraper"

	"github.com/joho/godotenv"
)

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func main() {
	_ = godotenv.Load(".env")
	dir := os.Getenv("DATA_DIR")
	if dir == "" {
		dir = "data/camps"
	}
	baseYear := envInt("BASE_YEAR", time.Now().Year())
	camps, err := ingest.LoadYear(dir, baseYear)
	if err != nil {
		log.Fatal(err)
	}

	outDir := os.Getenv("CANDIDATES_DIR")
	if outDir == "" {
		outDir = "data/candidates"
	}
	statePath := os.Getenv("SCRAPE_STATE")
	if statePath == "" {
		statePath = "data/download_state.json"
	}
	s := scraper.New(scraper.Config{
		OutDir:    outDir,
		StatePath: statePath,
		Delay:     time.Duration(envInt("SCRAPE_DELAY_MS", 2000)) * time.Millisecond,
		MaxImages: envInt("SCRAPE_MAX_IMAGES", 128),
		MinBytes:  int64(envInt("SCRAPE_MIN_BYTES", 4096)),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// SCRAPE_LIMIT 用于小批量试跑
	limit := envInt("SCRAPE_LIMIT", 0)
	done := 0
	for _, c := range camps {
		if limit > 0 && done >= limit {
			break
		}
		if ctx.Err() != nil {
			log.Println("interrupted, state saved")
			return
		}
		if c.URL == "" {
			continue
		}
		if s.Processed(c.Name) {
			continue
		}
		saved, err := s.ScrapeCamp(ctx, c.Name, c.URL)
		if err != nil {
			log.Println("scrape failed:", c.Name, err)
			continue
		}
		log.Println("scraped", c.Name, "images", saved)
		done++
	}
	log.Println("done,", done, "camps processed")
}
