// 数据导入工具：合并历年营地名单并写入 PostgreSQL，可选导出合并 JSON
package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"camp-map/internal/ingest"
	"camp-map/internal/migrate"
	"camp-map/internal/store"
	"camp-map/internal/utils"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	dir := os.Getenv("DATA_DIR")
	if dir == "" {
		dir = "data/camps"
	}
	baseYear := time.Now().Year()
	if s := os.Getenv("BASE_YEAR"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			log.Fatal("BASE_YEAR: ", err)
		}
		baseYear = n
	}

	hist, err := ingest.BuildHistory(dir, baseYear)
	if err != nil {
		log.Fatal(err)
	}

	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := migrate.EnsureSchema(db); err != nil {
		log.Fatal(err)
	}
	st := store.AttachDB(db)
	if err := ingest.ImportHistory(context.Background(), st, hist); err != nil {
		log.Fatal(err)
	}
	log.Println("imported", len(hist), "camps")

	if out := os.Getenv("EXPORT_PATH"); out != "" {
		if err := ingest.ExportJSON(out, hist); err != nil {
			log.Fatal(err)
		}
		log.Println("exported", out)
	}
}
