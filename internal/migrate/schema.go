package migrate

import (
	"database/sql"

	"camp-map/internal/logger"
)

// 背景：首次运行自动创建营地元数据、逐年参与记录、策展图片与统计表
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；仅创建最小必需结构
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _camp_meta (
            id SERIAL PRIMARY KEY,
            fid INT,
            name TEXT NOT NULL UNIQUE,
            description TEXT NOT NULL DEFAULT '',
            url TEXT NOT NULL DEFAULT '',
            location_string TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE INDEX IF NOT EXISTS idx_camp_meta_fid ON _camp_meta(fid)`,
		`CREATE TABLE IF NOT EXISTS _camp_years (
            camp_id INT NOT NULL REFERENCES _camp_meta(id),
            year INT NOT NULL,
            uid TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            location_string TEXT NOT NULL DEFAULT '',
            url TEXT NOT NULL DEFAULT '',
            PRIMARY KEY (camp_id, year)
        )`,
		`CREATE TABLE IF NOT EXISTS _camp_images (
            id SERIAL PRIMARY KEY,
            camp_name TEXT NOT NULL,
            filename TEXT NOT NULL,
            source_url TEXT NOT NULL DEFAULT '',
            verdict TEXT NOT NULL,
            curated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            UNIQUE (camp_name, filename)
        )`,
		`CREATE TABLE IF NOT EXISTS _camp_stats_total (
            id INT PRIMARY KEY,
            total_lookups BIGINT NOT NULL DEFAULT 0,
            total_visitors BIGINT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS _camp_stats_daily (
            day DATE PRIMARY KEY,
            lookups BIGINT NOT NULL DEFAULT 0,
            visitors BIGINT NOT NULL DEFAULT 0
        )`,
		`INSERT INTO _camp_stats_total(id, total_lookups, total_visitors)
         VALUES(1, 0, 0)
         ON CONFLICT (id) DO NOTHING`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
