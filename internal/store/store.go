// 包 store：提供与 PostgreSQL 的数据访问层，包含营地元数据、逐年历史、策展记录与统计读写
package store

import (
	"context"
	"database/sql"

	"camp-map/internal/logger"

	_ "github.com/lib/pq"
)

// Store：数据库访问入口，持有连接池并提供查询/统计接口
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

// Open：使用 DSN 打开数据库连接并配置连接池参数
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// Camp：营地元数据；FID 为边界数据集内的整数标识，0 表示未关联边界
type Camp struct {
	ID             int
	FID            int
	Name           string
	Description    string
	URL            string
	LocationString string
}

// YearEntry：某一年的参与记录
type YearEntry struct {
	Year           int    `json:"year"`
	UID            string `json:"uid"`
	Description    string `json:"description"`
	LocationString string `json:"location_string"`
	URL            string `json:"url"`
}

// UpsertCamp：按营地名写入或更新元数据，返回主键 id
func (s *Store) UpsertCamp(ctx context.Context, c Camp) (int, error) {
	var fid sql.NullInt64
	if c.FID != 0 {
		fid = sql.NullInt64{Int64: int64(c.FID), Valid: true}
	}
	var id int
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO _camp_meta(fid, name, description, url, location_string)
         VALUES($1,$2,$3,$4,$5)
         ON CONFLICT (name) DO UPDATE SET
           fid=COALESCE(EXCLUDED.fid, _camp_meta.fid),
           description=EXCLUDED.description,
           url=EXCLUDED.url,
           location_string=EXCLUDED.location_string
         RETURNING id`,
		fid, c.Name, c.Description, c.URL, c.LocationString).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpsertYear：写入某营地某一年的参与记录；重复年份覆盖
func (s *Store) UpsertYear(ctx context.Context, campID int, y YearEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO _camp_years(camp_id, year, uid, description, location_string, url)
         VALUES($1,$2,$3,$4,$5,$6)
         ON CONFLICT (camp_id, year) DO UPDATE SET
           uid=EXCLUDED.uid,
           description=EXCLUDED.description,
           location_string=EXCLUDED.location_string,
           url=EXCLUDED.url`,
		campID, y.Year, y.UID, y.Description, y.LocationString, y.URL)
	return err
}

func (s *Store) scanCamp(row *sql.Row) (*Camp, error) {
	var c Camp
	var fid sql.NullInt64
	if err := row.Scan(&c.ID, &fid, &c.Name, &c.Description, &c.URL, &c.LocationString); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if fid.Valid {
		c.FID = int(fid.Int64)
	}
	return &c, nil
}

// CampByName：按营地名查询元数据；未找到返回 (nil, nil)
func (s *Store) CampByName(ctx context.Context, name string) (*Camp, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, fid, name, description, url, location_string FROM _camp_meta WHERE name=$1", name)
	return s.scanCamp(row)
}

// CampByFID：按边界标识查询元数据；未找到返回 (nil, nil)
func (s *Store) CampByFID(ctx context.Context, fid int) (*Camp, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, fid, name, description, url, location_string FROM _camp_meta WHERE fid=$1 LIMIT 1", fid)
	return s.scanCamp(row)
}

// History：按年份降序返回某营地的历年参与记录
func (s *Store) History(ctx context.Context, campID int) ([]YearEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT year, uid, description, location_string, url FROM _camp_years WHERE camp_id=$1 ORDER BY year DESC", campID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []YearEntry
	for rows.Next() {
		var y YearEntry
		if err := rows.Scan(&y.Year, &y.UID, &y.Description, &y.LocationString, &y.URL); err != nil {
			return nil, err
		}
		out = append(out, y)
	}
	return out, rows.Err()
}

// RecordCuration：记录一张候选图片的策展结论；同名文件覆盖
func (s *Store) RecordCuration(ctx context.Context, campName, filename, sourceURL, verdict string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO _camp_images(camp_name, filename, source_url, verdict)
         VALUES($1,$2,$3,$4)
         ON CONFLICT (camp_name, filename) DO UPDATE SET
           source_url=EXCLUDED.source_url,
           verdict=EXCLUDED.verdict,
           curated_at=now()`,
		campName, filename, sourceURL, verdict)
	return err
}

// IncrStats：累加定位查询计数；newVisitor 为去重后的首次访客标记
// 背景：悬停查询量大，统计失败仅记日志不阻断主流程，调用方可忽略错误
func (s *Store) IncrStats(ctx context.Context, newVisitor bool) error {
	vis := 0
	if newVisitor {
		vis = 1
	}
	if _, err := s.db.ExecContext(ctx,
		"UPDATE _camp_stats_total SET total_lookups=total_lookups+1, total_visitors=total_visitors+$1 WHERE id=1", vis); err != nil {
		logger.L().Debug("stats_total_error", "err", err)
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO _camp_stats_daily(day, lookups, visitors) VALUES(CURRENT_DATE, 1, $1)
         ON CONFLICT (day) DO UPDATE SET lookups=_camp_stats_daily.lookups+1, visitors=_camp_stats_daily.visitors+$1`, vis); err != nil {
		logger.L().Debug("stats_daily_error", "err", err)
		return err
	}
	return nil
}

// Totals：统计汇总
type Totals struct {
	Total int64
	Today int64
}

// GetTotals：读取累计与当日定位查询数
func (s *Store) GetTotals(ctx context.Context) (Totals, error) {
	var t Totals
	if err := s.db.QueryRowContext(ctx,
		"SELECT total_lookups FROM _camp_stats_total WHERE id=1").Scan(&t.Total); err != nil && err != sql.ErrNoRows {
		return t, err
	}
	if err := s.db.QueryRowContext(ctx,
		"SELECT lookups FROM _camp_stats_daily WHERE day=CURRENT_DATE").Scan(&t.Today); err != nil && err != sql.ErrNoRows {
		return t, err
	}
	return t, nil
}
