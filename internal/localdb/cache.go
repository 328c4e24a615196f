package localdb

import (
	"database/sql"
	"sort"

	"camp-map/internal/logger"
)

// Camp：字典条目；Years 为参与年份降序列表
type Camp struct {
	ID             int
	FID            int
	Name           string
	Description    string
	URL            string
	LocationString string
	Years          []int
}

// Cache：营地元数据的常驻内存字典
type Cache struct {
	byName map[string]*Camp
	byFID  map[int]*Camp
	names  []string
}

// 文档注释：从数据库构建内存字典
// 背景：悬停命中后需要即刻给出营地描述与历年参与信息，逐次查库撑不住指针移动频率；
// 启动时一次性拉取元数据与年份并按名字/FID 双键索引。
// 约束：FID 关联优先取库内字段，缺失时经标注映射（fid→名字）回填；快照与库不一致时以标注为准。
func BuildFromDB(db *sql.DB, labels map[int]string) (*Cache, error) {
	logger.L().Debug("campdict_build_begin")
	c := &Cache{byName: map[string]*Camp{}, byFID: map[int]*Camp{}}
	rows, err := db.Query("SELECT id, fid, name, description, url, location_string FROM _camp_meta")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	byID := map[int]*Camp{}
	for rows.Next() {
		var cp Camp
		var fid sql.NullInt64
		if err := rows.Scan(&cp.ID, &fid, &cp.Name, &cp.Description, &cp.URL, &cp.LocationString); err != nil {
			return nil, err
		}
		if fid.Valid {
			cp.FID = int(fid.Int64)
		}
		p := &cp
		c.byName[cp.Name] = p
		byID[cp.ID] = p
		c.names = append(c.names, cp.Name)
		if cp.FID != 0 {
			c.byFID[cp.FID] = p
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	yrows, err := db.Query("SELECT camp_id, year FROM _camp_years ORDER BY camp_id, year DESC")
	if err != nil {
		return nil, err
	}
	defer yrows.Close()
	for yrows.Next() {
		var id, year int
		if err := yrows.Scan(&id, &year); err != nil {
			return nil, err
		}
		if p, ok := byID[id]; ok {
			p.Years = append(p.Years, year)
		}
	}
	if err := yrows.Err(); err != nil {
		return nil, err
	}
	// 标注回填：边界数据里的 FID 与库内名字经营地名对齐
	for fid, name := range labels {
		if _, taken := c.byFID[fid]; taken {
			continue
		}
		if p, ok := c.byName[name]; ok {
			p.FID = fid
			c.byFID[fid] = p
		}
	}
	sort.Strings(c.names)
	logger.L().Debug("campdict_build_done", "camps", len(c.byName), "fids", len(c.byFID))
	return c, nil
}

// Lookup：按营地名查询
func (c *Cache) Lookup(name string) (Camp, bool) {
	if p, ok := c.byName[name]; ok {
		return *p, true
	}
	return Camp{}, false
}

// LookupFID：按边界标识查询
func (c *Cache) LookupFID(fid int) (Camp, bool) {
	if p, ok := c.byFID[fid]; ok {
		return *p, true
	}
	return Camp{}, false
}

// Names：字典内全部营地名（升序）
func (c *Cache) Names() []string { return c.names }

func (c *Cache) Len() int { return len(c.byName) }
