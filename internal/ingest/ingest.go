// 包 ingest：年度营地名单的离线合并与入库
// 背景：每年发布一份 campsYYYY.json；以基准年名单为主，向前逐年按营地名匹配，
// 汇成"该营地历年参与记录"，写入数据库并可导出合并 JSON 供前端直接加载。
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"camp-map/internal/logger"
	"camp-map/internal/store"
)

// YearCamp：单年名单中的一条营地记录
type YearCamp struct {
	Name           string `json:"name"`
	Year           int    `json:"year"`
	UID            string `json:"uid"`
	Description    string `json:"description"`
	LocationString string `json:"location_string"`
	URL            string `json:"url"`
}

// History：营地名 → 按年份降序的参与记录（基准年在首位）
type History map[string][]YearCamp

// LoadYear：读取某一年的名单文件；文件不存在返回 os.ErrNotExist 包装错误
func LoadYear(dir string, year int) ([]YearCamp, error) {
	path := filepath.Join(dir, fmt.Sprintf("camps%d.json", year))
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []YearCamp
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

// BuildHistory：从基准年开始向前合并历史
// 约束：2020/2021 两年停办跳过；遇到第一个缺失的年份文件即停止回溯（更早数据视为不可得）
func BuildHistory(dir string, baseYear int) (History, error) {
	base, err := LoadYear(dir, baseYear)
	if err != nil {
		return nil, fmt.Errorf("base year %d: %w", baseYear, err)
	}
	hist := History{}
	for _, c := range base {
		if c.Year == 0 {
			c.Year = baseYear
		}
		hist[c.Name] = []YearCamp{c}
	}
	matched := 0
	for year := baseYear - 1; year >= 1997; year-- {
		if year == 2020 || year == 2021 {
			continue
		}
		camps, err := LoadYear(dir, year)
		if err != nil {
			if os.IsNotExist(err) {
				logger.L().Info("history_stop", "year", year, "reason", "no_data")
				break
			}
			return nil, err
		}
		byName := make(map[string]YearCamp, len(camps))
		for _, c := range camps {
			if c.Year == 0 {
				c.Year = year
			}
			byName[c.Name] = c
		}
		for name := range hist {
			if c, ok := byName[name]; ok {
				hist[name] = append(hist[name], c)
				matched++
			}
		}
		logger.L().Debug("history_year_done", "year", year, "camps", len(camps))
	}
	logger.L().Info("history_built", "camps", len(hist), "matches", matched)
	return hist, nil
}

// ImportHistory：把合并结果写入数据库（元数据取基准年记录）
func ImportHistory(ctx context.Context, st *store.Store, hist History) error {
	names := make([]string, 0, len(hist))
	for name := range hist {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entries := hist[name]
		if len(entries) == 0 {
			continue
		}
		head := entries[0]
		id, err := st.UpsertCamp(ctx, store.Camp{
			Name:           name,
			Description:    head.Description,
			URL:            head.URL,
			LocationString: head.LocationString,
		})
		if err != nil {
			return fmt.Errorf("upsert %s: %w", name, err)
		}
		for _, e := range entries {
			y := store.YearEntry{
				Year:           e.Year,
				UID:            e.UID,
				Description:    e.Description,
				LocationString: e.LocationString,
				URL:            e.URL,
			}
			if err := st.UpsertYear(ctx, id, y); err != nil {
				return fmt.Errorf("upsert %s year %d: %w", name, e.Year, err)
			}
		}
	}
	return nil
}

// exportEntry：导出文件中单个营地的结构，与前端既有 campHistory.json 布局一致
type exportEntry struct {
	Name    string     `json:"name"`
	History []YearCamp `json:"history"`
}

// ExportJSON：把合并结果落盘为合并历史文件
func ExportJSON(path string, hist History) error {
	out := make(map[string]exportEntry, len(hist))
	for name, entries := range hist {
		out[name] = exportEntry{Name: name, History: entries}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
