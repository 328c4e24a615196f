package geo

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"camp-map/internal/logger"
)

// 文档注释：从数据文件加载边界与标注快照
// 背景：边界来自年度营地轮廓 GeoJSON（FeatureCollection/LineString，properties.fid），
// 标注来自 fid→营地名的 JSON 对象（键为字符串化整数）。两者一次性加载，会话期只读。
// 约束：未闭合或顶点不足的几何照常加载，由命中判定阶段排除而非加载期报错；
// 标注键无法解析为整数时跳过并记录。

type geoJSONCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

type geoJSONFeature struct {
	Type       string `json:"type"`
	Properties struct {
		FID int `json:"fid"`
	} `json:"properties"`
	Geometry struct {
		Type        string      `json:"type"`
		Coordinates [][]float64 `json:"coordinates"`
	} `json:"geometry"`
}

// LoadSnapshot：读取轮廓与标注文件并构建快照
// 返回：快照与错误；轮廓文件缺失或格式非法为错误，标注文件缺失仅降级为空映射
func LoadSnapshot(outlinePath, labelPath string) (*Snapshot, error) {
	b, err := os.ReadFile(outlinePath)
	if err != nil {
		return nil, err
	}
	var col geoJSONCollection
	if err := json.Unmarshal(b, &col); err != nil {
		return nil, fmt.Errorf("parse %s: %w", outlinePath, err)
	}
	snap := &Snapshot{Labels: map[int]string{}, BuiltAt: time.Now()}
	skipped := 0
	for _, gf := range col.Features {
		if gf.Geometry.Type != "LineString" {
			skipped++
			continue
		}
		f := Feature{FID: gf.Properties.FID}
		f.Vertices = make([]Point, 0, len(gf.Geometry.Coordinates))
		for _, c := range gf.Geometry.Coordinates {
			if len(c) < 2 {
				continue
			}
			f.Vertices = append(f.Vertices, Point{Lon: c[0], Lat: c[1]})
		}
		f.BBox = computeBBox(f.Vertices)
		snap.Features = append(snap.Features, f)
	}
	if labelPath != "" {
		if lb, err := os.ReadFile(labelPath); err == nil {
			var raw map[string]string
			if err := json.Unmarshal(lb, &raw); err != nil {
				return nil, fmt.Errorf("parse %s: %w", labelPath, err)
			}
			for k, name := range raw {
				fid, err := strconv.Atoi(k)
				if err != nil {
					logger.L().Debug("label_key_skip", "key", k)
					continue
				}
				snap.Labels[fid] = name
			}
		} else {
			logger.L().Warn("labels_missing", "path", labelPath)
		}
	}
	logger.L().Info("snapshot_loaded",
		"features", len(snap.Features),
		"labels", len(snap.Labels),
		"skipped", skipped,
	)
	return snap, nil
}
