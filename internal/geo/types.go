package geo

import "time"

// 文档注释：营地边界与快照的最小数据结构
// 背景：统一承载边界几何与标注元数据；保持轻量以便常驻内存与指针移动频率的命中判定。
// 约束：几何来源为 GeoJSON 的 LineString，首尾顶点在容差内重合时语义上视为闭合多边形；
// 顶点序列按加载顺序保留，FID 仅保证唯一性不承载语义。
type Point struct {
	Lon float64
	Lat float64
}

// Feature：单个营地边界；BBox 在加载时预计算用于命中判定的快速过滤
type Feature struct {
	FID      int
	Vertices []Point
	BBox     [4]float64 // minLon, minLat, maxLon, maxLat
}

// Snapshot：加载结果快照，只读引用供查询期共享
// Labels 为 FID 到营地名的类型化映射（源数据以字符串键存储，加载时转换）
type Snapshot struct {
	Features []Feature
	Labels   map[int]string
	BuiltAt  time.Time
}

// closeTolerance：闭合判定容差（度）；与历史数据修复脚本保持一致
const closeTolerance = 1e-6

// Closed：闭合且可参与命中判定
// 约束：顶点数须大于 3，且首尾顶点每个坐标分量差值小于容差；否则视为开放折线
func (f *Feature) Closed() bool {
	n := len(f.Vertices)
	if n <= 3 {
		return false
	}
	first := f.Vertices[0]
	last := f.Vertices[n-1]
	return abs(first.Lon-last.Lon) < closeTolerance && abs(first.Lat-last.Lat) < closeTolerance
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// inBBox：快速包围盒过滤
func inBBox(lon, lat float64, b [4]float64) bool {
	return lon >= b[0] && lon <= b[2] && lat >= b[1] && lat <= b[3]
}

// computeBBox：遍历顶点求包围盒；空顶点集返回全零
func computeBBox(vs []Point) [4]float64 {
	var b [4]float64
	if len(vs) == 0 {
		return b
	}
	b[0], b[1], b[2], b[3] = vs[0].Lon, vs[0].Lat, vs[0].Lon, vs[0].Lat
	for _, p := range vs[1:] {
		if p.Lon < b[0] {
			b[0] = p.Lon
		}
		if p.Lat < b[1] {
			b[1] = p.Lat
		}
		if p.Lon > b[2] {
			b[2] = p.Lon
		}
		if p.Lat > b[3] {
			b[3] = p.Lat
		}
	}
	return b
}
