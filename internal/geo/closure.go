package geo

// 文档注释：闭合性检查与修复辅助
// 背景：源数据集中少数轮廓首尾顶点不重合，导致命中判定将其排除；
// 离线工具据此报告并补点闭合。判定容差与 Closed 保持同一常量。

// Unclosed：描述一条未闭合的轮廓
type Unclosed struct {
	FID    int
	First  Point
	Last   Point
	Coords int
}

// FindUnclosed：返回顶点数足够但首尾未重合的轮廓列表
// 约束：顶点数 ≤3 的几何视为折线而非待修复多边形，不计入
func FindUnclosed(features []Feature) []Unclosed {
	var out []Unclosed
	for i := range features {
		f := &features[i]
		n := len(f.Vertices)
		if n <= 3 || f.Closed() {
			continue
		}
		out = append(out, Unclosed{
			FID:    f.FID,
			First:  f.Vertices[0],
			Last:   f.Vertices[n-1],
			Coords: n,
		})
	}
	return out
}

// CloseFeature：把首顶点补到末尾使轮廓闭合
// 返回：是否实际做了修复（已闭合或顶点不足时为 false）
func CloseFeature(f *Feature) bool {
	if len(f.Vertices) <= 3 || f.Closed() {
		return false
	}
	f.Vertices = append(f.Vertices, f.Vertices[0])
	f.BBox = computeBBox(f.Vertices)
	return true
}
