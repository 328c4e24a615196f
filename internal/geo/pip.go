package geo

// 文档注释：点入多边形判定（Even-Odd 射线法）
// 背景：对候选边界执行精确命中判定；在原始经纬度坐标上直接运算，点与多边形同处
// 一个坐标空间，无需投影，因而独立于视口与旋转状态。
// 约束：边界上或顶点上的点归属取决于射线方向与不等号约定，结果确定但不保证两可；
// 分母加微小量规避水平边的除零。
func ContainsPoint(lon, lat float64, vertices []Point) bool {
	n := len(vertices)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := vertices[i].Lon, vertices[i].Lat
		xj, yj := vertices[j].Lon, vertices[j].Lat
		if ((yi > lat) != (yj > lat)) && (lon < (xj-xi)*(lat-yi)/(yj-yi+1e-12)+xi) {
			inside = !inside
		}
	}
	return inside
}

// FindFeatureAt：按加载顺序遍历所有边界并返回首个命中者
// 背景：指针移动期间每帧调用，需要在千余个边界上保持交互帧率；
// 先做闭合资格与包围盒过滤，命中即提前返回，全程无堆分配。
// 返回：命中的边界指针；无命中返回 nil（空列表同样返回 nil，属正常结果）。
func FindFeatureAt(lon, lat float64, features []Feature) *Feature {
	for i := range features {
		f := &features[i]
		if !f.Closed() {
			continue
		}
		if !inBBox(lon, lat, f.BBox) {
			continue
		}
		if ContainsPoint(lon, lat, f.Vertices) {
			return f
		}
	}
	return nil
}
