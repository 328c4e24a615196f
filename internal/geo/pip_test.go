package geo

import "testing"

// 单位正方形（带闭合顶点），命中判定的基准用例
func unitSquare() []Point {
	return []Point{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}
}

func TestContainsPointUnitSquare(t *testing.T) {
	sq := unitSquare()
	if !ContainsPoint(0.5, 0.5, sq) {
		t.Error("(0.5,0.5) should be inside the unit square")
	}
	if ContainsPoint(1.5, 0.5, sq) {
		t.Error("(1.5,0.5) should be outside the unit square")
	}
	if ContainsPoint(-0.5, 0.5, sq) {
		t.Error("(-0.5,0.5) should be outside the unit square")
	}
	if ContainsPoint(0.5, 1.5, sq) {
		t.Error("(0.5,1.5) should be outside the unit square")
	}
}

// 边界约定：顶点与边上的点归属可为任一侧，但重复调用结果必须稳定
func TestContainsPointEdgeConventionStable(t *testing.T) {
	sq := unitSquare()
	probes := [][2]float64{
		{0, 0},     // 顶点
		{0, 0.5},   // 左边
		{1, 0.5},   // 右边
		{0.5, 0},   // 下边
		{0.5, 1},   // 上边
	}
	for _, p := range probes {
		first := ContainsPoint(p[0], p[1], sq)
		for i := 0; i < 50; i++ {
			if ContainsPoint(p[0], p[1], sq) != first {
				t.Fatalf("containment of boundary point (%v,%v) flipped between calls", p[0], p[1])
			}
		}
	}
}

func TestContainsPointDegenerate(t *testing.T) {
	if ContainsPoint(0, 0, nil) {
		t.Error("empty vertex list should never contain a point")
	}
	if ContainsPoint(0.5, 0.5, []Point{{0, 0}, {1, 1}}) {
		t.Error("two-vertex polyline should never contain a point")
	}
}

// 凹多边形：L 形，缺口处不应命中
func TestContainsPointConcave(t *testing.T) {
	l := []Point{{0, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 2}, {0, 2}, {0, 0}}
	if !ContainsPoint(0.5, 1.5, l) {
		t.Error("(0.5,1.5) should be inside the L shape")
	}
	if ContainsPoint(1.5, 1.5, l) {
		t.Error("(1.5,1.5) sits in the notch and should be outside")
	}
}
