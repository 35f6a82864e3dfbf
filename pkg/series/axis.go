package series

import (
	"errors"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
)

// DefaultCeiling 默认参考天花板(ms)
const DefaultCeiling = 100.0

// ErrAllMissing 数据窗口内没有任何有效值，无法得到有限的坐标上限
var ErrAllMissing = errors.New("数据全部缺失，无法计算坐标范围")

// AxisLimits 根据固定的x范围、放大百分比和数据窗口计算 [xmin, xmax, ymin, ymax]
// 见AxisLimitsWithCeiling
func AxisLimits(fixed [2]float64, zoomPct float64, data []core.Value) ([4]float64, error) {
	return AxisLimitsWithCeiling(fixed, zoomPct, DefaultCeiling, data)
}

// AxisLimitsWithCeiling ymin固定为0，ymax = 峰值 * (1 + zoomPct/100)
// 峰值低于ceiling时，上方留白不超过峰值与ceiling距离的一半
// 数据全部缺失时返回ErrAllMissing，调用者应沿用上一次的有效范围
func AxisLimitsWithCeiling(fixed [2]float64, zoomPct, ceiling float64, data []core.Value) ([4]float64, error) {
	peak, ok := Max(data)
	if !ok {
		return [4]float64{}, ErrAllMissing
	}

	ymax := peak * (1 + zoomPct/100)
	if peak < ceiling {
		ymax = min(ymax, (peak+ceiling)/2)
	}

	return [4]float64{fixed[0], fixed[1], 0, ymax}, nil
}

// Max 返回忽略缺失值后的最大值
func Max(data []core.Value) (float64, bool) {
	var (
		peak  float64
		found bool
	)
	for _, v := range data {
		f, ok := v.Get()
		if !ok {
			continue
		}
		if !found || f > peak {
			peak = f
			found = true
		}
	}
	return peak, found
}
