package service

import "strings"

// ==================== 运费规则 ====================

// ShippingRates 运费规则表
// 显式传入的运费覆盖值永远优先于规则表
type ShippingRates struct {
	DhakaCityFee    int64 // district=Dhaka 且 area=Dhaka City
	OutsideCityFee  int64 // district=Dhaka 且 area 非市区
	OutsideDhakaFee int64 // 其他 district
}

// DefaultShippingRates 线上规则
func DefaultShippingRates() ShippingRates {
	return ShippingRates{
		DhakaCityFee:    70,
		OutsideCityFee:  140,
		OutsideDhakaFee: 140,
	}
}

// Resolve 解析运费
// 优先级：override > 规则表；district 为空时运费为 0
func (r ShippingRates) Resolve(district, area string, override *int64) int64 {
	if override != nil {
		return *override
	}

	district = strings.TrimSpace(district)
	if district == "" {
		return 0
	}

	if strings.EqualFold(district, "Dhaka") {
		if strings.EqualFold(strings.TrimSpace(area), "Dhaka City") {
			return r.DhakaCityFee
		}
		return r.OutsideCityFee
	}
	return r.OutsideDhakaFee
}

// ==================== 金额计算 ====================

// PricedItem 参与计价的行项目
type PricedItem struct {
	UnitPrice int64
	Quantity  int
}

// Quote 计价结果
type Quote struct {
	Subtotal    int64
	ShippingFee int64
	Discount    int64 // 预留，当前恒为 0
	Total       int64
}

// ComputeQuote 由行项目与运费推导订单金额
// Total == Subtotal + ShippingFee - Discount 恒成立
func ComputeQuote(items []PricedItem, shippingFee int64) Quote {
	var subtotal int64
	for _, it := range items {
		subtotal += it.UnitPrice * int64(it.Quantity)
	}

	q := Quote{
		Subtotal:    subtotal,
		ShippingFee: shippingFee,
		Discount:    0,
	}
	q.Total = q.Subtotal + q.ShippingFee - q.Discount
	return q
}
