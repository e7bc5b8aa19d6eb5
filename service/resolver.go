package service

import "financetracker/models"

// Resolution 日期解析结果
// Exact 非空表示命中精确匹配；否则 Fallback/FallbackDate 表示最近的更早记录
// 三者全空表示该日期及之前无任何数据，调用方应以空表单处理
type Resolution struct {
	Exact        *models.Entry
	Fallback     *models.Entry
	FallbackDate *models.Date
}

// DateResolver 决定某个目标日期应预填哪条快照
// 三步短路：精确命中 → 严格更早的最近一条 → 无数据
type DateResolver struct {
	store *EntryStore
}

// NewDateResolver 创建日期解析器
func NewDateResolver(store *EntryStore) *DateResolver {
	return &DateResolver{store: store}
}

// Resolve 解析目标日期对应的有效快照。只读，无副作用，重复调用结果一致
func (r *DateResolver) Resolve(profileID uint, target models.Date) (Resolution, error) {
	exact, err := r.store.ByDate(profileID, target)
	if err != nil {
		return Resolution{}, err
	}
	if exact != nil {
		// 精确命中即短路，不再查询回退路径
		return Resolution{Exact: exact}, nil
	}

	fallback, err := r.store.BeforeDate(profileID, target)
	if err != nil {
		return Resolution{}, err
	}
	if fallback != nil {
		d := fallback.EntryDate
		return Resolution{Fallback: fallback, FallbackDate: &d}, nil
	}

	return Resolution{}, nil
}

// ListEntryDates 返回档案全部记录日期（降序），无回退语义
func (r *DateResolver) ListEntryDates(profileID uint) ([]models.Date, error) {
	return r.store.Dates(profileID)
}
