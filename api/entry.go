package api

import (
	"log"

	"financetracker/database"
	"financetracker/models"
	"financetracker/service"

	"github.com/gin-gonic/gin"
)

// EntryHandler 资产快照处理器
type EntryHandler struct{}

// NewEntryHandler 创建资产快照处理器
func NewEntryHandler() *EntryHandler {
	return &EntryHandler{}
}

func (h *EntryHandler) store() *service.EntryStore {
	return service.NewEntryStore(database.DB)
}

func (h *EntryHandler) resolver() *service.DateResolver {
	return service.NewDateResolver(h.store())
}

// CreateEntryRequest 保存快照请求。entry_date 必填，金额字段缺省按 0 处理
type CreateEntryRequest struct {
	EntryDate string `json:"entry_date" binding:"required" example:"2024-01-15"`

	SavingsAccount      float64 `json:"savings_account"`
	FixedDeposit        float64 `json:"fixed_deposit"`
	RecurringDeposit    float64 `json:"recurring_deposit"`
	ProvidentFund       float64 `json:"provident_fund"`
	PublicProvidentFund float64 `json:"public_provident_fund"`
	PensionScheme       float64 `json:"pension_scheme"`
	MutualFunds         float64 `json:"mutual_funds"`
	Stocks              float64 `json:"stocks"`
	ForeignEquity       float64 `json:"foreign_equity"`
	Bonds               float64 `json:"bonds"`
	Crypto              float64 `json:"crypto"`
	Gold                float64 `json:"gold"`
	Silver              float64 `json:"silver"`
	RealEstate          float64 `json:"real_estate"`
	VehicleValue        float64 `json:"vehicle_value"`
	InsuranceValue      float64 `json:"insurance_value"`
	CashInHand          float64 `json:"cash_in_hand"`
	OtherAssets         float64 `json:"other_assets"`
}

// parseDateQuery 解析 query 中的 date 参数，失败时已写入 400 响应
func parseDateQuery(c *gin.Context) (models.Date, bool) {
	raw := c.Query("date")
	if raw == "" {
		BadRequest(c, "缺少 date 参数")
		return models.Date{}, false
	}
	date, err := models.ParseDate(raw)
	if err != nil {
		BadRequest(c, "日期格式错误，应为 YYYY-MM-DD")
		return models.Date{}, false
	}
	return date, true
}

// Latest 获取最近一条快照
// @Summary 获取最近一条快照
// @Description 按日期降序返回档案最近一条资产快照，无数据时 entry 为 null
// @Tags 资产快照
// @Produce json
// @Security BearerAuth
// @Param id path int true "档案ID"
// @Success 200 {object} Response "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "无权访问"
// @Router /api/profiles/{id}/entries/latest [get]
func (h *EntryHandler) Latest(c *gin.Context) {
	_, profile, ok := authorizeProfile(c, service.LevelRead)
	if !ok {
		return
	}

	entry, err := h.store().Latest(profile.ID)
	if err != nil {
		log.Printf("查询最近快照失败: %v", err)
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, gin.H{"entry": entry})
}

// Dates 获取全部记录日期
// @Summary 获取全部记录日期
// @Description 返回档案全部快照日期（降序），供日历高亮使用
// @Tags 资产快照
// @Produce json
// @Security BearerAuth
// @Param id path int true "档案ID"
// @Success 200 {object} Response "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "无权访问"
// @Router /api/profiles/{id}/entries/dates [get]
func (h *EntryHandler) Dates(c *gin.Context) {
	_, profile, ok := authorizeProfile(c, service.LevelRead)
	if !ok {
		return
	}

	dates, err := h.resolver().ListEntryDates(profile.ID)
	if err != nil {
		log.Printf("查询记录日期失败: %v", err)
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if dates == nil {
		dates = []models.Date{}
	}
	Success(c, gin.H{"dates": dates})
}

// ByDate 精确查询某天的快照
// @Summary 精确查询某天的快照
// @Description 仅做精确匹配，当天无记录时 entry 为 null（不是错误）
// @Tags 资产快照
// @Produce json
// @Security BearerAuth
// @Param id path int true "档案ID"
// @Param date query string true "日期 (YYYY-MM-DD)"
// @Success 200 {object} Response "获取成功"
// @Failure 400 {object} Response "日期参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "无权访问"
// @Router /api/profiles/{id}/entries/by-date [get]
func (h *EntryHandler) ByDate(c *gin.Context) {
	_, profile, ok := authorizeProfile(c, service.LevelRead)
	if !ok {
		return
	}
	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	entry, err := h.store().ByDate(profile.ID, date)
	if err != nil {
		log.Printf("精确查询快照失败: %v", err)
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, gin.H{"entry": entry})
}

// BeforeDate 查询严格早于某天的最近快照
// @Summary 查询更早的最近快照
// @Description 返回严格早于指定日期的最近一条快照及其实际日期，无则 entry 为 null
// @Tags 资产快照
// @Produce json
// @Security BearerAuth
// @Param id path int true "档案ID"
// @Param date query string true "日期 (YYYY-MM-DD)"
// @Success 200 {object} Response "获取成功"
// @Failure 400 {object} Response "日期参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "无权访问"
// @Router /api/profiles/{id}/entries/before-date [get]
func (h *EntryHandler) BeforeDate(c *gin.Context) {
	_, profile, ok := authorizeProfile(c, service.LevelRead)
	if !ok {
		return
	}
	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	entry, err := h.store().BeforeDate(profile.ID, date)
	if err != nil {
		log.Printf("回退查询快照失败: %v", err)
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if entry == nil {
		Success(c, gin.H{"entry": nil, "date": nil})
		return
	}
	// date 返回回退记录自身的日期，前端提示必须引用它而非请求日期
	Success(c, gin.H{"entry": entry, "date": entry.EntryDate})
}

// List 获取全部快照
// @Summary 获取全部快照
// @Description 返回档案全部资产快照，按日期降序
// @Tags 资产快照
// @Produce json
// @Security BearerAuth
// @Param id path int true "档案ID"
// @Success 200 {object} Response "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "无权访问"
// @Router /api/profiles/{id}/entries [get]
func (h *EntryHandler) List(c *gin.Context) {
	_, profile, ok := authorizeProfile(c, service.LevelRead)
	if !ok {
		return
	}

	entries, err := h.store().List(profile.ID)
	if err != nil {
		log.Printf("查询快照列表失败: %v", err)
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	Success(c, gin.H{"entries": entries})
}

// Create 保存快照
// @Summary 保存快照
// @Description 保存某天的资产快照，同档案同日期已有记录则原地更新。需要编辑权限
// @Tags 资产快照
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "档案ID"
// @Param request body CreateEntryRequest true "快照内容"
// @Success 200 {object} Response{data=models.Entry} "保存成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "需要编辑权限"
// @Router /api/profiles/{id}/entries [post]
func (h *EntryHandler) Create(c *gin.Context) {
	_, profile, ok := authorizeProfile(c, service.LevelEdit)
	if !ok {
		return
	}

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	entryDate, err := models.ParseDate(req.EntryDate)
	if err != nil {
		BadRequest(c, "日期格式错误，应为 YYYY-MM-DD")
		return
	}

	entry := models.Entry{
		ProfileID:           profile.ID,
		EntryDate:           entryDate,
		SavingsAccount:      req.SavingsAccount,
		FixedDeposit:        req.FixedDeposit,
		RecurringDeposit:    req.RecurringDeposit,
		ProvidentFund:       req.ProvidentFund,
		PublicProvidentFund: req.PublicProvidentFund,
		PensionScheme:       req.PensionScheme,
		MutualFunds:         req.MutualFunds,
		Stocks:              req.Stocks,
		ForeignEquity:       req.ForeignEquity,
		Bonds:               req.Bonds,
		Crypto:              req.Crypto,
		Gold:                req.Gold,
		Silver:              req.Silver,
		RealEstate:          req.RealEstate,
		VehicleValue:        req.VehicleValue,
		InsuranceValue:      req.InsuranceValue,
		CashInHand:          req.CashInHand,
		OtherAssets:         req.OtherAssets,
	}

	if err := h.store().Save(&entry); err != nil {
		log.Printf("保存快照失败: %v", err)
		InternalError(c, SafeErrorMessage(err, "保存快照失败"))
		return
	}

	SuccessWithMessage(c, "保存成功", entry)
}
