package models

import (
	"time"

	"gorm.io/gorm"
)

// Entry 某档案在某一天的资产快照，18 项金额字段，单位为货币主单位，保留 2 位小数
// (profile_id, entry_date) 唯一：同一档案同一天至多一条记录
type Entry struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	ProfileID uint `json:"profile_id" gorm:"uniqueIndex:idx_profile_date;not null"`
	EntryDate Date `json:"entry_date" gorm:"type:date;uniqueIndex:idx_profile_date;not null"`

	SavingsAccount      float64 `json:"savings_account" gorm:"type:decimal(14,2);not null;default:0"`
	FixedDeposit        float64 `json:"fixed_deposit" gorm:"type:decimal(14,2);not null;default:0"`
	RecurringDeposit    float64 `json:"recurring_deposit" gorm:"type:decimal(14,2);not null;default:0"`
	ProvidentFund       float64 `json:"provident_fund" gorm:"type:decimal(14,2);not null;default:0"`
	PublicProvidentFund float64 `json:"public_provident_fund" gorm:"type:decimal(14,2);not null;default:0"`
	PensionScheme       float64 `json:"pension_scheme" gorm:"type:decimal(14,2);not null;default:0"`
	MutualFunds         float64 `json:"mutual_funds" gorm:"type:decimal(14,2);not null;default:0"`
	Stocks              float64 `json:"stocks" gorm:"type:decimal(14,2);not null;default:0"`
	ForeignEquity       float64 `json:"foreign_equity" gorm:"type:decimal(14,2);not null;default:0"`
	Bonds               float64 `json:"bonds" gorm:"type:decimal(14,2);not null;default:0"`
	Crypto              float64 `json:"crypto" gorm:"type:decimal(14,2);not null;default:0"`
	Gold                float64 `json:"gold" gorm:"type:decimal(14,2);not null;default:0"`
	Silver              float64 `json:"silver" gorm:"type:decimal(14,2);not null;default:0"`
	RealEstate          float64 `json:"real_estate" gorm:"type:decimal(14,2);not null;default:0"`
	VehicleValue        float64 `json:"vehicle_value" gorm:"type:decimal(14,2);not null;default:0"`
	InsuranceValue      float64 `json:"insurance_value" gorm:"type:decimal(14,2);not null;default:0"`
	CashInHand          float64 `json:"cash_in_hand" gorm:"type:decimal(14,2);not null;default:0"`
	OtherAssets         float64 `json:"other_assets" gorm:"type:decimal(14,2);not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Profile Profile `json:"-" gorm:"foreignKey:ProfileID"`
}

// TableName 设置表名
func (Entry) TableName() string {
	return "entries"
}

// EntryAmountLabels 金额字段的展示名称，与 Amounts 顺序一致，供导出使用
func EntryAmountLabels() []string {
	return []string{
		"储蓄账户", "定期存款", "零存整取", "公积金", "PPF", "养老金",
		"基金", "股票", "海外股票", "债券", "加密货币", "黄金",
		"白银", "房产", "车辆", "保险现值", "现金", "其他资产",
	}
}

// Amounts 按固定顺序返回全部金额字段
func (e *Entry) Amounts() []float64 {
	return []float64{
		e.SavingsAccount, e.FixedDeposit, e.RecurringDeposit, e.ProvidentFund,
		e.PublicProvidentFund, e.PensionScheme, e.MutualFunds, e.Stocks,
		e.ForeignEquity, e.Bonds, e.Crypto, e.Gold,
		e.Silver, e.RealEstate, e.VehicleValue, e.InsuranceValue,
		e.CashInHand, e.OtherAssets,
	}
}

// Total 全部资产合计
func (e *Entry) Total() float64 {
	var sum float64
	for _, v := range e.Amounts() {
		sum += v
	}
	return NormalizeAmount(sum)
}

// BeforeSave 入库前统一做金额归一化（负数钳 0，保留 2 位小数）
func (e *Entry) BeforeSave(tx *gorm.DB) error {
	e.SavingsAccount = NormalizeAmount(e.SavingsAccount)
	e.FixedDeposit = NormalizeAmount(e.FixedDeposit)
	e.RecurringDeposit = NormalizeAmount(e.RecurringDeposit)
	e.ProvidentFund = NormalizeAmount(e.ProvidentFund)
	e.PublicProvidentFund = NormalizeAmount(e.PublicProvidentFund)
	e.PensionScheme = NormalizeAmount(e.PensionScheme)
	e.MutualFunds = NormalizeAmount(e.MutualFunds)
	e.Stocks = NormalizeAmount(e.Stocks)
	e.ForeignEquity = NormalizeAmount(e.ForeignEquity)
	e.Bonds = NormalizeAmount(e.Bonds)
	e.Crypto = NormalizeAmount(e.Crypto)
	e.Gold = NormalizeAmount(e.Gold)
	e.Silver = NormalizeAmount(e.Silver)
	e.RealEstate = NormalizeAmount(e.RealEstate)
	e.VehicleValue = NormalizeAmount(e.VehicleValue)
	e.InsuranceValue = NormalizeAmount(e.InsuranceValue)
	e.CashInHand = NormalizeAmount(e.CashInHand)
	e.OtherAssets = NormalizeAmount(e.OtherAssets)
	return nil
}
