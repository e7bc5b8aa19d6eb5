package service

import (
	"errors"

	"financetracker/models"

	"gorm.io/gorm"
)

// EntryStore 档案资产快照的按日期索引存取层
// 查询依赖 (profile_id, entry_date) 唯一索引，无记录返回 (nil, nil) 而非错误
type EntryStore struct {
	db *gorm.DB
}

// NewEntryStore 创建存取层
func NewEntryStore(db *gorm.DB) *EntryStore {
	return &EntryStore{db: db}
}

// ByDate 精确查询某档案某天的快照
func (s *EntryStore) ByDate(profileID uint, date models.Date) (*models.Entry, error) {
	var entry models.Entry
	err := s.db.Where("profile_id = ? AND entry_date = ?", profileID, date).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// BeforeDate 查询某档案严格早于 date 的最近一条快照
// 按 entry_date 降序取第一条，即最近的更早记录
func (s *EntryStore) BeforeDate(profileID uint, date models.Date) (*models.Entry, error) {
	var entry models.Entry
	err := s.db.Where("profile_id = ? AND entry_date < ?", profileID, date).
		Order("entry_date DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Latest 查询某档案最近一条快照
func (s *EntryStore) Latest(profileID uint) (*models.Entry, error) {
	var entry models.Entry
	err := s.db.Where("profile_id = ?", profileID).
		Order("entry_date DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// List 查询某档案全部快照，按日期降序
func (s *EntryStore) List(profileID uint) ([]models.Entry, error) {
	var entries []models.Entry
	if err := s.db.Where("profile_id = ?", profileID).
		Order("entry_date DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Dates 查询某档案全部记录日期，按日期降序。仅存在性集合，供日历高亮使用
func (s *EntryStore) Dates(profileID uint) ([]models.Date, error) {
	var dates []models.Date
	if err := s.db.Model(&models.Entry{}).
		Where("profile_id = ?", profileID).
		Order("entry_date DESC").
		Pluck("entry_date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

// Save 保存快照。同档案同日期已有记录则原地更新，否则新建
func (s *EntryStore) Save(entry *models.Entry) error {
	existing, err := s.ByDate(entry.ProfileID, entry.EntryDate)
	if err != nil {
		return err
	}
	if existing != nil {
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
		return s.db.Save(entry).Error
	}
	return s.db.Create(entry).Error
}

// DeleteForProfile 物理删除某档案的全部快照，供档案级联删除使用
func (s *EntryStore) DeleteForProfile(profileID uint) error {
	return s.db.Unscoped().Where("profile_id = ?", profileID).Delete(&models.Entry{}).Error
}
