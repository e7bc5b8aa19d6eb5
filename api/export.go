package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"net/http"

	"financetracker/database"
	"financetracker/models"
	"financetracker/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct{}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// exportHeaders 导出表头：日期 + 18 项金额 + 合计
func exportHeaders() []string {
	headers := []string{"日期"}
	headers = append(headers, models.EntryAmountLabels()...)
	return append(headers, "合计")
}

// exportRow 单条快照的导出行
func exportRow(e *models.Entry) []string {
	row := []string{e.EntryDate.Display()}
	for _, v := range e.Amounts() {
		row = append(row, fmt.Sprintf("%.2f", v))
	}
	return append(row, fmt.Sprintf("%.2f", e.Total()))
}

// loadEntries 加载档案全部快照，失败时已写入响应
func loadEntries(c *gin.Context, profileID uint) ([]models.Entry, bool) {
	entries, err := service.NewEntryStore(database.DB).List(profileID)
	if err != nil {
		log.Printf("导出时查询快照失败: %v", err)
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return nil, false
	}
	return entries, true
}

// ExportCSV 导出快照为 CSV
// @Summary 导出快照为 CSV
// @Description 导出档案全部资产快照为 CSV 文件
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Param id path int true "档案ID"
// @Success 200 {file} file "CSV 文件"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "无权访问"
// @Router /api/profiles/{id}/entries/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	_, profile, ok := authorizeProfile(c, service.LevelRead)
	if !ok {
		return
	}
	entries, ok := loadEntries(c, profile.ID)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write(exportHeaders()); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}
	for i := range entries {
		if err := writer.Write(exportRow(&entries[i])); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("entries_profile_%d.csv", profile.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出快照为 Excel
// @Summary 导出快照为 Excel
// @Description 导出档案全部资产快照为 xlsx 文件
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path int true "档案ID"
// @Success 200 {file} file "Excel 文件"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "无权访问"
// @Router /api/profiles/{id}/entries/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	_, profile, ok := authorizeProfile(c, service.LevelRead)
	if !ok {
		return
	}
	entries, ok := loadEntries(c, profile.ID)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "资产快照"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	headers := exportHeaders()
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", lastCol, 12)

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx := range entries {
		row := exportRow(&entries[rowIdx])
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
			f.SetCellStyle(sheetName, cell, cell, dataStyle)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Printf("生成 Excel 失败: %v", err)
		InternalError(c, "生成 Excel 失败")
		return
	}

	filename := fmt.Sprintf("entries_profile_%d.xlsx", profile.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
