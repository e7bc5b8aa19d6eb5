package client

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"financetracker/models"
)

// FormState 表单控制器状态
type FormState int

const (
	// StateIdle 初始状态，尚未提交过日期
	StateIdle FormState = iota
	// StateLoading 已提交日期，解析进行中
	StateLoading
	// StateResolvedExact 精确命中，表单已填充所选日期的数据
	StateResolvedExact
	// StateResolvedFallback 回退命中，表单填充的是更早日期的数据
	StateResolvedFallback
	// StateResolvedNone 无任何数据，表单已清空
	StateResolvedNone
)

// dateInputPattern 完整的 DD/MM/YYYY 输入。不完整的输入不触发任何请求
var dateInputPattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// FormController 录入表单的日期解析控制器
// 输入防抖后按 精确命中 → 更早回退 → 空表单 的顺序解析，并保证被新输入取代的
// 在途解析不会再改动表单状态（每轮解析持有代号，过期代号的结果一律丢弃）
type FormController struct {
	api       *Client
	profileID uint
	debounce  time.Duration

	mu      sync.Mutex
	gen     uint64
	timer   *time.Timer
	cancel  context.CancelFunc
	state   FormState
	current models.Date

	// dispatchMu 串行化解析结果的落地：代号检查与回调在同一临界区内完成，
	// 过期代号的回调不可能在更新代号的回调之后执行
	dispatchMu sync.Mutex

	// OnPopulate 解析命中时以命中的快照填充表单
	OnPopulate func(models.Entry)
	// OnReset 无数据时清空表单
	OnReset func()
	// OnNotice 命中提示（"Entry Loaded …" / "Previous Entry Loaded …"）
	OnNotice func(string)
	// OnError 请求失败提示，表单保持最后一次成功的内容
	OnError func(error)
}

// NewFormController 创建表单控制器
func NewFormController(api *Client, profileID uint, debounce time.Duration) *FormController {
	return &FormController{
		api:       api,
		profileID: profileID,
		debounce:  debounce,
		state:     StateIdle,
	}
}

// State 返回当前状态
func (f *FormController) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// CurrentDate 返回最近一次提交的日期
func (f *FormController) CurrentDate() models.Date {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// SetDateText 日期输入框每次变化时调用
// 只有完整匹配 DD/MM/YYYY 的文本才会提交解析；不完整或非法的输入静默忽略，
// 不发请求也不报错。连续输入会重置防抖窗口，只有最后一次提交生效
func (f *FormController) SetDateText(text string) {
	text = strings.TrimSpace(text)
	if !dateInputPattern.MatchString(text) {
		return
	}
	date, err := models.ParseDisplayDate(text)
	if err != nil {
		// 形如 99/99/9999 的非法日期同样视为未完成输入
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.gen++
	gen := f.gen
	f.current = date
	f.state = StateLoading

	// 取代仍在防抖等待或在途的上一轮解析
	if f.timer != nil {
		f.timer.Stop()
	}
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}

	f.timer = time.AfterFunc(f.debounce, func() {
		f.resolve(gen, date)
	})
}

// resolve 执行一轮解析。gen 不再是最新提交时直接放弃
func (f *FormController) resolve(gen uint64, date models.Date) {
	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.mu.Unlock()

	exact, err := f.api.EntryByDate(ctx, f.profileID, date)
	if err != nil {
		f.fail(gen, err)
		return
	}
	if exact != nil {
		f.apply(gen, StateResolvedExact, exact, "Entry Loaded "+date.Display())
		return
	}

	fallback, fallbackDate, err := f.api.EntryBeforeDate(ctx, f.profileID, date)
	if err != nil {
		f.fail(gen, err)
		return
	}
	if fallback != nil && fallbackDate != nil {
		// 提示必须引用回退记录自身的日期：用户需要知道表单里的数字
		// 相对所选日期是旧的
		f.apply(gen, StateResolvedFallback, fallback, "Previous Entry Loaded "+fallbackDate.Display())
		return
	}

	// 该日期及之前无任何数据：清空表单，不提示。这是录入首条数据的正常情形
	f.dispatchMu.Lock()
	defer f.dispatchMu.Unlock()

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return
	}
	f.state = StateResolvedNone
	f.mu.Unlock()

	if f.OnReset != nil {
		f.OnReset()
	}
}

// apply 命中后填充表单。过期代号的结果不落表单
func (f *FormController) apply(gen uint64, state FormState, entry *models.Entry, notice string) {
	f.dispatchMu.Lock()
	defer f.dispatchMu.Unlock()

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return
	}
	f.state = state
	f.mu.Unlock()

	if f.OnPopulate != nil {
		f.OnPopulate(*entry)
	}
	if f.OnNotice != nil {
		f.OnNotice(notice)
	}
}

// fail 请求失败。被取消的请求属于正常取代，不提示；其余失败提示一次，
// 表单保持最后一次成功的内容，不自动重试
func (f *FormController) fail(gen uint64, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}

	f.dispatchMu.Lock()
	defer f.dispatchMu.Unlock()

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return
	}
	f.state = StateIdle
	f.mu.Unlock()

	if f.OnError != nil {
		f.OnError(err)
	}
}
