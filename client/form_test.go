package client

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"financetracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// entryServer 内存快照服务，实现 by-date / before-date 两个查询
type entryServer struct {
	entries map[string]models.Entry // 以 YYYY-MM-DD 为键

	requests        int64         // 收到的请求总数
	beforeDateDelay time.Duration // before-date 响应延迟，用于构造在途请求
	beforeDateBegan chan string   // 每次 before-date 开始处理时写入请求日期
	failAll         bool
}

func (s *entryServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt64(&s.requests, 1)

	if s.failAll {
		writeEnvelope(w, http.StatusInternalServerError, "查询失败", nil)
		return
	}

	date := r.URL.Query().Get("date")
	switch {
	case strings.HasSuffix(r.URL.Path, "/by-date"):
		if e, ok := s.entries[date]; ok {
			writeEnvelope(w, 200, "success", map[string]interface{}{"entry": e})
			return
		}
		writeEnvelope(w, 200, "success", map[string]interface{}{"entry": nil})

	case strings.HasSuffix(r.URL.Path, "/before-date"):
		if s.beforeDateBegan != nil {
			s.beforeDateBegan <- date
		}
		if s.beforeDateDelay > 0 {
			select {
			case <-time.After(s.beforeDateDelay):
			case <-r.Context().Done():
				return
			}
		}

		var keys []string
		for k := range s.entries {
			if k < date {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			writeEnvelope(w, 200, "success", map[string]interface{}{"entry": nil, "date": nil})
			return
		}
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))
		e := s.entries[keys[0]]
		writeEnvelope(w, 200, "success", map[string]interface{}{"entry": e, "date": keys[0]})

	default:
		http.NotFound(w, r)
	}
}

// formRecorder 记录控制器的全部回调
type formRecorder struct {
	mu        sync.Mutex
	populated []models.Entry
	notices   []string
	resets    int
	errors    []error
}

func (r *formRecorder) attach(f *FormController) {
	f.OnPopulate = func(e models.Entry) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.populated = append(r.populated, e)
	}
	f.OnReset = func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.resets++
	}
	f.OnNotice = func(msg string) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.notices = append(r.notices, msg)
	}
	f.OnError = func(err error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.errors = append(r.errors, err)
	}
}

func (r *formRecorder) lastNotice() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return ""
	}
	return r.notices[len(r.notices)-1]
}

func (r *formRecorder) lastPopulated() (models.Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.populated) == 0 {
		return models.Entry{}, false
	}
	return r.populated[len(r.populated)-1], true
}

func (r *formRecorder) snapshot() (int, int, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.populated), len(r.notices), r.resets, len(r.errors)
}

func testEntries(t *testing.T) map[string]models.Entry {
	return map[string]models.Entry{
		"2024-01-10": {ID: 2, ProfileID: 7, EntryDate: mustDate(t, "2024-01-10"), SavingsAccount: 100},
		"2024-01-20": {ID: 3, ProfileID: 7, EntryDate: mustDate(t, "2024-01-20"), SavingsAccount: 200},
	}
}

func newFormFixture(t *testing.T, es *entryServer, debounce time.Duration) (*FormController, *formRecorder, func()) {
	srv := httptest.NewServer(es)
	f := NewFormController(New(srv.URL, "test-token"), 7, debounce)
	rec := &formRecorder{}
	rec.attach(f)
	return f, rec, srv.Close
}

func TestFormController_ExactHit(t *testing.T) {
	es := &entryServer{entries: testEntries(t)}
	f, rec, done := newFormFixture(t, es, 10*time.Millisecond)
	defer done()

	f.SetDateText("20/01/2024")

	require.Eventually(t, func() bool {
		return f.State() == StateResolvedExact
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, "Entry Loaded 20/01/2024", rec.lastNotice())
	entry, ok := rec.lastPopulated()
	require.True(t, ok)
	assert.Equal(t, 200.0, entry.SavingsAccount)
}

func TestFormController_Fallback(t *testing.T) {
	es := &entryServer{entries: testEntries(t)}
	f, rec, done := newFormFixture(t, es, 10*time.Millisecond)
	defer done()

	// 15 号无记录，回退到 10 号
	f.SetDateText("15/01/2024")

	require.Eventually(t, func() bool {
		return f.State() == StateResolvedFallback
	}, time.Second, 5*time.Millisecond)

	// 提示引用的是回退记录自身的日期
	assert.Equal(t, "Previous Entry Loaded 10/01/2024", rec.lastNotice())
	entry, ok := rec.lastPopulated()
	require.True(t, ok)
	assert.Equal(t, 100.0, entry.SavingsAccount)
}

func TestFormController_NoData(t *testing.T) {
	es := &entryServer{entries: testEntries(t)}
	f, rec, done := newFormFixture(t, es, 10*time.Millisecond)
	defer done()

	// 所选日期及之前均无记录：清空表单，不提示
	f.SetDateText("05/01/2024")

	require.Eventually(t, func() bool {
		return f.State() == StateResolvedNone
	}, time.Second, 5*time.Millisecond)

	populated, notices, resets, errs := rec.snapshot()
	assert.Equal(t, 0, populated)
	assert.Equal(t, 0, notices)
	assert.Equal(t, 1, resets)
	assert.Equal(t, 0, errs)
}

func TestFormController_IncompleteInputInert(t *testing.T) {
	es := &entryServer{entries: testEntries(t)}
	f, rec, done := newFormFixture(t, es, 10*time.Millisecond)
	defer done()

	// 逐字符输入的中间形态与非法日期都不触发请求
	for _, text := range []string{"2", "20/", "20/01", "20/01/2", "20/01/202", "ab/cd/efgh", "99/99/9999", ""} {
		f.SetDateText(text)
	}

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, StateIdle, f.State())
	assert.Equal(t, int64(0), atomic.LoadInt64(&es.requests))
	populated, notices, resets, errs := rec.snapshot()
	assert.Equal(t, 0, populated+notices+resets+errs)
}

func TestFormController_DebounceCoalesces(t *testing.T) {
	es := &entryServer{entries: testEntries(t)}
	f, rec, done := newFormFixture(t, es, 60*time.Millisecond)
	defer done()

	// 防抖窗口内的连续提交只有最后一次生效
	f.SetDateText("10/01/2024")
	f.SetDateText("15/01/2024")
	f.SetDateText("20/01/2024")

	require.Eventually(t, func() bool {
		return f.State() == StateResolvedExact
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, "Entry Loaded 20/01/2024", rec.lastNotice())
	// 前两次提交在防抖窗口内被取代，只发出最后一轮的一次查询
	assert.Equal(t, int64(1), atomic.LoadInt64(&es.requests))
	populated, notices, _, _ := rec.snapshot()
	assert.Equal(t, 1, populated)
	assert.Equal(t, 1, notices)
}

func TestFormController_StaleResolutionDiscarded(t *testing.T) {
	es := &entryServer{
		entries:         testEntries(t),
		beforeDateDelay: 500 * time.Millisecond,
		beforeDateBegan: make(chan string, 1),
	}
	f, rec, done := newFormFixture(t, es, 5*time.Millisecond)
	defer done()

	// 第一轮解析走到 before-date 后被挂起
	f.SetDateText("15/01/2024")
	select {
	case began := <-es.beforeDateBegan:
		require.Equal(t, "2024-01-15", began)
	case <-time.After(time.Second):
		t.Fatal("before-date 请求未发出")
	}

	// 挂起期间提交新日期，旧一轮在途请求被取消
	f.SetDateText("20/01/2024")

	require.Eventually(t, func() bool {
		return f.State() == StateResolvedExact
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Entry Loaded 20/01/2024", rec.lastNotice())

	// 等待超过旧请求的延迟，确认被取代的结果没有事后改动表单
	time.Sleep(600 * time.Millisecond)
	assert.Equal(t, StateResolvedExact, f.State())
	assert.Equal(t, "Entry Loaded 20/01/2024", rec.lastNotice())
	entry, ok := rec.lastPopulated()
	require.True(t, ok)
	assert.Equal(t, 200.0, entry.SavingsAccount)
	// 被取消的请求不算失败
	_, _, _, errs := rec.snapshot()
	assert.Equal(t, 0, errs)
}

func TestFormController_CompletionsSerialized(t *testing.T) {
	es := &entryServer{entries: testEntries(t)}
	srv := httptest.NewServer(es)
	defer srv.Close()
	f := NewFormController(New(srv.URL, "test-token"), 7, 5*time.Millisecond)

	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var populated []float64
	var notices []string
	firstCall := true
	f.OnPopulate = func(e models.Entry) {
		mu.Lock()
		blocking := firstCall
		firstCall = false
		populated = append(populated, e.SavingsAccount)
		mu.Unlock()
		if blocking {
			entered <- struct{}{}
			<-release
		}
	}
	f.OnNotice = func(msg string) {
		mu.Lock()
		notices = append(notices, msg)
		mu.Unlock()
	}

	f.SetDateText("10/01/2024")
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("首轮填充回调未触发")
	}

	// 首轮回调尚未返回时提交新日期：新一轮的落地必须排在其后，不能交错
	f.SetDateText("20/01/2024")
	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	require.Len(t, populated, 1)
	mu.Unlock()

	close(release)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(populated) == 2
	}, time.Second, 5*time.Millisecond)

	// 最终落地的是最新提交的解析结果
	mu.Lock()
	assert.Equal(t, []float64{100, 200}, populated)
	assert.Equal(t, "Entry Loaded 20/01/2024", notices[len(notices)-1])
	mu.Unlock()
	assert.Equal(t, StateResolvedExact, f.State())
}

func TestFormController_RequestFailure(t *testing.T) {
	es := &entryServer{entries: testEntries(t), failAll: true}
	f, rec, done := newFormFixture(t, es, 10*time.Millisecond)
	defer done()

	f.SetDateText("20/01/2024")

	require.Eventually(t, func() bool {
		_, _, _, errs := rec.snapshot()
		return errs == 1
	}, time.Second, 5*time.Millisecond)

	// 失败只提示一次，不自动重试，表单不被清空
	assert.Equal(t, StateIdle, f.State())
	populated, notices, resets, _ := rec.snapshot()
	assert.Equal(t, 0, populated)
	assert.Equal(t, 0, notices)
	assert.Equal(t, 0, resets)

	time.Sleep(50 * time.Millisecond)
	_, _, _, errs := rec.snapshot()
	assert.Equal(t, 1, errs)
}
