package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"fundflow/internal/analysis"
	"fundflow/internal/cache"
	"fundflow/internal/store"
	"fundflow/internal/util"

	"github.com/gin-gonic/gin"
)

// AnalysisHandler 负责单账单/多账单分析接口。
// 所有接口强制要求 case_id，缺失时在访问任何存储之前拒绝；
// 结果经由 ResultCache 缓存，同参数重复请求返回字节一致的响应。
type AnalysisHandler struct {
	Analyzer *analysis.Analyzer
	Cache    *cache.ResultCache
}

func NewAnalysisHandler(a *analysis.Analyzer, c *cache.ResultCache) *AnalysisHandler {
	return &AnalysisHandler{Analyzer: a, Cache: c}
}

// respondCached 统一的缓存读写：命中直接回放序列化字节，
// 未命中时计算、落缓存、再返回同一份字节。
func (h *AnalysisHandler) respondCached(c *gin.Context, key string, compute func() (interface{}, error)) {
	if b, ok := h.Cache.Get(key); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}

	data, err := compute()
	if err != nil {
		writeAnalysisError(c, err)
		return
	}

	b, err := json.Marshal(gin.H{"code": util.CodeOK, "data": data})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "结果序列化失败")
		return
	}
	h.Cache.Set(key, b)
	c.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

func writeAnalysisError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrMissingCaseID) {
		util.Error(c, http.StatusBadRequest, util.CodeMissingCase, "缺少案件编号")
		return
	}
	// 存储不可用：如实上报，不静默重试、不返回过期数据
	util.Error(c, http.StatusServiceUnavailable, util.CodeStoreErr, "数据查询失败")
}

// requireCase 在进任何存储之前校验 case_id
func requireCase(c *gin.Context) (string, bool) {
	caseID := c.Query("case_id")
	if caseID == "" {
		util.Error(c, http.StatusBadRequest, util.CodeMissingCase, "缺少案件编号")
		return "", false
	}
	return caseID, true
}

// amountParam 解析金额参数（元）为分；空串返回 0
func amountParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "金额筛选参数无效: "+name)
		return 0, false
	}
	return int64(f * 100), true
}

// Trend 单账单-月度收支趋势
func (h *AnalysisHandler) Trend(c *gin.Context) {
	caseID, ok := requireCase(c)
	if !ok {
		return
	}
	person := c.Query("person")
	minCent, ok := amountParam(c, "min")
	if !ok {
		return
	}
	maxCent, ok := amountParam(c, "max")
	if !ok {
		return
	}

	key := cache.Key(caseID, "trend", person, strconv.FormatInt(minCent, 10), strconv.FormatInt(maxCent, 10))
	h.respondCached(c, key, func() (interface{}, error) {
		return h.Analyzer.Trend(c.Request.Context(), caseID, person, minCent, maxCent)
	})
}

// Stats 单账单-交易对方统计表
func (h *AnalysisHandler) Stats(c *gin.Context) {
	caseID, ok := requireCase(c)
	if !ok {
		return
	}
	person := c.Query("person")
	filterMode := c.DefaultQuery("filter", analysis.FilterAll)
	sortMode := c.DefaultQuery("sort", analysis.SortByNet)

	switch filterMode {
	case analysis.FilterAll, analysis.FilterIncomeOnly, analysis.FilterExpenseOnly, analysis.FilterHighRatio:
	default:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "筛选模式无效: "+filterMode)
		return
	}
	switch sortMode {
	case analysis.SortByNet, analysis.SortByFreq:
	default:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "排序模式无效: "+sortMode)
		return
	}

	key := cache.Key(caseID, "stats", person, filterMode, sortMode)
	h.respondCached(c, key, func() (interface{}, error) {
		return h.Analyzer.Stats(c.Request.Context(), caseID, person, filterMode, sortMode)
	})
}

// Keywords 单账单-重点行业对端（烟酒/回收/废旧金属等）
func (h *AnalysisHandler) Keywords(c *gin.Context) {
	caseID, ok := requireCase(c)
	if !ok {
		return
	}
	key := cache.Key(caseID, "keywords")
	h.respondCached(c, key, func() (interface{}, error) {
		return h.Analyzer.Keywords(c.Request.Context(), caseID)
	})
}

// Interaction 多账单-资金交互图
func (h *AnalysisHandler) Interaction(c *gin.Context) {
	caseID, ok := requireCase(c)
	if !ok {
		return
	}
	key := cache.Key(caseID, "interaction")
	h.respondCached(c, key, func() (interface{}, error) {
		return h.Analyzer.InteractionGraph(c.Request.Context(), caseID)
	})
}

// Stolen 多账单-销赃节点判断（有收赃人账单）
func (h *AnalysisHandler) Stolen(c *gin.Context) {
	caseID, ok := requireCase(c)
	if !ok {
		return
	}
	key := cache.Key(caseID, "stolen")
	h.respondCached(c, key, func() (interface{}, error) {
		return h.Analyzer.TraceStolenGoods(c.Request.Context(), caseID)
	})
}

// Hidden 多账单-挖尚不掌握的同伙（时间窗口相关性）
func (h *AnalysisHandler) Hidden(c *gin.Context) {
	caseID, ok := requireCase(c)
	if !ok {
		return
	}
	minutes := 0
	if raw := c.Query("minutes"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "时间窗口参数无效: minutes")
			return
		}
		minutes = n
	}

	key := cache.Key(caseID, "hidden", strconv.Itoa(minutes))
	h.respondCached(c, key, func() (interface{}, error) {
		return h.Analyzer.HiddenPartners(c.Request.Context(), caseID, minutes)
	})
}
