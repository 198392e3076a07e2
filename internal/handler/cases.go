package handler

import (
	"net/http"

	"fundflow/internal/store"
	"fundflow/internal/util"

	"github.com/gin-gonic/gin"
)

// CaseHandler 案件与导入批次查询（前端下拉框与追溯用）
type CaseHandler struct {
	Store *store.Store
}

func NewCaseHandler(s *store.Store) *CaseHandler {
	return &CaseHandler{Store: s}
}

// ListCases 返回库内全部案件
func (h *CaseHandler) ListCases(c *gin.Context) {
	cases, err := h.Store.Cases(c.Request.Context())
	if err != nil {
		util.Error(c, http.StatusServiceUnavailable, util.CodeStoreErr, "查询案件列表失败")
		return
	}
	util.Success(c, util.Response{"cases": cases})
}

// ListBatches 返回某案件的导入批次，最新在前
func (h *CaseHandler) ListBatches(c *gin.Context) {
	caseID := c.Param("id")
	if caseID == "" {
		util.Error(c, http.StatusBadRequest, util.CodeMissingCase, "缺少案件编号")
		return
	}
	batches, err := h.Store.Batches(c.Request.Context(), caseID)
	if err != nil {
		util.Error(c, http.StatusServiceUnavailable, util.CodeStoreErr, "查询导入批次失败")
		return
	}
	util.Success(c, util.Response{"batches": batches})
}
