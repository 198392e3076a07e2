package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"fundflow/internal/cache"
	"fundflow/internal/ingest"
	"fundflow/internal/models"
	"fundflow/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UploadHandler 负责账单文件上传与入库
type UploadHandler struct {
	Pipeline *ingest.Pipeline
	Cache    *cache.ResultCache
	Log      zerolog.Logger
}

func NewUploadHandler(p *ingest.Pipeline, c *cache.ResultCache, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{Pipeline: p, Cache: c, Log: log}
}

// fileConfig 每个文件的申报信息：人员身份与金额单位
type fileConfig struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Unit     string `json:"unit"`
}

// parseFileConfigs 兼容两种结构：按文件名的字典，或带 filename 字段的列表
func parseFileConfigs(raw string) map[string]fileConfig {
	configs := make(map[string]fileConfig)
	if raw == "" {
		return configs
	}
	var asMap map[string]fileConfig
	if err := json.Unmarshal([]byte(raw), &asMap); err == nil {
		return asMap
	}
	var asList []fileConfig
	if err := json.Unmarshal([]byte(raw), &asList); err == nil {
		for i, fc := range asList {
			name := fc.Filename
			if name == "" {
				name = fmt.Sprintf("file_%d", i)
			}
			configs[name] = fc
		}
	}
	return configs
}

// Upload 接收一批账单文件入库。
// 失败按文件隔离：一个文件的格式或身份错误不影响同批其他文件；
// 任一文件成功入库后，该案件的分析缓存在响应返回前全部失效。
func (h *UploadHandler) Upload(c *gin.Context) {
	caseID := c.PostForm("case_id")
	caseName := c.PostForm("case_name")
	if caseID == "" || caseName == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "请填写案件名称和编号")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "上传内容解析失败")
		return
	}
	files := form.File["files"]
	// 兼容单文件字段名为 file 的情况
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "未选择文件")
		return
	}

	configs := parseFileConfigs(c.PostForm("file_configs"))

	tempDir := filepath.Join(os.TempDir(), "fundflow-upload-"+uuid.NewString())
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "创建临时目录失败")
		return
	}
	defer os.RemoveAll(tempDir)

	var results []util.Response
	var failures []string
	var lastErr error
	for _, fh := range files {
		cfg := configs[fh.Filename]
		if cfg.Type == "" {
			cfg.Type = models.IdentityScreening
		}

		tempPath := filepath.Join(tempDir, filepath.Base(fh.Filename))
		if err := c.SaveUploadedFile(fh, tempPath); err != nil {
			lastErr = err
			failures = append(failures, fmt.Sprintf("%s: 保存失败", fh.Filename))
			continue
		}

		summary, err := h.Pipeline.Run(c.Request.Context(), tempPath, ingest.Options{
			CaseID:         caseID,
			CaseName:       caseName,
			PersonIdentity: cfg.Type,
			AmountUnit:     cfg.Unit,
			FileName:       fh.Filename,
		})
		if err != nil {
			h.Log.Warn().Err(err).Str("file", fh.Filename).Msg("文件处理失败")
			lastErr = err
			failures = append(failures, fmt.Sprintf("%s: %v", fh.Filename, err))
			continue
		}
		results = append(results, util.Response{
			"file":     fh.Filename,
			"batch_id": summary.BatchID,
			"imported": summary.Imported,
			"skipped":  summary.Skipped,
		})
	}

	if len(results) == 0 {
		code := util.CodeServerErr
		status := http.StatusUnprocessableEntity
		switch {
		case errors.Is(lastErr, ingest.ErrInvalidIdentity):
			code = util.CodeInvalidIdentity
		case errors.Is(lastErr, ingest.ErrUnrecognizedFormat):
			code = util.CodeUnrecognizedFormat
		}
		util.Error(c, status, code, strings.Join(failures, "\n"))
		return
	}

	// 入库成功后、响应之前失效该案件缓存，保证随后读到新数据
	h.Cache.InvalidateCase(caseID)

	msg := fmt.Sprintf("成功处理 %d 个文件", len(results))
	if len(failures) > 0 {
		msg += fmt.Sprintf("，失败 %d 个（请检查格式）", len(failures))
	}
	util.Success(c, util.Response{
		"message": msg,
		"case_id": caseID,
		"results": results,
		"errors":  failures,
	})
}
