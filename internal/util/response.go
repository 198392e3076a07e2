package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 通用返回结构里的 data 使用 map
type Response map[string]interface{}

// 业务错误码
const (
	CodeOK                 = 0
	CodeInvalidParam       = 40001
	CodeMissingCase        = 40002 // 分析请求缺少案件编号
	CodeUnrecognizedFormat = 40003 // 文件表头未命中任何已知词典
	CodeInvalidIdentity    = 40004 // 人员身份不在闭合枚举内
	CodeNotFound           = 40401
	CodeServerErr          = 50001
	CodeStoreErr           = 50301 // 数据库不可用
)

// Success 统一成功返回
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error 统一错误返回
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}
