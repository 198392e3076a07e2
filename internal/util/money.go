package util

import "strconv"

// FormatCent 把分转成元的字符串，两位小数
func FormatCent(amountCent int64) string {
	return strconv.FormatFloat(float64(amountCent)/100.0, 'f', 2, 64)
}

// YuanToCent 将字符串金额（元）转换为分，保留符号
func YuanToCent(s string) (int64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return int64(f*100 - 0.5), nil
	}
	return int64(f*100 + 0.5), nil
}
