package models

// 人员身份（闭合枚举）：每个上传批次整体声明一个身份，
// 不在枚举内的声明在入库前整批拒绝。
const (
	IdentityTheft     = "盗窃人员" // theft-person
	IdentityFence     = "收脏人员" // fence-receiver
	IdentityScreening = "排查人员" // screening-subject
)

// ValidIdentity reports whether s is one of the three canonical person roles.
func ValidIdentity(s string) bool {
	switch s {
	case IdentityTheft, IdentityFence, IdentityScreening:
		return true
	}
	return false
}

// 申报金额单位，入库时换算到元
const (
	UnitYuan = "yuan" // 元 ×1
	UnitJiao = "jiao" // 角 ×0.1
	UnitFen  = "fen"  // 分 ×0.01
)

// ValidUnit reports whether s is a known amount unit.
func ValidUnit(s string) bool {
	switch s {
	case UnitYuan, UnitJiao, UnitFen:
		return true
	}
	return false
}
