package utils

// CredentialRedactor 凭证脱敏器
// 负责在日志输出前遮蔽学号和口令,避免敏感信息落入日志文件
type CredentialRedactor struct{}

// NewCredentialRedactor 创建凭证脱敏器
func NewCredentialRedactor() *CredentialRedactor {
	return &CredentialRedactor{}
}

// RedactUserID 脱敏学号
// 显示前2位+后2位(长度足够时),其余遮蔽
func (cr *CredentialRedactor) RedactUserID(userID string) string {
	if len(userID) > 4 {
		return userID[:2] + "***" + userID[len(userID)-2:]
	}
	if userID == "" {
		return ""
	}
	return "***"
}

// RedactSecret 脱敏口令
// 口令永远完全遮蔽,仅提示是否已设置
func (cr *CredentialRedactor) RedactSecret(secret string) string {
	if secret == "" {
		return "(未设置)"
	}
	return "***"
}
