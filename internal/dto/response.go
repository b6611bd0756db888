package dto

// ── 认证模块响应 ──

// TokenResponse 登录成功响应
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"` // Access Token 有效期（秒）
	User        UserResponse `json:"user"`
}

// UserResponse 教师信息响应（脱敏）
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

// MessageResponse 仅含提示信息的响应（删除等操作）
type MessageResponse struct {
	Message string `json:"message"`
}

// timeLayout 响应中的时间格式
const timeLayout = "2006-01-02T15:04:05Z07:00"
