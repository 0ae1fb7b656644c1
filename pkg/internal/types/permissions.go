package types

// PermissionType 文档授权类型，存在全序 read < write < admin < delete.
type PermissionType string

const (
	PermissionRead   PermissionType = "read"
	PermissionWrite  PermissionType = "write"
	PermissionAdmin  PermissionType = "admin"
	PermissionDelete PermissionType = "delete"
)

// permissionRanks 授权类型到数值等级的映射.
var permissionRanks = map[PermissionType]int{
	PermissionRead:   1,
	PermissionWrite:  2,
	PermissionAdmin:  3,
	PermissionDelete: 4,
}

// PermissionRank 返回授权类型的数值等级，未知类型返回 0.
func PermissionRank(t PermissionType) int {
	return permissionRanks[t]
}

// IsValidPermissionType 判断授权类型是否合法.
func IsValidPermissionType(t PermissionType) bool {
	_, ok := permissionRanks[t]
	return ok
}

// PermissionInfo 授权查询结果.
type PermissionInfo struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	DocumentID     string         `json:"document_id"`
	PermissionType PermissionType `json:"permission_type"`
	GrantedBy      string         `json:"granted_by"`
	GrantedAt      string         `json:"granted_at"`
	ExpiresAt      string         `json:"expires_at,omitempty"`
}

// ActivityType 文档活动类型.
type ActivityType string

const (
	ActivityView     ActivityType = "view"
	ActivityDownload ActivityType = "download"
	ActivityEdit     ActivityType = "edit"
	ActivityComment  ActivityType = "comment"
	ActivityApprove  ActivityType = "approve"
	ActivityReject   ActivityType = "reject"
)

// validActivityTypes 允许的活动类型集合.
var validActivityTypes = map[ActivityType]struct{}{
	ActivityView:     {},
	ActivityDownload: {},
	ActivityEdit:     {},
	ActivityComment:  {},
	ActivityApprove:  {},
	ActivityReject:   {},
}

// IsValidActivityType 判断活动类型是否合法.
func IsValidActivityType(t ActivityType) bool {
	_, ok := validActivityTypes[t]
	return ok
}

// ActivityInfo 活动记录查询结果.
type ActivityInfo struct {
	ID           string         `json:"id"`
	DocumentID   string         `json:"document_id"`
	UserID       string         `json:"user_id"`
	ActivityType ActivityType   `json:"activity_type"`
	ActivityData map[string]any `json:"activity_data,omitempty"`
	CreatedAt    string         `json:"created_at"`
	IPAddress    string         `json:"ip_address,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
}
